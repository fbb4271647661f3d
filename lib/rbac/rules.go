package rbac

import (
	"estate-tracker-backend/models"
)

var (
	AdminRoleSet          = []models.UserRole{models.AdminRole}
	AdminPRRoleSet        = []models.UserRole{models.AdminRole, models.PRManagerRole}
	AdminTechnicalRoleSet = []models.UserRole{models.AdminRole, models.TechnicalRole}
	AllRoles              = models.AllRoles
)

func (i *impl) initRules() {
	i.addUsersRbac()
	i.addProjectsRbac()
	i.addRequestRbac()
	i.addWorkflowRouteRbac()
	i.addNotificationRbac()
}

func (i *impl) addUsersRbac() {
	//VIEW
	i.mustRegister(models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/users/list [post]")
	i.mustRegister(models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/users/{id} [get]")
	//MANAGE
	i.mustRegister(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/users [post]")
	i.mustRegister(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/users/{id} [put]")
	i.mustRegister(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/users/{id}/password [put]")
	i.mustRegister(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/users/{id} [delete]")
}

func (i *impl) addProjectsRbac() {
	//VIEW
	i.mustRegister(models.ProjectsModule, models.ViewPermission, AllRoles, "/api/v1/projects/list [post]")
	i.mustRegister(models.ProjectsModule, models.ViewPermission, AllRoles, "/api/v1/projects/{id} [get]")
	//CREATE/EDIT
	i.mustRegister(models.ProjectsModule, models.CreatePermission, AdminPRRoleSet, "/api/v1/projects [post]")
	i.mustRegister(models.ProjectsModule, models.EditPermission, AdminPRRoleSet, "/api/v1/projects/{id} [put]")
	i.mustRegister(models.ProjectsModule, models.ManagePermission, AdminRoleSet, "/api/v1/projects/{id} [delete]")
	//FLOW
	i.mustRegister(models.ProjectsModule, models.FlowPermission, AdminTechnicalRoleSet, "/api/v1/projects/{id}/tasks/{taskId}/status [put]")
}

func (i *impl) addRequestRbac() {
	//VIEW
	i.mustRegister(models.RequestModule, models.ViewPermission, AllRoles, "/api/v1/requests/list [post]")
	i.mustRegister(models.RequestModule, models.ViewPermission, AllRoles, "/api/v1/requests/dashboard [get]")
	i.mustRegister(models.RequestModule, models.ViewPermission, AllRoles, "/api/v1/requests/{id} [get]")
	// CREATE
	i.mustRegister(models.RequestModule, models.CreatePermission, AllRoles, "/api/v1/requests [post]")
	// FLOW, право текущего согласующего проверяется при принятии решения
	i.mustRegister(models.RequestModule, models.FlowPermission, AllRoles, "/api/v1/requests/{id}/decision [post]")
	i.mustRegister(models.RequestModule, models.NotesPermission, AllRoles, "/api/v1/requests/{id}/comment [post]")
	//MANAGE
	i.mustRegister(models.RequestModule, models.ManagePermission, AdminRoleSet, "/api/v1/requests/{id}/cancel [put]")
	i.mustRegister(models.RequestModule, models.ManagePermission, AdminRoleSet, "/api/v1/requests/{id}/reassign [put]")
	//FILES
	i.mustRegister(models.RequestModule, models.FilesPermission, AllRoles, "/api/v1/requests/{id}/attachments [get]")
	i.mustRegister(models.RequestModule, models.FilesPermission, AllRoles, "/api/v1/requests/{id}/attachments [post]")
	i.mustRegister(models.RequestModule, models.FilesPermission, AllRoles, "/api/v1/requests/{id}/attachments/{attachmentId} [get]")
	i.mustRegister(models.RequestModule, models.FilesPermission, AllRoles, "/api/v1/requests/{id}/attachments/{attachmentId} [delete]")
}

func (i *impl) addWorkflowRouteRbac() {
	//VIEW
	i.mustRegister(models.WorkflowRouteModule, models.ViewPermission, AllRoles, "/api/v1/workflow_routes/describe/{type} [get]")
	//MANAGE
	i.mustRegister(models.WorkflowRouteModule, models.ManagePermission, AdminRoleSet, "/api/v1/workflow_routes [get]")
	i.mustRegister(models.WorkflowRouteModule, models.ManagePermission, AdminRoleSet, "/api/v1/workflow_routes [post]")
	i.mustRegister(models.WorkflowRouteModule, models.ManagePermission, AdminRoleSet, "/api/v1/workflow_routes/{id} [get]")
	i.mustRegister(models.WorkflowRouteModule, models.ManagePermission, AdminRoleSet, "/api/v1/workflow_routes/{id} [put]")
	i.mustRegister(models.WorkflowRouteModule, models.ManagePermission, AdminRoleSet, "/api/v1/workflow_routes/{id}/active [put]")
	i.mustRegister(models.WorkflowRouteModule, models.ManagePermission, AdminRoleSet, "/api/v1/workflow_routes/{id} [delete]")
}

func (i *impl) addNotificationRbac() {
	//VIEW
	i.mustRegister(models.NotificationModule, models.ViewPermission, AllRoles, "/api/v1/notifications/list [post]")
	i.mustRegister(models.NotificationModule, models.ViewPermission, AllRoles, "/api/v1/notifications/unread_count [get]")
	i.mustRegister(models.NotificationModule, models.ViewPermission, AllRoles, "/api/v1/notifications/read [put]")
	//MANAGE
	i.mustRegister(models.NotificationModule, models.ManagePermission, AdminRoleSet, "/api/v1/notifications/notify [post]")
}
