package models

type RbacFunc func(userID string, role UserRole, path string) bool

type Module string

const (
	UsersModule         Module = "USERS"
	ProjectsModule      Module = "PROJECTS"
	RequestModule       Module = "REQUEST"
	WorkflowRouteModule Module = "WORKFLOW_ROUTE"
	NotificationModule  Module = "NOTIFICATION"
)

type Permission string

const (
	CreatePermission Permission = "CREATE"
	EditPermission   Permission = "EDIT"
	ViewPermission   Permission = "VIEW"
	ManagePermission Permission = "MANAGE"
	FlowPermission   Permission = "FLOW"
	FilesPermission  Permission = "FILES"
	NotesPermission  Permission = "NOTES"
)
