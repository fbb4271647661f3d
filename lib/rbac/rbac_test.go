package rbac

import (
	"estate-tracker-backend/models"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRbac(t *testing.T) {
	t.Run(`pathToRegex check`, func(t *testing.T) {
		path, method, err := parseSwaggerPattern("/api/v1/requests/{id}/decision [post]")
		require.Nil(t, err)
		require.Equal(t, POST, method)
		r1, err := pathToRegex(path)
		require.NoError(t, err)

		validUri := "/api/v1/requests/123-321/decision"
		isMatch := r1.MatchString(validUri)
		require.Equal(t, true, isMatch)

		invalidUri := "/api/v1/requests/decision"
		isMatch = r1.MatchString(invalidUri)
		require.Equal(t, false, isMatch)

		path, method, err = parseSwaggerPattern("/api/v1/requests/{id}/attachments/{attachmentId} [get]")
		require.Nil(t, err)
		require.Equal(t, GET, method)
		r2, err := pathToRegex(path)
		require.NoError(t, err)

		validUri = "/api/v1/requests/123-321/attachments/qwe-ewr123-wr-12"
		isMatch = r2.MatchString(validUri)
		require.Equal(t, true, isMatch)

		invalidUri = "/api/v1/requests/we-ewr123-wr-12/attachments"
		isMatch = r2.MatchString(invalidUri)
		require.Equal(t, false, isMatch)
	})
	t.Run(`method is required`, func(t *testing.T) {
		_, _, err := parseSwaggerPattern("/api/v1/requests")
		require.Error(t, err)
	})

	NewHandler()
	check := func(method, path string, role models.UserRole) bool {
		handler, found := Instance.GetRuleFunc(method, path)
		require.True(t, found, "%s %s", method, path)
		return handler("u1", role, path)
	}
	t.Run(`admin only operations`, func(t *testing.T) {
		require.True(t, check("PUT", "/api/v1/requests/r1/cancel", models.AdminRole))
		require.False(t, check("PUT", "/api/v1/requests/r1/cancel", models.PRManagerRole))
		require.False(t, check("POST", "/api/v1/workflow_routes", models.TechnicalRole))
		require.False(t, check("post", "/api/v1/users/", models.ConveyanceRole))
	})
	t.Run(`exact path wins over pattern`, func(t *testing.T) {
		require.True(t, check("GET", "/api/v1/requests/dashboard", models.ConveyanceRole))
		require.True(t, check("GET", "/api/v1/workflow_routes/describe/DEED_CLEARANCE", models.TechnicalRole))
		require.False(t, check("GET", "/api/v1/workflow_routes/some-id", models.TechnicalRole))
	})
	t.Run(`decision is open to every role`, func(t *testing.T) {
		for _, role := range models.AllRoles {
			require.True(t, check("POST", "/api/v1/requests/r1/decision", role))
		}
	})
	t.Run(`unknown route`, func(t *testing.T) {
		_, found := Instance.GetRuleFunc("GET", "/api/v1/unknown")
		require.False(t, found)
	})
	t.Run(`permissions for frontend`, func(t *testing.T) {
		permissions := Instance.GetPermissions(models.TechnicalRole)
		require.Contains(t, permissions[models.ProjectsModule], models.FlowPermission)
		require.NotContains(t, permissions[models.RequestModule], models.ManagePermission)
		require.Contains(t, Instance.GetPermissions(models.AdminRole)[models.WorkflowRouteModule], models.ManagePermission)

		// изменение ответа не меняет правила
		permissions[models.RequestModule] = append(permissions[models.RequestModule], models.ManagePermission)
		require.NotContains(t, Instance.GetPermissions(models.TechnicalRole)[models.RequestModule], models.ManagePermission)
	})
}

func TestRegisterRule(t *testing.T) {
	i := newImpl()
	t.Run(`rule for any method`, func(t *testing.T) {
		require.NoError(t, i.RegisterRule(models.RequestModule, models.ViewPermission, AdminRoleSet, "/api/v1/reports/{id} [all]", nil))
		handler, found := i.GetRuleFunc("DELETE", "/api/v1/reports/r1/")
		require.True(t, found)
		require.True(t, handler("u1", models.AdminRole, "/api/v1/reports/r1"))
		require.False(t, handler("u1", models.ConveyanceRole, "/api/v1/reports/r1"))
	})
	t.Run(`custom handler`, func(t *testing.T) {
		own := func(userID string, role models.UserRole, uri string) bool {
			return uri == "/api/v1/users/"+userID
		}
		require.NoError(t, i.RegisterRule(models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/users/{id} [get]", own))
		handler, found := i.GetRuleFunc("GET", "/api/v1/users/u1")
		require.True(t, found)
		require.True(t, handler("u1", models.TechnicalRole, "/api/v1/users/u1"))
		require.False(t, handler("u2", models.TechnicalRole, "/api/v1/users/u1"))
	})
	t.Run(`bad pattern`, func(t *testing.T) {
		require.Error(t, i.RegisterRule(models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/users []", nil))
		require.Panics(t, func() { i.mustRegister(models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/users") })
	})
}
