package middleware

import (
	"bytes"
	"encoding/json"
	"estate-tracker-backend/lib/rbac"
	"estate-tracker-backend/models"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func withClaims(claims jwt.MapClaims) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if claims != nil {
			ctx.Locals("user", jwt.NewWithClaims(jwt.SigningMethodHS256, claims))
		}
		return ctx.Next()
	}
}

func newApp(claims jwt.MapClaims, handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(withClaims(claims))
	for _, handler := range handlers {
		app.Use(handler)
	}
	app.All("/*", func(ctx *fiber.Ctx) error {
		return ctx.SendString(GetUserEmail(ctx))
	})
	return app
}

func claimsFor(role models.UserRole) jwt.MapClaims {
	return jwt.MapClaims{"sub": "u1", "email": "nora@x.com", "name": "Nora", "role": string(role)}
}

func TestMiddleware(t *testing.T) {
	rbac.NewHandler()

	t.Run(`actor from claims`, func(t *testing.T) {
		app := fiber.New()
		app.Use(withClaims(claimsFor(models.PRManagerRole)))
		app.Get("/", func(ctx *fiber.Ctx) error {
			actor := GetActor(ctx)
			require.Equal(t, "u1", actor.ID)
			require.Equal(t, "Nora", actor.Name)
			require.Equal(t, models.PRManagerRole, GetUserRole(ctx))
			return ctx.SendStatus(fiber.StatusOK)
		})
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
	t.Run(`admin required`, func(t *testing.T) {
		resp, err := newApp(claimsFor(models.TechnicalRole), AdminRequired()).Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

		resp, err = newApp(claimsFor(models.AdminRole), AdminRequired()).Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
	t.Run(`rbac`, func(t *testing.T) {
		resp, err := newApp(claimsFor(models.PRManagerRole), RbacMiddleware()).Test(httptest.NewRequest("PUT", "/api/v1/requests/r1/cancel", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

		resp, err = newApp(claimsFor(models.PRManagerRole), RbacMiddleware()).Test(httptest.NewRequest("POST", "/api/v1/requests/r1/decision", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp, err = newApp(claimsFor("HR"), RbacMiddleware()).Test(httptest.NewRequest("POST", "/api/v1/requests/r1/decision", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

		resp, err = newApp(nil, RbacMiddleware()).Test(httptest.NewRequest("GET", "/api/v1/requests/dashboard", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
	t.Run(`body limit`, func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("x", 100)))
		resp, err := newApp(nil, WithBodyLimit(10)).Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)

		req = httptest.NewRequest("POST", "/", strings.NewReader("x"))
		resp, err = newApp(nil, WithBodyLimit(10)).Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		// вложения ограничиваются отдельно
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "deed.pdf")
		require.NoError(t, err)
		_, err = part.Write([]byte(strings.Repeat("x", 100)))
		require.NoError(t, err)
		require.NoError(t, writer.Close())
		req = httptest.NewRequest("POST", "/", body)
		req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
		resp, err = newApp(nil, WithBodyLimit(10)).Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestErrNotify(t *testing.T) {
	reports := make(chan errReport, 1)
	bot := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		report := errReport{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&report))
		reports <- report
	}))
	defer bot.Close()

	app := fiber.New()
	app.Use(withClaims(claimsFor(models.AdminRole)), ErrNotify(bot.URL))
	app.Get("/api/v1/requests/:id", func(ctx *fiber.Ctx) error {
		if ctx.Params("id") == "ok" {
			return ctx.SendStatus(fiber.StatusOK)
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "fail", "message": "ошибка хранилища"})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/requests/ok", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/requests/r1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	select {
	case report := <-reports:
		require.Equal(t, fiber.StatusInternalServerError, report.Code)
		require.Equal(t, "/api/v1/requests/:id", report.Path)
		require.Equal(t, "u1", report.UserID)
		require.Equal(t, "ошибка хранилища", report.Error)
	case <-time.After(2 * time.Second):
		t.Fatal("уведомление не отправлено")
	}
	require.Empty(t, reports)
}
