package fiberlog

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestSanitizeBody(t *testing.T) {
	t.Run(`passwords are masked`, func(t *testing.T) {
		body := sanitizeBody([]byte(`{"email":"nora@x.com","password": "secret1234"}`))
		require.Equal(t, `{"email":"nora@x.com","password": "***"}`, body)
		body = sanitizeBody([]byte(`{"current_password":"a","new_password":"b"}`))
		require.Equal(t, `{"current_password":"***","new_password":"***"}`, body)
	})
	t.Run(`long body is truncated`, func(t *testing.T) {
		long := make([]byte, maxBodyLen*2)
		for idx := range long {
			long[idx] = 'x'
		}
		require.Len(t, sanitizeBody(long), maxBodyLen)
		require.Empty(t, sanitizeBody(nil))
	})
	t.Run(`unknown tags are skipped`, func(t *testing.T) {
		ftm := getFuncTagMap(Config{Tags: []string{TagStatus, "unknown"}})
		require.Len(t, ftm, 1)
	})
}

func TestLevelOf(t *testing.T) {
	require.Equal(t, log.InfoLevel, levelOf(fiber.StatusOK, nil))
	require.Equal(t, log.WarnLevel, levelOf(fiber.StatusConflict, nil))
	require.Equal(t, log.ErrorLevel, levelOf(fiber.StatusInternalServerError, nil))
	require.Equal(t, log.ErrorLevel, levelOf(fiber.StatusOK, fiber.ErrBadGateway))
}

func TestNewSkipsPaths(t *testing.T) {
	logger, hook := test.NewNullLogger()
	app := fiber.New()
	app.Use(New(Config{Logger: logger, Tags: []string{TagStatus, TagPath}, SkipPaths: []string{"/metrics"}}))
	app.Get("/metrics", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/api/v1/requests/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })

	_, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Empty(t, hook.AllEntries())

	_, err = app.Test(httptest.NewRequest("GET", "/api/v1/requests/r1", nil))
	require.NoError(t, err)
	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	require.Equal(t, log.WarnLevel, entry.Level)
	require.Equal(t, fiber.StatusNotFound, entry.Data[TagStatus])
	require.Equal(t, "/api/v1/requests/r1", entry.Data[TagPath])
}
