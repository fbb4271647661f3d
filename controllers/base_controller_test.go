package controllers

import (
	"encoding/json"
	workflowerrors "estate-tracker-backend/lib/workflow-errors"
	apimodels "estate-tracker-backend/models/api"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{workflowerrors.Validation("не указан заголовок"), fiber.StatusBadRequest},
		{workflowerrors.ErrTerminalState, fiber.StatusBadRequest},
		{errors.Wrap(workflowerrors.ErrStaleAssignee, "decide"), fiber.StatusBadRequest},
		{workflowerrors.RouteNotFound("CUSTOM", nil), fiber.StatusBadRequest},
		{workflowerrors.ErrPermissionDenied, fiber.StatusForbidden},
		{workflowerrors.ErrNotFound, fiber.StatusNotFound},
		{workflowerrors.ErrConcurrentUpdate, fiber.StatusConflict},
		{workflowerrors.Persistence(errors.New("connection reset")), fiber.StatusInternalServerError},
		{errors.New("unknown"), fiber.StatusInternalServerError},
	}
	for _, item := range cases {
		require.Equal(t, item.status, ErrorStatus(item.err), item.err.Error())
	}
}

func TestSendError(t *testing.T) {
	c := &BaseAPIController{}
	app := fiber.New()
	app.Get("/:kind", func(ctx *fiber.Ctx) error {
		switch ctx.Params("kind") {
		case "persistence":
			return c.SendError(ctx, c.GetLogger(ctx), workflowerrors.Persistence(errors.New("pq: deadlock")), "Ошибка согласования заявки")
		case "conflict":
			return c.SendError(ctx, c.GetLogger(ctx), workflowerrors.ErrConcurrentUpdate, "Ошибка согласования заявки")
		}
		return c.SendError(ctx, c.GetLogger(ctx), errors.New("boom"), "Ошибка согласования заявки")
	})
	check := func(kind string, status int, message string) {
		resp, err := app.Test(httptest.NewRequest("GET", "/"+kind, nil))
		require.NoError(t, err)
		require.Equal(t, status, resp.StatusCode)
		body := apimodels.Response{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Equal(t, "fail", body.Status)
		require.Equal(t, message, body.Message)
	}
	// причина ошибки хранилища не раскрывается
	check("persistence", fiber.StatusInternalServerError, workflowerrors.ErrPersistence.Error())
	check("conflict", fiber.StatusConflict, workflowerrors.ErrConcurrentUpdate.Error())
	check("other", fiber.StatusInternalServerError, "Ошибка согласования заявки")
}
