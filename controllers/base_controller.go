package controllers

import (
	workflowerrors "estate-tracker-backend/lib/workflow-errors"
	"estate-tracker-backend/middleware"
	apimodels "estate-tracker-backend/models/api"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetIDByKey(ctx, "id")
}

func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (string, error) {
	id := strings.TrimSpace(ctx.Params(key))
	if id == "" {
		return "", errors.Errorf("не указан параметр %v", key)
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("user_id", middleware.GetUserID(ctx)).
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
}

// SendError ответ по ошибке обработчика, msg - текст для лога и для неизвестных ошибок
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	status := ErrorStatus(err)
	if status >= fiber.StatusInternalServerError {
		logger.WithError(err).Error(msg)
	} else {
		logger.WithError(err).Info(msg)
	}
	message := workflowerrors.UserMessage(err)
	if message == "" {
		message = msg
	}
	return ctx.Status(status).JSON(apimodels.NewError(message))
}

func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, workflowerrors.ErrValidation),
		errors.Is(err, workflowerrors.ErrTerminalState),
		errors.Is(err, workflowerrors.ErrStaleAssignee),
		errors.Is(err, workflowerrors.ErrRouteNotFound):
		return fiber.StatusBadRequest
	case errors.Is(err, workflowerrors.ErrPermissionDenied):
		return fiber.StatusForbidden
	case errors.Is(err, workflowerrors.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, workflowerrors.ErrConcurrentUpdate):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}
