package apiv1

import (
	"estate-tracker-backend/controllers"
	requesthandler "estate-tracker-backend/lib/request"
	"estate-tracker-backend/middleware"
	apimodels "estate-tracker-backend/models/api"
	requestapimodels "estate-tracker-backend/models/api/request"

	"github.com/gofiber/fiber/v2"
)

type requestApiController struct {
	controllers.BaseAPIController
}

func InitRequestApiRouters(app fiber.Router) {
	controller := requestApiController{}
	app.Route("requests", func(router fiber.Router) {
		router.Post("", controller.submit)
		router.Post("list", controller.list)
		router.Get("dashboard", controller.dashboard)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Post("decision", controller.decide) // одобрить/отклонить
			idRoute.Post("comment", controller.comment)
			idRoute.Put("cancel", controller.cancel)     // отменить (администратор)
			idRoute.Put("reassign", controller.reassign) // сменить согласующего (администратор)
			initAttachmentRouters(idRoute)
		})
	})
}

// @Summary Подать заявку
// @Tags Заявки
// @Description Создать заявку и отправить первому согласующему
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		requestapimodels.RequestDraft	true	"request body"
// @Success 201 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests [post]
func (c *requestApiController) submit(ctx *fiber.Ctx) error {
	var payload requestapimodels.RequestDraft
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := requesthandler.Instance.Submit(ctx.UserContext(), middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка подачи заявки")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(id))
}

// @Summary Список заявок
// @Tags Заявки
// @Description Список заявок, доступных пользователю
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		requestapimodels.RequestFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]requestapimodels.RequestRow}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/list [post]
func (c *requestApiController) list(ctx *fiber.Ctx) error {
	var payload requestapimodels.RequestFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := requesthandler.Instance.List(ctx.UserContext(), middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Сводка по заявкам
// @Tags Заявки
// @Description Счетчики заявок для рабочего стола пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=requestapimodels.Dashboard}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/dashboard [get]
func (c *requestApiController) dashboard(ctx *fiber.Ctx) error {
	resp, err := requesthandler.Instance.Dashboard(ctx.UserContext(), middleware.GetActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения сводки по заявкам")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Заявка
// @Tags Заявки
// @Description Заявка с цепочкой согласования и комментариями
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"request ID"
// @Success 200 {object} apimodels.Response{data=requestapimodels.RequestView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id} [get]
func (c *requestApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := requesthandler.Instance.Get(ctx.UserContext(), id, middleware.GetActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Решение по заявке
// @Tags Заявки
// @Description Одобрить или отклонить заявку текущим согласующим
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"request ID"
// @Param	body				body		requestapimodels.DecisionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=requestapimodels.DecisionResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/decision [post]
func (c *requestApiController) decide(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload requestapimodels.DecisionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := requesthandler.Instance.Decide(ctx.UserContext(), id, middleware.GetActor(ctx), payload.Decision, payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка принятия решения по заявке")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Комментарий к заявке
// @Tags Заявки
// @Description Добавить комментарий к заявке
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"request ID"
// @Param	body				body		requestapimodels.CommentData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/comment [post]
func (c *requestApiController) comment(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload requestapimodels.CommentData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = requesthandler.Instance.Comment(ctx.UserContext(), id, middleware.GetActor(ctx), payload.Content); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка добавления комментария")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отменить заявку
// @Tags Заявки
// @Description Отменить заявку (администратор)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"request ID"
// @Param	body				body		requestapimodels.CancelData	true	"request body"
// @Success 200 {object} apimodels.Response{data=requestapimodels.DecisionResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/cancel [put]
func (c *requestApiController) cancel(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload requestapimodels.CancelData
	if len(ctx.Body()) > 0 {
		if err = c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	resp, err := requesthandler.Instance.Cancel(ctx.UserContext(), id, middleware.GetActor(ctx), payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отмены заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Сменить согласующего
// @Tags Заявки
// @Description Назначить заявку другому согласующему из маршрута (администратор)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"request ID"
// @Param	body				body		requestapimodels.ReassignData	true	"request body"
// @Success 200 {object} apimodels.Response{data=requestapimodels.DecisionResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/reassign [put]
func (c *requestApiController) reassign(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload requestapimodels.ReassignData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := requesthandler.Instance.Reassign(ctx.UserContext(), id, middleware.GetActor(ctx), payload.AssignedTo)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка смены согласующего")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
