package apiv1

import (
	"estate-tracker-backend/controllers"
	workflowroutehandler "estate-tracker-backend/lib/workflow-route"
	apimodels "estate-tracker-backend/models/api"
	routeapimodels "estate-tracker-backend/models/api/route"

	"github.com/gofiber/fiber/v2"
)

type workflowRouteApiController struct {
	controllers.BaseAPIController
}

func InitWorkflowRouteApiRouters(app fiber.Router) {
	controller := workflowRouteApiController{}
	app.Route("workflow_routes", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Get("describe/:type", controller.describe)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Put("active", controller.setActive)
			idRoute.Delete("", controller.delete)
		})
	})
}

// @Summary Маршрут согласования по типу заявки
// @Tags Маршруты согласования
// @Description Последовательность согласующих для типа заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	type 			path 		string  true 	"request type"
// @Success 200 {object} apimodels.Response{data=routeapimodels.RouteDescription}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/workflow_routes/describe/{type} [get]
func (c *workflowRouteApiController) describe(ctx *fiber.Ctx) error {
	requestType, err := c.GetIDByKey(ctx, "type")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := workflowroutehandler.Instance.Describe(ctx.UserContext(), requestType)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения маршрута согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список маршрутов
// @Tags Маршруты согласования
// @Description Список настроенных маршрутов (администратор)
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]routeapimodels.WorkflowRouteView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/workflow_routes [get]
func (c *workflowRouteApiController) list(ctx *fiber.Ctx) error {
	list, err := workflowroutehandler.Instance.List()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка маршрутов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Создать маршрут
// @Tags Маршруты согласования
// @Description Создать маршрут для типа заявки (администратор)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		routeapimodels.WorkflowRouteData	true	"request body"
// @Success 201 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/workflow_routes [post]
func (c *workflowRouteApiController) create(ctx *fiber.Ctx) error {
	var payload routeapimodels.WorkflowRouteData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := workflowroutehandler.Instance.Create(ctx.UserContext(), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания маршрута")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(id))
}

// @Summary Маршрут
// @Tags Маршруты согласования
// @Description Маршрут по ID (администратор)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"route ID"
// @Success 200 {object} apimodels.Response{data=routeapimodels.WorkflowRouteView}
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/workflow_routes/{id} [get]
func (c *workflowRouteApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := workflowroutehandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения маршрута")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Изменить маршрут
// @Tags Маршруты согласования
// @Description Изменить маршрут (администратор)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"route ID"
// @Param	body				body		routeapimodels.WorkflowRouteData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/workflow_routes/{id} [put]
func (c *workflowRouteApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload routeapimodels.WorkflowRouteData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = workflowroutehandler.Instance.Update(ctx.UserContext(), id, payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения маршрута")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Включить/выключить маршрут
// @Tags Маршруты согласования
// @Description Выключенный маршрут заменяется маршрутом по умолчанию (администратор)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"route ID"
// @Param	body				body		routeapimodels.RouteActiveData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/workflow_routes/{id}/active [put]
func (c *workflowRouteApiController) setActive(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload routeapimodels.RouteActiveData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = workflowroutehandler.Instance.SetActive(ctx.UserContext(), id, payload.IsActive); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения активности маршрута")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удалить маршрут
// @Tags Маршруты согласования
// @Description Удалить маршрут (администратор)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"route ID"
// @Success 200 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/workflow_routes/{id} [delete]
func (c *workflowRouteApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = workflowroutehandler.Instance.Delete(ctx.UserContext(), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления маршрута")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
