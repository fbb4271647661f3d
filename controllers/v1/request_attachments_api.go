package apiv1

import (
	"estate-tracker-backend/controllers"
	filestorage "estate-tracker-backend/lib/file-storage"
	"estate-tracker-backend/middleware"
	apimodels "estate-tracker-backend/models/api"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type attachmentApiController struct {
	controllers.BaseAPIController
}

func initAttachmentRouters(idRoute fiber.Router) {
	controller := attachmentApiController{}
	idRoute.Route("attachments", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.upload)
		router.Get(":attachmentId", controller.download)
		router.Delete(":attachmentId", controller.delete)
	})
}

// @Summary Вложения заявки
// @Tags Вложения заявки
// @Description Список вложений заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"request ID"
// @Success 200 {object} apimodels.Response{data=[]requestapimodels.AttachmentView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/attachments [get]
func (c *attachmentApiController) list(ctx *fiber.Ctx) error {
	requestID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := filestorage.Instance.List(requestID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка вложений")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Загрузить вложение
// @Tags Вложения заявки
// @Description Загрузить файл к заявке
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"request ID"
// @Param   file		formData	file 	true 	"file to upload"
// @Success 201 {object} apimodels.Response{data=requestapimodels.AttachmentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/attachments [post]
func (c *attachmentApiController) upload(ctx *fiber.Ctx) error {
	requestID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	buffer, err := file.Open()
	if err != nil {
		log.WithError(err).Error("Ошибка при получении файла вложения")
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	defer buffer.Close()

	resp, err := filestorage.Instance.Upload(ctx.UserContext(), requestID, middleware.GetActor(ctx), filestorage.UploadInfo{
		FileName:    file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Size:        file.Size,
		Reader:      buffer,
	})
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки вложения")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(resp))
}

// @Summary Скачать вложение
// @Tags Вложения заявки
// @Description Скачать файл вложения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"request ID"
// @Param 	attachmentId 	path 		string  true 	"attachment ID"
// @Success 200 {file} file
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/attachments/{attachmentId} [get]
func (c *attachmentApiController) download(ctx *fiber.Ctx) error {
	requestID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	attachmentID, err := c.GetIDByKey(ctx, "attachmentId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	reader, view, err := filestorage.Instance.Download(ctx.UserContext(), requestID, attachmentID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения вложения")
	}
	contentType := view.ContentType
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	ctx.Set(fiber.HeaderContentType, contentType)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename*=UTF-8''`+url.PathEscape(view.FileName))
	ctx.Set(fiber.HeaderContentLength, strconv.FormatInt(view.Size, 10))
	return ctx.SendStream(reader, int(view.Size))
}

// @Summary Удалить вложение
// @Tags Вложения заявки
// @Description Удалить вложение (автор или администратор)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"request ID"
// @Param 	attachmentId 	path 		string  true 	"attachment ID"
// @Success 200 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/attachments/{attachmentId} [delete]
func (c *attachmentApiController) delete(ctx *fiber.Ctx) error {
	requestID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	attachmentID, err := c.GetIDByKey(ctx, "attachmentId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = filestorage.Instance.Delete(ctx.UserContext(), requestID, attachmentID, middleware.GetActor(ctx)); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления вложения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
