package ws

import (
	notificationhandler "estate-tracker-backend/lib/notification"
	wsclient "estate-tracker-backend/lib/ws/client"
	connectionhub "estate-tracker-backend/lib/ws/hub/connection-hub"
	"estate-tracker-backend/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func InitWs(app fiber.Router) {
	app.Use("", func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		ctx.Locals("userID", middleware.GetUserID(ctx))
		return ctx.Next()
	})
	app.Get("/", websocket.New(supportHandler))
}

// @Summary Уведомления
// @Tags Websocket
// @Description Уведомления по заявкам в реальном времени. Клиент может отправить {"type":"mark_read","ids":[...]}
// @Param   Authorization		header		string		true		"Authorization token"
// @Success 200 {object} wsmodels.ServerMessage
// @Failure 400
// @Failure 403
// @Failure 500
// @router /ws [get]
func supportHandler(c *websocket.Conn) {
	userID, _ := c.Locals("userID").(string)
	if userID == "" {
		return
	}
	client := wsclient.NewClient(userID, c, markRead)
	sessionID := connectionhub.Instance.AddClient(userID, c)
	defer func() {
		connectionhub.Instance.DeleteClient(userID, sessionID)
	}()
	client.Dispatch()
}

func markRead(userID string, ids []string) error {
	return notificationhandler.Instance.MarkRead(userID, ids)
}
