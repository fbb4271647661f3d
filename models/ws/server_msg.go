package wsmodels

import dbmodels "estate-tracker-backend/models/db"

type ServerMessage struct {
	ToUserID string `json:"-"`
	ID       string `json:"id"`   // ид уведомления
	Time     string `json:"time"` // время события
	Code     string `json:"code"` // код события
	Msg      string `json:"msg"`  // текст события
	Link     string `json:"link"` // ссылка на заявку
}

func NotificationConvert(rec dbmodels.Notification) ServerMessage {
	return ServerMessage{
		ToUserID: rec.UserID,
		ID:       rec.ID,
		Time:     rec.CreatedAt.Format("02.01.2006 15:04:05"),
		Code:     string(rec.Code),
		Msg:      rec.Message,
		Link:     rec.Link,
	}
}
