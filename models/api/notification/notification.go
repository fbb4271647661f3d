package notificationapimodels

import (
	"estate-tracker-backend/models"
	apimodels "estate-tracker-backend/models/api"
	dbmodels "estate-tracker-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type NotificationView struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	RequestID  string    `json:"request_id"`
	Message    string    `json:"message"`
	Link       string    `json:"link"`
	SenderName string    `json:"sender_name"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

func NotificationConvert(rec dbmodels.Notification) NotificationView {
	return NotificationView{
		ID:         rec.ID,
		Code:       string(rec.Code),
		RequestID:  rec.RequestID,
		Message:    rec.Message,
		Link:       rec.Link,
		SenderName: rec.SenderName,
		IsRead:     rec.IsRead,
		CreatedAt:  rec.CreatedAt,
	}
}

type NotificationFilter struct {
	apimodels.Pagination
	OnlyUnread bool `json:"only_unread"`
}

type MarkReadData struct {
	IDs []string `json:"ids"` // пустой список - отметить все
}

type UnreadCount struct {
	Count int64 `json:"count"`
}

// NotifyData ручная рассылка по ролям
type NotifyData struct {
	Roles   []string `json:"roles"`
	Message string   `json:"message"`
	Link    string   `json:"link"`
}

func (r NotifyData) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return errors.New("не указан текст уведомления")
	}
	if len(r.Roles) == 0 {
		return errors.New("не указаны роли получателей")
	}
	if len(models.ParseRoles(r.Roles)) != len(r.Roles) {
		return errors.New("указана неизвестная роль")
	}
	return nil
}
