package dbmodels

import "estate-tracker-backend/models"

type Notification struct {
	BaseModel
	UserID     string                  `gorm:"type:varchar(36);index:idx_notification_user"`
	Code       models.NotificationCode `gorm:"type:varchar(50)"`
	RequestID  string                  `gorm:"type:varchar(36)"`
	Message    string
	Link       string `gorm:"type:varchar(512)"`
	SenderName string `gorm:"type:varchar(255)"`
	IsRead     bool   `gorm:"index:idx_notification_user"`
}
