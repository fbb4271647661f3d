package dbmodels

import "estate-tracker-backend/models"

type Project struct {
	BaseModel
	Name        string               `gorm:"type:varchar(255)"`
	Code        string               `gorm:"type:varchar(50);index"`
	Location    string               `gorm:"type:varchar(255)"`
	Status      models.ProjectStatus `gorm:"type:varchar(50)"`
	Description string
	Tasks       []ProjectTask `gorm:"foreignKey:ProjectID"`
}

// ProjectTask задача по проекту, в т.ч. создаваемая автоматически после согласования заявки
type ProjectTask struct {
	BaseModel
	ProjectID       string  `gorm:"type:varchar(36);index"`
	SourceRequestID *string `gorm:"type:varchar(36);uniqueIndex"`
	Title           string  `gorm:"type:varchar(255)"`
	Description     string
	AssigneeRole    models.UserRole   `gorm:"type:varchar(50)"`
	Status          models.TaskStatus `gorm:"type:varchar(20)"`
}
