package dbmodels

import (
	"estate-tracker-backend/models"
	"fmt"
	"strings"
	"time"
)

type User struct {
	BaseModel
	Password    string          `gorm:"type:varchar(128)" json:"-"`
	FirstName   string          `gorm:"type:varchar(150)"`
	LastName    string          `gorm:"type:varchar(150)"`
	Email       string          `gorm:"type:varchar(255);uniqueIndex"`
	PhoneNumber string          `gorm:"type:varchar(20)"`
	Role        models.UserRole `gorm:"type:varchar(50);index"`
	IsActive    bool
	LastLogin   *time.Time
}

func (r User) GetFullName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", r.FirstName, r.LastName))
}

func (r User) ToActor() models.Actor {
	return models.Actor{
		ID:    r.ID,
		Email: r.Email,
		Name:  r.GetFullName(),
		Role:  r.Role,
	}
}
