package userapimodels

import (
	"estate-tracker-backend/models"
	apimodels "estate-tracker-backend/models/api"
	dbmodels "estate-tracker-backend/models/db"
	"net/mail"
	"time"

	"github.com/pkg/errors"
)

type UserData struct {
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Email       string          `json:"email"` // рабочая почта, она же идентификатор в цепочках согласования
	PhoneNumber string          `json:"phone_number"`
	Role        models.UserRole `json:"role"`
	IsActive    *bool           `json:"is_active"`
}

func (r UserData) Validate() error {
	if r.FirstName == "" {
		return errors.New("не указано имя")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("почта имеет неправильный формат")
	}
	if !r.Role.IsValid() {
		return errors.New("указана неизвестная роль")
	}
	return nil
}

type CreateUser struct {
	UserData
	Password string `json:"password"`
}

func (r CreateUser) Validate() error {
	if err := r.UserData.Validate(); err != nil {
		return err
	}
	if len(r.Password) < 8 {
		return errors.New("пароль должен содержать не менее 8 символов")
	}
	return nil
}

type UserView struct {
	UserData
	ID        string     `json:"id"`
	FullName  string     `json:"full_name"`
	RoleName  string     `json:"role_name"`
	LastLogin *time.Time `json:"last_login"`
}

func UserConvert(rec dbmodels.User) UserView {
	isActive := rec.IsActive
	return UserView{
		UserData: UserData{
			FirstName:   rec.FirstName,
			LastName:    rec.LastName,
			Email:       rec.Email,
			PhoneNumber: rec.PhoneNumber,
			Role:        rec.Role,
			IsActive:    &isActive,
		},
		ID:        rec.ID,
		FullName:  rec.GetFullName(),
		RoleName:  rec.Role.ToHuman(),
		LastLogin: rec.LastLogin,
	}
}

type UserFilter struct {
	apimodels.Pagination
	Search string          `json:"search"`
	Role   models.UserRole `json:"role"`
}
