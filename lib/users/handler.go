package usershandler

import (
	"estate-tracker-backend/db"
	userstore "estate-tracker-backend/lib/users/store"
	authutils "estate-tracker-backend/lib/utils/auth-utils"
	workflowerrors "estate-tracker-backend/lib/workflow-errors"
	"estate-tracker-backend/models"
	userapimodels "estate-tracker-backend/models/api/user"
	dbmodels "estate-tracker-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(data userapimodels.CreateUser) (id, hMsg string, err error)
	Update(id string, data userapimodels.UserData) (hMsg string, err error)
	SetPassword(id, password string) (hMsg string, err error)
	Delete(id string) error
	GetByID(id string) (userapimodels.UserView, error)
	List(filter userapimodels.UserFilter) (list []userapimodels.UserView, rowCount int64, err error)
	FindByEmail(email string) (*dbmodels.User, error)
	ListByRoles(roles []models.UserRole) ([]dbmodels.User, error)
	ResolveDisplayName(email string) (string, error)
	VerifyPassword(id, password string) (bool, error)
	Touch(id string, at time.Time) error
	SeedAdmin(email, password string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: userstore.NewInstance(db.DB),
	}
}

type impl struct {
	store userstore.Provider
}

func (i impl) getLogger(userID string) *log.Entry {
	return log.WithField("user_id", userID)
}

func (i impl) Create(data userapimodels.CreateUser) (id, hMsg string, err error) {
	logger := log.WithField("email", data.Email)
	exist, err := i.store.FindByEmail(data.Email)
	if err != nil {
		logger.WithError(err).Error("ошибка поиска пользователя по почте")
		return "", "", err
	}
	if exist != nil {
		return "", "пользователь с такой почтой уже существует", nil
	}
	hash, err := authutils.HashPassword(data.Password)
	if err != nil {
		return "", "", err
	}
	rec := dbmodels.User{
		Password:    hash,
		FirstName:   strings.TrimSpace(data.FirstName),
		LastName:    strings.TrimSpace(data.LastName),
		Email:       data.Email,
		PhoneNumber: data.PhoneNumber,
		Role:        data.Role,
		IsActive:    true,
	}
	if data.IsActive != nil {
		rec.IsActive = *data.IsActive
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка создания пользователя")
		return "", "", err
	}
	logger.WithField("user_id", id).Info("Создан пользователь")
	return id, "", nil
}

func (i impl) Update(id string, data userapimodels.UserData) (hMsg string, err error) {
	logger := i.getLogger(id)
	rec, err := i.get(id)
	if err != nil {
		return "", err
	}
	if !models.SameIdentity(rec.Email, data.Email) {
		exist, err := i.store.FindByEmail(data.Email)
		if err != nil {
			logger.WithError(err).Error("ошибка поиска пользователя по почте")
			return "", err
		}
		if exist != nil {
			return "пользователь с такой почтой уже существует", nil
		}
	}
	updMap := map[string]interface{}{
		"first_name":   strings.TrimSpace(data.FirstName),
		"last_name":    strings.TrimSpace(data.LastName),
		"email":        strings.ToLower(strings.TrimSpace(data.Email)),
		"phone_number": data.PhoneNumber,
		"role":         data.Role,
	}
	if data.IsActive != nil {
		updMap["is_active"] = *data.IsActive
	}
	err = i.store.Update(id, updMap)
	if err != nil {
		logger.WithError(err).Error("ошибка изменения пользователя")
		return "", err
	}
	return "", nil
}

func (i impl) SetPassword(id, password string) (hMsg string, err error) {
	if len(password) < 8 {
		return "пароль должен содержать не менее 8 символов", nil
	}
	if _, err = i.get(id); err != nil {
		return "", err
	}
	hash, err := authutils.HashPassword(password)
	if err != nil {
		return "", err
	}
	err = i.store.Update(id, map[string]interface{}{"password": hash})
	if err != nil {
		i.getLogger(id).WithError(err).Error("ошибка изменения пароля")
		return "", err
	}
	return "", nil
}

func (i impl) Delete(id string) error {
	if _, err := i.get(id); err != nil {
		return err
	}
	err := i.store.Delete(id)
	if err != nil {
		i.getLogger(id).WithError(err).Error("ошибка удаления пользователя")
		return err
	}
	return nil
}

func (i impl) GetByID(id string) (userapimodels.UserView, error) {
	rec, err := i.get(id)
	if err != nil {
		return userapimodels.UserView{}, err
	}
	return userapimodels.UserConvert(*rec), nil
}

func (i impl) List(filter userapimodels.UserFilter) (list []userapimodels.UserView, rowCount int64, err error) {
	page, limit := filter.GetPage()
	recList, rowCount, err := i.store.List(userstore.Filter{
		Search: filter.Search,
		Role:   filter.Role,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, 0, err
	}
	list = make([]userapimodels.UserView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, userapimodels.UserConvert(rec))
	}
	return list, rowCount, nil
}

func (i impl) FindByEmail(email string) (*dbmodels.User, error) {
	return i.store.FindByEmail(email)
}

func (i impl) ListByRoles(roles []models.UserRole) ([]dbmodels.User, error) {
	return i.store.ListByRoles(roles)
}

func (i impl) ResolveDisplayName(email string) (string, error) {
	rec, err := i.store.FindByEmail(email)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", nil
	}
	return rec.GetFullName(), nil
}

func (i impl) VerifyPassword(id, password string) (bool, error) {
	rec, err := i.get(id)
	if err != nil {
		return false, err
	}
	return authutils.CheckPassword(rec.Password, password), nil
}

// Touch дата последнего входа
func (i impl) Touch(id string, at time.Time) error {
	return i.store.Update(id, map[string]interface{}{"last_login": at})
}

// SeedAdmin создает администратора при первом запуске, если пользователя с такой почтой нет
func (i impl) SeedAdmin(email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	exist, err := i.store.FindByEmail(email)
	if err != nil {
		return errors.Wrap(err, "ошибка поиска администратора")
	}
	if exist != nil {
		return nil
	}
	hash, err := authutils.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = i.store.Create(dbmodels.User{
		Password:  hash,
		FirstName: "مدير",
		LastName:  "النظام",
		Email:     email,
		Role:      models.AdminRole,
		IsActive:  true,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка создания администратора")
	}
	log.WithField("email", email).Info("Создан администратор системы")
	return nil
}

func (i impl) get(id string) (*dbmodels.User, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, workflowerrors.ErrNotFound
	}
	return rec, nil
}
