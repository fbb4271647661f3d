package authhandler

import (
	usershandler "estate-tracker-backend/lib/users"
	authutils "estate-tracker-backend/lib/utils/auth-utils"
	authapimodels "estate-tracker-backend/models/api/auth"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidCredentials = errors.New("неверная почта или пароль")

type Provider interface {
	Login(email, password string) (response authapimodels.JWTResponse, err error)
	ChangePassword(userID string, data authapimodels.ChangePassword) (hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		users: usershandler.Instance,
	}
}

type impl struct {
	users usershandler.Provider
}

func (i impl) Login(email, password string) (response authapimodels.JWTResponse, err error) {
	logger := log.WithField("email", email)
	user, err := i.users.FindByEmail(email)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка поиска пользователя по почте")
		return authapimodels.JWTResponse{}, err
	}
	if user == nil {
		logger.Debug("пользователь с такой почтой не найден")
		return authapimodels.JWTResponse{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		logger.Debug("пользователь заблокирован")
		return authapimodels.JWTResponse{}, ErrInvalidCredentials
	}
	if !authutils.CheckPassword(user.Password, password) {
		logger.Debug("пользователь не прошел проверку пароля")
		return authapimodels.JWTResponse{}, ErrInvalidCredentials
	}
	actor := user.ToActor()
	tokenString, err := authutils.GetToken(actor)
	if err != nil {
		logger.WithError(err).Error("ошибка генерации JWT")
		return authapimodels.JWTResponse{}, err
	}
	err = i.users.Touch(user.ID, time.Now())
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка обновления даты последнего входа")
	}
	return authapimodels.JWTResponse{
		Token: tokenString,
		Role:  actor.Role,
		Name:  actor.DisplayName(),
	}, nil
}

func (i impl) ChangePassword(userID string, data authapimodels.ChangePassword) (hMsg string, err error) {
	ok, err := i.users.VerifyPassword(userID, data.CurrentPassword)
	if err != nil {
		return "", err
	}
	if !ok {
		return "текущий пароль указан неверно", nil
	}
	return i.users.SetPassword(userID, data.NewPassword)
}
