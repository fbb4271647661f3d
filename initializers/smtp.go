package initializers

import (
	"estate-tracker-backend/config"
	"estate-tracker-backend/lib/smtp"

	log "github.com/sirupsen/logrus"
)

func InitSmtp() {
	conf := config.Conf.Smtp
	if err := smtp.Connect(conf.User, conf.Password, conf.Host, conf.Port, *conf.TLSEnabled); err != nil {
		panic(err.Error())
	}
	if !smtp.Instance.IsConfigured() {
		log.Warn("SMTP не настроен, уведомления по почте не отправляются")
	}
}
