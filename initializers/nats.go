package initializers

import (
	"estate-tracker-backend/config"
	notificationbroker "estate-tracker-backend/lib/notification/broker"

	log "github.com/sirupsen/logrus"
)

// InitNats nil - публикация событий в NATS отключена
func InitNats() notificationbroker.Provider {
	if config.Conf.Nats.URL == "" {
		log.Info("NATS не настроен, публикация событий отключена")
		return nil
	}
	broker, err := notificationbroker.Connect(config.Conf.Nats.URL, config.Conf.Nats.SubjectPrefix)
	if err != nil {
		log.WithError(err).Error("Ошибка подключения к NATS, публикация событий отключена")
		return nil
	}
	log.Info("Сервис успешно подключен к NATS")
	return broker
}
