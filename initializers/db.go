package initializers

import (
	"estate-tracker-backend/config"
	"estate-tracker-backend/db"
	"time"

	log "github.com/sirupsen/logrus"
)

func InitDBConnection() {
	conf := config.Conf.Database
	err := db.Connect(conf.Host, conf.Port, conf.Name, conf.User, conf.Password, *conf.DebugMode, *conf.MigrateOnStart)
	if err != nil {
		panic(err.Error())
	}
	if err = db.ConfigurePool(conf.MaxOpenConns, conf.MaxIdleConns, 30*time.Minute); err != nil {
		log.WithError(err).Warn("настройки пула соединений не применены")
	}
}
