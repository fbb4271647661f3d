package initializers

import (
	"estate-tracker-backend/fiberlog"

	log "github.com/sirupsen/logrus"
)

// InitLogger до загрузки конфигурации, уровень задает ApplyLogLevel
func InitLogger() *fiberlog.Config {
	log.SetFormatter(&log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "@timestamp",
			log.FieldKeyMsg:  "message",
		},
	})
	log.SetLevel(log.InfoLevel)

	logger := log.New()
	logger.SetFormatter(&log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "@timestamp",
			log.FieldKeyMsg:  "message",
		},
	})
	logger.SetLevel(log.DebugLevel)
	return &fiberlog.Config{
		Logger: logger,
		Tags: []string{
			fiberlog.TagBody,
			fiberlog.TagMethod,
			fiberlog.TagPath,
			fiberlog.TagStatus,
			fiberlog.TagLatency,
			fiberlog.TagUserID,
			fiberlog.RequestID,
		},
		// опрашивается клиентом постоянно
		SkipPaths: []string{"/api/v1/notifications/unread_count"},
	}
}

func ApplyLogLevel(level string) {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.WithError(err).Warnf("неизвестный уровень логирования %q", level)
		return
	}
	log.SetLevel(parsed)
}
