package initializers

import (
	"context"
	"estate-tracker-backend/config"
	"estate-tracker-backend/fiberlog"
	authhandler "estate-tracker-backend/lib/auth"
	"estate-tracker-backend/lib/events"
	filestorage "estate-tracker-backend/lib/file-storage"
	notificationhandler "estate-tracker-backend/lib/notification"
	notificationbroker "estate-tracker-backend/lib/notification/broker"
	projecthandler "estate-tracker-backend/lib/project"
	"estate-tracker-backend/lib/rbac"
	requesthandler "estate-tracker-backend/lib/request"
	staleworker "estate-tracker-backend/lib/request/stale-worker"
	"estate-tracker-backend/lib/smtp"
	usershandler "estate-tracker-backend/lib/users"
	initchecker "estate-tracker-backend/lib/utils/init-checker"
	workflowroutehandler "estate-tracker-backend/lib/workflow-route"
	connectionhub "estate-tracker-backend/lib/ws/hub/connection-hub"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	LoggerConfig *fiberlog.Config
	EventBus     *events.Bus
	Broker       notificationbroker.Provider
)

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	ApplyLogLevel(config.Conf.App.LogLevel)
	InitDBConnection()
	InitSmtp()
	objects := InitS3(ctx)
	snapshot := InitRouteSnapshot(ctx)
	Broker = InitNats()

	rbac.NewHandler()
	usershandler.NewHandler()
	if err := usershandler.Instance.SeedAdmin(config.Conf.Admin.Email, config.Conf.Admin.Password); err != nil {
		log.WithError(err).Error("ошибка добавления администратора")
	}
	authhandler.NewHandler()
	projecthandler.NewHandler()
	workflowroutehandler.NewHandler(snapshot, usershandler.Instance)
	filestorage.NewHandler(objects, config.Conf.S3.MaxFileSize)

	connectionhub.Init()
	notificationhandler.NewHandler(usershandler.Instance, connectionhub.Instance, smtp.Instance, Broker)

	EventBus = events.NewBus(config.Conf.Workflow.EventBufferSize)
	EventBus.Subscribe("notifier", notificationhandler.Instance.HandleEvent)
	EventBus.Start(ctx)

	initchecker.CheckInit(
		"workflowroutehandler", workflowroutehandler.Instance,
		"usershandler", usershandler.Instance,
		"projecthandler", projecthandler.Instance,
		"notificationhandler", notificationhandler.Instance,
	)
	requesthandler.NewHandler(workflowroutehandler.Instance, usershandler.Instance, projecthandler.Instance, EventBus, projecthandler.NewFollowUpSink())

	initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Задача поиска заявок, согласующий которых выбыл из маршрута
	if config.Conf.Workflow.StaleSweepMin > 0 {
		staleworker.StartWorker(ctx,
			time.Duration(config.Conf.Workflow.StaleSweepMin)*time.Minute,
			workflowroutehandler.Instance,
			notificationhandler.Instance,
			config.Conf.App.PublicURL)
	}
}

// Shutdown дообработка событий и закрытие внешних подключений после отмены контекста
func Shutdown() {
	if EventBus != nil {
		EventBus.Wait()
	}
	if Broker != nil {
		Broker.Close()
	}
}
