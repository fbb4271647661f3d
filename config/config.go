package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
		PublicURL  string `default:"http://localhost:3000" env:"APP_PUBLIC_URL"` // для ссылок в уведомлениях
		BodyLimit  int    `default:"52428800" env:"APP_BODY_LIMIT"`
		JSONLimit  int64  `default:"1048576" env:"APP_JSON_LIMIT"` // для запросов без файлов
		LogLevel   string `default:"info" env:"APP_LOG_LEVEL"`
		SwaggerDoc string `default:"./docs/swagger.json" env:"APP_SWAGGER_DOC"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"estate-tracker" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
		MaxOpenConns   int    `default:"20" env:"DB_MAX_OPEN_CONNS"`
		MaxIdleConns   int    `default:"5" env:"DB_MAX_IDLE_CONNS"`
	}
	Auth struct {
		JWTSecret      string `default:"change-me" env:"JWT_SECRET"`
		JWTExpireInSec int    `default:"86400" env:"JWT_EXPIRE_IN_SEC"`
	}
	Admin struct {
		Email    string `default:"admin@estate.local" env:"ADMIN_EMAIL"`
		Password string `default:"" env:"ADMIN_PASSWORD"` // пустой - админ не создается
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
	}
	S3 struct {
		Endpoint        string `default:"" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"estate-tracker" env:"S3_BUCKET_NAME"`
		MaxFileSize     int64  `default:"20971520" env:"S3_MAX_FILE_SIZE"`
	}
	Nats struct {
		URL           string `default:"" env:"NATS_URL"` // пустой - публикация в NATS отключена
		SubjectPrefix string `default:"estate.workflow" env:"NATS_SUBJECT_PREFIX"`
	}
	Redis struct {
		Addr     string `default:"" env:"REDIS_ADDR"` // пустой - снимок маршрутов хранится в памяти
		Password string `default:"" env:"REDIS_PASSWORD"`
		DB       int    `default:"0" env:"REDIS_DB"`
	}
	Workflow struct {
		RouteSnapshotTTLSec int    `default:"60" env:"WORKFLOW_ROUTE_SNAPSHOT_TTL_SEC"`
		DecisionLockWaitMs  int    `default:"3000" env:"WORKFLOW_DECISION_LOCK_WAIT_MS"`
		BreakerFailures     uint32 `default:"3" env:"WORKFLOW_BREAKER_FAILURES"`
		BreakerOpenSec      int    `default:"30" env:"WORKFLOW_BREAKER_OPEN_SEC"`
		EventBufferSize     int    `default:"256" env:"WORKFLOW_EVENT_BUFFER_SIZE"`
		StaleSweepMin       int    `default:"60" env:"WORKFLOW_STALE_SWEEP_MIN"` // 0 - проверка отключена
	}
	NotifyBot struct {
		AddrErr string `default:"" env:"NOTIFY_BOT_ADDR_ERR"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
