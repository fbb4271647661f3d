package initializers

import (
	"context"
	"estate-tracker-backend/config"
	routesnapshot "estate-tracker-backend/lib/workflow-route/snapshot"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

// InitRouteSnapshot снимок маршрутов в Redis, при недоступности - в памяти процесса
func InitRouteSnapshot(ctx context.Context) routesnapshot.Provider {
	if config.Conf.Redis.Addr == "" {
		log.Info("Redis не настроен, снимок маршрутов хранится в памяти")
		return routesnapshot.NewMemory()
	}
	client := redis.NewClient(&redis.Options{
		Addr:        config.Conf.Redis.Addr,
		Password:    config.Conf.Redis.Password,
		DB:          config.Conf.Redis.DB,
		DialTimeout: 3 * time.Second,
		ReadTimeout: time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Error("Ошибка подключения к Redis, снимок маршрутов хранится в памяти")
		_ = client.Close()
		return routesnapshot.NewMemory()
	}
	log.Info("Сервис успешно подключен к Redis")
	return routesnapshot.NewRedis(client)
}
