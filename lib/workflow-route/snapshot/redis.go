package routesnapshot

import (
	"context"
	"encoding/json"
	dbmodels "estate-tracker-backend/models/db"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const redisKeyPrefix = "workflow_route:"

// NewRedis снимки маршрутов в redis, общие для всех экземпляров сервиса.
// Записи хранятся без срока жизни: устаревший снимок нужен при недоступности БД.
func NewRedis(client *redis.Client) Provider {
	return &redisImpl{
		client: client,
		now:    time.Now,
	}
}

type redisImpl struct {
	client *redis.Client
	now    func() time.Time
}

func (r redisImpl) Get(ctx context.Context, requestType string) (*Entry, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+key(requestType)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "ошибка чтения снимка маршрута")
	}
	entry := Entry{}
	if err = json.Unmarshal(data, &entry); err != nil {
		return nil, errors.Wrap(err, "ошибка декодирования снимка маршрута")
	}
	return &entry, nil
}

func (r redisImpl) Save(ctx context.Context, route dbmodels.WorkflowRoute) error {
	data, err := json.Marshal(Entry{
		Route:    route,
		StoredAt: r.now(),
	})
	if err != nil {
		return errors.Wrap(err, "ошибка кодирования снимка маршрута")
	}
	err = r.client.Set(ctx, redisKeyPrefix+key(route.RequestType), data, 0).Err()
	if err != nil {
		return errors.Wrap(err, "ошибка сохранения снимка маршрута")
	}
	return nil
}

func (r redisImpl) Delete(ctx context.Context, requestType string) error {
	err := r.client.Del(ctx, redisKeyPrefix+key(requestType)).Err()
	if err != nil {
		return errors.Wrap(err, "ошибка удаления снимка маршрута")
	}
	return nil
}
