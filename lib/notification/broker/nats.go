package notificationbroker

import (
	"encoding/json"
	"estate-tracker-backend/models"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Message событие заявки для внешних сервисов.
// Тема: <prefix>.<код события в нижнем регистре>
type Message struct {
	Code        models.NotificationCode `json:"code"`
	RequestID   string                  `json:"request_id"`
	RequestType string                  `json:"request_type"`
	Kind        string                  `json:"kind"`
	Title       string                  `json:"title"`
	Status      string                  `json:"status"`
	AssignedTo  string                  `json:"assigned_to,omitempty"`
	ActorEmail  string                  `json:"actor_email,omitempty"`
	Recipients  []string                `json:"recipients"`
	Reason      string                  `json:"reason,omitempty"`
	OccurredAt  time.Time               `json:"occurred_at"`
}

type Provider interface {
	Publish(msg Message) error
	Close()
}

type conn interface {
	Publish(subject string, data []byte) error
}

func Connect(url, prefix string) (Provider, error) {
	nc, err := nats.Connect(url,
		nats.Name("estate-tracker-backend"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Warn("NATS: соединение потеряно")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.WithField("url", c.ConnectedUrl()).Info("NATS: соединение восстановлено")
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка подключения к NATS")
	}
	return &impl{
		conn:   nc,
		close:  nc.Close,
		prefix: prefix,
	}, nil
}

func newWithConn(c conn, prefix string) *impl {
	return &impl{
		conn:   c,
		close:  func() {},
		prefix: prefix,
	}
}

type impl struct {
	conn   conn
	close  func()
	prefix string
}

func (i impl) Subject(code models.NotificationCode) string {
	subject := strings.ToLower(string(code))
	prefix := strings.Trim(i.prefix, ".")
	if prefix == "" {
		return subject
	}
	return prefix + "." + subject
}

func (i impl) Publish(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "ошибка сериализации события")
	}
	subject := i.Subject(msg.Code)
	err = i.conn.Publish(subject, data)
	if err != nil {
		return errors.Wrapf(err, "ошибка публикации события в %s", subject)
	}
	log.
		WithField("subject", subject).
		WithField("request_id", msg.RequestID).
		Debug("событие опубликовано в NATS")
	return nil
}

func (i impl) Close() {
	i.close()
}
