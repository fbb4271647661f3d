package connectionhub

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const sendBufferSize = 16

type clientSession struct {
	id string

	// Outbound mesages, buffered.
	sendCh chan any
	write  func(msg any) error
	close  func()
	stop   func()
}

func newSession(conn *websocket.Conn) *clientSession {
	return startSession(
		func(msg any) error {
			if conn == nil || conn.Conn == nil {
				return nil
			}
			return conn.WriteJSON(msg)
		},
		func() {
			if conn == nil || conn.Conn == nil {
				return
			}
			err := conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			if err != nil {
				log.WithError(err).Debug("ошибка закрытия соединения")
			}
		})
}

func startSession(write func(msg any) error, closeFn func()) *clientSession {
	ctx, cancelFn := context.WithCancel(context.Background())
	sess := &clientSession{
		id:     uuid.NewString(),
		sendCh: make(chan any, sendBufferSize),
		write:  write,
		close:  closeFn,
		stop:   cancelFn,
	}
	go sess.startSend(ctx)
	return sess
}

func (s *clientSession) startSend(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.close()
			return
		case msg := <-s.sendCh:
			if err := s.write(msg); err != nil {
				log.WithError(err).Error("ошибка отправки сообщения")
			}
		}
	}
}
