package connectionhub

import (
	"estate-tracker-backend/db"
	notificationstore "estate-tracker-backend/lib/notification/store"
	wsmodels "estate-tracker-backend/models/ws"
	"sync"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	AddClient(userID string, conn *websocket.Conn) (sessionID string)
	DeleteClient(userID, sessionID string)
	SendMessage(msg wsmodels.ServerMessage) bool
	SendClose(userID string)
	IsConnected(userID string) bool
}

var Instance Provider

// количество непрочитанных уведомлений, отправляемых при подключении
const unreadOnConnect = 50

func Init() {
	Instance = newHub(notificationstore.NewInstance(db.DB))
}

func newHub(store notificationstore.Provider) *impl {
	return &impl{
		clients: map[string]*clientSession{},
		store:   store,
	}
}

type impl struct {
	mu      sync.RWMutex
	clients map[string]*clientSession //map[userID]
	store   notificationstore.Provider
}

func (i *impl) DeleteClient(userID, sessionID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	sess, ok := i.clients[userID]
	if !ok || sess.id != sessionID {
		return
	}
	delete(i.clients, userID)
	sess.stop()
}

func (i *impl) AddClient(userID string, conn *websocket.Conn) (sessionID string) {
	sess := newSession(conn)
	i.addSession(userID, sess)
	go i.sendUnread(userID)
	return sess.id
}

func (i *impl) addSession(userID string, sess *clientSession) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if oldSess, ok := i.clients[userID]; ok {
		oldSess.stop()
	}
	i.clients[userID] = sess
}

// SendMessage false - пользователь не подключен или очередь отправки переполнена
func (i *impl) SendMessage(msg wsmodels.ServerMessage) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	sess, ok := i.clients[msg.ToUserID]
	if !ok {
		return false
	}
	select {
	case sess.sendCh <- msg:
		return true
	default:
		log.WithField("user_id", msg.ToUserID).Warn("очередь отправки переполнена, сообщение пропущено")
		return false
	}
}

func (i *impl) SendClose(userID string) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if sess, ok := i.clients[userID]; ok {
		sess.stop()
	}
}

func (i *impl) IsConnected(userID string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.clients[userID]
	return ok
}

func (i *impl) sendUnread(userID string) {
	if i.store == nil {
		return
	}
	logger := log.WithField("user_id", userID)
	list, _, err := i.store.ListByUser(userID, true, 1, unreadOnConnect)
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка непрочитанных уведомлений")
		return
	}
	// список отсортирован от новых к старым, отправляем в хронологическом порядке
	for idx := len(list) - 1; idx >= 0; idx-- {
		if !i.SendMessage(wsmodels.NotificationConvert(list[idx])) {
			return
		}
	}
}
