package wsclient

import (
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

// ReadHandler отметка уведомлений прочитанными по сообщению клиента
type ReadHandler func(userID string, ids []string) error

func NewClient(userID string, c *websocket.Conn, onRead ReadHandler) *WsClient {
	return &WsClient{
		conn:   c,
		userID: userID,
		onRead: onRead,
	}
}

type WsClient struct {
	conn   *websocket.Conn
	userID string
	onRead ReadHandler
}

// ClientMessage сообщение от клиента: {"type":"mark_read","ids":[...]}
type ClientMessage struct {
	Type string   `json:"type"`
	IDs  []string `json:"ids"`
}

const markReadType = "mark_read"

var closeCodes []int

func init() {
	for i := websocket.CloseNormalClosure; i <= websocket.CloseTLSHandshake; i++ {
		closeCodes = append(closeCodes, i)
	}
}

func (c *WsClient) Dispatch() {
	for {
		if c.conn == nil {
			return
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, closeCodes...) {
				log.WithError(err).Error("ошибка получения сообщения")
			}
			break
		}
		c.handle(data)
	}
}

func (c *WsClient) handle(data []byte) {
	logger := log.WithField("user_id", c.userID)
	msg := ClientMessage{}
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.WithField("ws_message", string(data)).Debug("ws-msg")
		return
	}
	if msg.Type != markReadType || c.onRead == nil {
		return
	}
	if err := c.onRead(c.userID, msg.IDs); err != nil {
		logger.WithError(err).Error("ошибка отметки уведомлений прочитанными")
	}
}
