package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type errReport struct {
	Service string `json:"service"`
	Code    int    `json:"code"`
	Method  string `json:"method"`
	Path    string `json:"path"`
	UserID  string `json:"user_id"`
	Error   string `json:"error"`
}

var notifyClient = &http.Client{Timeout: 5 * time.Second}

// ErrNotify отправляет ответы 5xx в бот оповещений, пустой addr - отключено
func ErrNotify(addr string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if addr == "" {
			return c.Next()
		}
		err := c.Next()
		report, ok := buildErrReport(c)
		if !ok {
			return err
		}
		go sendErrReport(addr, report)
		return err
	}
}

// buildErrReport false для ответов без ошибки сервера
func buildErrReport(c *fiber.Ctx) (errReport, bool) {
	statusCode := c.Response().StatusCode()
	if statusCode < http.StatusInternalServerError {
		return errReport{}, false
	}
	var data struct {
		Message string `json:"message"`
	}
	body := c.Response().Body()
	if unmErr := json.Unmarshal(body, &data); unmErr != nil || data.Message == "" {
		data.Message = string(body)
	}
	path := c.OriginalURL()
	if r := c.Route(); r != nil {
		path = r.Path
	}
	return errReport{
		Service: "estate-tracker",
		Code:    statusCode,
		Method:  c.Method(),
		Path:    path,
		UserID:  GetUserID(c),
		Error:   data.Message,
	}, true
}

func sendErrReport(addr string, report errReport) {
	payload, err := json.Marshal(report)
	if err != nil {
		log.WithError(err).Warn("ошибка формирования уведомления об ошибке")
		return
	}
	resp, err := notifyClient.Post(addr, fiber.MIMEApplicationJSON, bytes.NewReader(payload))
	if err != nil {
		log.WithError(err).Warn("ошибка отправки уведомления об ошибке")
		return
	}
	resp.Body.Close()
}
