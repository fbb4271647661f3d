package fiberlog

import (
	authutils "estate-tracker-backend/lib/utils/auth-utils"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid     = "pid"
	TagLatency = "latency"
	TagStatus  = "status"
	TagMethod  = "method"
	TagPath    = "path"
	TagIP      = "ip"
	TagUserID  = "user_id"
	TagBody    = "body"
	TagResBody = "res_body"
	RequestID  = "request_id"
)

// максимальный размер тела запроса/ответа в логе
const maxBodyLen = 2048

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag значение поля лога для запроса
type FuncTag func(c *fiber.Ctx, d *data) interface{}

var passwordRe = regexp.MustCompile(`("(?:password|current_password|new_password)"\s*:\s*)"[^"]*"`)

func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(c *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagLatency: func(c *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagStatus: func(c *fiber.Ctx, d *data) interface{} {
			return c.Response().StatusCode()
		},
		TagMethod: func(c *fiber.Ctx, d *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, d *data) interface{} {
			return c.Path()
		},
		TagIP: func(c *fiber.Ctx, d *data) interface{} {
			return c.IP()
		},
		TagUserID: func(c *fiber.Ctx, d *data) interface{} {
			return authutils.GetClaims(c)["sub"]
		},
		TagBody: func(c *fiber.Ctx, d *data) interface{} {
			if c.Is("multipart") {
				return ""
			}
			return sanitizeBody(c.Body())
		},
		TagResBody: func(c *fiber.Ctx, d *data) interface{} {
			if c.Response().Header.ContentLength() > maxBodyLen {
				return ""
			}
			return sanitizeBody(c.Response().Body())
		},
		RequestID: func(c *fiber.Ctx, d *data) interface{} {
			if id := c.Get(fiber.HeaderXRequestID); id != "" {
				return id
			}
			return string(c.Response().Header.Peek(fiber.HeaderXRequestID))
		},
	}
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}

func sanitizeBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxBodyLen {
		body = body[:maxBodyLen]
	}
	return passwordRe.ReplaceAllString(string(body), `$1"***"`)
}
