package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// WithBodyLimit ограничение тела JSON запросов, загрузка файлов ограничена настройкой сервера
func WithBodyLimit(limit int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
			return c.Next()
		}
		if size := int64(c.Request().Header.ContentLength()); size > limit {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"error": fmt.Sprintf("размер запроса превышает %d байт", limit),
			})
		}
		return c.Next()
	}
}
