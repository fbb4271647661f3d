package middleware

import (
	"estate-tracker-backend/config"
	apimodels "estate-tracker-backend/models/api"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func AuthorizationRequired() fiber.Handler {
	return newJwt("header:Authorization")
}

// WsAuthorizationRequired браузер не передает заголовки при подключении к websocket, токен можно передать в query
func WsAuthorizationRequired() fiber.Handler {
	return newJwt("header:Authorization,query:token")
}

func newJwt(tokenLookup string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims:      jwt.MapClaims{},
		TokenLookup: tokenLookup,
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(config.Conf.Auth.JWTSecret),
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("требуется авторизация"))
		},
	})
}
