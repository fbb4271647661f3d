package authutils

import (
	"estate-tracker-backend/config"
	"estate-tracker-backend/models"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func GetToken(actor models.Actor) (tokenString string, err error) {
	claims := jwt.MapClaims{
		"sub":   actor.ID,
		"email": actor.Email,
		"name":  actor.Name,
		"role":  string(actor.Role),
		"exp":   time.Now().Add(time.Second * time.Duration(config.Conf.Auth.JWTExpireInSec)).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Conf.Auth.JWTSecret))
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}

// ActorFromClaims пользователь из токена, роль не из справочника - пустая
func ActorFromClaims(claims jwt.MapClaims) models.Actor {
	actor := models.Actor{
		ID:    claimString(claims, "sub"),
		Email: claimString(claims, "email"),
		Name:  claimString(claims, "name"),
	}
	if role := models.UserRole(claimString(claims, "role")); role.IsValid() {
		actor.Role = role
	}
	return actor
}

func claimString(claims jwt.MapClaims, key string) string {
	value, ok := claims[key].(string)
	if !ok {
		return ""
	}
	return value
}
