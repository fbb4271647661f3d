package middleware

import (
	authutils "estate-tracker-backend/lib/utils/auth-utils"
	"estate-tracker-backend/models"

	"github.com/gofiber/fiber/v2"
)

func GetUserID(ctx *fiber.Ctx) string {
	return GetActor(ctx).ID
}

func GetUserEmail(ctx *fiber.Ctx) string {
	return GetActor(ctx).Email
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	return GetActor(ctx).Role
}

// GetActor пользователь из JWT токена
func GetActor(ctx *fiber.Ctx) models.Actor {
	return authutils.ActorFromClaims(authutils.GetClaims(ctx))
}
