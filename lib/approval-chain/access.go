package approvalchain

import (
	"estate-tracker-backend/models"
	"strings"
)

// CanAct может ли пользователь принять решение по заявке прямо сейчас.
// Сравнивается только почта: совпадение по имени не дает права на согласование.
func CanAct(actor models.Actor, assignedTo string) bool {
	if strings.TrimSpace(assignedTo) == "" {
		return false
	}
	if actor.Role.IsAdmin() {
		return true
	}
	return models.SameIdentity(actor.Email, assignedTo)
}
