package authapimodels

import "estate-tracker-backend/models"

type JWTResponse struct {
	Token string          `json:"token"`
	Role  models.UserRole `json:"role"`
	Name  string          `json:"name"`
}
