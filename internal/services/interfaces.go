package services

import (
	"obralink/internal/models"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(orgID, email, password, displayName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(orgID, userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
