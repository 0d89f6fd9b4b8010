package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "obralink/internal/errors"
	"obralink/internal/logger"
	"obralink/internal/uuid"
)

// getOrgID extracts the authenticated organization ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getOrgID(c *gin.Context) (string, error) {
	orgID, exists := c.Get("orgID")
	if !exists {
		return "", apperrors.ErrUnauthorized
	}
	return orgID.(string), nil
}

// getUserID extracts the authenticated user ID from the Gin context.
func getUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", apperrors.ErrUnauthorized
	}
	return userID.(string), nil
}

// getAuthor extracts the authenticated user's display name. Falls back to
// the email so history entries always carry a readable author.
func getAuthor(c *gin.Context) string {
	if author, exists := c.Get("author"); exists {
		if name, ok := author.(string); ok && name != "" {
			return name
		}
	}
	if email, exists := c.Get("email"); exists {
		if addr, ok := email.(string); ok {
			return addr
		}
	}
	return ""
}

// parsePathUUID validates a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
func parsePathUUID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if !uuid.IsValid(id) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
