package handlers

import (
	"net/http"

	"github.com/RympeR/blob-ai/pkg/errors"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto the wire. AppErrors keep their
// status and carry the conflicting resource id when present; anything else
// is a generic 500.
func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		body := gin.H{"error": appErr.Message}
		if appErr.ConflictID != "" {
			body["id"] = appErr.ConflictID
		}
		c.JSON(appErr.Code, body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
