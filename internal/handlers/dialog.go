package handlers

import (
	"net/http"
	"strconv"

	"github.com/RympeR/blob-ai/internal/services"
	"github.com/gin-gonic/gin"
)

// ListDialogs returns the current user's conversation list, newest
// activity first
func ListDialogs(c *gin.Context) {
	userId := c.MustGet("userId").(string)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "40"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	dialogs, err := services.ListDialogs(userId, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dialogs": dialogs})
}
