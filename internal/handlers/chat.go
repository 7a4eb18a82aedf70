package handlers

import (
	"net/http"

	"github.com/RympeR/blob-ai/internal/config"
	"github.com/RympeR/blob-ai/internal/models"
	"github.com/RympeR/blob-ai/internal/services"
	"github.com/gin-gonic/gin"
)

type messageResponse struct {
	ID          string                      `json:"id"`
	RoomID      string                      `json:"room_id"`
	User        models.PublicProfile        `json:"user"`
	Text        string                      `json:"text"`
	Attachments []models.ResolvedAttachment `json:"attachments"`
	Date        int64                       `json:"date"`
	Read        bool                        `json:"readed"`
}

func projectMessage(msg *models.Message, read bool) messageResponse {
	return messageResponse{
		ID:          msg.ID,
		RoomID:      msg.RoomID,
		User:        msg.Author.Profile(),
		Text:        msg.Text,
		Attachments: services.ResolveAttachments(config.AppConfig.PublicBaseURL, msg.Attachments),
		Date:        msg.CreatedAt.Unix(),
		Read:        read,
	}
}

// SendMessage appends a message to a room and fans out delivery records
func SendMessage(c *gin.Context) {
	userId := c.MustGet("userId").(string)

	var req struct {
		RoomID      string   `json:"roomId" binding:"required"`
		Text        string   `json:"text"`
		Attachments []string `json:"attachments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	msg, err := services.AppendMessage(req.RoomID, userId, req.Text, req.Attachments)
	if err != nil {
		respondError(c, err)
		return
	}

	payload := projectMessage(msg, false)

	// Real-time push to the other members, after the commit
	if members, err := services.MemberIDs(req.RoomID); err == nil {
		for _, member := range members {
			if member != userId {
				EmitToUser(member, "receive_message", gin.H{"message": payload})
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": payload})
}

// PageMessages returns one keyset page of a room's messages, newest first
func PageMessages(c *gin.Context) {
	userId := c.MustGet("userId").(string)

	var req struct {
		RoomID          string `json:"room_id" binding:"required"`
		BeforeMessageID string `json:"message_id"`
		Limit           int    `json:"limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	views, err := services.PageMessages(req.RoomID, userId, req.BeforeMessageID, req.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]messageResponse, 0, len(views))
	for i := range views {
		results = append(results, projectMessage(&views[i].Message, views[i].Read))
	}

	c.JSON(http.StatusOK, results)
}

// GetMessage returns a single message
func GetMessage(c *gin.Context) {
	msg, err := services.GetMessage(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": projectMessage(msg, false)})
}

// MarkRoomRead acknowledges every unread message of the current user in a room
func MarkRoomRead(c *gin.Context) {
	userId := c.MustGet("userId").(string)

	var req struct {
		RoomID string `json:"room_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	marked, err := services.MarkRoomRead(req.RoomID, userId)
	if err != nil {
		respondError(c, err)
		return
	}

	// Let the other members update their "seen" checkmarks
	if marked > 0 {
		if members, err := services.MemberIDs(req.RoomID); err == nil {
			for _, member := range members {
				if member != userId {
					EmitToUser(member, "room_read", gin.H{
						"roomId": req.RoomID,
						"userId": userId,
					})
				}
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"markedRead": marked})
}

// GetUnreadCount returns the user's total unread message count
func GetUnreadCount(c *gin.Context) {
	userId := c.MustGet("userId").(string)

	count, err := services.UnreadCount(userId)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"newMessagesCount": count})
}

// GetRoomReadState reports whether the current user has read everything in
// the room
func GetRoomReadState(c *gin.Context) {
	userId := c.MustGet("userId").(string)

	fullyRead, err := services.IsRoomFullyRead(c.Param("id"), userId)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fullyRead": fullyRead})
}
