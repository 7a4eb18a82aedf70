package handlers

import (
	"net/http"

	"github.com/RympeR/blob-ai/internal/config"
	"github.com/RympeR/blob-ai/internal/database"
	"github.com/RympeR/blob-ai/internal/models"
	"github.com/RympeR/blob-ai/internal/services"
	"github.com/gin-gonic/gin"
)

type roomResponse struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Logo      string                 `json:"logo"`
	IsDirect  bool                   `json:"isDirect"`
	Creator   models.PublicProfile   `json:"creator"`
	Invited   []models.PublicProfile `json:"invited"`
	CreatedAt int64                  `json:"date"`
}

func projectRoom(room *models.Room) roomResponse {
	invited := make([]models.PublicProfile, 0, len(room.Invited))
	for _, u := range room.Invited {
		invited = append(invited, u.Profile())
	}
	return roomResponse{
		ID:        room.ID,
		Name:      room.Name,
		Logo:      services.RoomLogoURL(config.AppConfig.PublicBaseURL, room),
		IsDirect:  room.IsDirect(),
		Creator:   room.Creator.Profile(),
		Invited:   invited,
		CreatedAt: room.CreatedAt.Unix(),
	}
}

// CreateRoom creates a conversation room for the current user
func CreateRoom(c *gin.Context) {
	userId := c.MustGet("userId").(string)

	var req struct {
		Invited []string `json:"invited"`
		Name    string   `json:"name"`
		Logo    string   `json:"logo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	room, err := services.CreateRoom(userId, req.Invited, req.Name, req.Logo)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": projectRoom(room)})
}

// GetRoom returns one room with its membership
func GetRoom(c *gin.Context) {
	room, err := services.GetRoom(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": projectRoom(room)})
}

// GetRoomMembers returns the room's members plus every other user the
// requester could still invite
func GetRoomMembers(c *gin.Context) {
	userId := c.MustGet("userId").(string)

	room, err := services.GetRoom(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	members := make([]models.PublicProfile, 0, len(room.Invited)+1)
	for _, u := range room.Invited {
		members = append(members, u.Profile())
	}
	members = append(members, room.Creator.Profile())

	var others []models.User
	if err := database.DB.Where("id <> ?", userId).Find(&others).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	all := make([]models.PublicProfile, 0, len(others))
	for _, u := range others {
		all = append(all, u.Profile())
	}

	c.JSON(http.StatusOK, gin.H{
		"invited": members,
		"all":     all,
	})
}

// SetInvited replaces the room's invited set (creator only)
func SetInvited(c *gin.Context) {
	userId := c.MustGet("userId").(string)

	var req struct {
		Invited []string `json:"invited"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	room, err := services.SetInvited(c.Param("id"), req.Invited, userId)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": projectRoom(room)})
}
