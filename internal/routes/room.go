package routes

import (
	"github.com/RympeR/blob-ai/internal/handlers"
	"github.com/RympeR/blob-ai/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterRoomRoutes(r gin.IRouter) {
	rooms := r.Group("/rooms")
	rooms.Use(middleware.AuthMiddleware())
	{
		rooms.POST("", handlers.CreateRoom)
		rooms.GET("/:id", handlers.GetRoom)
		rooms.GET("/:id/members", handlers.GetRoomMembers)
		rooms.PUT("/:id/invited", handlers.SetInvited)
	}
}
