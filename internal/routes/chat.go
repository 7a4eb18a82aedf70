package routes

import (
	"github.com/RympeR/blob-ai/internal/handlers"
	"github.com/RympeR/blob-ai/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterChatRoutes(r gin.IRouter) {
	chat := r.Group("/chat")
	chat.Use(middleware.AuthMiddleware())
	{
		chat.POST("/messages", handlers.SendMessage)
		chat.POST("/messages/page", handlers.PageMessages)
		chat.GET("/messages/:id", handlers.GetMessage)
		chat.PUT("/read", handlers.MarkRoomRead)
		chat.GET("/read/:id", handlers.GetRoomReadState)
		chat.GET("/unread", handlers.GetUnreadCount)
		chat.GET("/dialogs", handlers.ListDialogs)
	}
}
