package routes

import (
	"github.com/RympeR/blob-ai/internal/handlers"
	"github.com/RympeR/blob-ai/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterUploadRoutes(r gin.IRouter) {
	uploads := r.Group("/uploads")
	uploads.Use(middleware.AuthMiddleware())
	{
		uploads.POST("", handlers.UploadAttachment)
	}
}
