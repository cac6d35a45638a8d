package http

import (
	"github.com/gin-gonic/gin"

	"github.com/faha1999/team-to-do-app-sub000/internal/adapter/http/handlers"
	"github.com/faha1999/team-to-do-app-sub000/internal/adapter/http/middleware"
)

func RegisterRoutes(r *gin.Engine, healthHandler *handlers.HealthHandler, editorHandler *handlers.TaskEditorHandler, jwtSecret string) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", healthHandler.CheckHealth)
		api.GET("/health/report", healthHandler.CheckHealthReport)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(jwtSecret))
	{
		authed.GET("/tasks/:id/editor", editorHandler.GetTaskEditor)
		authed.PUT("/tasks/:id", editorHandler.UpdateTask)
		authed.POST("/tasks/:id/attachments", editorHandler.UploadAttachments)
		authed.DELETE("/attachments/:id", editorHandler.RemoveAttachment)
		authed.POST("/tasks", editorHandler.CreateTask)
	}
}
