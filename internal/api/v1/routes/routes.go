package routes

import (
	"github.com/gin-gonic/gin"

	"box-skill-whisper/internal/api/v1/handlers"
	"box-skill-whisper/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	SkillService services.SkillService
}

// RegisterWebhook registers the skill invocation endpoint at the router root,
// where Box posts events.
func RegisterWebhook(router gin.IRoutes, container *ServiceContainer) {
	skillHandler := handlers.NewSkillHandler(container.SkillService)
	router.POST("/webhook", skillHandler.Webhook)
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	skillHandler := handlers.NewSkillHandler(container.SkillService)
	runs := router.Group("/runs")
	{
		runs.GET("/:file_id", skillHandler.GetRun)
	}
}
