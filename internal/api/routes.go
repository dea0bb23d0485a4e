package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"magicResume/internal/aiconfig"
	"magicResume/internal/api/middleware"
	"magicResume/internal/auth"
	"magicResume/internal/directory"
	"magicResume/internal/notify"
	"magicResume/internal/resume"
	"magicResume/internal/syncdir"
)

// Services 汇总路由需要的全部依赖。AuthService、RateCounter 可以为 nil。
type Services struct {
	AIConfig              *aiconfig.Store
	Resume                *resume.Store
	Gateway               *directory.Gateway
	Exporter              *syncdir.Exporter
	Hub                   *notify.Hub
	AuthService           *auth.AuthService
	RateCounter           rateCounter
	LoginRateLimitPerHour int
	AllowedRoot           string
	AllowedOrigins        []string
	Logger                *slog.Logger
}

// RegisterRoutes 注册 /v1 下的 API 路由。
func RegisterRoutes(router *gin.Engine, svc Services) {
	authHandler := NewAuthHandler(svc.AuthService, svc.RateCounter, svc.LoginRateLimitPerHour)
	wsHandler := NewWsHandler(svc.Hub, svc.AuthService, svc.Logger, svc.AllowedOrigins)
	aiHandler := NewAIConfigHandler(svc.AIConfig)
	resumeHandler := NewResumeHandler(svc.Resume)
	dirHandler := NewDirectoryHandler(svc.Gateway, svc.Exporter, svc.Hub, svc.AllowedRoot)
	authMiddleware := middleware.AuthMiddleware(svc.AuthService)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)
		v1.POST("/auth/login", authHandler.Login)

		aiGroup := v1.Group("/ai-config")
		aiGroup.Use(authMiddleware)
		{
			aiGroup.GET("", aiHandler.Get)
			aiGroup.PUT("/doubao/api-key", aiHandler.SetDoubaoAPIKey)
			aiGroup.PUT("/doubao/model-id", aiHandler.SetDoubaoModelID)
			aiGroup.PUT("/deepseek/api-key", aiHandler.SetDeepseekAPIKey)
			aiGroup.PUT("/deepseek/model-id", aiHandler.SetDeepseekModelID)
			aiGroup.PUT("/current", aiHandler.SetCurrent)
		}

		resumeGroup := v1.Group("/resume")
		resumeGroup.Use(authMiddleware)
		{
			resumeGroup.GET("", resumeHandler.GetResume)
			resumeGroup.PATCH("/basic", resumeHandler.UpdateBasicInfo)
			resumeGroup.PUT("/education", resumeHandler.UpdateEducation)
			resumeGroup.DELETE("/education/:id", resumeHandler.DeleteEducation)
			resumeGroup.PUT("/experience", resumeHandler.UpdateExperience)
			resumeGroup.DELETE("/experience/:id", resumeHandler.DeleteExperience)
			resumeGroup.PUT("/projects", resumeHandler.UpdateProject)
			resumeGroup.DELETE("/projects/:id", resumeHandler.DeleteProject)
			resumeGroup.PUT("/sections", resumeHandler.UpdateMenuSections)
			resumeGroup.PUT("/sections/order", resumeHandler.ReorderSections)
			resumeGroup.POST("/sections/:id/toggle", resumeHandler.ToggleSectionVisibility)
			resumeGroup.PUT("/active-section", resumeHandler.SetActiveSection)
			resumeGroup.POST("/custom/:section", resumeHandler.AddCustomData)
			resumeGroup.PUT("/custom/:section", resumeHandler.UpdateCustomData)
			resumeGroup.DELETE("/custom/:section", resumeHandler.RemoveCustomData)
			resumeGroup.POST("/custom/:section/items", resumeHandler.AddCustomItem)
			resumeGroup.PATCH("/custom/:section/items/:item", resumeHandler.UpdateCustomItem)
			resumeGroup.DELETE("/custom/:section/items/:item", resumeHandler.RemoveCustomItem)
			resumeGroup.POST("/theme/toggle", resumeHandler.ToggleTheme)
			resumeGroup.PATCH("/global-settings", resumeHandler.UpdateGlobalSettings)
			resumeGroup.PUT("/color-theme", resumeHandler.SetColorTheme)
			resumeGroup.PUT("/dragging-project", resumeHandler.SetDraggingProject)
		}

		dirGroup := v1.Group("/sync-directory")
		dirGroup.Use(authMiddleware)
		{
			dirGroup.GET("", dirHandler.GetBinding)
			dirGroup.POST("", dirHandler.SelectDirectory)
			dirGroup.DELETE("", dirHandler.ClearBinding)
			dirGroup.POST("/export", dirHandler.Export)
			dirGroup.POST("/import", dirHandler.Import)
		}
	}
}
