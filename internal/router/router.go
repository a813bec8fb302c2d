package router

import (
	"github.com/gin-gonic/gin"

	"hr-onboarding/internal/handlers"
	"hr-onboarding/internal/middleware"
)

type Deps struct {
	Onboarding  *handlers.OnboardingHandler
	Offboarding *handlers.OffboardingHandler
	DB          handlers.Pinger

	UploadDir      string
	AllowedOrigins []string
	// JWTSecret enables the bearer gate on the record routes when set.
	JWTSecret string
}

func Setup(r *gin.Engine, d Deps) {
	r.Use(middleware.RequestLogger(), middleware.Recovery(), middleware.CORS(d.AllowedOrigins))

	// health
	r.GET("/api/health", handlers.Health(d.DB))

	var gate []gin.HandlerFunc
	if d.JWTSecret != "" {
		gate = append(gate, middleware.BearerAuth(d.JWTSecret))
	}

	r.Group("/uploads", gate...).Static("/", d.UploadDir)

	api := r.Group("/api", gate...)
	{
		oh := d.Onboarding
		api.POST("/employees", oh.Create)
		api.GET("/employees/active", oh.Active)
		api.GET("/onboarding", oh.List)
		api.GET("/onboarding/export", oh.Export)
		api.GET("/onboarding/:id", oh.Get)
		api.PATCH("/onboarding/:id", oh.UpdateStatus)
		api.GET("/onboarding/:id/file/:field", oh.File)
	}

	off := r.Group("", gate...)
	off.POST("/submit-offboarding", d.Offboarding.Submit)
	off.GET("/offboarding-records", d.Offboarding.List)
}
