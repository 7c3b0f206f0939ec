package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/memo-backend/internal/http/handlers"
	httpMW "github.com/yungbote/memo-backend/internal/http/middleware"
	"github.com/yungbote/memo-backend/internal/observability"
	"github.com/yungbote/memo-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	MetricsEnabled bool

	HealthHandler       *httpH.HealthHandler
	SchedulingHandler   *httpH.SchedulingHandler
	CompetencyHandler   *httpH.CompetencyHandler
	RelationshipHandler *httpH.RelationshipHandler
	ResourceHandler     *httpH.LearningResourceHandler
	UserHandler         *httpH.UserHandler
	LinkHandler         *httpH.ResourceLinkHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics())
	r.Use(httpMW.CORS(cfg.AllowedOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(observability.Handler()))
	}

	api := r.Group("/api")

	// Scheduling
	if cfg.SchedulingHandler != nil {
		sched := api.Group("/scheduling", httpMW.RequireUser())
		sched.GET("/next-relationship", cfg.SchedulingHandler.GetNextRelationship)
		sched.POST("/vote", cfg.SchedulingHandler.SubmitVote)
	}

	// Competencies
	if cfg.CompetencyHandler != nil {
		api.POST("/competencies", cfg.CompetencyHandler.Create)
		api.GET("/competencies/random", cfg.CompetencyHandler.Random)
		api.GET("/competencies/:id", cfg.CompetencyHandler.Get)
		api.PATCH("/competencies/:id", cfg.CompetencyHandler.Update)
		api.DELETE("/competencies/:id", cfg.CompetencyHandler.Delete)
	}

	// Relationships
	if cfg.RelationshipHandler != nil {
		api.POST("/competency-relationships", httpMW.RequireUser(), cfg.RelationshipHandler.Create)
		api.GET("/competency-relationships/:id", cfg.RelationshipHandler.Get)
		api.DELETE("/competency-relationships/:id", cfg.RelationshipHandler.Delete)
	}

	// Learning resources
	if cfg.ResourceHandler != nil {
		api.POST("/learning-resources", cfg.ResourceHandler.Create)
		api.GET("/learning-resources/by-url", cfg.ResourceHandler.GetByURL)
		api.GET("/learning-resources/random", cfg.ResourceHandler.Random)
		api.GET("/learning-resources/:id", cfg.ResourceHandler.Get)
		api.PUT("/learning-resources/:id", cfg.ResourceHandler.Update)
		api.PATCH("/learning-resources/:id", cfg.ResourceHandler.Update)
		api.DELETE("/learning-resources/:id", cfg.ResourceHandler.Delete)
	}

	// Users
	if cfg.UserHandler != nil {
		api.POST("/users", cfg.UserHandler.Create)
		api.GET("/users/by-email", cfg.UserHandler.GetByEmail)
		api.GET("/users/:id", cfg.UserHandler.Get)
		api.PUT("/users/:id", cfg.UserHandler.Update)
		api.PATCH("/users/:id", cfg.UserHandler.Update)
		api.DELETE("/users/:id", cfg.UserHandler.Delete)
	}

	// Competency resource links
	if cfg.LinkHandler != nil {
		api.POST("/competency-resource-links", httpMW.RequireUser(), cfg.LinkHandler.Create)
		api.GET("/competency-resource-links/:id", cfg.LinkHandler.Get)
		api.DELETE("/competency-resource-links/:id", cfg.LinkHandler.Delete)
	}

	return r
}
