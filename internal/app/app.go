package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/memo-backend/internal/data/db"
	"github.com/yungbote/memo-backend/internal/data/graph"
	"github.com/yungbote/memo-backend/internal/data/repos"
	"github.com/yungbote/memo-backend/internal/events/bus"
	apphttp "github.com/yungbote/memo-backend/internal/http"
	httpH "github.com/yungbote/memo-backend/internal/http/handlers"
	"github.com/yungbote/memo-backend/internal/modules/scheduling"
	"github.com/yungbote/memo-backend/internal/observability"
	"github.com/yungbote/memo-backend/internal/platform/logger"
	"github.com/yungbote/memo-backend/internal/platform/neo4jdb"
	"github.com/yungbote/memo-backend/internal/services"
)

type Services struct {
	Scheduling    scheduling.Usecases
	Competencies  services.CompetencyService
	Relationships services.RelationshipService
	Resources     services.LearningResourceService
	Users         services.UserService
	Links         services.ResourceLinkService
}

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *gorm.DB
	Repos    repos.Repos
	Bus      bus.Bus
	Services Services
	Server   *apphttp.Server

	dbService    *db.Service
	graph        *neo4jdb.Client
	projector    *graph.Projector
	otelShutdown func(context.Context) error
}

// New wires every dependency from cfg. Optional backends (redis, neo4j,
// tracing) are skipped when unconfigured.
func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a := &App{Log: log, Cfg: cfg}

	a.otelShutdown = observability.InitOTel(ctx, log, cfg.Otel)

	a.dbService, err = db.NewService(log, cfg.DB)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := a.dbService.AutoMigrateAll(); err != nil {
		a.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	a.DB = a.dbService.DB()
	a.Repos = repos.New(a.DB, log)

	if cfg.Redis.Addr != "" {
		a.Bus, err = bus.NewRedisBus(log, cfg.Redis)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init redis bus: %w", err)
		}
	} else {
		a.Bus = bus.NewInProcBus(log, cfg.EventBuffer)
	}

	a.graph, err = neo4jdb.New(log, cfg.Neo4j)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init neo4j: %w", err)
	}
	a.projector = graph.NewProjector(a.graph, a.Repos.Relationship, a.Repos.Competency, log)

	a.Services = Services{
		Scheduling: scheduling.New(scheduling.UsecasesDeps{
			DB:            a.DB,
			Log:           log,
			Competencies:  a.Repos.Competency,
			Relationships: a.Repos.Relationship,
			Votes:         a.Repos.Vote,
			Bus:           a.Bus,
			Config:        cfg.Scheduling,
		}),
		Competencies:  services.NewCompetencyService(a.DB, log, a.Repos, a.Bus),
		Relationships: services.NewRelationshipService(a.DB, log, a.Repos, a.Bus),
		Resources:     services.NewLearningResourceService(a.DB, log, a.Repos),
		Users:         services.NewUserService(a.DB, log, a.Repos),
		Links:         services.NewResourceLinkService(a.DB, log, a.Repos),
	}

	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	a.Server = apphttp.NewServer(apphttp.RouterConfig{
		Log:                 log,
		ServiceName:         serviceName,
		AllowedOrigins:      cfg.HTTP.AllowedOrigins,
		MetricsEnabled:      cfg.HTTP.MetricsEnabled,
		HealthHandler:       httpH.NewHealthHandler(a.DB),
		SchedulingHandler:   httpH.NewSchedulingHandler(a.Services.Scheduling),
		CompetencyHandler:   httpH.NewCompetencyHandler(a.Services.Competencies),
		RelationshipHandler: httpH.NewRelationshipHandler(a.Services.Relationships, a.Services.Scheduling),
		ResourceHandler:     httpH.NewLearningResourceHandler(a.Services.Resources),
		UserHandler:         httpH.NewUserHandler(a.Services.Users),
		LinkHandler:         httpH.NewResourceLinkHandler(a.Services.Links),
	})
	return a, nil
}

// Run serves HTTP and projects events until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	if a.projector.Enabled() {
		if err := a.projector.Start(gctx, a.Bus); err != nil {
			return fmt.Errorf("start graph projector: %w", err)
		}
		a.Log.Info("graph projector started")
	}
	g.Go(func() error {
		a.Log.Info("http server listening", "addr", a.Cfg.HTTP.Addr)
		return a.Server.Run(gctx, a.Cfg.HTTP.Addr)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			a.Log.Warn("close event bus", "error", err)
		}
	}
	if a.graph != nil {
		if err := a.graph.Close(ctx); err != nil {
			a.Log.Warn("close neo4j", "error", err)
		}
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("close db", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown", "error", err)
		}
	}
	a.Log.Sync()
}
