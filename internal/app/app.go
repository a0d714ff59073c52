package app

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/datium-labs/dspm-analyzer/internal/data/db"
	"github.com/datium-labs/dspm-analyzer/internal/http/handlers"
	"github.com/datium-labs/dspm-analyzer/internal/http/middleware"
	"github.com/datium-labs/dspm-analyzer/internal/platform/logger"
	"github.com/datium-labs/dspm-analyzer/internal/server"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	gdb := pg.DB()

	reposet := wireRepos(gdb, log)
	serviceset := wireServices(gdb, log, cfg, reposet)

	router := server.NewRouter(server.RouterConfig{
		ServiceName:    cfg.ServiceName,
		CollectorAuth:  middleware.CollectorAuth(cfg.CollectorJWTSecret, log),
		AssetHandler:   handlers.NewAssetHandler(log, serviceset.Analyzer, reposet.DataObjects),
		ProfileHandler: handlers.NewProfileHandler(log, reposet.Profiles),
		GuardHandler:   handlers.NewGuardHandler(log, reposet.Guards),
	})

	return &App{
		Log:      log,
		DB:       gdb,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(a.Cfg.HTTPAddr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Services.IngestBus != nil {
		_ = a.Services.IngestBus.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
