package app

import (
	"gorm.io/gorm"

	"github.com/datium-labs/dspm-analyzer/internal/events"
	"github.com/datium-labs/dspm-analyzer/internal/platform/logger"
	"github.com/datium-labs/dspm-analyzer/internal/services"
)

type Services struct {
	Analyzer  services.AnalyzerService
	IngestBus events.IngestBus // nil when Redis is not configured
}

func wireServices(gdb *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	var bus events.IngestBus
	if cfg.RedisAddr != "" {
		var err error
		bus, err = events.NewIngestBus(log)
		if err != nil {
			log.Warn("ingest event bus disabled", "error", err)
			bus = nil
		}
	}

	return Services{
		Analyzer:  services.NewAnalyzerService(gdb, log, r.DataObjects, r.Profiles, r.Guards, bus),
		IngestBus: bus,
	}
}
