package app

import (
	"gorm.io/gorm"

	"github.com/datium-labs/dspm-analyzer/internal/data/repos"
	"github.com/datium-labs/dspm-analyzer/internal/platform/logger"
)

type Repos struct {
	DataObjects repos.DataObjectRepo
	Profiles    repos.ObjectProfileRepo
	Guards      repos.GuardRepo
}

func wireRepos(gdb *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		DataObjects: repos.NewDataObjectRepo(gdb, log),
		Profiles:    repos.NewObjectProfileRepo(gdb, log),
		Guards:      repos.NewGuardRepo(gdb, log),
	}
}
