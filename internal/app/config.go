package app

import (
	"github.com/datium-labs/dspm-analyzer/internal/platform/envutil"
	"github.com/datium-labs/dspm-analyzer/internal/platform/logger"
)

type Config struct {
	ServiceName        string
	Environment        string
	HTTPAddr           string
	CollectorJWTSecret string
	RedisAddr          string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		ServiceName:        envutil.GetEnv("SERVICE_NAME", "dspm-analyzer", log),
		Environment:        envutil.GetEnv("ENVIRONMENT", "development", log),
		HTTPAddr:           ":" + envutil.GetEnv("PORT", "8080", log),
		CollectorJWTSecret: envutil.GetEnv("COLLECTOR_JWT_SECRET", "", log),
		RedisAddr:          envutil.GetEnv("REDIS_ADDR", "", log),
	}
}
