// internal/workers/document/validate-document/config.go
package validatedocument

import (
	"time"

	"docverify-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// Clock is overridden in tests.
	Clock func() time.Time
}

func LoadConfig(appCfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(appCfg, TaskType).Timeout),
		Clock:   time.Now,
	}
}
