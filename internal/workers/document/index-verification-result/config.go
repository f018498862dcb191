// internal/workers/document/index-verification-result/config.go
package indexverificationresult

import (
	"time"

	"docverify-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	Index   string
}

func LoadConfig(appCfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(appCfg, TaskType).Timeout),
		Index:   appCfg.Database.Elasticsearch.VerificationIndex,
	}
}
