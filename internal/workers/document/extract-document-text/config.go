// internal/workers/document/extract-document-text/config.go
package extractdocumenttext

import (
	"time"

	"docverify-workers/internal/common/config"
)

type Config struct {
	Timeout       time.Duration
	OCRBaseURL    string
	OCRAPIKey     string
	OCRTimeout    time.Duration
	OCRMaxRetries int
	CacheTTL      time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	return &Config{
		Timeout:       config.GetDuration(config.GetWorkerConfig(appCfg, TaskType).Timeout),
		OCRBaseURL:    appCfg.OCR.BaseURL,
		OCRAPIKey:     appCfg.OCR.APIKey,
		OCRTimeout:    config.GetDuration(appCfg.OCR.Timeout),
		OCRMaxRetries: appCfg.OCR.MaxRetries,
		CacheTTL:      time.Duration(appCfg.OCR.CacheTTL) * time.Second,
	}
}
