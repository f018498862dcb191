// internal/workers/document/extract-document-fields/config.go
package extractdocumentfields

import (
	"time"

	"docverify-workers/internal/common/config"
	"docverify-workers/internal/verification/extraction"
)

type Config struct {
	Timeout   time.Duration
	RulesPath string
}

func LoadConfig(appCfg *config.Config) *Config {
	return &Config{
		Timeout:   config.GetDuration(config.GetWorkerConfig(appCfg, TaskType).Timeout),
		RulesPath: appCfg.Extraction.RulesPath,
	}
}

// LoadRules returns the configured rule table, or the built-in one when no
// file is configured.
func (c *Config) LoadRules() (extraction.RuleTable, error) {
	if c.RulesPath == "" {
		return extraction.DefaultRuleTable(), nil
	}
	return extraction.LoadRuleTable(c.RulesPath)
}
