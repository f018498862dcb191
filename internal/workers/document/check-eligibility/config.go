// internal/workers/document/check-eligibility/config.go
package checkeligibility

import (
	"time"

	"docverify-workers/internal/common/config"
	"docverify-workers/internal/common/validation"
)

type Config struct {
	Timeout          time.Duration
	PolicySchemaPath string
	Clock            func() time.Time
}

func LoadConfig(appCfg *config.Config) *Config {
	return &Config{
		Timeout:          config.GetDuration(config.GetWorkerConfig(appCfg, TaskType).Timeout),
		PolicySchemaPath: appCfg.Eligibility.PolicySchemaPath,
		Clock:            time.Now,
	}
}

// LoadPolicySchema compiles the configured schema file, falling back to
// the built-in policy schema.
func (c *Config) LoadPolicySchema() (*validation.Schema, error) {
	if c.PolicySchemaPath == "" {
		return defaultPolicySchema, nil
	}
	return validation.LoadSchemaFile(c.PolicySchemaPath)
}
