// internal/workers/document/send-verification-notification/config.go
package sendverificationnotification

import (
	"time"

	"docverify-workers/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	OfficerEmail string
	SMSSenderID  string
	AWSRegion    string
}

func LoadConfig(appCfg *config.Config) *Config {
	n := appCfg.Notifications
	return &Config{
		Timeout:      config.GetDuration(config.GetWorkerConfig(appCfg, TaskType).Timeout),
		EmailEnabled: n.Email.Enabled,
		SMSEnabled:   n.SMS.Enabled,
		FromEmail:    n.Email.FromEmail,
		OfficerEmail: n.Email.OfficerEmail,
		SMSSenderID:  n.SMS.SenderID,
		AWSRegion:    n.AWS.Region,
	}
}
