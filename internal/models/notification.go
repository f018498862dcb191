// internal/models/notification.go
package models

type Notification struct {
	ID             string                 `json:"id"`
	VerificationID string                 `json:"verificationId"`
	RecipientType  string                 `json:"recipientType"` // "officer" or "applicant"
	Type           string                 `json:"type"`          // "verification_completed"
	Channel        string                 `json:"channel"`       // "email", "sms"
	Status         string                 `json:"status"`        // "sent", "failed", "disabled"
	Payload        map[string]interface{} `json:"payload"`
	SentAt         string                 `json:"sentAt"`
}
