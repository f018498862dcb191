// internal/workers/document/send-verification-notification/models.go
package sendverificationnotification

import "docverify-workers/internal/models"

const (
	RecipientOfficer   = "officer"
	RecipientApplicant = "applicant"

	ChannelEmail = "email"
	ChannelSMS   = "sms"

	StatusSent     = "sent"
	StatusDisabled = "disabled"

	NotificationType = "verification_completed"
)

type Input struct {
	ApplicationID      string                    `json:"applicationId" validate:"required"`
	VerificationID     string                    `json:"verificationId" validate:"required,uuid"`
	Decision           string                    `json:"decision" validate:"required,oneof=approve reject manual_review"`
	VerificationResult models.VerificationResult `json:"verificationResult"`
	RecipientType      string                    `json:"recipientType" validate:"required,oneof=officer applicant"`
	Channel            string                    `json:"channel" validate:"omitempty,oneof=email sms"`
	RecipientEmail     string                    `json:"recipientEmail,omitempty" validate:"omitempty,email"`
	RecipientPhone     string                    `json:"recipientPhone,omitempty" validate:"omitempty,e164"`
}

type Output struct {
	Notification models.Notification `json:"notification"`
	MessageID    string              `json:"messageId,omitempty"`
}
