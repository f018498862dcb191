// internal/workers/document/send-verification-notification/handler.go
package sendverificationnotification

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"docverify-workers/internal/common/camunda"
	"docverify-workers/internal/common/errors"
	"docverify-workers/internal/common/logger"
	"docverify-workers/internal/common/observability"
	"docverify-workers/internal/common/validation"
	"docverify-workers/internal/models"
)

const TaskType = "send-verification-notification"

var ErrNotificationSendFailed = stderrors.New("NOTIFICATION_SEND_FAILED")

// EmailSender is satisfied by aws.SESClient.
type EmailSender interface {
	SendEmail(ctx context.Context, from, to, subject, body string) (string, error)
}

// SMSSender is satisfied by aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, senderID, message string) (string, error)
}

type Handler struct {
	config    *Config
	email     EmailSender
	sms       SMSSender
	responder *camunda.Responder
	logger    logger.Logger
}

func NewHandler(config *Config, email EmailSender, sms SMSSender, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		email:     email,
		sms:       sms,
		responder: camunda.NewResponder(TaskType, obs, log),
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	run := h.responder.Begin(client, job)

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		run.Fail(errors.NewParseError(err))
		return
	}
	if err := validation.ValidateInput(&input); err != nil {
		run.Fail(errors.NewInvalidInputError(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		var stdErr *errors.StandardError
		if stderrors.As(err, &stdErr) {
			run.Fail(stdErr)
			return
		}
		run.Fail(errors.NewNotificationSendFailedError(channelOf(&input), err))
		return
	}
	run.Complete(output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	channel := channelOf(input)
	notification := models.Notification{
		ID:             uuid.NewString(),
		VerificationID: input.VerificationID,
		RecipientType:  input.RecipientType,
		Type:           NotificationType,
		Channel:        channel,
		Status:         StatusDisabled,
		Payload: map[string]interface{}{
			"applicationId": input.ApplicationID,
			"decision":      input.Decision,
		},
		SentAt: time.Now().UTC().Format(time.RFC3339),
	}

	if !h.channelEnabled(channel) {
		h.logger.Info("notification channel disabled", map[string]interface{}{
			"channel":        channel,
			"verificationId": input.VerificationID,
		})
		return &Output{Notification: notification}, nil
	}

	msg, err := render(input.RecipientType, templateData{
		ApplicationID:     input.ApplicationID,
		VerificationID:    input.VerificationID,
		Decision:          input.Decision,
		OverallConfidence: input.VerificationResult.OverallConfidence,
		Summary:           input.VerificationResult.Summary,
		Actions:           input.VerificationResult.RecommendedActions,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: render: %v", ErrNotificationSendFailed, err)
	}

	var messageID string
	switch channel {
	case ChannelSMS:
		if input.RecipientPhone == "" {
			return nil, errors.NewInvalidInputError("recipientPhone is required for sms")
		}
		messageID, err = h.sms.SendSMS(ctx, input.RecipientPhone, h.config.SMSSenderID, msg.Body)
	default:
		to := h.emailRecipient(input)
		if to == "" {
			return nil, errors.NewInvalidInputError("no email recipient for " + input.RecipientType)
		}
		messageID, err = h.email.SendEmail(ctx, h.config.FromEmail, to, msg.Subject, msg.Body)
	}
	if err != nil {
		h.logger.Error("notification send failed", map[string]interface{}{
			"channel":        channel,
			"verificationId": input.VerificationID,
			"error":          err,
		})
		return nil, fmt.Errorf("%w: %v", ErrNotificationSendFailed, err)
	}

	notification.Status = StatusSent
	notification.SentAt = time.Now().UTC().Format(time.RFC3339)

	h.logger.Info("notification sent", map[string]interface{}{
		"channel":        channel,
		"recipientType":  input.RecipientType,
		"verificationId": input.VerificationID,
		"messageId":      messageID,
	})
	return &Output{Notification: notification, MessageID: messageID}, nil
}

func (h *Handler) channelEnabled(channel string) bool {
	if channel == ChannelSMS {
		return h.config.SMSEnabled && h.sms != nil
	}
	return h.config.EmailEnabled && h.email != nil
}

// emailRecipient prefers an explicit address; officers fall back to the
// configured case-officer mailbox.
func (h *Handler) emailRecipient(input *Input) string {
	if input.RecipientEmail != "" {
		return input.RecipientEmail
	}
	if input.RecipientType == RecipientOfficer {
		return h.config.OfficerEmail
	}
	return ""
}

func channelOf(input *Input) string {
	if input.Channel == "" {
		return ChannelEmail
	}
	return input.Channel
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
