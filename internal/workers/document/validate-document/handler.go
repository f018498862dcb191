// internal/workers/document/validate-document/handler.go
package validatedocument

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"docverify-workers/internal/common/camunda"
	"docverify-workers/internal/common/errors"
	"docverify-workers/internal/common/logger"
	"docverify-workers/internal/common/observability"
	"docverify-workers/internal/common/validation"
	"docverify-workers/internal/models"
	"docverify-workers/internal/verification/dates"
	docvalidation "docverify-workers/internal/verification/validation"
)

const TaskType = "validate-document"

type Handler struct {
	config    *Config
	responder *camunda.Responder
	logger    logger.Logger
}

func NewHandler(config *Config, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	if config.Clock == nil {
		config.Clock = time.Now
	}
	return &Handler{
		config:    config,
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
		run.Fail(err)
		return
	}
	run.Complete(output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewTimeoutError(TaskType, err)
	}

	now := h.config.Clock()
	if input.ReferenceDate != "" {
		ref, err := dates.Parse(input.ReferenceDate)
		if err != nil {
			return nil, errors.NewInvalidInputError("referenceDate: " + err.Error())
		}
		now = ref
	}

	checks := docvalidation.Validate(input.ExtractedDocument, now)
	if checks == nil {
		checks = []models.ValidationCheck{}
	}
	output := &Output{
		ValidationChecks: checks,
		FailedChecks:     models.CountStatus(checks, models.StatusFail),
		Warnings:         models.CountStatus(checks, models.StatusWarning),
	}

	h.logger.Info("document validated", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"checks":        len(checks),
		"failedChecks":  output.FailedChecks,
		"warnings":      output.Warnings,
	})
	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
