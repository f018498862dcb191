// internal/workers/document/build-verification-result/handler.go
package buildverificationresult

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"docverify-workers/internal/common/camunda"
	"docverify-workers/internal/common/errors"
	"docverify-workers/internal/common/logger"
	"docverify-workers/internal/common/metrics"
	"docverify-workers/internal/common/observability"
	"docverify-workers/internal/common/validation"
	"docverify-workers/internal/verification/recommendation"
)

const TaskType = "build-verification-result"

type Handler struct {
	config    *Config
	responder *camunda.Responder
	logger    logger.Logger
}

func NewHandler(config *Config, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
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

	result := recommendation.Build(input.ExtractedDocument, input.ValidationChecks, input.Eligibility)
	decision := recommendation.DecisionFor(result.RecommendedActions)

	metrics.VerificationDecisions.WithLabelValues(string(decision)).Inc()
	metrics.OverallConfidence.Observe(float64(result.OverallConfidence))

	output := &Output{
		VerificationID:       uuid.NewString(),
		VerificationResult:   result,
		Decision:             string(decision),
		RequiresManualReview: decision == recommendation.DecisionManualReview,
		CompletedAt:          time.Now().UTC().Format(time.RFC3339),
	}

	h.logger.Info("verification result built", map[string]interface{}{
		"applicationId":     input.ApplicationID,
		"verificationId":    output.VerificationID,
		"decision":          output.Decision,
		"overallConfidence": result.OverallConfidence,
	})
	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
