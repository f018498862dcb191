// internal/workers/document/check-eligibility/handler.go
package checkeligibility

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"docverify-workers/internal/common/camunda"
	"docverify-workers/internal/common/errors"
	"docverify-workers/internal/common/logger"
	"docverify-workers/internal/common/observability"
	"docverify-workers/internal/common/validation"
	"docverify-workers/internal/verification/dates"
	"docverify-workers/internal/verification/eligibility"
)

const TaskType = "check-eligibility"

var ErrPolicyInvalid = stderrors.New("POLICY_INVALID")

type Handler struct {
	config    *Config
	schema    *validation.Schema
	responder *camunda.Responder
	logger    logger.Logger
}

// NewHandler uses schema to check policies; nil selects the built-in schema.
func NewHandler(config *Config, schema *validation.Schema, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	if schema == nil {
		schema = defaultPolicySchema
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	return &Handler{
		config:    config,
		schema:    schema,
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
		if stderrors.Is(err, ErrPolicyInvalid) {
			run.Fail(errors.NewPolicyInvalidError(err.Error()))
			return
		}
		run.Fail(err)
		return
	}
	run.Complete(output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	policy, err := decodePolicy(h.schema, input.Policy)
	if err != nil {
		return nil, err
	}
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

	result := eligibility.Evaluate(input.ExtractedDocument, input.ApplicantData, policy, now)

	h.logger.Info("eligibility evaluated", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"visaType":      input.ApplicantData.VisaType,
		"eligible":      result.Eligible,
	})

	return &Output{Eligibility: result, IsEligible: result.Eligible}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
