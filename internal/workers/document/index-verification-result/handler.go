// internal/workers/document/index-verification-result/handler.go
package indexverificationresult

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"docverify-workers/internal/common/camunda"
	"docverify-workers/internal/common/errors"
	"docverify-workers/internal/common/logger"
	"docverify-workers/internal/common/observability"
	"docverify-workers/internal/common/validation"
	"docverify-workers/internal/models"
)

const TaskType = "index-verification-result"

var ErrIndexFailed = stderrors.New("INDEX_FAILED")

// Indexer is satisfied by database.ElasticsearchClient.
type Indexer interface {
	IndexDocument(ctx context.Context, index, id string, doc interface{}) error
}

type Handler struct {
	config    *Config
	indexer   Indexer
	responder *camunda.Responder
	logger    logger.Logger
}

func NewHandler(config *Config, indexer Indexer, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		indexer:   indexer,
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
		run.Fail(errors.NewIndexFailedError(h.config.Index, err))
		return
	}
	run.Complete(output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	doc := buildSearchDocument(input, time.Now().UTC())

	if err := h.indexer.IndexDocument(ctx, h.config.Index, input.VerificationID, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexFailed, err)
	}

	h.logger.Info("verification indexed", map[string]interface{}{
		"verificationId": input.VerificationID,
		"index":          h.config.Index,
	})
	return &Output{Indexed: true, Index: h.config.Index}, nil
}

func buildSearchDocument(input *Input, now time.Time) SearchDocument {
	result := input.VerificationResult
	fields := result.ExtractedFields

	var failed []string
	for _, c := range result.ValidationChecks {
		if c.Status == models.StatusFail {
			failed = append(failed, c.Field)
		}
	}

	return SearchDocument{
		VerificationID:    input.VerificationID,
		ApplicationID:     input.ApplicationID,
		Decision:          input.Decision,
		OverallConfidence: result.OverallConfidence,
		Eligible:          result.Eligibility.Eligible,
		EligibilityReason: result.Eligibility.Reason,
		DocumentType:      fields.DocumentType.Value,
		DocumentNumber:    fields.DocumentNumber.Value,
		Nationality:       fields.Nationality.Value,
		FullName:          fields.FullName(),
		ExpiryDate:        fields.ExpiryDate.Value,
		MRZPresent:        fields.MRZData != nil,
		FailedChecks:      models.CountStatus(result.ValidationChecks, models.StatusFail),
		Warnings:          models.CountStatus(result.ValidationChecks, models.StatusWarning),
		FailedFields:      failed,
		Summary:           result.Summary,
		IndexedAt:         now.Format(time.RFC3339),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
