// internal/workers/document/store-verification-result/handler.go
package storeverificationresult

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/lib/pq"

	"docverify-workers/internal/common/camunda"
	"docverify-workers/internal/common/errors"
	"docverify-workers/internal/common/logger"
	"docverify-workers/internal/common/observability"
	"docverify-workers/internal/common/validation"
)

const (
	TaskType = "store-verification-result"

	uniqueViolation = "23505"
)

var (
	ErrDatabaseInsertFailed  = stderrors.New("DATABASE_INSERT_FAILED")
	ErrDuplicateVerification = stderrors.New("DUPLICATE_VERIFICATION")
)

type Handler struct {
	config    *Config
	db        *sql.DB
	responder *camunda.Responder
	logger    logger.Logger
}

func NewHandler(config *Config, db *sql.DB, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		db:        db,
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
		switch {
		case stderrors.Is(err, ErrDuplicateVerification):
			run.Fail(errors.NewDuplicateVerificationError(input.VerificationID))
		default:
			run.Fail(errors.NewDatabaseInsertFailedError(err))
		}
		return
	}
	run.Complete(output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	var exists bool
	err := h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM document_verifications WHERE verification_id = $1
		)`, input.VerificationID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrDatabaseInsertFailed, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: verification %s already stored", ErrDuplicateVerification, input.VerificationID)
	}

	result := input.VerificationResult
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal result: %v", ErrDatabaseInsertFailed, err)
	}

	storedAt := time.Now().UTC()
	_, err = h.db.ExecContext(ctx, `
		INSERT INTO document_verifications (
			verification_id, application_id, document_type, document_number,
			decision, overall_confidence, is_eligible, result, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		input.VerificationID,
		input.ApplicationID,
		result.ExtractedFields.DocumentType.Value,
		result.ExtractedFields.DocumentNumber.Value,
		input.Decision,
		result.OverallConfidence,
		result.Eligibility.Eligible,
		resultJSON,
		storedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateVerification, pqErr.Message)
		}
		return nil, fmt.Errorf("%w: insert failed: %v", ErrDatabaseInsertFailed, err)
	}

	// The audit entry is best effort; the verification row is authoritative.
	auditJSON, err := json.Marshal(map[string]interface{}{
		"applicationId":     input.ApplicationID,
		"decision":          input.Decision,
		"overallConfidence": result.OverallConfidence,
		"eligible":          result.Eligibility.Eligible,
	})
	if err != nil {
		auditJSON = []byte("{}")
	}
	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (verification_id, action, details, created_at)
		VALUES ($1, $2, $3, $4)`,
		input.VerificationID,
		"verification_stored",
		auditJSON,
		storedAt,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":          err,
			"verificationId": input.VerificationID,
		})
	}

	h.logger.Info("verification stored", map[string]interface{}{
		"applicationId":  input.ApplicationID,
		"verificationId": input.VerificationID,
		"decision":       input.Decision,
	})

	return &Output{Stored: true, StoredAt: storedAt.Format(time.RFC3339)}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
