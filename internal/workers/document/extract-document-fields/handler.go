// internal/workers/document/extract-document-fields/handler.go
package extractdocumentfields

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"docverify-workers/internal/common/camunda"
	"docverify-workers/internal/common/errors"
	"docverify-workers/internal/common/logger"
	"docverify-workers/internal/common/observability"
	"docverify-workers/internal/common/validation"
	"docverify-workers/internal/models"
	"docverify-workers/internal/verification/extraction"
)

const TaskType = "extract-document-fields"

var ErrRuleTableInvalid = stderrors.New("RULE_TABLE_INVALID")

type Handler struct {
	config    *Config
	rules     extraction.RuleTable
	responder *camunda.Responder
	logger    logger.Logger
}

func NewHandler(config *Config, rules extraction.RuleTable, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	if rules == nil {
		rules = extraction.DefaultRuleTable()
	}
	return &Handler{
		config:    config,
		rules:     rules,
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
		if stderrors.Is(err, ErrRuleTableInvalid) {
			run.Fail(errors.NewRuleTableInvalidError(err.Error()))
			return
		}
		run.Fail(err)
		return
	}
	run.Complete(output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	rules := h.rules
	if len(input.RuleTable) > 0 {
		override, err := extraction.ParseRuleTable(input.RuleTable)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRuleTableInvalid, err)
		}
		rules = override
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewTimeoutError(TaskType, err)
	}

	fields := extraction.Extract(input.RawText, rules)
	doc := extraction.Merge(input.MRZData, fields)
	found := countPopulated(doc)

	h.logger.Info("document fields extracted", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"textFields":    len(fields),
		"fieldsFound":   found,
		"mrzMerged":     input.MRZData != nil,
	})

	return &Output{ExtractedDocument: doc, FieldsFound: found}, nil
}

func countPopulated(doc models.ExtractedDocument) int {
	n := 0
	for _, f := range []models.ExtractedField{
		doc.DocumentType, doc.DocumentNumber, doc.IssuingCountry,
		doc.FirstName, doc.LastName, doc.DateOfBirth, doc.Nationality,
		doc.Sex, doc.IssueDate, doc.ExpiryDate,
	} {
		if !f.IsEmpty() {
			n++
		}
	}
	if doc.PlaceOfBirth != nil {
		n++
	}
	return n
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
