// internal/workers/document/decode-mrz/handler.go
package decodemrz

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"docverify-workers/internal/common/camunda"
	"docverify-workers/internal/common/errors"
	"docverify-workers/internal/common/logger"
	"docverify-workers/internal/common/metrics"
	"docverify-workers/internal/common/observability"
	"docverify-workers/internal/common/validation"
	"docverify-workers/internal/verification/mrz"
)

const TaskType = "decode-mrz"

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

// execute never fails on content: text without a usable MRZ yields mrzFound=false.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewTimeoutError(TaskType, err)
	}

	lines := mrz.SelectLines(input.RawText)
	layout := mrz.DetectLayout(lines)
	data := mrz.Decode(lines)

	if data == nil {
		metrics.MRZDecodes.WithLabelValues("none", "false").Inc()
		h.logger.Info("no machine-readable zone found", map[string]interface{}{
			"applicationId":  input.ApplicationID,
			"candidateLines": len(lines),
		})
		return &Output{MRZFound: false}, nil
	}

	metrics.MRZDecodes.WithLabelValues(string(layout), strconv.FormatBool(data.ChecksumValid)).Inc()
	h.logger.Info("machine-readable zone decoded", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"layout":        string(layout),
		"checksumValid": data.ChecksumValid,
	})

	return &Output{MRZFound: true, MRZLayout: string(layout), MRZData: data}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
