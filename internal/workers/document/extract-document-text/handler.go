// internal/workers/document/extract-document-text/handler.go
package extractdocumenttext

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"docverify-workers/internal/common/camunda"
	"docverify-workers/internal/common/errors"
	"docverify-workers/internal/common/logger"
	"docverify-workers/internal/common/metrics"
	"docverify-workers/internal/common/observability"
	"docverify-workers/internal/common/validation"
)

const (
	TaskType = "extract-document-text"

	defaultMimeType = "image/jpeg"
)

var (
	ErrOCRFailed  = stderrors.New("OCR_FAILED")
	ErrOCRTimeout = stderrors.New("OCR_TIMEOUT")
)

// TextCache is satisfied by database.TextCache.
type TextCache interface {
	Get(ctx context.Context, digest string) (string, bool, error)
	Set(ctx context.Context, digest, text string) error
}

type Handler struct {
	config     *Config
	recognizer TextRecognizer
	cache      TextCache
	responder  *camunda.Responder
	logger     logger.Logger
}

// NewHandler wires the worker. cache may be nil to disable caching.
func NewHandler(config *Config, recognizer TextRecognizer, cache TextCache, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		recognizer: recognizer,
		cache:      cache,
		responder:  camunda.NewResponder(TaskType, obs, log),
		logger:     log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	run := h.responder.Begin(client, job)

	input, err := parseInput(job)
	if err != nil {
		run.Fail(err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, input)
	if err != nil {
		run.Fail(toStandardError(err))
		return
	}
	run.Complete(output)
}

func parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewParseError(err)
	}
	if err := validation.ValidateInput(&input); err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	image, err := base64.StdEncoding.DecodeString(input.DocumentImage)
	if err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("documentImage: %v", err))
	}
	digest := imageDigest(image)

	if rec, ok := h.lookup(ctx, digest); ok {
		return &Output{RawText: rec.Text, TextConfidence: rec.Confidence, FromCache: true}, nil
	}

	mimeType := input.MimeType
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	rec, err := h.recognizer.Recognize(ctx, image, mimeType)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrOCRTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrOCRFailed, err)
	}

	h.store(ctx, digest, rec)

	h.logger.Info("document text extracted", map[string]interface{}{
		"applicationId":  input.ApplicationID,
		"textLength":     len(rec.Text),
		"textConfidence": rec.Confidence,
	})

	return &Output{RawText: rec.Text, TextConfidence: rec.Confidence}, nil
}

// lookup consults the cache; cache errors are logged and treated as a miss.
func (h *Handler) lookup(ctx context.Context, digest string) (*Recognition, bool) {
	if h.cache == nil {
		return nil, false
	}
	raw, found, err := h.cache.Get(ctx, digest)
	if err == nil && found {
		var entry cacheEntry
		if err = json.Unmarshal([]byte(raw), &entry); err == nil {
			metrics.OCRCacheLookups.WithLabelValues("hit").Inc()
			return &Recognition{Text: entry.Text, Confidence: entry.Confidence}, true
		}
	}
	if err != nil {
		metrics.OCRCacheLookups.WithLabelValues("error").Inc()
		h.logger.Warn("ocr cache lookup failed", map[string]interface{}{"error": err})
		return nil, false
	}
	metrics.OCRCacheLookups.WithLabelValues("miss").Inc()
	return nil, false
}

func (h *Handler) store(ctx context.Context, digest string, rec *Recognition) {
	if h.cache == nil || h.config.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(cacheEntry{Text: rec.Text, Confidence: rec.Confidence})
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, digest, string(raw)); err != nil {
		h.logger.Warn("ocr cache write failed", map[string]interface{}{"error": err})
	}
}

func imageDigest(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}

func toStandardError(err error) error {
	var stdErr *errors.StandardError
	switch {
	case stderrors.As(err, &stdErr):
		return stdErr
	case stderrors.Is(err, ErrOCRTimeout):
		return errors.NewOCRTimeoutError()
	default:
		return errors.NewOCRFailedError(err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
