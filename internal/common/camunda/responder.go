package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"docverify-workers/internal/common/errors"
	"docverify-workers/internal/common/logger"
	"docverify-workers/internal/common/metrics"
	"docverify-workers/internal/common/observability"
)

const commandTimeout = 10 * time.Second

// Responder reports job outcomes back to the broker and records job metrics.
// Every worker owns one, scoped to its task type.
type Responder struct {
	taskType     string
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
}

// NewResponder builds a responder. obs may be nil.
func NewResponder(taskType string, obs *observability.Observability, log logger.Logger) *Responder {
	return &Responder{
		taskType:     taskType,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
		obs:          obs,
	}
}

// Run tracks a single activated job until it is completed or failed.
type Run struct {
	r       *Responder
	client  worker.JobClient
	job     entities.Job
	start   time.Time
	span    trace.Span
	traceID string
}

// Begin marks job as active.
func (r *Responder) Begin(client worker.JobClient, job entities.Job) *Run {
	metrics.WorkerJobsActive.WithLabelValues(r.taskType).Inc()
	run := &Run{r: r, client: client, job: job, start: time.Now()}
	if r.obs != nil {
		var ctx context.Context
		ctx, run.span = r.obs.StartSpan(context.Background(), r.taskType,
			attribute.Int64("job.key", job.Key),
			attribute.Int64("process.instance.key", job.ProcessInstanceKey),
		)
		run.traceID = observability.TraceID(ctx)
	}
	r.logger.Debug("job activated", run.fields(nil))
	return run
}

// Complete sends the output variables and completes the job.
func (run *Run) Complete(output interface{}) {
	r := run.r
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	cmd, err := run.client.NewCompleteJobCommand().
		JobKey(run.job.Key).
		VariablesFromObject(output)
	if err != nil {
		run.Fail(errors.NewParseError(err))
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		r.logger.Error("failed to send complete command", run.fields(map[string]interface{}{"error": err}))
		run.finish(ctx, "send_failed")
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	run.finish(ctx, "completed")
	r.logger.Info("job completed", run.fields(map[string]interface{}{
		"durationMs": time.Since(run.start).Milliseconds(),
	}))
}

// fields adds the job key, and the trace id when the job is traced, to extra.
func (run *Run) fields(extra map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{"jobKey": run.job.Key}
	if run.traceID != "" {
		out["traceId"] = run.traceID
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Fail hands err to the error handler, which retries or throws a BPMN error.
func (run *Run) Fail(err error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	stdErr := run.r.errorHandler.HandleJobError(ctx, run.client, run.job, err)
	metrics.WorkerJobsFailed.WithLabelValues(run.r.taskType, string(stdErr.Code)).Inc()
	if run.span != nil {
		run.span.RecordError(err)
		run.span.SetStatus(codes.Error, string(stdErr.Code))
	}
	run.finish(ctx, "failed")
}

func (run *Run) finish(ctx context.Context, status string) {
	elapsed := time.Since(run.start)
	metrics.WorkerJobsActive.WithLabelValues(run.r.taskType).Dec()
	metrics.WorkerJobDuration.WithLabelValues(run.r.taskType).Observe(elapsed.Seconds())
	if run.r.obs != nil {
		run.r.obs.RecordJob(ctx, run.r.taskType, status, elapsed)
	}
	if run.span != nil {
		run.span.SetAttributes(attribute.String("job.status", status))
		run.span.End()
	}
}
