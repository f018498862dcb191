package camunda

import (
	"context"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"docverify-workers/internal/common/logger"
	"docverify-workers/internal/common/observability"
)

func testJob(key int64) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: key, ProcessInstanceKey: 7, Type: "decode-mrz"}}
}

func observedLogger() (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.NewZapAdapter(zap.New(core)), logs
}

func TestResponder_BeginLogsTraceID(t *testing.T) {
	obs := observability.New("docverify-test", 1, logger.NewNoOpLogger())
	defer obs.Shutdown()
	log, logs := observedLogger()

	run := NewResponder("decode-mrz", obs, log).Begin(nil, testJob(42))
	defer run.finish(context.Background(), "completed")

	entries := logs.FilterMessage("job activated").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(42), fields["jobKey"])
	assert.Len(t, fields["traceId"], 32)
	assert.Equal(t, fields["traceId"], run.traceID)
}

func TestResponder_BeginWithoutObservability(t *testing.T) {
	log, logs := observedLogger()

	run := NewResponder("decode-mrz", nil, log).Begin(nil, testJob(43))
	defer run.finish(context.Background(), "completed")

	entries := logs.FilterMessage("job activated").All()
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].ContextMap(), "traceId")
	assert.Nil(t, run.span)
}
