package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"docverify-workers/internal/common/logger"
)

func TestStartSpan_PropagatesTraceID(t *testing.T) {
	obs := New("docverify-test", 1, logger.NewNoOpLogger())
	defer obs.Shutdown()

	assert.Empty(t, TraceID(context.Background()))

	ctx, span := obs.StartSpan(context.Background(), "decode-mrz")
	defer span.End()

	assert.Len(t, TraceID(ctx), 32)
	assert.NotPanics(t, func() {
		obs.RecordJob(ctx, "decode-mrz", "completed", 15*time.Millisecond)
	})
}
