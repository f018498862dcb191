package decodemrz

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docverify-workers/internal/common/logger"
	"docverify-workers/internal/common/metrics"
)

const (
	td3Line1 = "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<"
	td3Line2 = "L898902C36UTO7408122F1204159ZE184226B<<<<<10"
)

func createTestConfig() *Config {
	return &Config{Timeout: time.Second}
}

func newHandler(t *testing.T) *Handler {
	return NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))
}

func TestHandler_Execute_TD3(t *testing.T) {
	before := testutil.ToFloat64(metrics.MRZDecodes.WithLabelValues("TD3", "true"))

	input := &Input{
		ApplicationID: "app-001",
		RawText:       "PASSPORT\nUtopia\n" + td3Line1 + "\n" + td3Line2 + "\n",
	}
	output, err := newHandler(t).Execute(context.Background(), input)

	require.NoError(t, err)
	assert.True(t, output.MRZFound)
	assert.Equal(t, "TD3", output.MRZLayout)
	require.NotNil(t, output.MRZData)
	assert.Equal(t, "L898902C3", output.MRZData.DocumentNumber.Value)
	assert.Equal(t, "ERIKSSON", output.MRZData.LastName.Value)
	assert.Equal(t, "1974-08-12", output.MRZData.DateOfBirth.Value)
	assert.True(t, output.MRZData.ChecksumValid)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.MRZDecodes.WithLabelValues("TD3", "true")))
}

func TestHandler_Execute_NoMRZ(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"free text only", "Surname: ERIKSSON\nGiven names: ANNA"},
		{"single line", td3Line1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := newHandler(t).Execute(context.Background(), &Input{ApplicationID: "a", RawText: tt.text})
			require.NoError(t, err)
			assert.False(t, output.MRZFound)
			assert.Nil(t, output.MRZData)
			assert.Empty(t, output.MRZLayout)
		})
	}
}

func TestHandler_Execute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newHandler(t).Execute(ctx, &Input{ApplicationID: "a"})
	assert.Error(t, err)
}
