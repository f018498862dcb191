package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validActivity(id string) Activity {
	return Activity{
		ID:                   id,
		DisplayName:          "Decode MRZ",
		Category:             "document",
		TaskType:             id,
		ImplementationStatus: StatusCompleted,
	}
}

func TestLoadRegistry_Repository(t *testing.T) {
	reg, err := LoadRegistry("../../configs/activity-registry.json")
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	for _, taskType := range []string{
		"extract-document-text",
		"decode-mrz",
		"extract-document-fields",
		"validate-document",
		"check-eligibility",
		"build-verification-result",
		"store-verification-result",
		"index-verification-result",
		"send-verification-notification",
	} {
		activity, ok := reg.Find(taskType)
		require.True(t, ok, taskType)
		assert.Equal(t, taskType, activity.TaskType)
		assert.Contains(t, activity.ErrorCodes, "INVALID_INPUT", taskType)
	}
}

func TestAddAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	reg := &ActivityRegistry{Version: "1.0.0"}
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, reg.Add(validActivity("decode-mrz"), now))
	assert.Equal(t, "2025-03-10T12:00:00Z", reg.LastUpdated)
	assert.Error(t, reg.Add(validActivity("decode-mrz"), now))

	require.NoError(t, reg.Save(path))
	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, reg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *ActivityRegistry)
		wantErr string
	}{
		{name: "empty", mutate: func(r *ActivityRegistry) { r.Activities = nil }, wantErr: "no activities"},
		{name: "duplicate id", mutate: func(r *ActivityRegistry) {
			r.Activities = append(r.Activities, validActivity("decode-mrz"))
		}, wantErr: "duplicate activity ID"},
		{name: "shared task type", mutate: func(r *ActivityRegistry) {
			a := validActivity("decode-mrz-v2")
			a.TaskType = "decode-mrz"
			r.Activities = append(r.Activities, a)
		}, wantErr: "reuses task type"},
		{name: "missing category", mutate: func(r *ActivityRegistry) { r.Activities[0].Category = "" }, wantErr: "Category"},
		{name: "unknown status", mutate: func(r *ActivityRegistry) { r.Activities[0].ImplementationStatus = "done" }, wantErr: "implementation status"},
		{name: "broken schema", mutate: func(r *ActivityRegistry) {
			r.Activities[0].InputSchema = map[string]interface{}{"type": 42}
		}, wantErr: "inputSchema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: []Activity{validActivity("decode-mrz")}}
			tt.mutate(reg)
			err := reg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
