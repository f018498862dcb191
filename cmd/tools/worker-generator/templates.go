// cmd/tools/worker-generator/templates.go
package main

const configTemplate = `// internal/workers/{{ .Category }}/{{ .TaskType }}/config.go
package {{ .PackageName }}

import (
	"time"

	"{{ .Module }}/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(appCfg, TaskType).Timeout),
	}
}
`

const modelsTemplate = `// internal/workers/{{ .Category }}/{{ .TaskType }}/models.go
package {{ .PackageName }}

type Input struct {
{{- range .Input }}
	{{ .Name }} {{ .Type }} ` + "`" + `json:"{{ .JSON }}{{ if not .Required }},omitempty{{ end }}"{{ if .Required }} validate:"required"{{ end }}` + "`" + `
{{- end }}
}

type Output struct {
{{- range .Output }}
	{{ .Name }} {{ .Type }} ` + "`" + `json:"{{ .JSON }}"` + "`" + `
{{- end }}
}
`

const handlerTemplate = `// internal/workers/{{ .Category }}/{{ .TaskType }}/handler.go
package {{ .PackageName }}

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"{{ .Module }}/internal/common/camunda"
	"{{ .Module }}/internal/common/errors"
	"{{ .Module }}/internal/common/logger"
	"{{ .Module }}/internal/common/observability"
	"{{ .Module }}/internal/common/validation"
)

const TaskType = "{{ .TaskType }}"

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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewTimeoutError(TaskType, err)
	}
	// TODO: implement {{ .DisplayName }}.
	return &Output{}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"{{ .Module }}/internal/common/logger"
	"{{ .Module }}/internal/common/validation"
)

func createTestConfig() *Config {
	return &Config{Timeout: time.Second}
}

func newHandler(t *testing.T) *Handler {
	return NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	output, err := newHandler(t).Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.NotNil(t, output)
}

func TestInput_Validation(t *testing.T) {
	err := validation.ValidateInput(&Input{})
{{- if .HasRequired }}
	assert.Error(t, err)
{{- else }}
	assert.NoError(t, err)
{{- end }}
}
`
