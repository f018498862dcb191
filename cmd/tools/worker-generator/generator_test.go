package main

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docverify-workers/pkg/registry"
)

func TestGenerate_FromRepositoryRegistry(t *testing.T) {
	reg, err := registry.LoadRegistry("../../../configs/activity-registry.json")
	require.NoError(t, err)
	activity, ok := reg.Find("decode-mrz")
	require.True(t, ok)

	dir := filepath.Join(t.TempDir(), "document", "decode-mrz")
	files, err := generate(dir, newWorkerData("docverify-workers", activity))
	require.NoError(t, err)
	assert.Len(t, files, 4)

	fset := token.NewFileSet()
	for _, f := range files {
		parsed, err := parser.ParseFile(fset, f, nil, 0)
		require.NoError(t, err, f)
		assert.Equal(t, "decodemrz", parsed.Name.Name)
	}

	models, err := os.ReadFile(filepath.Join(dir, "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(models), "ApplicationID string")
	assert.Contains(t, string(models), "MRZData")
	assert.Contains(t, string(models), `json:"mrzFound"`)

	handler, err := os.ReadFile(filepath.Join(dir, "handler.go"))
	require.NoError(t, err)
	assert.Contains(t, string(handler), `const TaskType = "decode-mrz"`)
	assert.Contains(t, string(handler), `"docverify-workers/internal/common/camunda"`)
}

func TestGenerate_RefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.go"), []byte("package x\n"), 0o644))

	_, err := generate(dir, WorkerData{Module: "docverify-workers", PackageName: "x", TaskType: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestFieldsFromSchema(t *testing.T) {
	fields := fieldsFromSchema(map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"verificationId"},
		"properties": map[string]interface{}{
			"verificationId": map[string]interface{}{"type": "string"},
			"attempts":       map[string]interface{}{"type": "integer"},
			"score":          map[string]interface{}{"type": "number"},
			"extra":          map[string]interface{}{},
		},
	})

	assert.Equal(t, []Field{
		{Name: "Attempts", JSON: "attempts", Type: "int"},
		{Name: "Extra", JSON: "extra", Type: "interface{}"},
		{Name: "Score", JSON: "score", Type: "float64"},
		{Name: "VerificationID", JSON: "verificationId", Type: "string", Required: true},
	}, fields)

	assert.Empty(t, fieldsFromSchema(nil))
}

func TestGoFieldName(t *testing.T) {
	for in, want := range map[string]string{
		"applicationId": "ApplicationID",
		"mrzData":       "MRZData",
		"ocrUrl":        "OcrURL",
		"rawText":       "RawText",
	} {
		assert.Equal(t, want, goFieldName(in))
	}
}
