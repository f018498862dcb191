// cmd/tools/worker-generator/generator.go
package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"docverify-workers/pkg/registry"
)

// WorkerData holds data for templates
type WorkerData struct {
	Module      string
	PackageName string
	TaskType    string
	DisplayName string
	Category    string
	Input       []Field
	Output      []Field
	HasRequired bool
}

type Field struct {
	Name     string
	JSON     string
	Type     string
	Required bool
}

var templates = []struct {
	file string
	text string
}{
	{"config.go", configTemplate},
	{"models.go", modelsTemplate},
	{"handler.go", handlerTemplate},
	{"handler_test.go", testTemplate},
}

func newWorkerData(module string, activity *registry.Activity) WorkerData {
	data := WorkerData{
		Module:      module,
		PackageName: strings.ReplaceAll(activity.TaskType, "-", ""),
		TaskType:    activity.TaskType,
		DisplayName: activity.DisplayName,
		Category:    activity.Category,
		Input:       fieldsFromSchema(activity.InputSchema),
		Output:      fieldsFromSchema(activity.OutputSchema),
	}
	for _, f := range data.Input {
		if f.Required {
			data.HasRequired = true
		}
	}
	return data
}

// generate renders the scaffold into dir. Existing files are never overwritten.
func generate(dir string, data WorkerData) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	var written []string
	for _, t := range templates {
		path := filepath.Join(dir, t.file)
		if _, err := os.Stat(path); err == nil {
			return written, fmt.Errorf("%s already exists", path)
		}

		tmpl, err := template.New(t.file).Parse(t.text)
		if err != nil {
			return written, fmt.Errorf("parse template %s: %w", t.file, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return written, fmt.Errorf("render %s: %w", t.file, err)
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return written, fmt.Errorf("format %s: %w", t.file, err)
		}
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// fieldsFromSchema turns the properties of a JSON schema object into struct
// fields, sorted by JSON name.
func fieldsFromSchema(schema map[string]interface{}) []Field {
	props, _ := schema["properties"].(map[string]interface{})
	required := map[string]bool{}
	if list, ok := schema["required"].([]interface{}); ok {
		for _, r := range list {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		details, _ := props[name].(map[string]interface{})
		fields = append(fields, Field{
			Name:     goFieldName(name),
			JSON:     name,
			Type:     goTypeFromJSONType(details["type"]),
			Required: required[name],
		})
	}
	return fields
}

// goTypeFromJSONType maps JSON schema types to Go types
func goTypeFromJSONType(jsonType interface{}) string {
	switch jsonType {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

// goFieldName upper-cases the first letter and the common initialisms.
func goFieldName(name string) string {
	if name == "" {
		return name
	}
	name = strings.ToUpper(name[:1]) + name[1:]
	for _, suffix := range []string{"Id", "Url", "Mrz"} {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix) + strings.ToUpper(suffix)
		}
	}
	return strings.Replace(name, "Mrz", "MRZ", 1)
}
