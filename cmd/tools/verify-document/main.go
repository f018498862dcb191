// cmd/tools/verify-document/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"docverify-workers/internal/common/validation"
	"docverify-workers/internal/models"
	"docverify-workers/internal/verification/extraction"
	"docverify-workers/internal/verification/pipeline"
)

type options struct {
	textPath      string
	applicantPath string
	policyPath    string
	schemaPath    string
	rulesPath     string
	date          string
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "verify-document: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("verify-document", flag.ContinueOnError)
	var opts options
	fs.StringVar(&opts.textPath, "text", "-", "OCR text file, - for stdin")
	fs.StringVar(&opts.applicantPath, "applicant", "", "Applicant data JSON file")
	fs.StringVar(&opts.policyPath, "policy", "", "Eligibility policy JSON file")
	fs.StringVar(&opts.schemaPath, "schema", "", "Policy JSON schema used to check -policy")
	fs.StringVar(&opts.rulesPath, "rules", "", "Extraction rule table (default: built-in)")
	fs.StringVar(&opts.date, "date", "", "Reference date YYYY-MM-DD (default: today)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req, err := buildRequest(opts, stdin)
	if err != nil {
		return err
	}

	result, err := pipeline.Verify(context.Background(), req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func buildRequest(opts options, stdin io.Reader) (pipeline.Request, error) {
	var req pipeline.Request

	text, err := readText(opts.textPath, stdin)
	if err != nil {
		return req, err
	}
	req.RawText = text

	if opts.applicantPath != "" {
		if err := readJSON(opts.applicantPath, &req.Applicant); err != nil {
			return req, fmt.Errorf("applicant: %w", err)
		}
	}

	if opts.policyPath != "" {
		policy, err := loadPolicy(opts.policyPath, opts.schemaPath)
		if err != nil {
			return req, err
		}
		req.Policy = policy
	}

	if opts.rulesPath != "" {
		rules, err := extraction.LoadRuleTable(opts.rulesPath)
		if err != nil {
			return req, fmt.Errorf("rules: %w", err)
		}
		req.Rules = rules
	}

	if opts.date != "" {
		now, err := time.Parse("2006-01-02", opts.date)
		if err != nil {
			return req, fmt.Errorf("invalid -date %q: %w", opts.date, err)
		}
		req.Now = now
	}

	return req, nil
}

func loadPolicy(path, schemaPath string) (models.EligibilityPolicy, error) {
	var policy models.EligibilityPolicy

	raw, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("policy: %w", err)
	}

	if schemaPath != "" {
		schema, err := validation.LoadSchemaFile(schemaPath)
		if err != nil {
			return policy, fmt.Errorf("policy schema: %w", err)
		}
		result, err := schema.ValidateJSON(raw)
		if err != nil {
			return policy, fmt.Errorf("policy: %w", err)
		}
		if !result.Valid {
			return policy, fmt.Errorf("policy: %s", result.Error())
		}
	}

	if err := json.Unmarshal(raw, &policy); err != nil {
		return policy, fmt.Errorf("policy: %w", err)
	}
	return policy, nil
}

func readText(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("text: %w", err)
	}
	return string(data), nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
