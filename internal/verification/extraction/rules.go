// Package extraction mines free-form OCR text for document fields using an
// ordered, data-driven pattern table, and merges the result with MRZ data.
package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"

	"docverify-workers/internal/common/validation"
)

// Field names, matching the JSON names of models.ExtractedDocument.
const (
	FieldDocumentType   = "documentType"
	FieldDocumentNumber = "documentNumber"
	FieldIssuingCountry = "issuingCountry"
	FieldFirstName      = "firstName"
	FieldLastName       = "lastName"
	FieldDateOfBirth    = "dateOfBirth"
	FieldNationality    = "nationality"
	FieldSex            = "sex"
	FieldIssueDate      = "issueDate"
	FieldExpiryDate     = "expiryDate"
	FieldPlaceOfBirth   = "placeOfBirth"
)

var ErrInvalidRuleTable = errors.New("invalid rule table")

// FieldRule lists the patterns tried, in order, for one field. The first
// capture group of the first matching pattern is the value.
type FieldRule struct {
	Field    string
	Patterns []*regexp.Regexp
	Date     bool
}

// RuleTable is evaluated rule by rule; each field is looked up independently.
type RuleTable []FieldRule

const datePattern = `(\d{4}[-/]\d{2}[-/]\d{2}|\d{1,2}[./-]\d{1,2}[./-]\d{4})`

var defaultRules = []ruleDef{
	{Field: FieldDocumentType, Patterns: []string{
		`(?i)\b(passport|identity card|residence permit|travel document)\b`,
	}},
	{Field: FieldDocumentNumber, Patterns: []string{
		`(?i)passport\s*(?:no\.?|number|#)\s*[:.]?\s*([A-Z0-9]{6,12})\b`,
		`(?i)document\s*(?:no\.?|number|#)\s*[:.]?\s*([A-Z0-9]{6,12})\b`,
		`(?i)card\s*(?:no\.?|number)\s*[:.]?\s*([A-Z0-9]{6,12})\b`,
	}},
	{Field: FieldIssuingCountry, Patterns: []string{
		`(?i)(?:issuing\s+(?:country|state|authority)|country\s+code)\s*[:.]?\s*([A-Z]{3})\b`,
	}},
	{Field: FieldFirstName, Patterns: []string{
		`(?i)(?:given\s+names?|first\s+name|forenames?)\s*[:.]?\s*([A-Z][A-Z' -]*)`,
	}},
	{Field: FieldLastName, Patterns: []string{
		`(?i)(?:surname|last\s+name|family\s+name)\s*[:.]?\s*([A-Z][A-Z' -]*)`,
	}},
	{Field: FieldDateOfBirth, Date: true, Patterns: []string{
		`(?i)(?:date\s+of\s+birth|birth\s*date|d\.o\.b\.?|dob)\s*[:.]?\s*` + datePattern,
	}},
	{Field: FieldNationality, Patterns: []string{
		`(?i)nationality\s*[:.]?\s*([A-Z]{3})\b`,
	}},
	{Field: FieldSex, Patterns: []string{
		`(?i)\b(?:sex|gender)\s*[:.]?\s*([MFX])\b`,
	}},
	{Field: FieldIssueDate, Date: true, Patterns: []string{
		`(?i)(?:date\s+of\s+issue|issue\s*date|issued(?:\s+on)?)\s*[:.]?\s*` + datePattern,
	}},
	{Field: FieldExpiryDate, Date: true, Patterns: []string{
		`(?i)(?:date\s+of\s+expiry|expiry\s*date|expiration\s*date|expires(?:\s+on)?|valid\s+until)\s*[:.]?\s*` + datePattern,
	}},
	{Field: FieldPlaceOfBirth, Patterns: []string{
		`(?i)place\s+of\s+birth\s*[:.]?\s*([A-Z][A-Z ,.'-]*)`,
	}},
}

var defaultTable = mustCompile(defaultRules)

// DefaultRuleTable returns the built-in English-label rules.
func DefaultRuleTable() RuleTable {
	return defaultTable
}

// ruleDef is the on-disk form of a FieldRule.
type ruleDef struct {
	Field    string   `json:"field"`
	Patterns []string `json:"patterns"`
	Date     bool     `json:"date,omitempty"`
}

type ruleFile struct {
	Version string    `json:"version"`
	Rules   []ruleDef `json:"rules"`
}

const ruleFileSchema = `{
	"type": "object",
	"required": ["rules"],
	"properties": {
		"version": {"type": "string"},
		"rules": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["field", "patterns"],
				"additionalProperties": false,
				"properties": {
					"field": {"enum": [
						"documentType", "documentNumber", "issuingCountry", "firstName", "lastName",
						"dateOfBirth", "nationality", "sex", "issueDate", "expiryDate", "placeOfBirth"
					]},
					"patterns": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
					"date": {"type": "boolean"}
				}
			}
		}
	}
}`

var ruleSchema = validation.MustSchema(ruleFileSchema)

// ParseRuleTable decodes and compiles a JSON rule document.
func ParseRuleTable(raw []byte) (RuleTable, error) {
	result, err := ruleSchema.ValidateJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRuleTable, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRuleTable, result.Error())
	}

	var file ruleFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRuleTable, err)
	}
	return compile(file.Rules)
}

// LoadRuleTable reads a rule document from disk.
func LoadRuleTable(path string) (RuleTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule table: %w", err)
	}
	return ParseRuleTable(raw)
}

func compile(defs []ruleDef) (RuleTable, error) {
	table := make(RuleTable, 0, len(defs))
	for _, def := range defs {
		rule := FieldRule{Field: def.Field, Date: def.Date}
		for _, p := range def.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("%w: field %s: %v", ErrInvalidRuleTable, def.Field, err)
			}
			rule.Patterns = append(rule.Patterns, re)
		}
		table = append(table, rule)
	}
	return table, nil
}

func mustCompile(defs []ruleDef) RuleTable {
	table, err := compile(defs)
	if err != nil {
		panic(err)
	}
	return table
}
