// internal/workers/document/check-eligibility/policy.go
package checkeligibility

import (
	"encoding/json"
	"fmt"

	"docverify-workers/internal/common/validation"
	"docverify-workers/internal/models"
)

const policySchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "Visa eligibility policy",
	"type": "object",
	"additionalProperties": false,
	"required": ["minPassportValidity"],
	"properties": {
		"minPassportValidity": {"type": "integer", "minimum": 0},
		"allowedNationalities": {"type": "array", "items": {"type": "string", "pattern": "^[A-Z]{3}$"}},
		"blockedNationalities": {"type": "array", "items": {"type": "string", "pattern": "^[A-Z]{3}$"}},
		"minAge": {"type": "integer", "minimum": 0},
		"maxAge": {"type": "integer", "minimum": 0},
		"requireBiometric": {"type": "boolean"}
	}
}`

var defaultPolicySchema = validation.MustSchema(policySchema)

// decodePolicy checks raw against schema and decodes it. An absent policy
// decodes to the zero policy; a present one must carry minPassportValidity.
func decodePolicy(schema *validation.Schema, raw json.RawMessage) (models.EligibilityPolicy, error) {
	var policy models.EligibilityPolicy
	if len(raw) == 0 {
		return policy, nil
	}

	result, err := schema.ValidateJSON(raw)
	if err != nil {
		return policy, fmt.Errorf("%w: %v", ErrPolicyInvalid, err)
	}
	if !result.Valid {
		return policy, fmt.Errorf("%w: %s", ErrPolicyInvalid, result.Error())
	}

	if err := json.Unmarshal(raw, &policy); err != nil {
		return policy, fmt.Errorf("%w: %v", ErrPolicyInvalid, err)
	}
	if policy.MinAge != nil && policy.MaxAge != nil && *policy.MinAge > *policy.MaxAge {
		return policy, fmt.Errorf("%w: minAge %d exceeds maxAge %d", ErrPolicyInvalid, *policy.MinAge, *policy.MaxAge)
	}
	return policy, nil
}
