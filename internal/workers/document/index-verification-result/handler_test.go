package indexverificationresult

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docverify-workers/internal/common/config"
	"docverify-workers/internal/common/database"
	"docverify-workers/internal/common/logger"
	"docverify-workers/internal/models"
)

const testVerificationID = "5b0f3d2e-8c1a-4c55-9a53-2f0d8e7b6c41"

// ==========================
// Test Helper Functions
// ==========================

func createTestInput() *Input {
	return &Input{
		ApplicationID:  "app-001",
		VerificationID: testVerificationID,
		Decision:       "reject",
		VerificationResult: models.VerificationResult{
			OverallConfidence: 95,
			ExtractedFields: models.ExtractedDocument{
				DocumentType:   models.NewField("P", 95),
				DocumentNumber: models.NewField("L898902C3", 95),
				FirstName:      models.NewField("ANNA MARIA", 95),
				LastName:       models.NewField("ERIKSSON", 95),
				Nationality:    models.NewField("UTO", 95),
				ExpiryDate:     models.NewField("2012-04-15", 95),
			},
			ValidationChecks: []models.ValidationCheck{
				{Field: "documentNumber", Status: models.StatusPass},
				{Field: "expiryDate", Status: models.StatusFail},
				{Field: "nationality", Status: models.StatusWarning},
			},
			Eligibility: models.EligibilityResult{Eligible: false, Reason: "Cannot verify applicant age", Confidence: 85},
			Summary:     "P verification for ANNA MARIA ERIKSSON (UTO)",
		},
	}
}

type capturedRequest struct {
	method string
	path   string
	body   SearchDocument
}

func newESServer(t *testing.T, status int, captured *capturedRequest) *database.ElasticsearchClient {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.method = r.Method
			captured.path = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&captured.body)
		}
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	}))
	t.Cleanup(srv.Close)

	es, err := database.NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es
}

func createTestConfig() *Config {
	return &Config{Timeout: time.Second, Index: "document-verifications"}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	var got capturedRequest
	es := newESServer(t, http.StatusCreated, &got)

	h := NewHandler(createTestConfig(), es, nil, logger.NewTestLogger(t))
	output, err := h.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.True(t, output.Indexed)
	assert.Equal(t, "document-verifications", output.Index)

	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/document-verifications/_doc/"+testVerificationID, got.path)
	assert.Equal(t, "reject", got.body.Decision)
	assert.Equal(t, "ANNA MARIA ERIKSSON", got.body.FullName)
	assert.Equal(t, []string{"expiryDate"}, got.body.FailedFields)
	assert.Equal(t, 1, got.body.FailedChecks)
	assert.Equal(t, 1, got.body.Warnings)
}

func TestBuildSearchDocument(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	doc := buildSearchDocument(createTestInput(), now)

	assert.Equal(t, "2025-03-10T12:00:00Z", doc.IndexedAt)
	assert.False(t, doc.Eligible)
	assert.Equal(t, "Cannot verify applicant age", doc.EligibilityReason)
	assert.False(t, doc.MRZPresent)
	assert.Equal(t, "UTO", doc.Nationality)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_IndexError(t *testing.T) {
	es := newESServer(t, http.StatusServiceUnavailable, nil)

	h := NewHandler(createTestConfig(), es, nil, logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), createTestInput())

	assert.ErrorIs(t, err, ErrIndexFailed)
}
