package validatedocument

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docverify-workers/internal/common/errors"
	"docverify-workers/internal/common/logger"
	"docverify-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: time.Second,
		Clock:   func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) },
	}
}

func createTestInput() *Input {
	return &Input{
		ApplicationID: "app-001",
		ExtractedDocument: models.ExtractedDocument{
			DocumentNumber: models.NewField("L898902C3", 95),
			FirstName:      models.NewField("ANNA MARIA", 95),
			LastName:       models.NewField("ERIKSSON", 95),
			DateOfBirth:    models.NewField("1974-08-12", 95),
			Nationality:    models.NewField("UTO", 95),
			ExpiryDate:     models.NewField("2030-04-15", 95),
		},
	}
}

func newHandler(t *testing.T) *Handler {
	return NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_AllPass(t *testing.T) {
	output, err := newHandler(t).Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	require.Len(t, output.ValidationChecks, 5)
	assert.Equal(t, "documentNumber", output.ValidationChecks[0].Field)
	assert.Equal(t, "nationality", output.ValidationChecks[4].Field)
	assert.Zero(t, output.FailedChecks)
	assert.Zero(t, output.Warnings)
}

func TestHandler_Execute_ExpiredDocument(t *testing.T) {
	input := createTestInput()
	input.ExtractedDocument.ExpiryDate = models.NewField("2012-04-15", 95)

	output, err := newHandler(t).Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 1, output.FailedChecks)
	assert.Equal(t, models.StatusFail, output.ValidationChecks[1].Status)
	assert.Equal(t, "Document expired on 2012-04-15", output.ValidationChecks[1].Message)
}

func TestHandler_Execute_ReferenceDate(t *testing.T) {
	input := createTestInput()
	input.ExtractedDocument.ExpiryDate = models.NewField("2012-04-15", 95)
	input.ReferenceDate = "2011-01-01"

	output, err := newHandler(t).Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Zero(t, output.FailedChecks)
}

func TestHandler_Execute_EmptyDocument(t *testing.T) {
	output, err := newHandler(t).Execute(context.Background(), &Input{ApplicationID: "app-001"})
	require.NoError(t, err)

	assert.NotNil(t, output.ValidationChecks)
	assert.Empty(t, output.ValidationChecks)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_BadReferenceDate(t *testing.T) {
	input := createTestInput()
	input.ReferenceDate = "01.01.2011"

	_, err := newHandler(t).Execute(context.Background(), input)

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeInvalidInput, stdErr.Code)
}
