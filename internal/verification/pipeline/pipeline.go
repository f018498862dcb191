// Package pipeline runs the whole verification core in-process: MRZ decoding,
// free-text extraction, validation, eligibility and the final recommendation.
package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"docverify-workers/internal/models"
	"docverify-workers/internal/verification/eligibility"
	"docverify-workers/internal/verification/extraction"
	"docverify-workers/internal/verification/mrz"
	"docverify-workers/internal/verification/recommendation"
	"docverify-workers/internal/verification/validation"
)

var tracer = otel.Tracer("docverify-workers/pipeline")

type Request struct {
	RawText   string
	Applicant models.ApplicantData
	Policy    models.EligibilityPolicy
	// Rules defaults to extraction.DefaultRuleTable.
	Rules extraction.RuleTable
	// Now defaults to the current time.
	Now time.Time
}

// Extract builds the canonical document from raw OCR text.
func Extract(ctx context.Context, rawText string, rules extraction.RuleTable) models.ExtractedDocument {
	_, span := tracer.Start(ctx, "pipeline.extract")
	defer span.End()

	if rules == nil {
		rules = extraction.DefaultRuleTable()
	}

	mrzData := mrz.Decode(mrz.SelectLines(rawText))
	span.SetAttributes(attribute.Bool("mrz.found", mrzData != nil))

	return extraction.Merge(mrzData, extraction.Extract(rawText, rules))
}

// Verify runs the full core. Validation and eligibility are computed
// concurrently; only context cancellation is reported as an error.
func Verify(ctx context.Context, req Request) (*models.VerificationResult, error) {
	ctx, span := tracer.Start(ctx, "pipeline.verify")
	defer span.End()

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	doc := Extract(ctx, req.RawText, req.Rules)

	var (
		checks []models.ValidationCheck
		result models.EligibilityResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		checks = validation.Validate(doc, now)
		return gctx.Err()
	})
	g.Go(func() error {
		result = eligibility.Evaluate(doc, req.Applicant, req.Policy, now)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	verification := recommendation.Build(doc, checks, result)
	span.SetAttributes(
		attribute.Int("verification.confidence", verification.OverallConfidence),
		attribute.Bool("verification.eligible", result.Eligible),
	)
	return &verification, nil
}
