// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docverify-workers/internal/common/database"
	"docverify-workers/internal/common/logger"
	"docverify-workers/internal/common/validation"
	"docverify-workers/internal/models"
	"docverify-workers/internal/verification/extraction"

	bvr "docverify-workers/internal/workers/document/build-verification-result"
	ce "docverify-workers/internal/workers/document/check-eligibility"
	dm "docverify-workers/internal/workers/document/decode-mrz"
	edf "docverify-workers/internal/workers/document/extract-document-fields"
	edt "docverify-workers/internal/workers/document/extract-document-text"
	ivr "docverify-workers/internal/workers/document/index-verification-result"
	svn "docverify-workers/internal/workers/document/send-verification-notification"
	svr "docverify-workers/internal/workers/document/store-verification-result"
	vd "docverify-workers/internal/workers/document/validate-document"
)

var (
	configsDir = filepath.Join("..", "..", "configs")
	today      = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
)

var passportText = strings.Join([]string{
	"UTOPIA PASSPORT",
	"Surname: ERIKSSON",
	"Given names: ANNA MARIA",
	"Place of birth: ZENITH",
	"Date of issue: 16/04/2020",
	"P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<",
	"L898902C36UTO7408122F3004157ZE184226B<<<<<14",
}, "\n")

// ==========================
// In-memory doubles
// ==========================

type fakeRecognizer struct {
	mu    sync.Mutex
	text  string
	calls int
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ []byte, _ string) (*edt.Recognition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return &edt.Recognition{Text: f.text, Confidence: 92}, nil
}

type memoryIndex struct {
	mu   sync.Mutex
	docs map[string]json.RawMessage
}

func (m *memoryIndex) IndexDocument(_ context.Context, index, id string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[index+"/"+id] = raw
	return nil
}

type sentEmail struct {
	from, to, subject, body string
}

type outbox struct {
	mu     sync.Mutex
	emails []sentEmail
}

func (o *outbox) SendEmail(_ context.Context, from, to, subject, body string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.emails = append(o.emails, sentEmail{from, to, subject, body})
	return "msg-" + to, nil
}

// ==========================
// Chain
// ==========================

type chain struct {
	text     *edt.Handler
	mrz      *dm.Handler
	fields   *edf.Handler
	validate *vd.Handler
	elig     *ce.Handler
	build    *bvr.Handler
	store    *svr.Handler
	index    *ivr.Handler
	notify   *svn.Handler

	recognizer *fakeRecognizer
	sqlMock    sqlmock.Sqlmock
	search     *memoryIndex
	mail       *outbox
}

func newChain(t *testing.T) *chain {
	t.Helper()
	log := logger.NewTestLogger(t)
	clock := func() time.Time { return today }

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rules, err := extraction.LoadRuleTable(filepath.Join(configsDir, "extraction-rules.json"))
	require.NoError(t, err)
	schema, err := validation.LoadSchemaFile(filepath.Join(configsDir, "eligibility-policy.schema.json"))
	require.NoError(t, err)

	c := &chain{
		recognizer: &fakeRecognizer{text: passportText},
		sqlMock:    sqlMock,
		search:     &memoryIndex{docs: map[string]json.RawMessage{}},
		mail:       &outbox{},
	}

	c.text = edt.NewHandler(&edt.Config{Timeout: time.Second, CacheTTL: time.Hour},
		c.recognizer, database.NewTextCache(rdb, time.Hour), nil, log)
	c.mrz = dm.NewHandler(&dm.Config{Timeout: time.Second}, nil, log)
	c.fields = edf.NewHandler(&edf.Config{Timeout: time.Second}, rules, nil, log)
	c.validate = vd.NewHandler(&vd.Config{Timeout: time.Second, Clock: clock}, nil, log)
	c.elig = ce.NewHandler(&ce.Config{Timeout: time.Second, Clock: clock}, schema, nil, log)
	c.build = bvr.NewHandler(&bvr.Config{Timeout: time.Second}, nil, log)
	c.store = svr.NewHandler(&svr.Config{Timeout: time.Second}, db, nil, log)
	c.index = ivr.NewHandler(&ivr.Config{Timeout: time.Second, Index: "document-verifications"}, c.search, nil, log)
	c.notify = svn.NewHandler(&svn.Config{
		Timeout:      time.Second,
		EmailEnabled: true,
		FromEmail:    "noreply@visas.example",
		OfficerEmail: "officers@visas.example",
	}, c.mail, nil, nil, log)

	return c
}

type caseInput struct {
	applicationID string
	applicant     models.ApplicantData
	policy        string
}

type caseResult struct {
	text   *edt.Output
	mrz    *dm.Output
	fields *edf.Output
	checks *vd.Output
	elig   *ce.Output
	built  *bvr.Output
}

// verify runs the extraction and decision stages the way the BPMN process
// passes variables between service tasks.
func (c *chain) verify(t *testing.T, in caseInput) caseResult {
	t.Helper()
	ctx := context.Background()
	var r caseResult
	var err error

	r.text, err = c.text.Execute(ctx, &edt.Input{
		ApplicationID: in.applicationID,
		DocumentImage: base64.StdEncoding.EncodeToString([]byte("scan of " + in.applicationID)),
		MimeType:      "image/png",
	})
	require.NoError(t, err)

	r.mrz, err = c.mrz.Execute(ctx, &dm.Input{ApplicationID: in.applicationID, RawText: r.text.RawText})
	require.NoError(t, err)

	r.fields, err = c.fields.Execute(ctx, &edf.Input{
		ApplicationID: in.applicationID,
		RawText:       r.text.RawText,
		MRZData:       r.mrz.MRZData,
	})
	require.NoError(t, err)

	r.checks, err = c.validate.Execute(ctx, &vd.Input{
		ApplicationID:     in.applicationID,
		ExtractedDocument: r.fields.ExtractedDocument,
	})
	require.NoError(t, err)

	r.elig, err = c.elig.Execute(ctx, &ce.Input{
		ApplicationID:     in.applicationID,
		ExtractedDocument: r.fields.ExtractedDocument,
		ApplicantData:     in.applicant,
		Policy:            json.RawMessage(in.policy),
	})
	require.NoError(t, err)

	r.built, err = c.build.Execute(ctx, &bvr.Input{
		ApplicationID:     in.applicationID,
		ExtractedDocument: r.fields.ExtractedDocument,
		ValidationChecks:  r.checks.ValidationChecks,
		Eligibility:       r.elig.Eligibility,
	})
	require.NoError(t, err)

	return r
}

// ==========================
// Scenarios
// ==========================

func TestDocumentVerification_Approved(t *testing.T) {
	c := newChain(t)
	ctx := context.Background()

	r := c.verify(t, caseInput{
		applicationID: "app-approve",
		applicant:     models.ApplicantData{PassportNumber: "L898902C3", VisaType: "tourist"},
		policy:        `{"minPassportValidity": 6, "minAge": 18}`,
	})

	assert.False(t, r.text.FromCache)
	assert.True(t, r.mrz.MRZFound)
	assert.Equal(t, "TD3", r.mrz.MRZLayout)
	assert.Equal(t, "L898902C3", r.fields.ExtractedDocument.DocumentNumber.Value)
	assert.Zero(t, r.checks.FailedChecks)
	assert.Zero(t, r.checks.Warnings)
	assert.True(t, r.elig.IsEligible)
	assert.Equal(t, "approve", r.built.Decision)
	assert.False(t, r.built.RequiresManualReview)
	assert.Equal(t, 95, r.built.VerificationResult.OverallConfidence)
	assert.Equal(t,
		"P verification for ANNA MARIA ERIKSSON (UTO): 0 failed checks, 0 warnings. Eligibility: eligible (Applicant meets all eligibility requirements).",
		r.built.VerificationResult.Summary)

	// Persist, index and notify.
	c.sqlMock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(r.built.VerificationID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	c.sqlMock.ExpectExec(`INSERT INTO document_verifications`).
		WithArgs(r.built.VerificationID, "app-approve", "P", "L898902C3", "approve", 95, true,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	c.sqlMock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(r.built.VerificationID, "verification_stored", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	stored, err := c.store.Execute(ctx, &svr.Input{
		ApplicationID:      "app-approve",
		VerificationID:     r.built.VerificationID,
		Decision:           r.built.Decision,
		VerificationResult: r.built.VerificationResult,
	})
	require.NoError(t, err)
	assert.True(t, stored.Stored)
	require.NoError(t, c.sqlMock.ExpectationsWereMet())

	indexed, err := c.index.Execute(ctx, &ivr.Input{
		ApplicationID:      "app-approve",
		VerificationID:     r.built.VerificationID,
		Decision:           r.built.Decision,
		VerificationResult: r.built.VerificationResult,
	})
	require.NoError(t, err)
	assert.True(t, indexed.Indexed)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(c.search.docs["document-verifications/"+r.built.VerificationID], &doc))
	assert.Equal(t, "approve", doc["decision"])
	assert.Equal(t, "UTO", doc["nationality"])
	assert.Equal(t, true, doc["mrzPresent"])

	notified, err := c.notify.Execute(ctx, &svn.Input{
		ApplicationID:      "app-approve",
		VerificationID:     r.built.VerificationID,
		Decision:           r.built.Decision,
		VerificationResult: r.built.VerificationResult,
		RecipientType:      svn.RecipientOfficer,
	})
	require.NoError(t, err)
	assert.Equal(t, svn.StatusSent, notified.Notification.Status)
	require.Len(t, c.mail.emails, 1)
	assert.Equal(t, "officers@visas.example", c.mail.emails[0].to)
	assert.Contains(t, c.mail.emails[0].body, "app-approve")
}

func TestDocumentVerification_RejectedForNationality(t *testing.T) {
	c := newChain(t)

	r := c.verify(t, caseInput{
		applicationID: "app-blocked",
		applicant:     models.ApplicantData{VisaType: "business"},
		policy:        `{"minPassportValidity": 6, "blockedNationalities": ["UTO"]}`,
	})

	assert.False(t, r.elig.IsEligible)
	assert.Equal(t, "Nationality UTO is not eligible for business visa", r.elig.Eligibility.Reason)
	assert.Equal(t, "reject", r.built.Decision)
	assert.Equal(t, []string{
		"REJECT: Applicant does not meet eligibility requirements",
		"- Nationality UTO is not eligible for business visa",
	}, r.built.VerificationResult.RecommendedActions)
}

func TestDocumentVerification_ResubmittedScanHitsCache(t *testing.T) {
	c := newChain(t)
	in := caseInput{applicationID: "app-cache", policy: `{"minPassportValidity": 6}`}

	first := c.verify(t, in)
	second := c.verify(t, in)

	assert.False(t, first.text.FromCache)
	assert.True(t, second.text.FromCache)
	assert.Equal(t, first.text.RawText, second.text.RawText)
	assert.Equal(t, first.text.TextConfidence, second.text.TextConfidence)
	assert.Equal(t, 1, c.recognizer.calls)
	assert.Equal(t, first.built.Decision, second.built.Decision)
}

func TestDocumentVerification_TextOnlyNeedsReview(t *testing.T) {
	c := newChain(t)
	c.recognizer.text = strings.Join([]string{
		"PASSPORT",
		"Passport No: L898902C3",
		"Surname: ERIKSSON",
		"Given names: ANNA MARIA",
		"Nationality: UTO",
		"Date of birth: 12/08/1974",
		"Date of expiry: 15/04/2030",
	}, "\n")

	r := c.verify(t, caseInput{applicationID: "app-text", policy: `{"minPassportValidity": 6}`})

	assert.False(t, r.mrz.MRZFound)
	assert.Nil(t, r.fields.ExtractedDocument.MRZData)
	assert.Zero(t, r.checks.FailedChecks)
	assert.True(t, r.elig.IsEligible)
	assert.Equal(t, 75, r.built.VerificationResult.OverallConfidence)
	assert.Equal(t, "manual_review", r.built.Decision)
	assert.True(t, r.built.RequiresManualReview)
}

func TestDocumentVerification_InvalidPolicy(t *testing.T) {
	c := newChain(t)
	ctx := context.Background()

	_, err := c.elig.Execute(ctx, &ce.Input{
		ApplicationID: "app-policy",
		Policy:        json.RawMessage(`{"minPassportValidity": 6, "minAge": 70, "maxAge": 18}`),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ce.ErrPolicyInvalid)
}
