// Package validation runs the per-field and MRZ consistency checks over an
// extracted document. Checks are emitted in a fixed order that downstream
// consumers rely on.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"time"
	"unicode/utf8"

	"docverify-workers/internal/models"
	"docverify-workers/internal/verification/dates"
)

const (
	// Check field names.
	CheckDocumentNumber      = "documentNumber"
	CheckExpiryDate          = "expiryDate"
	CheckDateOfBirth         = "dateOfBirth"
	CheckName                = "name"
	CheckNationality         = "nationality"
	CheckMRZChecksum         = "mrzChecksum"
	CheckDocumentNumberMatch = "documentNumberMatch"
	CheckNameMatch           = "nameMatch"

	unparseableDateConfidence = 50
	expiryWarningMonths       = 6
	maxPlausibleAge           = 120
	nameMatchThreshold        = 0.8
)

var (
	documentNumberPattern = regexp.MustCompile(`^[A-Z0-9]{6,12}$`)
	nationalityPattern    = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Validate returns the ordered checks for doc as of now. It never fails:
// unparseable values become failing checks.
func Validate(doc models.ExtractedDocument, now time.Time) []models.ValidationCheck {
	today := dates.Truncate(now)
	var checks []models.ValidationCheck

	if f := doc.DocumentNumber; !f.IsEmpty() {
		checks = append(checks, checkDocumentNumber(f))
	}
	if f := doc.ExpiryDate; !f.IsEmpty() {
		checks = append(checks, checkExpiry(f, today)...)
	}
	if f := doc.DateOfBirth; !f.IsEmpty() {
		checks = append(checks, checkDateOfBirth(f, today))
	}
	if !doc.FirstName.IsEmpty() && !doc.LastName.IsEmpty() {
		checks = append(checks, checkName(doc.FirstName, doc.LastName))
	}
	if f := doc.Nationality; !f.IsEmpty() {
		checks = append(checks, checkNationality(f))
	}
	if doc.MRZData != nil {
		checks = append(checks, checkMRZ(doc, doc.MRZData)...)
	}

	return checks
}

func checkDocumentNumber(f models.ExtractedField) models.ValidationCheck {
	if documentNumberPattern.MatchString(f.Value) {
		return check(CheckDocumentNumber, models.StatusPass, "Document number format is valid", f.Confidence)
	}
	return check(CheckDocumentNumber, models.StatusFail, "Document number format is invalid", f.Confidence)
}

func checkExpiry(f models.ExtractedField, today time.Time) []models.ValidationCheck {
	expiry, err := dates.Parse(f.Value)
	if err != nil {
		return []models.ValidationCheck{
			check(CheckExpiryDate, models.StatusFail, "Invalid expiry date format", unparseableDateConfidence),
		}
	}
	if expiry.Before(today) {
		return []models.ValidationCheck{
			check(CheckExpiryDate, models.StatusFail, "Document expired on "+f.Value, f.Confidence),
		}
	}

	checks := []models.ValidationCheck{
		check(CheckExpiryDate, models.StatusPass, "Document is valid until "+f.Value, f.Confidence),
	}
	if months := dates.MonthsBetween(today, expiry); months < expiryWarningMonths {
		checks = append(checks, check(CheckExpiryDate, models.StatusWarning,
			fmt.Sprintf("Document expires in %d months", months), f.Confidence))
	}
	return checks
}

func checkDateOfBirth(f models.ExtractedField, today time.Time) models.ValidationCheck {
	dob, err := dates.Parse(f.Value)
	if err != nil {
		return check(CheckDateOfBirth, models.StatusFail, "Invalid date of birth format", unparseableDateConfidence)
	}
	age := dates.AgeAt(dob, today)
	if age < 0 || age > maxPlausibleAge {
		return check(CheckDateOfBirth, models.StatusFail, fmt.Sprintf("Implausible age: %d years", age), f.Confidence)
	}
	return check(CheckDateOfBirth, models.StatusPass, fmt.Sprintf("Applicant age: %d years", age), f.Confidence)
}

func checkName(first, last models.ExtractedField) models.ValidationCheck {
	confidence := min(first.Confidence, last.Confidence)
	if utf8.RuneCountInString(first.Value) > 1 && utf8.RuneCountInString(last.Value) > 1 {
		return check(CheckName, models.StatusPass, "Name fields are present and valid", confidence)
	}
	return check(CheckName, models.StatusWarning, "Name fields appear incomplete", confidence)
}

func checkNationality(f models.ExtractedField) models.ValidationCheck {
	if nationalityPattern.MatchString(f.Value) {
		return check(CheckNationality, models.StatusPass, "Nationality code is valid", f.Confidence)
	}
	return check(CheckNationality, models.StatusWarning, "Nationality code format is unusual: "+f.Value, f.Confidence)
}

func checkMRZ(doc models.ExtractedDocument, mrz *models.MRZData) []models.ValidationCheck {
	var checks []models.ValidationCheck

	if mrz.ChecksumValid {
		checks = append(checks, check(CheckMRZChecksum, models.StatusPass, "MRZ checksums are valid", 95))
	} else {
		checks = append(checks, check(CheckMRZChecksum, models.StatusFail, "MRZ checksum validation failed", 60))
	}

	if !doc.DocumentNumber.IsEmpty() && !mrz.DocumentNumber.IsEmpty() {
		if doc.DocumentNumber.Value == mrz.DocumentNumber.Value {
			checks = append(checks, check(CheckDocumentNumberMatch, models.StatusPass, "Document number matches MRZ", 90))
		} else {
			checks = append(checks, check(CheckDocumentNumberMatch, models.StatusFail,
				fmt.Sprintf("Document number %s does not match MRZ %s", doc.DocumentNumber.Value, mrz.DocumentNumber.Value), 90))
		}
	}

	if !doc.LastName.IsEmpty() && !mrz.LastName.IsEmpty() {
		sim := Similarity(doc.LastName.Value, mrz.LastName.Value)
		confidence := int(math.Round(sim * 100))
		if sim > nameMatchThreshold {
			checks = append(checks, check(CheckNameMatch, models.StatusPass, "Name matches MRZ", confidence))
		} else {
			checks = append(checks, check(CheckNameMatch, models.StatusWarning,
				fmt.Sprintf("Name differs from MRZ (similarity %d%%)", confidence), confidence))
		}
	}

	return checks
}

func check(field string, status models.CheckStatus, message string, confidence int) models.ValidationCheck {
	return models.ValidationCheck{Field: field, Status: status, Message: message, Confidence: confidence}
}
