// Package mrz decodes the machine-readable zone of TD3 passports and TD1
// identity cards.
package mrz

import (
	"strings"

	"docverify-workers/internal/models"
)

const (
	td3Length = 44
	td1Length = 30

	validConfidence   = 95
	invalidConfidence = 70
)

// Layout identifies a supported MRZ record layout.
type Layout string

const (
	LayoutTD3 Layout = "TD3"
	LayoutTD1 Layout = "TD1"
)

// DetectLayout picks the layout for the given lines, or "" when the shape
// is not supported.
func DetectLayout(lines []string) Layout {
	switch {
	case len(lines) == 2 && len(lines[0]) == td3Length && len(lines[1]) == td3Length:
		return LayoutTD3
	case len(lines) == 3 && len(lines[0]) == td1Length:
		return LayoutTD1
	default:
		return ""
	}
}

// Decode parses candidate MRZ lines. It returns nil when the lines do not
// form a supported layout; it never panics on malformed input.
func Decode(lines []string) *models.MRZData {
	switch DetectLayout(lines) {
	case LayoutTD3:
		return decodeTD3(lines[0], lines[1])
	case LayoutTD1:
		return decodeTD1(lines[0], pad(lines[1], td1Length), pad(lines[2], td1Length))
	default:
		return nil
	}
}

// raw holds the undecorated slices of a record before confidence is applied.
type raw struct {
	documentType   string
	issuingCountry string
	names          string
	documentNumber string
	docCheck       string
	nationality    string
	dateOfBirth    string
	dobCheck       string
	sex            string
	expiryDate     string
	expiryCheck    string
	personalNumber string
}

func decodeTD3(line1, line2 string) *models.MRZData {
	return build(raw{
		documentType:   line1[0:2],
		issuingCountry: line1[2:5],
		names:          line1[5:],
		documentNumber: line2[0:9],
		docCheck:       line2[9:10],
		nationality:    line2[10:13],
		dateOfBirth:    line2[13:19],
		dobCheck:       line2[19:20],
		sex:            line2[20:21],
		expiryDate:     line2[21:27],
		expiryCheck:    line2[27:28],
		personalNumber: line2[28:42],
	})
}

func decodeTD1(line1, line2, line3 string) *models.MRZData {
	return build(raw{
		documentType:   line1[0:2],
		issuingCountry: line1[2:5],
		documentNumber: line1[5:14],
		docCheck:       line1[14:15],
		dateOfBirth:    line2[0:6],
		dobCheck:       line2[6:7],
		sex:            line2[7:8],
		expiryDate:     line2[8:14],
		expiryCheck:    line2[14:15],
		nationality:    line2[15:18],
		names:          line3,
	})
}

func build(r raw) *models.MRZData {
	valid := ValidateCheckDigit(r.documentNumber, r.docCheck) &&
		ValidateCheckDigit(r.dateOfBirth, r.dobCheck) &&
		ValidateCheckDigit(r.expiryDate, r.expiryCheck)

	confidence := invalidConfidence
	if valid {
		confidence = validConfidence
	}
	field := func(v string) models.ExtractedField {
		return models.NewField(v, confidence)
	}

	lastName, firstName := splitNames(r.names)

	return &models.MRZData{
		DocumentType:   field(trimFill(r.documentType)),
		IssuingCountry: field(trimFill(r.issuingCountry)),
		LastName:       field(lastName),
		FirstName:      field(firstName),
		DocumentNumber: field(trimFill(r.documentNumber)),
		Nationality:    field(trimFill(r.nationality)),
		DateOfBirth:    field(NormalizeDate(r.dateOfBirth)),
		Sex:            field(trimFill(r.sex)),
		ExpiryDate:     field(NormalizeDate(r.expiryDate)),
		PersonalNumber: field(trimFill(r.personalNumber)),
		ChecksumValid:  valid,
	}
}

// splitNames separates surname and given names on the first "<<".
func splitNames(s string) (last, first string) {
	surname, given, _ := strings.Cut(s, "<<")
	return fillToSpace(surname), fillToSpace(given)
}

func fillToSpace(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "<", " "))
}

func trimFill(s string) string {
	return strings.Trim(s, "<")
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat("<", n-len(s))
}
