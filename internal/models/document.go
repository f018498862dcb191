// internal/models/document.go
package models

// ExtractedField is a single recognised value with its extraction confidence (0-100).
// A field with an empty value always carries confidence 0.
type ExtractedField struct {
	Value      string `json:"value"`
	Confidence int    `json:"confidence"`
}

// NewField builds an ExtractedField, forcing confidence 0 for empty values.
func NewField(value string, confidence int) ExtractedField {
	if value == "" {
		return ExtractedField{}
	}
	return ExtractedField{Value: value, Confidence: confidence}
}

func (f ExtractedField) IsEmpty() bool {
	return f.Value == ""
}

// MRZData is one decoded machine-readable zone record.
type MRZData struct {
	DocumentType   ExtractedField `json:"documentType"`
	IssuingCountry ExtractedField `json:"issuingCountry"`
	LastName       ExtractedField `json:"lastName"`
	FirstName      ExtractedField `json:"firstName"`
	DocumentNumber ExtractedField `json:"documentNumber"`
	Nationality    ExtractedField `json:"nationality"`
	DateOfBirth    ExtractedField `json:"dateOfBirth"`
	Sex            ExtractedField `json:"sex"`
	ExpiryDate     ExtractedField `json:"expiryDate"`
	PersonalNumber ExtractedField `json:"personalNumber"`
	ChecksumValid  bool           `json:"checksumValid"`
}

// ExtractedDocument is the merged record consumed by validation and eligibility.
type ExtractedDocument struct {
	DocumentType   ExtractedField  `json:"documentType"`
	DocumentNumber ExtractedField  `json:"documentNumber"`
	IssuingCountry ExtractedField  `json:"issuingCountry"`
	FirstName      ExtractedField  `json:"firstName"`
	LastName       ExtractedField  `json:"lastName"`
	DateOfBirth    ExtractedField  `json:"dateOfBirth"`
	Nationality    ExtractedField  `json:"nationality"`
	Sex            ExtractedField  `json:"sex"`
	IssueDate      ExtractedField  `json:"issueDate"`
	ExpiryDate     ExtractedField  `json:"expiryDate"`
	PlaceOfBirth   *ExtractedField `json:"placeOfBirth,omitempty"`
	MRZData        *MRZData        `json:"mrzData,omitempty"`
}

// FullName joins first and last name, skipping empty parts.
func (d ExtractedDocument) FullName() string {
	switch {
	case d.FirstName.Value != "" && d.LastName.Value != "":
		return d.FirstName.Value + " " + d.LastName.Value
	case d.FirstName.Value != "":
		return d.FirstName.Value
	default:
		return d.LastName.Value
	}
}
