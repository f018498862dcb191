package extraction

import "docverify-workers/internal/models"

// Merge builds the canonical document: MRZ values win field by field and
// free-text values fill the gaps. Issue date and place of birth only exist in
// the visual zone.
func Merge(mrz *models.MRZData, fields Fields) models.ExtractedDocument {
	doc := models.ExtractedDocument{
		DocumentType:   fields.Get(FieldDocumentType),
		DocumentNumber: fields.Get(FieldDocumentNumber),
		IssuingCountry: fields.Get(FieldIssuingCountry),
		FirstName:      fields.Get(FieldFirstName),
		LastName:       fields.Get(FieldLastName),
		DateOfBirth:    fields.Get(FieldDateOfBirth),
		Nationality:    fields.Get(FieldNationality),
		Sex:            fields.Get(FieldSex),
		IssueDate:      fields.Get(FieldIssueDate),
		ExpiryDate:     fields.Get(FieldExpiryDate),
	}

	if pob := fields.Get(FieldPlaceOfBirth); !pob.IsEmpty() {
		doc.PlaceOfBirth = &pob
	}

	if mrz == nil {
		return doc
	}

	prefer(&doc.DocumentType, mrz.DocumentType)
	prefer(&doc.DocumentNumber, mrz.DocumentNumber)
	prefer(&doc.IssuingCountry, mrz.IssuingCountry)
	prefer(&doc.FirstName, mrz.FirstName)
	prefer(&doc.LastName, mrz.LastName)
	prefer(&doc.DateOfBirth, mrz.DateOfBirth)
	prefer(&doc.Nationality, mrz.Nationality)
	prefer(&doc.Sex, mrz.Sex)
	prefer(&doc.ExpiryDate, mrz.ExpiryDate)

	embedded := *mrz
	doc.MRZData = &embedded
	return doc
}

func prefer(dst *models.ExtractedField, mrz models.ExtractedField) {
	if !mrz.IsEmpty() {
		*dst = mrz
	}
}
