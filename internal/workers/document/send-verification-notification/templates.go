// internal/workers/document/send-verification-notification/templates.go
package sendverificationnotification

import (
	"bytes"
	"text/template"
)

type message struct {
	Subject string
	Body    string
}

type templateData struct {
	ApplicationID     string
	VerificationID    string
	Decision          string
	OverallConfidence int
	Summary           string
	Actions           []string
}

var (
	officerSubject = template.Must(template.New("officerSubject").Parse(
		`[{{.Decision}}] Document verification {{.VerificationID}}`))
	officerBody = template.Must(template.New("officerBody").Parse(
		`Application {{.ApplicationID}} finished document verification.

Decision: {{.Decision}}
Overall confidence: {{.OverallConfidence}}%

{{.Summary}}

Recommended actions:
{{range .Actions}}{{.}}
{{end}}`))

	applicantSubject = template.Must(template.New("applicantSubject").Parse(
		`Update on your visa application {{.ApplicationID}}`))
	applicantBody = template.Must(template.New("applicantBody").Parse(
		`{{if eq .Decision "approve"}}Your travel document was verified successfully. Your application continues to the next step.` +
			`{{else if eq .Decision "reject"}}We could not verify your travel document. A case officer will contact you with next steps.` +
			`{{else}}Your travel document needs a manual review by a case officer. No action is needed from you yet.{{end}}` +
			` Reference: {{.ApplicationID}}`))
)

func render(recipientType string, data templateData) (message, error) {
	subject, body := officerSubject, officerBody
	if recipientType == RecipientApplicant {
		subject, body = applicantSubject, applicantBody
	}

	var s, b bytes.Buffer
	if err := subject.Execute(&s, data); err != nil {
		return message{}, err
	}
	if err := body.Execute(&b, data); err != nil {
		return message{}, err
	}
	return message{Subject: s.String(), Body: b.String()}, nil
}
