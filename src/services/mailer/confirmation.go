package mailer

import (
	"bytes"
	"html/template"

	"franchise-intake-api/src/models"
)

type ConfirmationData struct {
	FormTitle      string
	ConfirmationID string
	SubmittedAt    string
	Answers        []models.SubmittedAnswer
}

const confirmationHTML = `
<h2>Application received</h2>
<p>Thank you for applying{{if .FormTitle}} via <b>{{.FormTitle}}</b>{{end}}.</p>
<p>Your confirmation number is <b>{{.ConfirmationID}}</b>. Keep it for any follow-up.</p>
<p>Submitted on {{.SubmittedAt}}.</p>
<h3>Your answers</h3>
<table border="0" cellpadding="4">
{{range .Answers}}<tr><td><b>{{.Label}}</b></td><td>{{.Value}}</td></tr>
{{end}}</table>
<p>Our franchise team will review your application and reach out shortly.</p>
`

var confirmationTmpl = template.Must(template.New("confirmation").Parse(confirmationHTML))

// RenderConfirmationHTML builds the applicant-facing receipt email.
func RenderConfirmationHTML(data ConfirmationData) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
