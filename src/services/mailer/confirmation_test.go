package mailer

import (
	"testing"

	"franchise-intake-api/src/models"

	"github.com/stretchr/testify/assert"
)

func TestRenderConfirmationHTML(t *testing.T) {
	html, err := RenderConfirmationHTML(ConfirmationData{
		FormTitle:      "Franchise Application",
		ConfirmationID: "65f1a2b3c4d5e6f7a8b9c0d1",
		SubmittedAt:    "Mon, 31 Aug 2026 10:00:00 UTC",
		Answers: []models.SubmittedAnswer{
			{FieldID: "fullName", Label: "Full name", Value: "Jordan Smith"},
			{FieldID: "liquidCapital", Label: "Liquid capital", Value: float64(250000)},
		},
	})
	assert.NoError(t, err)
	assert.Contains(t, html, "Franchise Application")
	assert.Contains(t, html, "65f1a2b3c4d5e6f7a8b9c0d1")
	assert.Contains(t, html, "Jordan Smith")
	assert.Contains(t, html, "Liquid capital")
}

func TestRenderConfirmationHTMLEscapesValues(t *testing.T) {
	html, err := RenderConfirmationHTML(ConfirmationData{
		ConfirmationID: "abc",
		Answers: []models.SubmittedAnswer{
			{FieldID: "comments", Label: "Comments", Value: "<script>alert(1)</script>"},
		},
	})
	assert.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}
