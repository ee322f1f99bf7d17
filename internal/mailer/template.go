// Package mailer composes and dispatches the agreement confirmation email.
package mailer

import (
	"fmt"
	"html"

	"github.com/osteele/liquid"

	"github.com/sb-insight/agreement-service/internal/agreement"
)

const acceptedAtFormat = "January 2, 2006 15:04 MST"

// bodyTemplate is the single confirmation body sent to both recipients.
const bodyTemplate = `<h1>Agreement Confirmation</h1>
<p>Dear {{ representative_name }},</p>
<p>This email confirms that you have accepted the Sustainable Brand Index Material License Agreement on behalf of {{ company_name }}.</p>

<h2>Agreement Details</h2>
<ul>
  <li>Company Name: {{ company_name }}</li>
  <li>Business ID: {{ business_id }}</li>
  <li>Representative: {{ representative_name }}</li>
  <li>Brands: {{ brands }}</li>
  <li>Invoicing Details: {{ invoicing_details }}</li>
  <li>Accepted at: {{ accepted_at }}</li>
</ul>

<p>Please find attached a PDF copy of your signed agreement.</p>
<p>For more information about the guidelines, please visit: <a href="{{ guidelines_url }}">{{ guidelines_url }}</a></p>
<p>Link to download the material: <a href="{{ material_url }}">{{ material_url }}</a></p>`

// Template renders the confirmation body. Submitter-supplied values are
// HTML-escaped before binding; the template itself never sees raw input.
type Template struct {
	tpl           *liquid.Template
	guidelinesURL string
	materialURL   string
}

// NewTemplate compiles the confirmation body template with the configured
// guideline and material-download links.
func NewTemplate(guidelinesURL, materialURL string) (*Template, error) {
	tpl, err := liquid.NewEngine().ParseString(bodyTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing confirmation template: %w", err)
	}
	return &Template{
		tpl:           tpl,
		guidelinesURL: guidelinesURL,
		materialURL:   materialURL,
	}, nil
}

// Render produces the HTML body for one acceptance.
func (t *Template) Render(rec agreement.SubmissionRecord) (string, error) {
	bindings := map[string]any{
		"company_name":        html.EscapeString(rec.CompanyName),
		"business_id":         html.EscapeString(rec.BusinessID),
		"representative_name": html.EscapeString(rec.RepresentativeName),
		"brands":              html.EscapeString(rec.Brands),
		"invoicing_details":   html.EscapeString(rec.InvoicingDetails),
		"accepted_at":         rec.AcceptedAt.Format(acceptedAtFormat),
		"guidelines_url":      t.guidelinesURL,
		"material_url":        t.materialURL,
	}

	out, err := t.tpl.RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("rendering confirmation body: %w", err)
	}
	return out, nil
}
