// Package agreement implements the license-acceptance pipeline: validation of
// an incoming form submission, durable persistence, confirmation document
// generation and dual-recipient email dispatch.
package agreement

import "time"

// Input is a raw form submission as received from the agreement page.
// Nothing in it is trusted until it has passed through the Validator.
type Input struct {
	CompanyName        string
	BusinessID         string
	RepresentativeName string
	Email              string
	Brands             string
	InvoicingDetails   string
}

// SubmissionRecord is one accepted agreement. Brands and InvoicingDetails are
// optional; older editions of the form did not collect them. AcceptedAt is
// stamped server-side when validation succeeds and never changes afterwards.
type SubmissionRecord struct {
	CompanyName        string
	BusinessID         string
	RepresentativeName string
	Email              string
	Brands             string
	InvoicingDetails   string
	AcceptedAt         time.Time
}

// StoredRecord is a SubmissionRecord after the insert, carrying the
// server-assigned row id.
type StoredRecord struct {
	SubmissionRecord
	ID        string
	CreatedAt time.Time
}

// DispatchResult is the outcome of sending the confirmation email to one
// recipient. MessageID is the provider-assigned id on success.
type DispatchResult struct {
	Recipient string `json:"recipient"`
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// DispatchOutcome holds both recipient results. The two sends are independent;
// either side may fail without affecting the other.
type DispatchOutcome struct {
	User     DispatchResult `json:"userEmail"`
	Licensor DispatchResult `json:"notificationEmail"`
}

// Failed reports whether any of the two sends did not go through.
func (o DispatchOutcome) Failed() bool {
	return !o.User.Success || !o.Licensor.Success
}
