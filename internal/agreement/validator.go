package agreement

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// FieldError describes one invalid or missing form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is the full list of field errors for a submission. All
// applicable errors are collected so the form can display them together.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validator checks raw submissions and stamps the acceptance time. The clock
// is injectable so tests get deterministic records.
type Validator struct {
	now func() time.Time
}

// NewValidator creates a Validator using the wall clock.
func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// NewValidatorWithClock creates a Validator with a fixed clock source.
func NewValidatorWithClock(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// Validate checks the submission and returns an immutable SubmissionRecord on
// success. It is pure string work, performs no I/O, and never fails fast: the
// returned error list covers every invalid field at once.
func (v *Validator) Validate(in Input) (SubmissionRecord, ValidationErrors) {
	var errs ValidationErrors

	companyName := strings.TrimSpace(in.CompanyName)
	businessID := strings.TrimSpace(in.BusinessID)
	representative := strings.TrimSpace(in.RepresentativeName)
	email := strings.TrimSpace(in.Email)

	if companyName == "" {
		errs = append(errs, FieldError{Field: "companyName", Message: "Company name is required"})
	}
	if businessID == "" {
		errs = append(errs, FieldError{Field: "businessId", Message: "Business ID is required"})
	}
	if representative == "" {
		errs = append(errs, FieldError{Field: "representativeName", Message: "Representative name is required"})
	}
	if email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "Email is required"})
	} else if !emailPattern.MatchString(email) {
		errs = append(errs, FieldError{Field: "email", Message: "Invalid email address"})
	}

	if len(errs) > 0 {
		return SubmissionRecord{}, errs
	}

	return SubmissionRecord{
		CompanyName:        companyName,
		BusinessID:         businessID,
		RepresentativeName: representative,
		Email:              email,
		Brands:             strings.TrimSpace(in.Brands),
		InvoicingDetails:   strings.TrimSpace(in.InvoicingDetails),
		AcceptedAt:         v.now().UTC(),
	}, nil
}
