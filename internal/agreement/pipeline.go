package agreement

import (
	"context"
	"log"
	"time"
)

// Renderer produces the confirmation document for a stored acceptance.
type Renderer interface {
	Render(rec SubmissionRecord) ([]byte, error)
}

// Notifier sends the confirmation email with the rendered document attached to
// both the submitter and the licensor, reporting per-recipient outcomes.
type Notifier interface {
	Notify(ctx context.Context, rec StoredRecord, doc []byte) DispatchOutcome
}

// Status classifies the overall pipeline outcome for the caller.
type Status string

const (
	// StatusAccepted means the acceptance was stored and both emails went out.
	StatusAccepted Status = "accepted"
	// StatusAcceptedWithWarnings means the acceptance was stored but the
	// document or at least one email failed. Follow-up is manual.
	StatusAcceptedWithWarnings Status = "accepted_with_warnings"
)

// Result is the outcome of one pipeline run. Outcome is nil when notification
// was never attempted (rendering failed).
type Result struct {
	Record   StoredRecord
	Status   Status
	Warnings []string
	Outcome  *DispatchOutcome
}

// Pipeline runs a submission through validate -> store -> render -> notify.
// Persistence always resolves before any notification work begins: a record is
// never emailed before it is durably stored.
type Pipeline struct {
	validator    *Validator
	store        Store
	renderer     Renderer
	notifier     Notifier
	storeTimeout time.Duration
}

// NewPipeline wires the pipeline's collaborators. storeTimeout bounds the
// insert; per-send timeouts are the notifier's responsibility.
func NewPipeline(validator *Validator, store Store, renderer Renderer, notifier Notifier, storeTimeout time.Duration) *Pipeline {
	return &Pipeline{
		validator:    validator,
		store:        store,
		renderer:     renderer,
		notifier:     notifier,
		storeTimeout: storeTimeout,
	}
}

// Process runs one submission end to end.
//
// Error contract: a ValidationErrors or *StorageError return means nothing
// happened. A nil error with StatusAcceptedWithWarnings means the row exists
// but notification is incomplete; the warnings say what degraded.
func (p *Pipeline) Process(ctx context.Context, in Input) (*Result, error) {
	rec, verrs := p.validator.Validate(in)
	if len(verrs) > 0 {
		return nil, verrs
	}

	storeCtx, cancel := context.WithTimeout(ctx, p.storeTimeout)
	defer cancel()

	stored, err := p.store.Insert(storeCtx, rec)
	if err != nil {
		return nil, err
	}

	res := &Result{Record: stored, Status: StatusAccepted}

	doc, err := p.renderer.Render(stored.SubmissionRecord)
	if err != nil {
		log.Printf("pipeline: rendering document for acceptance %s failed: %v", stored.ID, err)
		res.Status = StatusAcceptedWithWarnings
		res.Warnings = append(res.Warnings, "confirmation document could not be generated; it will be sent manually")
		return res, nil
	}

	outcome := p.notifier.Notify(ctx, stored, doc)
	res.Outcome = &outcome

	if outcome.Failed() {
		res.Status = StatusAcceptedWithWarnings
		for _, dr := range []DispatchResult{outcome.User, outcome.Licensor} {
			if !dr.Success {
				log.Printf("pipeline: confirmation email to %s for acceptance %s failed: %s", dr.Recipient, stored.ID, dr.Error)
				res.Warnings = append(res.Warnings, "confirmation email to "+dr.Recipient+" could not be sent")
			}
		}
	}

	return res, nil
}
