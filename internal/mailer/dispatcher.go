package mailer

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/sb-insight/agreement-service/internal/agreement"
)

const (
	attachmentName = "agreement.pdf"
	attachmentType = "application/pdf"
	userSubject    = "Agreement Confirmation - Sustainable Brand Index"
)

// Dispatcher sends the confirmation email to the submitter and the licensor.
// The two sends run concurrently and are fully independent: a failure on one
// side never blocks or fails the other.
type Dispatcher struct {
	sender        Sender
	template      *Template
	licensorEmail string
	sendTimeout   time.Duration
}

// NewDispatcher wires the dispatcher. licensorEmail is the fixed internal
// notification address; sendTimeout bounds each individual provider call.
func NewDispatcher(sender Sender, template *Template, licensorEmail string, sendTimeout time.Duration) *Dispatcher {
	return &Dispatcher{
		sender:        sender,
		template:      template,
		licensorEmail: licensorEmail,
		sendTimeout:   sendTimeout,
	}
}

// Notify sends the identical confirmation body with the rendered document
// attached to both recipients and reports each outcome.
func (d *Dispatcher) Notify(ctx context.Context, rec agreement.StoredRecord, doc []byte) agreement.DispatchOutcome {
	body, err := d.template.Render(rec.SubmissionRecord)
	if err != nil {
		log.Printf("mailer: rendering body for acceptance %s failed: %v", rec.ID, err)
		return agreement.DispatchOutcome{
			User:     agreement.DispatchResult{Recipient: rec.Email, Error: err.Error()},
			Licensor: agreement.DispatchResult{Recipient: d.licensorEmail, Error: err.Error()},
		}
	}

	var outcome agreement.DispatchOutcome
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		outcome.User = d.send(ctx, rec.Email, userSubject, body, doc)
	}()
	go func() {
		defer wg.Done()
		outcome.Licensor = d.send(ctx, d.licensorEmail, "New Agreement Acceptance - "+rec.CompanyName, body, doc)
	}()
	wg.Wait()

	return outcome
}

func (d *Dispatcher) send(ctx context.Context, to, subject, body string, doc []byte) agreement.DispatchResult {
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	id, err := d.sender.Send(sendCtx, Message{
		To:             to,
		Subject:        subject,
		HTMLBody:       body,
		AttachmentName: attachmentName,
		AttachmentType: attachmentType,
		Attachment:     doc,
	})
	if err != nil {
		log.Printf("mailer: send to %s failed: %v", to, err)
		return agreement.DispatchResult{Recipient: to, Error: err.Error()}
	}
	return agreement.DispatchResult{Recipient: to, Success: true, MessageID: id}
}
