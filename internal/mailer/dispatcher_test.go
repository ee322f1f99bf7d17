package mailer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sb-insight/agreement-service/internal/agreement"
)

const licensorAddr = "licensing@sb-insight.com"

// fakeSender records messages and fails selected recipients.
type fakeSender struct {
	mu          sync.Mutex
	messages    []Message
	failFor     map[string]error
	hadDeadline bool
}

func (f *fakeSender) Send(ctx context.Context, msg Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	if _, ok := ctx.Deadline(); ok {
		f.hadDeadline = true
	}
	if err, ok := f.failFor[msg.To]; ok {
		return "", err
	}
	return "msg-" + msg.To, nil
}

func (f *fakeSender) sent() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.messages...)
}

func newTestDispatcher(t *testing.T, sender Sender) *Dispatcher {
	t.Helper()
	tpl, err := NewTemplate(testGuidelinesURL, testMaterialURL)
	require.NoError(t, err)
	return NewDispatcher(sender, tpl, licensorAddr, 5*time.Second)
}

func storedRecord() agreement.StoredRecord {
	return agreement.StoredRecord{
		SubmissionRecord: sampleRecord(),
		ID:               "rec-1",
		CreatedAt:        time.Date(2025, 1, 1, 12, 0, 1, 0, time.UTC),
	}
}

func TestNotifyBothRecipientsSucceed(t *testing.T) {
	sender := &fakeSender{}
	d := newTestDispatcher(t, sender)

	outcome := d.Notify(context.Background(), storedRecord(), []byte("%PDF-doc"))

	require.True(t, outcome.User.Success)
	require.Equal(t, "jane@acme.com", outcome.User.Recipient)
	require.Equal(t, "msg-jane@acme.com", outcome.User.MessageID)
	require.True(t, outcome.Licensor.Success)
	require.Equal(t, licensorAddr, outcome.Licensor.Recipient)
	require.False(t, outcome.Failed())

	msgs := sender.sent()
	require.Len(t, msgs, 2)
	for _, msg := range msgs {
		require.Equal(t, "agreement.pdf", msg.AttachmentName)
		require.Equal(t, "application/pdf", msg.AttachmentType)
		require.Equal(t, []byte("%PDF-doc"), msg.Attachment)
	}
	// Identical body, distinct subjects.
	require.Equal(t, msgs[0].HTMLBody, msgs[1].HTMLBody)
	subjects := map[string]string{msgs[0].To: msgs[0].Subject, msgs[1].To: msgs[1].Subject}
	require.Equal(t, "Agreement Confirmation - Sustainable Brand Index", subjects["jane@acme.com"])
	require.Equal(t, "New Agreement Acceptance - Acme", subjects[licensorAddr])
	require.True(t, sender.hadDeadline, "each send must carry a timeout")
}

func TestNotifyUserFailureDoesNotBlockLicensor(t *testing.T) {
	sender := &fakeSender{failFor: map[string]error{
		"jane@acme.com": errors.New("provider rejected recipient"),
	}}
	d := newTestDispatcher(t, sender)

	outcome := d.Notify(context.Background(), storedRecord(), []byte("doc"))

	require.False(t, outcome.User.Success)
	require.Contains(t, outcome.User.Error, "provider rejected recipient")
	require.Empty(t, outcome.User.MessageID)
	require.True(t, outcome.Licensor.Success)
	require.True(t, outcome.Failed())
	require.Len(t, sender.sent(), 2, "both sends are always attempted")
}

func TestNotifyBothFailuresAreIndependent(t *testing.T) {
	sender := &fakeSender{failFor: map[string]error{
		"jane@acme.com": errors.New("user down"),
		licensorAddr:    errors.New("licensor down"),
	}}
	d := newTestDispatcher(t, sender)

	outcome := d.Notify(context.Background(), storedRecord(), []byte("doc"))

	require.False(t, outcome.User.Success)
	require.False(t, outcome.Licensor.Success)
	require.Contains(t, outcome.User.Error, "user down")
	require.Contains(t, outcome.Licensor.Error, "licensor down")
}
