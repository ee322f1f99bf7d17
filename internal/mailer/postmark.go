package mailer

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mrz1836/postmark"
)

// Message is one outbound email with an optional binary attachment.
type Message struct {
	To             string
	Subject        string
	HTMLBody       string
	AttachmentName string
	AttachmentType string
	Attachment     []byte
}

// Sender delivers one message and returns the provider-assigned message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// PostmarkSender sends through Postmark's transactional API.
type PostmarkSender struct {
	client *postmark.Client
	from   string
}

// NewPostmarkSender creates a Postmark-backed sender. Tokens and the sender
// identity are required; failing here beats failing on the first submission.
func NewPostmarkSender(serverToken, accountToken, from string) (*PostmarkSender, error) {
	if serverToken == "" {
		return nil, fmt.Errorf("postmark server token is required")
	}
	if from == "" {
		return nil, fmt.Errorf("sender address is required")
	}
	return &PostmarkSender{
		client: postmark.NewClient(serverToken, accountToken),
		from:   from,
	}, nil
}

// Send delivers one message. A provider-side rejection (ErrorCode in the
// response body) is returned as an error just like a transport failure.
func (s *PostmarkSender) Send(ctx context.Context, msg Message) (string, error) {
	email := postmark.Email{
		From:     s.from,
		To:       msg.To,
		Subject:  msg.Subject,
		HTMLBody: msg.HTMLBody,
	}
	if len(msg.Attachment) > 0 {
		email.Attachments = []postmark.Attachment{{
			Name:        msg.AttachmentName,
			Content:     base64.StdEncoding.EncodeToString(msg.Attachment),
			ContentType: msg.AttachmentType,
		}}
	}

	resp, err := s.client.SendEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("postmark send to %s: %w", msg.To, err)
	}
	if resp.ErrorCode > 0 {
		return "", fmt.Errorf("postmark error %d: %s", resp.ErrorCode, resp.Message)
	}
	return resp.MessageID, nil
}
