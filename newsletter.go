package dagkrant

import (
	"context"
	"time"
)

// Newsletter represents a single newsletter issue fetched from the mailbox.
type Newsletter struct {
	ID          string    `json:"id"`
	MessageID   string    `json:"messageId"`
	Subject     string    `json:"subject"`
	Sender      string    `json:"sender"`
	ReceivedAt  time.Time `json:"receivedAt"`
	HTML        string    `json:"html"`
	PlainText   string    `json:"plainText"`
	Language    Language  `json:"language"`
	ContentHash string    `json:"contentHash"`
}

// Validate returns an error if the newsletter contains invalid fields.
func (n *Newsletter) Validate() error {
	if n.Subject == "" {
		return Errorf(EINVALID, "newsletter subject required")
	}
	if n.HTML == "" && n.PlainText == "" {
		return Errorf(EINVALID, "newsletter body required")
	}
	return nil
}

// NewsletterSource retrieves newsletters from a mailbox.
type NewsletterSource interface {
	// FetchNewsletters returns all newsletters received at or after since.
	// Messages delivered to several folders are returned once.
	FetchNewsletters(ctx context.Context, since time.Time) ([]*Newsletter, error)
}

// SenderResolver determines who actually wrote a newsletter. Newsletters
// forwarded into the mailbox carry the forwarder as envelope sender; the
// original author is recovered from the forwarding header in the body.
type SenderResolver interface {
	// ResolveSender returns the original sender, or envelope when the
	// message was not forwarded or no sender could be recovered.
	ResolveSender(plain, html, envelope string) string
}

// NewsletterService represents the archive of newsletters that made it
// into an edition.
type NewsletterService interface {
	// CreateNewsletter archives a newsletter.
	// Returns ECONFLICT if the message ID has already been archived.
	CreateNewsletter(ctx context.Context, n *Newsletter) error

	// FindNewsletters retrieves archived newsletters matching the filter.
	FindNewsletters(ctx context.Context, filter NewsletterFilter) ([]*Newsletter, error)

	// DeleteNewslettersBefore removes archived newsletters received before t
	// and returns how many were removed.
	DeleteNewslettersBefore(ctx context.Context, t time.Time) (int, error)
}

// NewsletterFilter represents a filter for FindNewsletters.
type NewsletterFilter struct {
	MessageID *string    `json:"messageId"`
	Sender    *string    `json:"sender"`
	Since     *time.Time `json:"since"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
