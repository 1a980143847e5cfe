// Package imap fetches newsletters from an IMAP mailbox.
package imap

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/dagkrant"
	"github.com/fwojciec/dagkrant/bloom"
)

// DefaultLabel is the folder newsletters are filed under. Sublabels such as
// "Nieuwsbrieven/Tech" are searched as well.
const DefaultLabel = "Nieuwsbrieven"

// Bloom filter sizing for Message-ID deduplication within one fetch.
const (
	expectedMessages = 1000
	falsePositive    = 1e-6
)

// Ensure Source implements dagkrant.NewsletterSource at compile time.
var _ dagkrant.NewsletterSource = (*Source)(nil)

// Mailbox is an authenticated IMAP session.
type Mailbox interface {
	// Folders lists the folders whose name starts with prefix.
	Folders(prefix string) ([]string, error)

	// Messages returns the raw RFC 5322 messages in folder received on or
	// after the date of since. IMAP searches by date, not time.
	Messages(folder string, since time.Time) ([][]byte, error)

	// Logout closes the session.
	Logout() error
}

// DialFunc opens a Mailbox.
type DialFunc func(ctx context.Context) (Mailbox, error)

// Source implements dagkrant.NewsletterSource over an IMAP mailbox.
type Source struct {
	dial     DialFunc
	label    string
	resolver dagkrant.SenderResolver
	logger   *slog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithLabel sets the folder prefix to search. Defaults to DefaultLabel.
func WithLabel(label string) Option {
	return func(s *Source) {
		s.label = label
	}
}

// WithSenderResolver sets the resolver used to recover the original sender
// of forwarded newsletters. Without one the From header is used.
func WithSenderResolver(r dagkrant.SenderResolver) Option {
	return func(s *Source) {
		s.resolver = r
	}
}

// WithLogger sets the logger for skipped folders and messages.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		s.logger = l
	}
}

// NewSource creates a Source that opens sessions with dial.
func NewSource(dial DialFunc, opts ...Option) *Source {
	s := &Source{
		dial:   dial,
		label:  DefaultLabel,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchNewsletters returns the newsletters in every folder under the label
// that were received at or after since. A message filed under several
// folders is returned once. Folders and messages that cannot be read are
// logged and skipped.
func (s *Source) FetchNewsletters(ctx context.Context, since time.Time) ([]*dagkrant.Newsletter, error) {
	mb, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = mb.Logout() }()

	folders, err := mb.Folders(s.label)
	if err != nil || len(folders) == 0 {
		folders = []string{s.label}
	}

	seen := bloom.NewFilter(expectedMessages, falsePositive)
	var newsletters []*dagkrant.Newsletter
	for _, folder := range folders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raws, err := mb.Messages(folder, since)
		if err != nil {
			s.logger.Warn("skipping folder", "folder", folder, "error", err)
			continue
		}

		for _, raw := range raws {
			n, err := ParseMessage(bytes.NewReader(raw))
			if err != nil {
				s.logger.Warn("skipping message", "folder", folder, "error", err)
				continue
			}
			if n.MessageID != "" && seen.Seen(n.MessageID) {
				continue
			}
			if n.ReceivedAt.Before(since) {
				continue
			}
			if s.resolver != nil {
				n.Sender = s.resolver.ResolveSender(n.PlainText, n.HTML, n.Sender)
			}
			newsletters = append(newsletters, n)
		}
	}
	s.logger.Debug("fetched newsletters", "folders", len(folders),
		"messageIds", seen.EstimatedCount(), "newsletters", len(newsletters))
	return newsletters, nil
}
