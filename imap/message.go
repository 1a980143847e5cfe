package imap

import (
	"errors"
	"html"
	"io"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/fwojciec/dagkrant"
)

// Placeholders for messages without the corresponding header.
const (
	noSubject = "(Geen onderwerp)"
	noSender  = "(Onbekende afzender)"
)

// ParseMessage decodes an RFC 5322 message into a Newsletter. The first
// text/html part becomes the HTML body; the first text/plain part is kept as
// the plain-text body and, when the message has no HTML part, wrapped in a
// minimal document. Sender is the display name of the From address.
//
// ReceivedAt is left zero when the Date header is missing or malformed.
// Returns EINVALID when the message cannot be parsed or has no body.
func ParseMessage(r io.Reader) (*dagkrant.Newsletter, error) {
	mr, err := mail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, dagkrant.Errorf(dagkrant.EINVALID, "parse message: %v", err)
	}

	n := &dagkrant.Newsletter{
		Subject: noSubject,
		Sender:  noSender,
	}
	if subject, err := mr.Header.Subject(); err == nil && strings.TrimSpace(subject) != "" {
		n.Subject = strings.TrimSpace(subject)
	}
	if addrs, err := mr.Header.AddressList("From"); err == nil && len(addrs) > 0 {
		n.Sender = addrs[0].Name
		if n.Sender == "" {
			n.Sender = addrs[0].Address
		}
	} else if from := strings.TrimSpace(mr.Header.Get("From")); from != "" {
		n.Sender = from
	}
	if date, err := mr.Header.Date(); err == nil {
		n.ReceivedAt = date.UTC()
	}
	if id, err := mr.Header.MessageID(); err == nil {
		n.MessageID = id
	}

	var foundHTML, foundPlain bool
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			return nil, dagkrant.Errorf(dagkrant.EINVALID, "read part of %q: %v", n.Subject, err)
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		ct, _, err := h.ContentType()
		if err != nil || ct == "" {
			ct = "text/plain"
		}

		switch {
		case ct == "text/html" && !foundHTML:
			b, err := io.ReadAll(p.Body)
			if err != nil {
				return nil, dagkrant.Errorf(dagkrant.EINVALID, "read html body of %q: %v", n.Subject, err)
			}
			n.HTML, foundHTML = string(b), true
		case ct == "text/plain" && !foundPlain:
			b, err := io.ReadAll(p.Body)
			if err != nil {
				return nil, dagkrant.Errorf(dagkrant.EINVALID, "read plain body of %q: %v", n.Subject, err)
			}
			n.PlainText, foundPlain = string(b), true
		}
	}

	if n.HTML == "" && n.PlainText == "" {
		return nil, dagkrant.Errorf(dagkrant.EINVALID, "message %q has no body", n.Subject)
	}
	if n.HTML == "" {
		n.HTML = "<html><body><pre>" + html.EscapeString(n.PlainText) + "</pre></body></html>"
	}
	return n, nil
}
