// Package smtp delivers editions over SMTP with STARTTLS.
package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/fwojciec/dagkrant"
)

// DefaultAddr is the Gmail submission endpoint.
const DefaultAddr = "smtp.gmail.com:587"

// Ensure Mailer implements dagkrant.Mailer at compile time.
var _ dagkrant.Mailer = (*Mailer)(nil)

// SendFunc submits msg for delivery to the recipients in to.
type SendFunc func(ctx context.Context, addr string, auth sasl.Client, from string, to []string, msg io.Reader) error

// Mailer sends editions as a plain-text message with the PDF attached.
type Mailer struct {
	addr string
	from string
	auth sasl.Client
	send SendFunc
	now  func() time.Time
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithSendFunc replaces the SMTP transport.
func WithSendFunc(fn SendFunc) Option {
	return func(m *Mailer) {
		m.send = fn
	}
}

// WithNow sets the clock used for the Date header.
func WithNow(fn func() time.Time) Option {
	return func(m *Mailer) {
		m.now = fn
	}
}

// NewMailer creates a Mailer that authenticates at addr as username with
// PLAIN and sends from username.
func NewMailer(addr, username, password string, opts ...Option) *Mailer {
	m := &Mailer{
		addr: addr,
		from: username,
		auth: sasl.NewPlainClient("", username, password),
		send: SendStartTLS,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SendEdition builds the message and submits it.
func (m *Mailer) SendEdition(ctx context.Context, msg *dagkrant.EditionMessage) error {
	if msg == nil || strings.TrimSpace(msg.To) == "" {
		return dagkrant.Errorf(dagkrant.EINVALID, "recipient required")
	}

	var buf bytes.Buffer
	if err := BuildMessage(&buf, m.from, msg, m.now()); err != nil {
		return err
	}
	if err := m.send(ctx, m.addr, m.auth, m.from, []string{msg.To}, &buf); err != nil {
		return dagkrant.Errorf(dagkrant.EUNAVAILABLE, "send edition to %s: %v", msg.To, err)
	}
	return nil
}

// BuildMessage writes msg as a multipart/mixed RFC 5322 message to w. The
// body is a UTF-8 text part; the PDF, when present, is a base64 attachment
// named msg.Filename.
func BuildMessage(w io.Writer, from string, msg *dagkrant.EditionMessage, date time.Time) error {
	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{{Address: from}})
	h.SetAddressList("To", []*mail.Address{{Address: msg.To}})
	h.SetSubject(msg.Subject)
	if err := h.GenerateMessageID(); err != nil {
		return err
	}

	mw, err := mail.CreateWriter(w, h)
	if err != nil {
		return err
	}

	var th mail.InlineHeader
	th.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	tw, err := mw.CreateSingleInline(th)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(tw, msg.Body); err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}

	if len(msg.PDF) > 0 {
		var ah mail.AttachmentHeader
		ah.SetContentType("application/pdf", nil)
		ah.SetFilename(msg.Filename)
		aw, err := mw.CreateAttachment(ah)
		if err != nil {
			return err
		}
		if _, err := aw.Write(msg.PDF); err != nil {
			return err
		}
		if err := aw.Close(); err != nil {
			return err
		}
	}
	return mw.Close()
}

// SendStartTLS connects to addr, upgrades the connection with STARTTLS,
// authenticates and sends the message.
func SendStartTLS(ctx context.Context, addr string, auth sasl.Client, from string, to []string, msg io.Reader) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.StartTLS(&tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}); err != nil {
		return err
	}
	if err := c.Auth(auth); err != nil {
		return err
	}
	if err := c.SendMail(from, to, msg); err != nil {
		return err
	}
	return c.Quit()
}
