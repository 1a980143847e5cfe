package imap

import (
	"context"
	"crypto/tls"
	"io"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/fwojciec/dagkrant"
)

// DefaultAddr is the Gmail IMAP endpoint.
const DefaultAddr = "imap.gmail.com:993"

// Dialer returns a DialFunc that connects to addr over TLS and logs in.
func Dialer(addr, username, password string) DialFunc {
	return func(ctx context.Context) (Mailbox, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := client.DialTLS(addr, &tls.Config{MinVersion: tls.VersionTLS12})
		if err != nil {
			return nil, dagkrant.Errorf(dagkrant.EUNAVAILABLE, "connect to %s: %v", addr, err)
		}
		if err := c.Login(username, password); err != nil {
			_ = c.Logout()
			return nil, dagkrant.Errorf(dagkrant.EUNAVAILABLE, "login as %s: %v", username, err)
		}
		return &session{c: c}, nil
	}
}

// session adapts a go-imap client to Mailbox.
type session struct {
	c *client.Client
}

func (s *session) Folders(prefix string) ([]string, error) {
	ch := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)
	go func() {
		done <- s.c.List("", prefix+"*", ch)
	}()

	var names []string
	for m := range ch {
		names = append(names, m.Name)
	}
	return names, <-done
}

func (s *session) Messages(folder string, since time.Time) ([][]byte, error) {
	if _, err := s.c.Select(folder, true); err != nil {
		return nil, err
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = since
	ids, err := s.c.Search(criteria)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)
	section := &imap.BodySectionName{Peek: true}

	ch := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- s.c.Fetch(seqset, []imap.FetchItem{section.FetchItem()}, ch)
	}()

	var raws [][]byte
	for msg := range ch {
		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		b, err := io.ReadAll(body)
		if err != nil {
			continue
		}
		raws = append(raws, b)
	}
	return raws, <-done
}

func (s *session) Logout() error {
	return s.c.Logout()
}
