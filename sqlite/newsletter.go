package sqlite

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/dagkrant"
	"github.com/google/uuid"
	"github.com/ncruces/go-sqlite3"
)

// Compile-time interface verification.
var _ dagkrant.NewsletterService = (*NewsletterService)(nil)

// NewsletterService implements dagkrant.NewsletterService using SQLite.
type NewsletterService struct {
	db  *DB
	now func() time.Time
}

// NewNewsletterService creates a new NewsletterService.
func NewNewsletterService(db *DB) *NewsletterService {
	return &NewsletterService{db: db, now: time.Now}
}

// hashContent returns the hex-encoded xxHash of content.
func hashContent(content string) string {
	return hex.EncodeToString(binary.BigEndian.AppendUint64(nil, xxhash.Sum64String(content)))
}

// CreateNewsletter archives n, assigning its ID and content hash.
func (s *NewsletterService) CreateNewsletter(ctx context.Context, n *dagkrant.Newsletter) error {
	if err := n.Validate(); err != nil {
		return err
	}

	n.ID = uuid.New().String()
	n.ContentHash = hashContent(n.HTML)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO newsletters (id, message_id, subject, sender, language, html, content_hash, received_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.MessageID, n.Subject, n.Sender, string(n.Language), n.HTML, n.ContentHash,
		n.ReceivedAt.UTC().Format(time.RFC3339), s.now().UTC().Format(time.RFC3339))

	if errors.Is(err, sqlite3.CONSTRAINT_UNIQUE) {
		n.ID = ""
		return dagkrant.Errorf(dagkrant.ECONFLICT, "newsletter %q already archived", n.MessageID)
	}
	return err
}

// FindNewsletters retrieves archived newsletters, most recently received
// first.
func (s *NewsletterService) FindNewsletters(ctx context.Context, filter dagkrant.NewsletterFilter) ([]*dagkrant.Newsletter, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, message_id, subject, sender, language, html, content_hash, received_at FROM newsletters WHERE 1=1")

	if filter.MessageID != nil {
		query.WriteString(" AND message_id = ?")
		args = append(args, *filter.MessageID)
	}
	if filter.Sender != nil {
		query.WriteString(" AND sender = ?")
		args = append(args, *filter.Sender)
	}
	if filter.Since != nil {
		query.WriteString(" AND received_at >= ?")
		args = append(args, filter.Since.UTC().Format(time.RFC3339))
	}

	query.WriteString(" ORDER BY received_at DESC, rowid DESC")
	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		// SQLite only accepts OFFSET after a LIMIT.
		if filter.Limit <= 0 {
			query.WriteString(" LIMIT -1")
		}
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*dagkrant.Newsletter
	for rows.Next() {
		var n dagkrant.Newsletter
		var lang, receivedAt string

		if err := rows.Scan(&n.ID, &n.MessageID, &n.Subject, &n.Sender, &lang, &n.HTML,
			&n.ContentHash, &receivedAt); err != nil {
			return nil, err
		}
		n.Language = dagkrant.Language(lang)

		if n.ReceivedAt, err = time.Parse(time.RFC3339, receivedAt); err != nil {
			return nil, fmt.Errorf("newsletter %s: received_at: %w", n.ID, err)
		}

		items = append(items, &n)
	}

	return items, rows.Err()
}

// DeleteNewslettersBefore removes newsletters received before t.
func (s *NewsletterService) DeleteNewslettersBefore(ctx context.Context, t time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM newsletters WHERE received_at < ?",
		t.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
