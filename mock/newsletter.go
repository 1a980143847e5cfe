package mock

import (
	"context"
	"time"

	"github.com/fwojciec/dagkrant"
)

var (
	_ dagkrant.NewsletterSource  = (*NewsletterSource)(nil)
	_ dagkrant.SenderResolver    = (*SenderResolver)(nil)
	_ dagkrant.NewsletterService = (*NewsletterService)(nil)
)

// NewsletterSource is a mock implementation of dagkrant.NewsletterSource.
type NewsletterSource struct {
	FetchNewslettersFn func(ctx context.Context, since time.Time) ([]*dagkrant.Newsletter, error)
}

func (s *NewsletterSource) FetchNewsletters(ctx context.Context, since time.Time) ([]*dagkrant.Newsletter, error) {
	return s.FetchNewslettersFn(ctx, since)
}

// SenderResolver is a mock implementation of dagkrant.SenderResolver.
type SenderResolver struct {
	ResolveSenderFn func(plain, html, envelope string) string
}

func (r *SenderResolver) ResolveSender(plain, html, envelope string) string {
	return r.ResolveSenderFn(plain, html, envelope)
}

// NewsletterService is a mock implementation of dagkrant.NewsletterService.
type NewsletterService struct {
	CreateNewsletterFn        func(ctx context.Context, n *dagkrant.Newsletter) error
	FindNewslettersFn         func(ctx context.Context, filter dagkrant.NewsletterFilter) ([]*dagkrant.Newsletter, error)
	DeleteNewslettersBeforeFn func(ctx context.Context, t time.Time) (int, error)
}

func (s *NewsletterService) CreateNewsletter(ctx context.Context, n *dagkrant.Newsletter) error {
	return s.CreateNewsletterFn(ctx, n)
}

func (s *NewsletterService) FindNewsletters(ctx context.Context, filter dagkrant.NewsletterFilter) ([]*dagkrant.Newsletter, error) {
	return s.FindNewslettersFn(ctx, filter)
}

func (s *NewsletterService) DeleteNewslettersBefore(ctx context.Context, t time.Time) (int, error) {
	return s.DeleteNewslettersBeforeFn(ctx, t)
}
