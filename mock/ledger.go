package mock

import (
	"context"

	"github.com/fwojciec/sitecorpus"
)

var _ sitecorpus.LedgerService = (*LedgerService)(nil)

// LedgerService is a mock implementation of sitecorpus.LedgerService.
type LedgerService struct {
	FindPagesFn   func(ctx context.Context, site string) ([]*sitecorpus.LedgerPage, error)
	UpsertPageFn  func(ctx context.Context, page *sitecorpus.LedgerPage) error
	DeletePageFn  func(ctx context.Context, site, url string) error
	CreateRunFn   func(ctx context.Context, run *sitecorpus.Run) error
	FinishRunFn   func(ctx context.Context, run *sitecorpus.Run) error
	FindLastRunFn func(ctx context.Context, site string) (*sitecorpus.Run, error)
}

func (s *LedgerService) FindPages(ctx context.Context, site string) ([]*sitecorpus.LedgerPage, error) {
	return s.FindPagesFn(ctx, site)
}

func (s *LedgerService) UpsertPage(ctx context.Context, page *sitecorpus.LedgerPage) error {
	return s.UpsertPageFn(ctx, page)
}

func (s *LedgerService) DeletePage(ctx context.Context, site, url string) error {
	return s.DeletePageFn(ctx, site, url)
}

func (s *LedgerService) CreateRun(ctx context.Context, run *sitecorpus.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *LedgerService) FinishRun(ctx context.Context, run *sitecorpus.Run) error {
	return s.FinishRunFn(ctx, run)
}

func (s *LedgerService) FindLastRun(ctx context.Context, site string) (*sitecorpus.Run, error) {
	return s.FindLastRunFn(ctx, site)
}
