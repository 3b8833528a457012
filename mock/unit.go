package mock

import (
	"context"

	"github.com/fwojciec/sitecorpus"
)

var _ sitecorpus.UnitStore = (*UnitStore)(nil)

// UnitStore is a mock implementation of sitecorpus.UnitStore.
type UnitStore struct {
	SaveUnitFn   func(ctx context.Context, site string, unit *sitecorpus.TextUnit) error
	DeleteUnitFn func(ctx context.Context, site, url string) error
	ListUnitsFn  func(ctx context.Context, site string) ([]string, error)
}

func (s *UnitStore) SaveUnit(ctx context.Context, site string, unit *sitecorpus.TextUnit) error {
	return s.SaveUnitFn(ctx, site, unit)
}

func (s *UnitStore) DeleteUnit(ctx context.Context, site, url string) error {
	return s.DeleteUnitFn(ctx, site, url)
}

func (s *UnitStore) ListUnits(ctx context.Context, site string) ([]string, error) {
	return s.ListUnitsFn(ctx, site)
}
