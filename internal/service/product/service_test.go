package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-api/internal/domain"
)

type stubRepo struct {
	lastFilter domain.ProductFilter
	listCalls  int
}

func (s *stubRepo) List(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	s.listCalls++
	s.lastFilter = filter
	return []domain.Product{{ID: 1, Name: "Boot"}}, nil
}

func (s *stubRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	if id != 1 {
		return nil, domain.ErrNotFound
	}
	return &domain.Product{ID: 1}, nil
}

func (s *stubRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	return &p, nil
}

func TestList_NormalizesFilter(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	list, err := svc.List(context.Background(), domain.ProductFilter{Search: "  boot ", Ordering: " -price "})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "boot", repo.lastFilter.Search)
	assert.Equal(t, domain.OrderByPriceDesc, repo.lastFilter.Ordering)
}

func TestList_RejectsUnknownOrdering(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	_, err := svc.List(context.Background(), domain.ProductFilter{Ordering: "created_at"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, repo.listCalls)
}

func TestGet_NotFound(t *testing.T) {
	svc := New(&stubRepo{})
	_, err := svc.Get(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
