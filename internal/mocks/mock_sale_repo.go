package mocks

import (
	"context"

	"github.com/newline-cinema/booking-server/internal/domain"
)

type MockSaleRepo struct {
	domain.SaleRepository
	CreateFunc       func(ctx context.Context, sale *domain.Sale) error
	GetByMovieIdFunc func(ctx context.Context, movieID int) ([]*domain.Sale, error)
}

func (m *MockSaleRepo) Create(ctx context.Context, sale *domain.Sale) error {
	return m.CreateFunc(ctx, sale)
}

func (m *MockSaleRepo) GetByMovieId(ctx context.Context, movieID int) ([]*domain.Sale, error) {
	return m.GetByMovieIdFunc(ctx, movieID)
}
