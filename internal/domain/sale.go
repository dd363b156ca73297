package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Sale is an immutable record of a completed booking. MovieID is a soft reference:
// removing a movie does not cascade to its sales, so historical rows may point at
// an id that no longer exists.
type Sale struct {
	ID              int
	MovieID         int
	CustomerName    string
	NumberOfTickets int
	TotalPrice      decimal.Decimal
}

type SaleRepository interface {
	Create(ctx context.Context, sale *Sale) error
	GetByMovieId(ctx context.Context, movieID int) ([]*Sale, error)
}
