package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type Movie struct {
	ID               int
	Title            string
	CinemaRoom       int
	ReleaseDate      string
	EndDate          string
	TicketsAvailable int
	TicketPrice      decimal.Decimal
}

// Reservation is the outcome of a successful atomic check-and-decrement against a
// movie's ticket counter. UnitPrice is the price in effect at the instant the
// tickets were claimed; later price changes must not affect the sale built from it.
type Reservation struct {
	MovieID   int
	Quantity  int
	UnitPrice decimal.Decimal
}

type MovieRepository interface {
	Create(ctx context.Context, movie *Movie) error
	GetAll(ctx context.Context) ([]*Movie, error)
	Update(ctx context.Context, movie *Movie) error
	Delete(ctx context.Context, id int) error

	// ReserveTickets decrements tickets_available by quantity only if enough tickets
	// remain, in a single atomic step. Two concurrent calls against the same movie can
	// never both succeed when only one of them could be satisfied.
	ReserveTickets(ctx context.Context, movieID, quantity int) (*Reservation, error)

	// ReleaseTickets returns previously reserved tickets to the pool. Used as the
	// compensating action when recording the sale fails after the decrement committed.
	ReleaseTickets(ctx context.Context, movieID, quantity int) error
}
