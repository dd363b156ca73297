package mocks

import (
	"context"

	"github.com/newline-cinema/booking-server/internal/domain"
)

type MockMovieRepo struct {
	domain.MovieRepository
	CreateFunc         func(ctx context.Context, movie *domain.Movie) error
	GetAllFunc         func(ctx context.Context) ([]*domain.Movie, error)
	UpdateFunc         func(ctx context.Context, movie *domain.Movie) error
	DeleteFunc         func(ctx context.Context, id int) error
	ReserveTicketsFunc func(ctx context.Context, movieID, quantity int) (*domain.Reservation, error)
	ReleaseTicketsFunc func(ctx context.Context, movieID, quantity int) error
}

func (m *MockMovieRepo) Create(ctx context.Context, movie *domain.Movie) error {
	return m.CreateFunc(ctx, movie)
}

func (m *MockMovieRepo) GetAll(ctx context.Context) ([]*domain.Movie, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockMovieRepo) Update(ctx context.Context, movie *domain.Movie) error {
	return m.UpdateFunc(ctx, movie)
}

func (m *MockMovieRepo) Delete(ctx context.Context, id int) error {
	return m.DeleteFunc(ctx, id)
}

func (m *MockMovieRepo) ReserveTickets(ctx context.Context, movieID, quantity int) (*domain.Reservation, error) {
	return m.ReserveTicketsFunc(ctx, movieID, quantity)
}

func (m *MockMovieRepo) ReleaseTickets(ctx context.Context, movieID, quantity int) error {
	return m.ReleaseTicketsFunc(ctx, movieID, quantity)
}
