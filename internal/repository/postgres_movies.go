package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newline-cinema/booking-server/internal/domain"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	query := `
		INSERT INTO movies (title, cinema_room, release_date, end_date, tickets_available, ticket_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING movie_id
	`

	err := p.db.QueryRow(ctx,
		query,
		movie.Title,
		movie.CinemaRoom,
		movie.ReleaseDate,
		movie.EndDate,
		movie.TicketsAvailable,
		movie.TicketPrice).Scan(&movie.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			return domain.ErrInvalidMovie
		}

		return err
	}

	return nil
}

func (p *PostgresMovieRepository) GetAll(ctx context.Context) ([]*domain.Movie, error) {
	query := `
		SELECT movie_id, title, cinema_room, release_date, end_date, tickets_available, ticket_price
		FROM movies
		ORDER BY movie_id
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]*domain.Movie, 0)

	for rows.Next() {
		var movie domain.Movie

		err = rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.CinemaRoom,
			&movie.ReleaseDate,
			&movie.EndDate,
			&movie.TicketsAvailable,
			&movie.TicketPrice,
		)

		if err != nil {
			return nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}

func (p *PostgresMovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	query := `
		UPDATE movies
		SET title = $2, cinema_room = $3, release_date = $4, end_date = $5,
			tickets_available = $6, ticket_price = $7
		WHERE movie_id = $1
	`

	cmdTag, err := p.db.Exec(ctx,
		query,
		movie.ID,
		movie.Title,
		movie.CinemaRoom,
		movie.ReleaseDate,
		movie.EndDate,
		movie.TicketsAvailable,
		movie.TicketPrice)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			return domain.ErrInvalidMovie
		}

		return err
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresMovieRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM movies WHERE movie_id = $1`

	cmdTag, err := p.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

// ReserveTickets performs the conditional decrement that keeps tickets_available
// non-negative under concurrent bookings. The single UPDATE takes the row lock,
// checks the remaining count, and decrements in one atomic step; when it matches
// no row, the follow-up existence check tells a sold-out movie apart from a
// missing one.
func (p *PostgresMovieRepository) ReserveTickets(ctx context.Context, movieID, quantity int) (*domain.Reservation, error) {
	reservation := &domain.Reservation{
		MovieID:  movieID,
		Quantity: quantity,
	}

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE movies
			SET tickets_available = tickets_available - $2
			WHERE movie_id = $1 AND tickets_available >= $2
			RETURNING ticket_price
		`

		err := tx.QueryRow(ctx, query, movieID, quantity).Scan(&reservation.UnitPrice)
		if err == nil {
			return nil
		}

		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		var exists bool
		err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM movies WHERE movie_id = $1)`, movieID).Scan(&exists)
		if err != nil {
			return err
		}

		if !exists {
			return domain.ErrRecordNotFound
		}

		return domain.ErrInsufficientTickets
	})

	if err != nil {
		return nil, err
	}

	return reservation, nil
}

func (p *PostgresMovieRepository) ReleaseTickets(ctx context.Context, movieID, quantity int) error {
	query := `
		UPDATE movies
		SET tickets_available = tickets_available + $2
		WHERE movie_id = $1
	`

	cmdTag, err := p.db.Exec(ctx, query, movieID, quantity)
	if err != nil {
		return err
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
