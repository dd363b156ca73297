package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newline-cinema/booking-server/internal/domain"
)

type PostgresSaleRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSaleRepository(db *pgxpool.Pool) *PostgresSaleRepository {
	return &PostgresSaleRepository{
		db: db,
	}
}

func (p *PostgresSaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	query := `
		INSERT INTO sales (movie_id, customer_name, number_of_tickets, total_price)
		VALUES ($1, $2, $3, $4)
		RETURNING sale_id
	`

	return p.db.QueryRow(ctx,
		query,
		sale.MovieID,
		sale.CustomerName,
		sale.NumberOfTickets,
		sale.TotalPrice).Scan(&sale.ID)
}

func (p *PostgresSaleRepository) GetByMovieId(ctx context.Context, movieID int) ([]*domain.Sale, error) {
	query := `
		SELECT sale_id, movie_id, customer_name, number_of_tickets, total_price
		FROM sales
		WHERE movie_id = $1
		ORDER BY sale_id
	`

	rows, err := p.db.Query(ctx, query, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]*domain.Sale, 0)

	for rows.Next() {
		var sale domain.Sale

		err = rows.Scan(
			&sale.ID,
			&sale.MovieID,
			&sale.CustomerName,
			&sale.NumberOfTickets,
			&sale.TotalPrice,
		)

		if err != nil {
			return nil, err
		}

		sales = append(sales, &sale)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return sales, nil
}
