package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/newline-cinema/booking-server/internal/domain"
	"github.com/newline-cinema/booking-server/internal/protocol"
	"github.com/shopspring/decimal"
)

// bookTicket is the booking coordinator: it turns the atomic reservation and
// the sale insert into one logical booking with all-or-nothing visible effect.
// If recording the sale fails after the decrement committed, the reserved
// tickets are released again so a failed booking never leaves the counter
// permanently short.
func (app *Application) bookTicket(ctx context.Context, logger *slog.Logger, req *protocol.Request) any {
	booking := protocol.BookingRequest{
		MovieID:         req.MovieID,
		CustomerName:    req.CustomerName,
		NumberOfTickets: req.NumberOfTickets,
	}

	err := app.validator.Struct(booking)
	if err != nil {
		return app.failedValidationResponse(err)
	}

	reservation, err := app.movieRepo.ReserveTickets(ctx, booking.MovieID, booking.NumberOfTickets)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			return notFoundResponse(booking.MovieID)
		case errors.Is(err, domain.ErrInsufficientTickets):
			logger.Warn("booking rejected",
				"movie_id", booking.MovieID,
				"requested", booking.NumberOfTickets,
			)
			return protocol.Error("not enough tickets available")
		default:
			return app.serverErrorResponse(logger, protocol.ActionBookTicket, err)
		}
	}

	totalPrice := reservation.UnitPrice.Mul(decimal.NewFromInt(int64(booking.NumberOfTickets)))

	sale := &domain.Sale{
		MovieID:         booking.MovieID,
		CustomerName:    booking.CustomerName,
		NumberOfTickets: booking.NumberOfTickets,
		TotalPrice:      totalPrice,
	}

	err = app.saleRepo.Create(ctx, sale)
	if err != nil {
		// Compensate: the decrement already committed, so put the tickets back
		// before reporting the failure.
		releaseErr := app.movieRepo.ReleaseTickets(ctx, booking.MovieID, booking.NumberOfTickets)
		if releaseErr != nil {
			logger.Error("failed to release tickets after sale failure",
				"movie_id", booking.MovieID,
				"quantity", booking.NumberOfTickets,
				"error", releaseErr,
			)
		}

		return app.serverErrorResponse(logger, protocol.ActionBookTicket, err)
	}

	app.invalidateMovieList(ctx, logger)

	logger.Info("booking completed",
		"sale_id", sale.ID,
		"movie_id", booking.MovieID,
		"quantity", booking.NumberOfTickets,
		"total_price", totalPrice.StringFixed(2),
	)

	price, _ := totalPrice.Float64()

	return protocol.BookingResponse{
		Status:     protocol.StatusSuccess,
		Message:    fmt.Sprintf("Booked %d ticket(s) for R%s", booking.NumberOfTickets, totalPrice.StringFixed(2)),
		SaleID:     sale.ID,
		TotalPrice: price,
	}
}
