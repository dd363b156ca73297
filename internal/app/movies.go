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

func (app *Application) addMovie(ctx context.Context, logger *slog.Logger, req *protocol.Request) any {
	if req.Movie == nil {
		return malformedRequestResponse("add_movie requires a movie object")
	}

	err := app.validator.Struct(req.Movie)
	if err != nil {
		return app.failedValidationResponse(err)
	}

	movie := toDomainMovie(req.Movie)

	err = app.movieRepo.Create(ctx, movie)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMovie) {
			return protocol.Error("movie rejected: " + err.Error())
		}
		return app.serverErrorResponse(logger, protocol.ActionAddMovie, err)
	}

	app.invalidateMovieList(ctx, logger)

	logger.Info("movie added", "movie_id", movie.ID, "title", movie.Title)

	return protocol.OK(fmt.Sprintf("Movie %q added with id %d", movie.Title, movie.ID))
}

func (app *Application) getMovies(ctx context.Context, logger *slog.Logger) any {
	gen, cacheable := app.movieListGeneration(ctx, logger)
	if cacheable {
		if rows, ok := app.cachedMovieList(ctx, logger, gen); ok {
			return protocol.MovieListResponse{Status: protocol.StatusSuccess, Movies: rows}
		}
	}

	movies, err := app.movieRepo.GetAll(ctx)
	if err != nil {
		return app.serverErrorResponse(logger, protocol.ActionGetMovies, err)
	}

	rows := toMovieRows(movies)
	if cacheable {
		app.cacheMovieList(ctx, logger, gen, rows)
	}

	return protocol.MovieListResponse{Status: protocol.StatusSuccess, Movies: rows}
}

func (app *Application) updateMovie(ctx context.Context, logger *slog.Logger, req *protocol.Request) any {
	if req.Movie == nil {
		return malformedRequestResponse("update_movie requires a movie object")
	}
	if req.Movie.MovieID < 1 {
		return protocol.Error("validation failed: movie_id must be 1 or greater")
	}

	err := app.validator.Struct(req.Movie)
	if err != nil {
		return app.failedValidationResponse(err)
	}

	movie := toDomainMovie(req.Movie)
	movie.ID = req.Movie.MovieID

	err = app.movieRepo.Update(ctx, movie)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			return notFoundResponse(movie.ID)
		case errors.Is(err, domain.ErrInvalidMovie):
			return protocol.Error("movie rejected: " + err.Error())
		default:
			return app.serverErrorResponse(logger, protocol.ActionUpdateMovie, err)
		}
	}

	app.invalidateMovieList(ctx, logger)

	logger.Info("movie updated", "movie_id", movie.ID)

	return protocol.OK(fmt.Sprintf("Movie %d updated", movie.ID))
}

func (app *Application) removeMovie(ctx context.Context, logger *slog.Logger, req *protocol.Request) any {
	if req.MovieID < 1 {
		return protocol.Error("validation failed: movie_id must be 1 or greater")
	}

	err := app.movieRepo.Delete(ctx, req.MovieID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return notFoundResponse(req.MovieID)
		}
		return app.serverErrorResponse(logger, protocol.ActionRemoveMovie, err)
	}

	app.invalidateMovieList(ctx, logger)

	logger.Info("movie removed", "movie_id", req.MovieID)

	return protocol.OK(fmt.Sprintf("Movie %d removed", req.MovieID))
}

func toDomainMovie(payload *protocol.MoviePayload) *domain.Movie {
	return &domain.Movie{
		Title:            payload.Title,
		CinemaRoom:       payload.CinemaRoom,
		ReleaseDate:      payload.ReleaseDate,
		EndDate:          payload.EndDate,
		TicketsAvailable: payload.TicketsAvailable,
		TicketPrice:      decimal.NewFromFloat(payload.TicketPrice),
	}
}

func toMovieRows(movies []*domain.Movie) []protocol.MovieRow {
	rows := make([]protocol.MovieRow, len(movies))

	for i, movie := range movies {
		price, _ := movie.TicketPrice.Float64()

		rows[i] = protocol.MovieRow{
			ID:               movie.ID,
			Title:            movie.Title,
			CinemaRoom:       movie.CinemaRoom,
			ReleaseDate:      movie.ReleaseDate,
			EndDate:          movie.EndDate,
			TicketsAvailable: movie.TicketsAvailable,
			TicketPrice:      price,
		}
	}

	return rows
}
