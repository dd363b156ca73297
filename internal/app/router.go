package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/newline-cinema/booking-server/internal/protocol"
)

// dispatch maps an action to its handler and returns the response to write
// back. A panic in a handler degrades to a generic server error response so a
// bad request can never take the server down with it.
func (app *Application) dispatch(ctx context.Context, logger *slog.Logger, req *protocol.Request) (resp any) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("panic while handling request", "action", req.Action, "panic", fmt.Sprintf("%v", p))
			resp = protocol.Error(serverErrorMessage)
		}
	}()

	switch req.Action {
	case protocol.ActionAddMovie:
		return app.addMovie(ctx, logger, req)
	case protocol.ActionGetMovies:
		return app.getMovies(ctx, logger)
	case protocol.ActionBookTicket:
		return app.bookTicket(ctx, logger, req)
	case protocol.ActionUpdateMovie:
		return app.updateMovie(ctx, logger, req)
	case protocol.ActionRemoveMovie:
		return app.removeMovie(ctx, logger, req)
	default:
		return protocol.Error(fmt.Sprintf("unknown action: %q", req.Action))
	}
}
