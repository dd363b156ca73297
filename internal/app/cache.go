package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/newline-cinema/booking-server/internal/protocol"
	"github.com/redis/go-redis/v9"
)

const (
	movieListGenKey   = "movies:gen"
	movieListKeyFmt   = "movies:list:%d"
	movieListCacheTTL = 30 * time.Second
)

// The movie list cache is a read accelerator only: any Redis failure falls
// through to Postgres. Mutations bump a generation counter rather than
// deleting the cached snapshot; the snapshot key embeds the generation it was
// built from, so a populate racing a mutation lands in a superseded key that
// no later reader will look at.

func (app *Application) movieListGeneration(ctx context.Context, logger *slog.Logger) (int64, bool) {
	if app.redis == nil {
		return 0, false
	}

	gen, err := app.redis.Get(ctx, movieListGenKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, true
		}
		logger.Warn("movie list cache generation read failed", "error", err)
		return 0, false
	}

	return gen, true
}

func (app *Application) cachedMovieList(ctx context.Context, logger *slog.Logger, gen int64) ([]protocol.MovieRow, bool) {
	data, err := app.redis.Get(ctx, fmt.Sprintf(movieListKeyFmt, gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("movie list cache read failed", "error", err)
		}
		return nil, false
	}

	var rows []protocol.MovieRow
	if err := json.Unmarshal(data, &rows); err != nil {
		logger.Warn("movie list cache entry is corrupt", "error", err)
		return nil, false
	}

	return rows, true
}

// cacheMovieList stores rows under the generation observed before the store
// read. If a mutation committed in between, the current generation has moved
// on and this write is dead on arrival, which is exactly what keeps a stale
// snapshot from outliving an invalidation.
func (app *Application) cacheMovieList(ctx context.Context, logger *slog.Logger, gen int64, rows []protocol.MovieRow) {
	data, err := json.Marshal(rows)
	if err != nil {
		logger.Warn("failed to marshal movie list for cache", "error", err)
		return
	}

	err = app.redis.Set(ctx, fmt.Sprintf(movieListKeyFmt, gen), data, movieListCacheTTL).Err()
	if err != nil {
		logger.Warn("movie list cache write failed", "error", err)
	}
}

func (app *Application) invalidateMovieList(ctx context.Context, logger *slog.Logger) {
	if app.redis == nil {
		return
	}

	err := app.redis.Incr(ctx, movieListGenKey).Err()
	if err != nil {
		logger.Warn("movie list cache invalidation failed", "error", err)
	}
}
