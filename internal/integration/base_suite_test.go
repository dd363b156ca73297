package integration_test

import (
	"bufio"
	"context"
	"io"
	"log"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newline-cinema/booking-server/internal/app"
	"github.com/newline-cinema/booking-server/internal/protocol"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

const (
	dbName         = "cinema"
	dbUser         = "test_user"
	dbPassword     = "test_password"
	dbImageName    = "postgres:17-alpine"
	cacheImageName = "redis:7"
)

type BaseSuite struct {
	suite.Suite
	app            *app.Application
	db             *pgxpool.Pool
	cache          *redis.Client
	addr           net.Addr
	serveDone      chan error
	dbContainer    *PostgresContainer
	cacheContainer *RedisContainer
}

func (s *BaseSuite) SetupSuite() {
	ctx := context.Background()

	postgresContainer, err := getDbContainer(ctx)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return
	}

	redisContainer, err := getCacheContainer(ctx)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return
	}

	s.dbContainer = postgresContainer
	s.cacheContainer = redisContainer

	cfg := app.Config{
		Host: "127.0.0.1",
		Env:  "test",
		DB: app.DBConfig{
			DSN:          postgresContainer.ConnectionString,
			MaxOpenConns: 25,
			MaxIdleTime:  2 * time.Minute,
		},
		Redis: app.RedisConfig{
			URL:          redisContainer.ConnectionString,
			MaxOpenConns: 10,
			MaxIdleConns: 10,
			MaxIdleTime:  2 * time.Minute,
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	application, err := app.New(cfg, logger)
	if err != nil {
		log.Printf("cannot initialize app: %s", err)
		return
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Printf("cannot listen: %s", err)
		return
	}

	s.app = application
	s.addr = listener.Addr()
	s.serveDone = make(chan error, 1)

	go func() {
		s.serveDone <- application.ServeListener(listener)
	}()

	db, err := pgxpool.New(ctx, postgresContainer.ConnectionString)
	if err != nil {
		log.Printf("cannot create db pool: %s", err)
		return
	}
	s.db = db

	cacheOpts, err := redis.ParseURL(redisContainer.ConnectionString)
	if err != nil {
		log.Printf("cannot parse redis url: %s", err)
		return
	}
	s.cache = redis.NewClient(cacheOpts)
}

func (s *BaseSuite) TearDownSuite() {
	if s.app != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.app.Shutdown(ctx); err != nil {
			log.Printf("failed to shut down server: %s", err)
		}
		<-s.serveDone
		s.app.Close()
	}

	if s.db != nil {
		s.db.Close()
	}

	if s.cache != nil {
		s.cache.Close()
	}

	if s.dbContainer != nil {
		if err := testcontainers.TerminateContainer(s.dbContainer.Container.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
	if s.cacheContainer != nil {
		if err := testcontainers.TerminateContainer(s.cacheContainer.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
}

func (s *BaseSuite) SetupTest() {
	require.NotNil(s.T(), s.db, "test environment did not come up; is Docker available?")

	_, err := s.db.Exec(context.Background(), `TRUNCATE movies, sales RESTART IDENTITY`)
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.cache.FlushAll(context.Background()).Err())
}

// sendRequest opens a fresh connection for a single exchange, the way the
// desktop client talks to the server.
func sendRequest(t testing.TB, addr net.Addr, req protocol.Request) protocol.Response {
	t.Helper()

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, protocol.WriteMessage(conn, req))

	var resp protocol.Response
	require.NoError(t, protocol.ReadMessage(bufio.NewReader(conn), &resp))

	return resp
}

func addMovie(t testing.TB, addr net.Addr, payload protocol.MoviePayload) {
	t.Helper()

	resp := sendRequest(t, addr, protocol.Request{Action: protocol.ActionAddMovie, Movie: &payload})
	require.Equal(t, protocol.StatusSuccess, resp.Status, resp.Message)
}

func listMovies(t testing.TB, addr net.Addr) []protocol.MovieRow {
	t.Helper()

	resp := sendRequest(t, addr, protocol.Request{Action: protocol.ActionGetMovies})
	require.Equal(t, protocol.StatusSuccess, resp.Status, resp.Message)

	return resp.Movies
}
