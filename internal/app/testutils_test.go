package app

import (
	"io"
	"log/slog"
	"net"

	"github.com/newline-cinema/booking-server/internal/mocks"
	appvalidator "github.com/newline-cinema/booking-server/internal/validator"
)

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		config:    Config{Env: "test"},
		validator: appvalidator.NewValidator(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		movieRepo: &mocks.MockMovieRepo{},
		saleRepo:  &mocks.MockSaleRepo{},
		conns:     make(map[net.Conn]struct{}),
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}
