package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/newline-cinema/booking-server/internal/protocol"
)

// Serve listens on the configured address and runs the accept loop until a
// SIGINT or SIGTERM arrives, then drains in-flight sessions with a 30s grace
// period. The optional HTTP health listener runs alongside.
func (app *Application) Serve() error {
	l, err := net.Listen("tcp", fmt.Sprintf("%s:%d", app.config.Host, app.config.Port))
	if err != nil {
		return err
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- app.Shutdown(ctx)
	}()

	var healthSrv *http.Server
	if app.config.HealthPort > 0 {
		healthSrv = &http.Server{
			Addr:         fmt.Sprintf("%s:%d", app.config.Host, app.config.HealthPort),
			Handler:      app.healthRoutes(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}

		go func() {
			err := healthSrv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				app.logger.Error("health listener failed", "error", err)
			}
		}()
	}

	app.logger.Info("starting server", "addr", l.Addr().String(), "env", app.config.Env)

	err = app.ServeListener(l)
	if err != nil {
		return err
	}

	err = <-shutdownError

	if healthSrv != nil {
		healthSrv.Shutdown(context.Background())
	}

	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", l.Addr().String())

	return nil
}

// ServeListener runs the accept loop on l, one goroutine per connection.
// It returns nil once the listener is closed by Shutdown.
func (app *Application) ServeListener(l net.Listener) error {
	app.mu.Lock()
	app.listener = l
	app.mu.Unlock()

	for {
		conn, err := l.Accept()
		if err != nil {
			if app.inShutdown.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		app.trackConn(conn)
		app.sessions.Add(1)

		go func() {
			defer app.sessions.Done()
			defer app.untrackConn(conn)
			app.handleConn(conn)
		}()
	}
}

// Shutdown closes the listener and waits for in-flight sessions to finish. If
// ctx expires first, remaining connections are closed and ctx's error is
// returned.
func (app *Application) Shutdown(ctx context.Context) error {
	app.inShutdown.Store(true)

	app.mu.Lock()
	if app.listener != nil {
		app.listener.Close()
	}
	app.mu.Unlock()

	done := make(chan struct{})
	go func() {
		app.sessions.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		app.mu.Lock()
		for conn := range app.conns {
			conn.Close()
		}
		app.mu.Unlock()
		return ctx.Err()
	}
}

func (app *Application) trackConn(conn net.Conn) {
	app.mu.Lock()
	app.conns[conn] = struct{}{}
	app.mu.Unlock()
}

func (app *Application) untrackConn(conn net.Conn) {
	app.mu.Lock()
	delete(app.conns, conn)
	app.mu.Unlock()
}

// handleConn runs one session: read a request, dispatch it, write the
// response, loop. Client-level errors (bad JSON, unknown action) answer with
// an error response and keep the session alive; transport errors end it.
func (app *Application) handleConn(conn net.Conn) {
	defer conn.Close()

	logger := app.logger.With(
		"session_id", uuid.NewString(),
		"remote_addr", conn.RemoteAddr().String(),
	)
	logger.Info("session started")

	ctx := context.Background()
	reader := bufio.NewReader(conn)

	for {
		if app.config.ReadTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(app.config.ReadTimeout))
		}

		var req protocol.Request

		err := protocol.ReadMessage(reader, &req)
		if err != nil {
			var decodeErr *protocol.DecodeError

			switch {
			case errors.Is(err, io.EOF):
				logger.Info("session closed by peer")
				return
			case errors.As(err, &decodeErr):
				logger.Warn("malformed request", "error", err)
				if werr := protocol.WriteMessage(conn, protocol.Error("malformed request: invalid JSON")); werr != nil {
					logger.Error("failed to write response", "error", werr)
					return
				}
				continue
			case errors.Is(err, protocol.ErrMessageTooLarge):
				// The stream is no longer in sync with the framing, so the
				// session cannot continue after this response.
				logger.Warn("request exceeds message size limit")
				protocol.WriteMessage(conn, protocol.Error("malformed request: message too large"))
				return
			default:
				logger.Error("session read failed", "error", err)
				return
			}
		}

		resp := app.dispatch(ctx, logger, &req)

		if err := protocol.WriteMessage(conn, resp); err != nil {
			logger.Error("failed to write response", "error", err)
			return
		}
	}
}
