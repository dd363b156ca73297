package app

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newline-cinema/booking-server/internal/domain"
	"github.com/newline-cinema/booking-server/internal/repository"
	appvalidator "github.com/newline-cinema/booking-server/internal/validator"
	"github.com/newline-cinema/booking-server/internal/vcs"
	"github.com/redis/go-redis/v9"
)

var (
	version = vcs.Version()
)

type Application struct {
	config    Config
	logger    *slog.Logger
	db        *pgxpool.Pool
	redis     redis.UniversalClient
	validator *validator.Validate

	movieRepo domain.MovieRepository
	saleRepo  domain.SaleRepository

	mu         sync.Mutex
	listener   net.Listener
	conns      map[net.Conn]struct{}
	sessions   sync.WaitGroup
	inShutdown atomic.Bool
}

type Config struct {
	Host             string
	Port             int
	HealthPort       int
	Env              string
	ReadTimeout      time.Duration
	OtelCollectorUrl string
	DB               DBConfig
	Redis            RedisConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

func Run() error {
	var cfg Config

	flag.StringVar(&cfg.Host, "host", "0.0.0.0", "server host")
	flag.IntVar(&cfg.Port, "port", 12345, "server port")
	flag.IntVar(&cfg.HealthPort, "health-port", 0, "HTTP health endpoint port (0 to disable)")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")
	flag.DurationVar(&cfg.ReadTimeout, "read-timeout", 5*time.Minute, "Per-session read timeout")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL, e.g. redis://localhost:6379 (empty disables the movie list cache)")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	app, err := New(cfg, logger)
	if err != nil {
		logger.Error(err.Error())
		return err
	}
	defer app.Close()

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		logger.Error(err.Error())
		return err
	}
	defer shutdownTelemetry(context.Background())

	return app.Serve()
}

// New builds an Application from configuration: database pool, optional Redis
// client, repositories, and validator. The caller owns Close.
func New(cfg Config, logger *slog.Logger) (*Application, error) {
	db, err := newDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	var redisClient redis.UniversalClient
	if cfg.Redis.URL != "" {
		redisClient, err = newRedisClient(cfg)
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	app := &Application{
		config:    cfg,
		logger:    logger,
		db:        db,
		redis:     redisClient,
		validator: appvalidator.NewValidator(),
		movieRepo: repository.NewPostgresMovieRepository(db),
		saleRepo:  repository.NewPostgresSaleRepository(db),
		conns:     make(map[net.Conn]struct{}),
	}

	return app, nil
}

func (app *Application) Close() {
	if app.redis != nil {
		app.redis.Close()
	}
	if app.db != nil {
		app.db.Close()
	}
}

func newDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func newRedisClient(cfg Config) (redis.UniversalClient, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, err
	}

	opts.MaxIdleConns = cfg.Redis.MaxIdleConns
	opts.MaxActiveConns = cfg.Redis.MaxOpenConns
	opts.ConnMaxIdleTime = cfg.Redis.MaxIdleTime

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}
