// Package server wires the Diarify server together: PostgreSQL with
// migrations, the Redis token registry, the media store, the REST API and
// the gRPC health service. Run blocks until a signal arrives or one of the
// listeners fails, then shuts everything down.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/diarify/internal/logging"
	"github.com/dmitrijs2005/diarify/internal/server/config"
	"github.com/dmitrijs2005/diarify/internal/server/httpapi"
	"github.com/dmitrijs2005/diarify/internal/server/media"
	"github.com/dmitrijs2005/diarify/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/diarify/internal/server/services"
	"github.com/dmitrijs2005/diarify/internal/server/tokens"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/diarify/internal/server/grpc"
)

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client
	http   *httpapi.Server
	health *gs.HealthServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(c.LogLevel))

	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	rdb, err := tokens.Connect(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store, mediaDir, err := newMediaStore(ctx, c)
	if err != nil {
		_ = db.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("media init error: %w", err)
	}

	us := services.NewUserService(db, m, tokens.NewRedisRegistry(rdb), c)
	cs := services.NewCategoryService(db, m)
	ds := services.NewDiaryService(db, m, store, logger)

	router := httpapi.NewRouter(httpapi.NewHandler(us, cs, ds, logger), mediaDir)

	checks := map[string]gs.Check{
		"postgres": db.PingContext,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}

	return &App{
		config: c,
		logger: logger,
		db:     db,
		redis:  rdb,
		http:   httpapi.NewServer(c.HTTPAddr, router, logger),
		health: gs.NewHealthServer(c.HealthAddr, logger, checks),
	}, nil
}

// newMediaStore returns the configured store and, for the local backend, the
// directory to serve under /media.
func newMediaStore(ctx context.Context, c *config.Config) (media.Store, string, error) {
	switch c.MediaBackend {
	case config.MediaLocal:
		s, err := media.NewLocalStore(c.MediaDir)
		if err != nil {
			return nil, "", err
		}
		return s, s.Dir(), nil
	case config.MediaS3:
		s, err := media.NewS3Store(ctx, media.S3Config{
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, "", err
		}
		return s, "", nil
	default:
		return nil, "", fmt.Errorf("unknown media backend %q", c.MediaBackend)
	}
}

// runAll runs every runner until the first one fails or ctx is done.
func runAll(ctx context.Context, rs ...runner) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range rs {
		g.Go(func() error { return r.Run(gctx) })
	}
	return g.Wait()
}

func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	err := runAll(ctx, app.http, app.health)
	if err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
	}

	app.logger.Info(context.WithoutCancel(ctx), "Closing connections...")
	return errors.Join(err, app.Close())
}

func (app *App) Close() error {
	return errors.Join(app.db.Close(), app.redis.Close())
}
