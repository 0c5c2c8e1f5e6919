// Package server wires the portfolio server together: it opens the document
// store and the identity database, runs migrations, and serves the REST API
// until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/server/auth"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/pipeline"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/techs"
	"github.com/dmitrijs2005/portfolio/internal/server/rest"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
	"github.com/dmitrijs2005/portfolio/internal/server/store"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	mongo  *mongo.Client
	server *rest.Server
}

// Stores are the record collections behind the tech and pipeline views.
type Stores struct {
	Techs  store.Collection[models.TechEntry]
	Stages store.Collection[models.PipelineStage]

	client *mongo.Client
}

// OpenStores connects to the configured document store. The memory backend
// starts empty on every run.
func OpenStores(ctx context.Context, c *config.Config) (*Stores, error) {
	switch c.StoreBackend {
	case config.StoreMemory:
		return &Stores{
			Techs:  store.NewMemoryCollection[models.TechEntry](),
			Stages: store.NewMemoryCollection[models.PipelineStage](),
		}, nil
	case config.StoreMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, c.StoreTimeout)
		defer cancel()
		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo ping: %w", err)
		}

		db := client.Database(c.MongoDatabase)
		return &Stores{
			Techs:  store.NewMongoCollection[models.TechEntry](db.Collection(c.TechCollection), c.StoreTimeout),
			Stages: store.NewMongoCollection[models.PipelineStage](db.Collection(c.PipelineCollection), c.StoreTimeout),
			client: client,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
}

// Close disconnects from the document store, if any.
func (s *Stores) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// OpenIdentityDB opens the identity database and applies pending migrations.
func OpenIdentityDB(ctx context.Context, c *config.Config, m repomanager.RepositoryManager) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.IdentityDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return db, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogBackend)
	if err != nil {
		return nil, err
	}

	issuer, err := auth.NewIssuer([]byte(c.JWTKey), c.JWTIssuer, c.JWTAudience, c.TokenValidity)
	if err != nil {
		return nil, err
	}

	stores, err := OpenStores(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	db, err := OpenIdentityDB(ctx, c, rm)
	if err != nil {
		_ = stores.Close(context.Background())
		return nil, fmt.Errorf("identity store init error: %w", err)
	}

	techRepo := techs.NewDocumentRepository(stores.Techs)
	stageRepo := pipeline.NewDocumentRepository(stores.Stages)

	deps := rest.Deps{
		Techs:            techRepo,
		Stages:           stageRepo,
		Auth:             services.NewAuthService(db, rm, issuer),
		Gate:             issuer,
		ProtectAllWrites: c.ProtectAllWrites,
	}
	if c.ImagesEnabled() {
		deps.Images = services.NewImageService(techRepo, c)
	}

	return &App{
		config: c,
		logger: logger,
		db:     db,
		mongo:  stores.client,
		server: rest.NewServer(c.HTTPAddr, logger, deps),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a signal arrives or the server fails, then releases the
// store connections.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"store", app.config.StoreBackend,
		"images", app.config.ImagesEnabled(),
		"protect_all_writes", app.config.ProtectAllWrites,
	)

	app.initSignalHandler(cancelFunc)

	runErr := app.server.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, runErr.Error())
	}

	return errors.Join(runErr, app.close())
}

func (app *App) close() error {
	var errs []error
	if app.mongo != nil {
		if err := app.mongo.Disconnect(context.Background()); err != nil {
			errs = append(errs, fmt.Errorf("mongo disconnect: %w", err))
		}
	}
	if err := app.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("db close: %w", err))
	}
	app.logger.Info(context.Background(), "App stopped")
	if s, ok := app.logger.(interface{ Sync() error }); ok {
		// stdout may not support fsync; nothing is left to report it to
		_ = s.Sync()
	}
	return errors.Join(errs...)
}
