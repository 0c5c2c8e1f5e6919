// Package admin implements portfolioctl, the operator tool for the
// portfolio server: schema migrations, identity management and pipeline
// imports.
package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/server"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/pipeline"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
)

// Backend is what the commands operate on.
type Backend interface {
	Migrate(ctx context.Context) error
	Register(ctx context.Context, username, password string, roles ...string) (*models.Identity, error)
	Grant(ctx context.Context, username, role string) error
	Revoke(ctx context.Context, username, role string) error
	ImportStages(ctx context.Context, stages []models.PipelineStage) (*pipeline.BulkResult, error)
	Close() error
}

// Opener connects a Backend using the command-line options.
type Opener func(ctx context.Context, o *Options) (Backend, error)

// Options are the connection settings shared by all commands.
type Options struct {
	IdentityDSN        string
	StoreBackend       string
	MongoURI           string
	MongoDatabase      string
	PipelineCollection string
	StoreTimeout       time.Duration
}

func (o *Options) serverConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.IdentityDSN = o.IdentityDSN
	c.StoreBackend = o.StoreBackend
	c.MongoURI = o.MongoURI
	c.MongoDatabase = o.MongoDatabase
	c.PipelineCollection = o.PipelineCollection
	if o.StoreTimeout > 0 {
		c.StoreTimeout = o.StoreTimeout
	}
	return c
}

// backend opens each store on first use, so a command touches only what it
// needs.
type backend struct {
	config *config.Config
	rm     *repomanager.PostgresRepositoryManager

	db     *sql.DB
	auth   *services.AuthService
	stores *server.Stores
}

// Open returns a Backend for the stores named by o.
func Open(_ context.Context, o *Options) (Backend, error) {
	return &backend{
		config: o.serverConfig(),
		rm:     repomanager.NewPostgresRepositoryManager(),
	}, nil
}

func (b *backend) identity(ctx context.Context) (*services.AuthService, error) {
	if b.auth != nil {
		return b.auth, nil
	}
	if b.config.IdentityDSN == "" {
		return nil, errors.New("identity DSN is not set")
	}
	db, err := server.OpenIdentityDB(ctx, b.config, b.rm)
	if err != nil {
		return nil, err
	}
	b.db = db
	// tokens are never issued here
	b.auth = services.NewAuthService(db, b.rm, nil)
	return b.auth, nil
}

// Migrate applies pending identity schema migrations, which happens as part
// of opening the identity store.
func (b *backend) Migrate(ctx context.Context) error {
	_, err := b.identity(ctx)
	return err
}

func (b *backend) Register(ctx context.Context, username, password string, roles ...string) (*models.Identity, error) {
	a, err := b.identity(ctx)
	if err != nil {
		return nil, err
	}
	return a.Register(ctx, username, password, roles...)
}

func (b *backend) Grant(ctx context.Context, username, role string) error {
	a, err := b.identity(ctx)
	if err != nil {
		return err
	}
	return a.Grant(ctx, username, role)
}

func (b *backend) Revoke(ctx context.Context, username, role string) error {
	a, err := b.identity(ctx)
	if err != nil {
		return err
	}
	return a.Revoke(ctx, username, role)
}

func (b *backend) ImportStages(ctx context.Context, stages []models.PipelineStage) (*pipeline.BulkResult, error) {
	if b.stores == nil {
		s, err := server.OpenStores(ctx, b.config)
		if err != nil {
			return nil, fmt.Errorf("store init error: %w", err)
		}
		b.stores = s
	}
	return pipeline.NewDocumentRepository(b.stores.Stages).CreateMany(ctx, stages)
}

func (b *backend) Close() error {
	var errs []error
	if b.stores != nil {
		errs = append(errs, b.stores.Close(context.Background()))
	}
	if b.db != nil {
		errs = append(errs, b.db.Close())
	}
	return errors.Join(errs...)
}
