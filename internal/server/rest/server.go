// Package rest exposes the portfolio over HTTP/JSON.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/server/auth"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/pipeline"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/techs"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// LoginService verifies credentials and issues tokens.
type LoginService interface {
	Login(ctx context.Context, username, password string) (*auth.Token, error)
}

// TokenAuthorizer checks a bearer token for a role.
type TokenAuthorizer interface {
	Authorize(token string, requiredRole string) (*auth.Claims, error)
}

// ImageService presigns entry image URLs.
type ImageService interface {
	PresignUpload(ctx context.Context, id primitive.ObjectID) (*models.ImageUpload, error)
	ImageURL(ctx context.Context, id primitive.ObjectID) (string, error)
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Techs  techs.Repository
	Stages pipeline.Repository
	Auth   LoginService
	Gate   TokenAuthorizer
	// Images may be nil, which leaves the image routes unregistered.
	Images ImageService
	// ProtectAllWrites requires the Admin role on every mutating route, not
	// only on entry creation and image upload.
	ProtectAllWrites bool
}

type Server struct {
	address string
	logger  logging.Logger
	deps    Deps
}

func NewServer(address string, l logging.Logger, deps Deps) *Server {
	return &Server{
		address: address,
		logger:  l.With("module", "rest_server"),
		deps:    deps,
	}
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return s.logRequests(mux)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}
