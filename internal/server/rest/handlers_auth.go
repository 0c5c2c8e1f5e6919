package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// login answers every credential failure with the same 401 body so that
// unknown users and wrong passwords are indistinguishable.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in loginRequest
	if err := s.decodeJSON(w, r, &in); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	if in.Username == "" || in.Password == "" {
		s.writeErrorMessage(ctx, w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.deps.Auth.Login(ctx, in.Username, in.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.logger.Info(ctx, "login rejected", "username", in.Username)
			s.writeErrorMessage(ctx, w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.writeError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, loginResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
