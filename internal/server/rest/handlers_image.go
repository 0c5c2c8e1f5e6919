package rest

import (
	"net/http"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

// uploadImage returns a presigned PUT URL and records its key on the entry.
func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := models.ParseID(r.PathValue("id"))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	up, err := s.deps.Images.PresignUpload(ctx, id)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(ctx, w, http.StatusOK, up)
}

func (s *Server) getImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := models.ParseID(r.PathValue("id"))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	u, err := s.deps.Images.ImageURL(ctx, id)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	http.Redirect(w, r, u, http.StatusTemporaryRedirect)
}
