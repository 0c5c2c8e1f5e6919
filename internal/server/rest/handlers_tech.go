package rest

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

func (s *Server) listTechs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := s.deps.Techs.ListTechs(ctx)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(ctx, w, http.StatusOK, items)
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := s.deps.Techs.ListProjects(ctx)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(ctx, w, http.StatusOK, items)
}

func (s *Server) getTech(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := models.ParseID(r.PathValue("id"))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	e, err := s.deps.Techs.GetByID(ctx, id)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(ctx, w, http.StatusOK, e)
}

func (s *Server) createTech(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in models.TechEntry
	if err := s.decodeJSON(w, r, &in); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	if err := in.Validate(); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	// ids are always assigned by the store
	in.ID = primitive.NilObjectID

	created, err := s.deps.Techs.Create(ctx, &in)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	if c, ok := ClaimsFromContext(ctx); ok {
		s.logger.Info(ctx, "tech entry created", "id", created.ID.Hex(), "kind", created.Kind, "by", c.Subject)
	}

	w.Header().Set("Location", "/tech/"+created.ID.Hex())
	s.writeJSON(ctx, w, http.StatusCreated, created)
}

// updateTech replaces an entry and responds with the value it replaced.
func (s *Server) updateTech(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := models.ParseID(r.PathValue("id"))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	var in models.TechEntry
	if err := s.decodeJSON(w, r, &in); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	if err := in.Validate(); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	prev, err := s.deps.Techs.GetByID(ctx, id)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	if err := s.deps.Techs.Update(ctx, id, &in); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(ctx, w, http.StatusOK, prev)
}

func (s *Server) deleteTech(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := models.ParseID(r.PathValue("id"))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.deleted(w, r, func() (bool, error) { return s.deps.Techs.Delete(ctx, id) })
}

// deleted runs del and answers 204, or 404 when nothing was removed.
func (s *Server) deleted(w http.ResponseWriter, r *http.Request, del func() (bool, error)) {
	ctx := r.Context()

	ok, err := del()
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	if !ok {
		s.writeErrorMessage(ctx, w, http.StatusNotFound, "not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
