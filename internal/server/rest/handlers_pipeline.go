package rest

import (
	"errors"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/pipeline"
)

// maxBulkStages caps the size of one bulk request.
const maxBulkStages = 1000

func (s *Server) listStages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := s.deps.Stages.ListComplete(ctx)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(ctx, w, http.StatusOK, items)
}

func (s *Server) createStage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in models.PipelineStage
	if err := s.decodeJSON(w, r, &in); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	in.ID = primitive.NilObjectID

	created, err := s.deps.Stages.Create(ctx, &in)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	w.Header().Set("Location", "/pipelinestages/"+created.ID.Hex())
	s.writeJSON(ctx, w, http.StatusCreated, created)
}

// createStages stores a batch of stages. Stages that carry an id keep it.
// When some stages are rejected the rest are still stored and the response
// is 207 with a per-stage report.
func (s *Server) createStages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in []models.PipelineStage
	if err := s.decodeJSON(w, r, &in); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	if len(in) == 0 {
		s.writeError(ctx, w, fmt.Errorf("%w: at least one stage required", common.ErrorValidation))
		return
	}
	if len(in) > maxBulkStages {
		s.writeError(ctx, w, fmt.Errorf("%w: at most %d stages per request", common.ErrorValidation, maxBulkStages))
		return
	}

	res, err := s.deps.Stages.CreateMany(ctx, in)
	if err != nil {
		var partial *pipeline.PartialFailureError
		if errors.As(err, &partial) {
			s.logger.Warn(ctx, "bulk insert partially failed",
				"inserted", len(partial.Result.Inserted),
				"failed", len(partial.Result.Failed),
			)
			s.writeJSON(ctx, w, http.StatusMultiStatus, partial.Result)
			return
		}
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(ctx, w, http.StatusCreated, res)
}

func (s *Server) updateStage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := models.ParseID(r.PathValue("id"))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	var in models.PipelineStage
	if err := s.decodeJSON(w, r, &in); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	if err := s.deps.Stages.Update(ctx, id, &in); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(ctx, w, http.StatusOK, in)
}

func (s *Server) deleteStage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := models.ParseID(r.PathValue("id"))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.deleted(w, r, func() (bool, error) { return s.deps.Stages.Delete(ctx, id) })
}
