package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/query"
	"github.com/dmitrijs2005/portfolio/internal/server/store"
)

// DocumentRepository implements Repository over a store.Collection.
type DocumentRepository struct {
	coll store.Collection[models.PipelineStage]
}

func NewDocumentRepository(coll store.Collection[models.PipelineStage]) *DocumentRepository {
	return &DocumentRepository{coll: coll}
}

func (r *DocumentRepository) ListComplete(ctx context.Context) ([]models.PipelineStage, error) {
	out, err := r.coll.Find(ctx, query.CompleteStagesInOrder())
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	return out, nil
}

func (r *DocumentRepository) Create(ctx context.Context, s *models.PipelineStage) (*models.PipelineStage, error) {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.Insert(ctx, s); err != nil {
		return nil, fmt.Errorf("create stage: %w", err)
	}
	return s, nil
}

func (r *DocumentRepository) CreateMany(ctx context.Context, stages []models.PipelineStage) (*BulkResult, error) {
	for i := range stages {
		if stages[i].ID.IsZero() {
			stages[i].ID = primitive.NewObjectID()
		}
	}

	res := &BulkResult{
		Inserted: make([]primitive.ObjectID, 0, len(stages)),
		Failed:   make([]BulkFailure, 0),
	}

	err := r.coll.InsertMany(ctx, stages)
	if err == nil {
		for _, s := range stages {
			res.Inserted = append(res.Inserted, s.ID)
		}
		return res, nil
	}

	var bulkErr *store.BulkInsertError
	if !errors.As(err, &bulkErr) {
		return nil, fmt.Errorf("create stages: %w", err)
	}

	for i, s := range stages {
		ferr := bulkErr.Failed(i)
		if ferr == nil {
			res.Inserted = append(res.Inserted, s.ID)
			continue
		}
		res.Failed = append(res.Failed, BulkFailure{
			Index: i,
			ID:    s.ID,
			Error: ferr.Error(),
			err:   ferr,
		})
	}
	return res, &PartialFailureError{Result: res}
}

func (r *DocumentRepository) Update(ctx context.Context, id primitive.ObjectID, s *models.PipelineStage) error {
	s.ID = id
	if err := r.coll.Replace(ctx, id, s); err != nil {
		return fmt.Errorf("update stage %s: %w", id.Hex(), err)
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	ok, err := r.coll.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete stage %s: %w", id.Hex(), err)
	}
	return ok, nil
}
