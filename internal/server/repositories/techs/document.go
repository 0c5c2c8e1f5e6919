package techs

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/query"
	"github.com/dmitrijs2005/portfolio/internal/server/store"
)

// DocumentRepository implements Repository over a store.Collection.
type DocumentRepository struct {
	coll store.Collection[models.TechEntry]
}

func NewDocumentRepository(coll store.Collection[models.TechEntry]) *DocumentRepository {
	return &DocumentRepository{coll: coll}
}

func (r *DocumentRepository) ListTechs(ctx context.Context) ([]models.TechEntry, error) {
	out, err := r.coll.Find(ctx, query.Where(query.IsTechOnly()))
	if err != nil {
		return nil, fmt.Errorf("list techs: %w", err)
	}
	return out, nil
}

func (r *DocumentRepository) ListProjects(ctx context.Context) ([]models.TechEntry, error) {
	out, err := r.coll.Find(ctx, query.Where(query.IsProject()))
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.TechEntry, error) {
	e, err := r.coll.FindOne(ctx, query.ByID(id))
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *DocumentRepository) Create(ctx context.Context, e *models.TechEntry) (*models.TechEntry, error) {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	e.Kind = e.Classify()

	if _, err := r.coll.Insert(ctx, e); err != nil {
		return nil, fmt.Errorf("create tech entry: %w", err)
	}
	return e, nil
}

func (r *DocumentRepository) Update(ctx context.Context, id primitive.ObjectID, e *models.TechEntry) error {
	e.ID = id
	e.Kind = e.Classify()

	if err := r.coll.Replace(ctx, id, e); err != nil {
		return fmt.Errorf("update tech entry %s: %w", id.Hex(), err)
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	ok, err := r.coll.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete tech entry %s: %w", id.Hex(), err)
	}
	return ok, nil
}

// SetImage writes only the image field so a concurrent Update is kept.
func (r *DocumentRepository) SetImage(ctx context.Context, id primitive.ObjectID, image string) error {
	if err := r.coll.SetFields(ctx, id, bson.D{{Key: models.FieldImage, Value: image}}); err != nil {
		return fmt.Errorf("set image of tech entry %s: %w", id.Hex(), err)
	}
	return nil
}
