package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/query"
)

// MongoCollection implements Collection over a *mongo.Collection.
// Every call runs under its own timeout.
type MongoCollection[T any] struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoCollection binds a collection handle. A zero timeout leaves the
// caller's deadline in charge.
func NewMongoCollection[T any](coll *mongo.Collection, timeout time.Duration) *MongoCollection[T] {
	return &MongoCollection[T]{coll: coll, timeout: timeout}
}

func (c *MongoCollection[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrStoreUnavailable, op, err)
}

func (c *MongoCollection[T]) Find(ctx context.Context, q query.Query) ([]T, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	opts := options.Find()
	if len(q.Sort) > 0 {
		opts.SetSort(q.SortBSON())
	}

	cur, err := c.coll.Find(ctx, q.FilterBSON(), opts)
	if err != nil {
		return nil, unavailable("find", err)
	}

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, unavailable("find", err)
	}
	return out, nil
}

func (c *MongoCollection[T]) FindOne(ctx context.Context, f query.Filter) (*T, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var doc T
	if err := c.coll.FindOne(ctx, f.BSON()).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, unavailable("find one", err)
	}
	return &doc, nil
}

func (c *MongoCollection[T]) Insert(ctx context.Context, doc *T) (primitive.ObjectID, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, fmt.Errorf("%w: %w", common.ErrorAlreadyExists, err)
		}
		return primitive.NilObjectID, unavailable("insert", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected _id type %T", res.InsertedID)
	}
	return id, nil
}

// duplicateKeyCode is the server error code for a unique index violation.
const duplicateKeyCode = 11000

func (c *MongoCollection[T]) InsertMany(ctx context.Context, docs []T) error {
	if len(docs) == 0 {
		return nil
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	batch := make([]any, len(docs))
	for i := range docs {
		batch[i] = &docs[i]
	}

	_, err := c.coll.InsertMany(ctx, batch, options.InsertMany().SetOrdered(false))
	if err == nil {
		return nil
	}

	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || bwe.WriteConcernError != nil || len(bwe.WriteErrors) == 0 {
		return unavailable("insert many", err)
	}

	bulkErr := &BulkInsertError{}
	for _, we := range bwe.WriteErrors {
		var ferr error = we.WriteError
		if we.Code == duplicateKeyCode {
			ferr = fmt.Errorf("%w: %s", common.ErrorAlreadyExists, we.Message)
		}
		bulkErr.Failures = append(bulkErr.Failures, WriteFailure{Index: we.Index, Err: ferr})
	}
	return bulkErr
}

func (c *MongoCollection[T]) Replace(ctx context.Context, id primitive.ObjectID, doc *T) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.coll.ReplaceOne(ctx, query.ByID(id).BSON(), doc)
	if err != nil {
		return unavailable("replace", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (c *MongoCollection[T]) SetFields(ctx context.Context, id primitive.ObjectID, fields bson.D) error {
	if err := checkFields(fields); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.coll.UpdateOne(ctx, query.ByID(id).BSON(), bson.D{{Key: "$set", Value: fields}})
	if err != nil {
		return unavailable("update", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (c *MongoCollection[T]) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.coll.DeleteOne(ctx, query.ByID(id).BSON())
	if err != nil {
		return false, unavailable("delete", err)
	}
	return res.DeletedCount > 0, nil
}
