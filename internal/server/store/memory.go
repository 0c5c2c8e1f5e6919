package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/query"
)

// MemoryCollection implements Collection in process. Documents are kept in
// insertion order as decoded BSON, so reads never alias caller values.
type MemoryCollection[T any] struct {
	mu   sync.RWMutex
	docs []bson.M
}

func NewMemoryCollection[T any]() *MemoryCollection[T] {
	return &MemoryCollection[T]{}
}

func toDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return m, nil
}

func fromDoc[T any](m bson.M) (T, error) {
	var out T
	raw, err := bson.Marshal(m)
	if err != nil {
		return out, fmt.Errorf("encode: %w", err)
	}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}

func docID(m bson.M) (primitive.ObjectID, bool) {
	id, ok := m["_id"].(primitive.ObjectID)
	return id, ok
}

func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}
	return nil
}

// indexOf must be called with mu held.
func (c *MemoryCollection[T]) indexOf(id primitive.ObjectID) int {
	return slices.IndexFunc(c.docs, func(m bson.M) bool {
		got, ok := docID(m)
		return ok && got == id
	})
}

func (c *MemoryCollection[T]) Find(ctx context.Context, q query.Query) ([]T, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	matched := make([]bson.M, 0, len(c.docs))
	for _, m := range c.docs {
		if q.Match(m) {
			matched = append(matched, m)
		}
	}
	c.mu.RUnlock()

	query.SortDocs(matched, q.Sort)

	out := make([]T, 0, len(matched))
	for _, m := range matched {
		v, err := fromDoc[T](m)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *MemoryCollection[T]) FindOne(ctx context.Context, f query.Filter) (*T, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, m := range c.docs {
		if f.Match(m) {
			v, err := fromDoc[T](m)
			if err != nil {
				return nil, err
			}
			return &v, nil
		}
	}
	return nil, common.ErrorNotFound
}

// insertLocked must be called with mu held for writing.
func (c *MemoryCollection[T]) insertLocked(doc any) (primitive.ObjectID, error) {
	m, err := toDoc(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}

	id, ok := docID(m)
	if !ok {
		id = primitive.NewObjectID()
		m["_id"] = id
	}
	if c.indexOf(id) >= 0 {
		return primitive.NilObjectID, fmt.Errorf("%w: _id %s", common.ErrorAlreadyExists, id.Hex())
	}

	c.docs = append(c.docs, m)
	return id, nil
}

func (c *MemoryCollection[T]) Insert(ctx context.Context, doc *T) (primitive.ObjectID, error) {
	if err := ctxErr(ctx); err != nil {
		return primitive.NilObjectID, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insertLocked(doc)
}

func (c *MemoryCollection[T]) InsertMany(ctx context.Context, docs []T) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var bulkErr *BulkInsertError
	for i := range docs {
		if _, err := c.insertLocked(&docs[i]); err != nil {
			if bulkErr == nil {
				bulkErr = &BulkInsertError{}
			}
			bulkErr.Failures = append(bulkErr.Failures, WriteFailure{Index: i, Err: err})
		}
	}
	if bulkErr != nil {
		return bulkErr
	}
	return nil
}

func (c *MemoryCollection[T]) Replace(ctx context.Context, id primitive.ObjectID, doc *T) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}

	m, err := toDoc(doc)
	if err != nil {
		return err
	}
	if got, ok := docID(m); ok && got != id {
		return fmt.Errorf("%w: _id is immutable", common.ErrorValidation)
	}
	m["_id"] = id

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return common.ErrorNotFound
	}
	c.docs[i] = m
	return nil
}

func (c *MemoryCollection[T]) SetFields(ctx context.Context, id primitive.ObjectID, fields bson.D) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if err := checkFields(fields); err != nil {
		return err
	}

	// normalize values the way a round trip through the codec would
	set, err := toDoc(fields)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return common.ErrorNotFound
	}

	// readers decode matched maps after releasing mu, so write a copy
	m := maps.Clone(c.docs[i])
	maps.Copy(m, set)
	c.docs[i] = m
	return nil
}

func (c *MemoryCollection[T]) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	if err := ctxErr(ctx); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return false, nil
	}
	c.docs = slices.Delete(c.docs, i, i+1)
	return true, nil
}

// Len returns the number of stored documents.
func (c *MemoryCollection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}
