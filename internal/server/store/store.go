// Package store provides typed access to a single document collection.
//
// Two implementations share one contract: MongoCollection talks to MongoDB
// and MemoryCollection keeps documents in process. Both encode records with
// the bson codec, so struct tags and query predicates behave the same way.
package store

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/query"
)

// checkFields rejects updates that would touch _id.
func checkFields(fields bson.D) error {
	for _, f := range fields {
		if f.Key == "_id" {
			return fmt.Errorf("%w: _id is immutable", common.ErrorValidation)
		}
	}
	return nil
}

// Collection is the record store contract.
//
// Absence is reported as common.ErrorNotFound (FindOne, Replace) or as a
// false result (Delete). Infrastructure failures, timeouts included, match
// common.ErrStoreUnavailable and are never reported as absence.
type Collection[T any] interface {
	// Find returns every document matching q in q's order.
	Find(ctx context.Context, q query.Query) ([]T, error)

	// FindOne returns the first document matching f.
	FindOne(ctx context.Context, f query.Filter) (*T, error)

	// Insert stores doc and returns its _id. A document without an _id is
	// given a new ObjectID. A duplicate _id matches common.ErrorAlreadyExists.
	Insert(ctx context.Context, doc *T) (primitive.ObjectID, error)

	// InsertMany attempts every document independently. When some documents
	// are rejected the returned error is a *BulkInsertError; the rest are
	// stored.
	InsertMany(ctx context.Context, docs []T) error

	// Replace swaps the document stored under id for doc, keeping the id.
	Replace(ctx context.Context, id primitive.ObjectID, doc *T) error

	// SetFields overwrites the named top-level fields of the document stored
	// under id in one atomic write, leaving the other fields as they are.
	// It returns common.ErrorNotFound when the id is absent. _id cannot be
	// set.
	SetFields(ctx context.Context, id primitive.ObjectID, fields bson.D) error

	// Delete removes the document stored under id and reports whether it
	// existed.
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// WriteFailure describes one rejected document of a bulk insert.
type WriteFailure struct {
	// Index is the position of the document in the input slice.
	Index int
	Err   error
}

// BulkInsertError lists the documents InsertMany could not store.
type BulkInsertError struct {
	Failures []WriteFailure
}

func (e *BulkInsertError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("#%d: %v", f.Index, f.Err))
	}
	return fmt.Sprintf("%d of the documents were not inserted: %s", len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes the per-document errors to errors.Is and errors.As.
func (e *BulkInsertError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// Failed returns the error of the document at index, or nil when that
// document was stored.
func (e *BulkInsertError) Failed(index int) error {
	for _, f := range e.Failures {
		if f.Index == index {
			return f.Err
		}
	}
	return nil
}
