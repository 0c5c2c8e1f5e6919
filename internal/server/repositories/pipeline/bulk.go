package pipeline

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/portfolio/internal/common"
)

// BulkResult reports the outcome of CreateMany.
type BulkResult struct {
	Inserted []primitive.ObjectID `json:"inserted"`
	Failed   []BulkFailure        `json:"failed"`
}

// BulkFailure is one stage CreateMany could not store.
type BulkFailure struct {
	Index int                `json:"index"`
	ID    primitive.ObjectID `json:"id"`
	Error string             `json:"error"`

	err error
}

// Err returns the underlying store error.
func (f BulkFailure) Err() error { return f.err }

// PartialFailureError is returned by CreateMany when at least one stage was
// rejected. It matches common.ErrPartialFailure.
type PartialFailureError struct {
	Result *BulkResult
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("bulk insert: %d stored, %d failed", len(e.Result.Inserted), len(e.Result.Failed))
}

func (e *PartialFailureError) Is(target error) bool {
	return target == common.ErrPartialFailure
}

// Unwrap exposes the per-stage errors.
func (e *PartialFailureError) Unwrap() []error {
	errs := make([]error, 0, len(e.Result.Failed))
	for _, f := range e.Result.Failed {
		if f.err != nil {
			errs = append(errs, f.err)
		}
	}
	return errs
}
