// Package query builds the predicates and orderings used to read the record
// collections. Every Filter renders to a MongoDB filter document and can
// also be evaluated against a decoded document, so the in-memory store
// answers queries exactly like the database does.
package query

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter is a predicate over stored documents.
type Filter interface {
	// BSON renders the predicate as a MongoDB query document.
	BSON() bson.D
	// Match evaluates the predicate against a decoded document.
	Match(doc bson.M) bool
}

// SortKey orders results by one field.
type SortKey struct {
	Field string
	Desc  bool
}

// Query couples a filter with an ordering. A nil Filter matches everything;
// an empty Sort leaves the store's natural order.
type Query struct {
	Filter Filter
	Sort   []SortKey
}

// Where starts a query from a filter.
func Where(f Filter) Query {
	return Query{Filter: f}
}

// OrderBy returns a copy of q sorted by keys.
func (q Query) OrderBy(keys ...SortKey) Query {
	q.Sort = append(append([]SortKey(nil), q.Sort...), keys...)
	return q
}

// FilterBSON renders the filter, matching everything when none is set.
func (q Query) FilterBSON() bson.D {
	if q.Filter == nil {
		return bson.D{}
	}
	return q.Filter.BSON()
}

// SortBSON renders the ordering for options.Find().SetSort.
func (q Query) SortBSON() bson.D {
	d := make(bson.D, 0, len(q.Sort))
	for _, k := range q.Sort {
		dir := 1
		if k.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: k.Field, Value: dir})
	}
	return d
}

// Match evaluates the query filter against doc.
func (q Query) Match(doc bson.M) bool {
	return q.Filter == nil || q.Filter.Match(doc)
}

type all struct{}

// All matches every document.
func All() Filter { return all{} }

func (all) BSON() bson.D      { return bson.D{} }
func (all) Match(bson.M) bool { return true }

type missing struct{ field string }

// Missing matches documents where field is absent or null.
func Missing(field string) Filter { return missing{field: field} }

func (m missing) BSON() bson.D {
	return bson.D{{Key: m.field, Value: nil}}
}

func (m missing) Match(doc bson.M) bool {
	v, ok := doc[m.field]
	return !ok || v == nil
}

type nonEmpty struct{ field string }

// NonEmpty matches documents where field holds a string other than "".
// Absent, null and non-string values do not match.
func NonEmpty(field string) Filter { return nonEmpty{field: field} }

func (n nonEmpty) BSON() bson.D {
	return bson.D{{Key: n.field, Value: bson.D{
		{Key: "$type", Value: "string"},
		{Key: "$ne", Value: ""},
	}}}
}

func (n nonEmpty) Match(doc bson.M) bool {
	s, ok := doc[n.field].(string)
	return ok && s != ""
}

type byID struct{ id primitive.ObjectID }

// ByID matches the document with the given _id.
func ByID(id primitive.ObjectID) Filter { return byID{id: id} }

func (b byID) BSON() bson.D {
	return bson.D{{Key: "_id", Value: b.id}}
}

func (b byID) Match(doc bson.M) bool {
	v, ok := doc["_id"].(primitive.ObjectID)
	return ok && v == b.id
}

type and struct{ filters []Filter }

// And matches documents matched by every filter.
func And(filters ...Filter) Filter { return and{filters: filters} }

func (a and) BSON() bson.D {
	parts := make(bson.A, 0, len(a.filters))
	for _, f := range a.filters {
		parts = append(parts, f.BSON())
	}
	return bson.D{{Key: "$and", Value: parts}}
}

func (a and) Match(doc bson.M) bool {
	for _, f := range a.filters {
		if !f.Match(doc) {
			return false
		}
	}
	return true
}
