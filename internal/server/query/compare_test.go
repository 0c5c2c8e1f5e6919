package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCompare(t *testing.T) {
	low := primitive.NewObjectIDFromTimestamp(time.Now().Add(-time.Hour))
	high := primitive.NewObjectID()

	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"nil equal", nil, nil, 0},
		{"nil before number", nil, int32(0), -1},
		{"int32 vs float64", int32(2), 2.5, -1},
		{"int64 vs int32 equal", int64(4), int32(4), 0},
		{"number before string", 100.0, "a", -1},
		{"strings", "b", "a", 1},
		{"string before objectid", "z", low, -1},
		{"objectids", low, high, -1},
		{"bools", false, true, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
			assert.Equal(t, -tt.want, Compare(tt.b, tt.a))
		})
	}
}

func TestSortDocs_OrderThenID(t *testing.T) {
	now := time.Now()
	id1 := primitive.NewObjectIDFromTimestamp(now.Add(-2 * time.Second))
	id2 := primitive.NewObjectIDFromTimestamp(now.Add(-time.Second))
	id3 := primitive.NewObjectID()

	docs := []bson.M{
		{"_id": id3, "order": int32(1)},
		{"_id": id2, "order": int32(2)},
		{"_id": id1, "order": int32(2)},
		{"_id": id1, "order": int32(0)},
	}
	SortDocs(docs, StageOrder())

	assert.Equal(t, int32(0), docs[0]["order"])
	assert.Equal(t, int32(1), docs[1]["order"])
	assert.Equal(t, id1, docs[2]["_id"])
	assert.Equal(t, id2, docs[3]["_id"])
}

func TestSortDocs_Desc(t *testing.T) {
	docs := []bson.M{{"n": 1}, {"n": 3}, {"n": 2}}
	SortDocs(docs, []SortKey{{Field: "n", Desc: true}})
	assert.Equal(t, []bson.M{{"n": 3}, {"n": 2}, {"n": 1}}, docs)
}

func TestSortDocs_NoKeysKeepsOrder(t *testing.T) {
	docs := []bson.M{{"n": 2}, {"n": 1}}
	SortDocs(docs, nil)
	assert.Equal(t, []bson.M{{"n": 2}, {"n": 1}}, docs)
}
