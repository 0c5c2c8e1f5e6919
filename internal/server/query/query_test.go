package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMissing(t *testing.T) {
	f := Missing("project")

	assert.Equal(t, bson.D{{Key: "project", Value: nil}}, f.BSON())
	assert.True(t, f.Match(bson.M{}))
	assert.True(t, f.Match(bson.M{"project": nil}))
	assert.False(t, f.Match(bson.M{"project": ""}))
	assert.False(t, f.Match(bson.M{"project": "X"}))
}

func TestNonEmpty(t *testing.T) {
	f := NonEmpty("description")

	want := bson.D{{Key: "description", Value: bson.D{
		{Key: "$type", Value: "string"},
		{Key: "$ne", Value: ""},
	}}}
	assert.Equal(t, want, f.BSON())

	tests := []struct {
		name string
		doc  bson.M
		want bool
	}{
		{"absent", bson.M{}, false},
		{"null", bson.M{"description": nil}, false},
		{"empty", bson.M{"description": ""}, false},
		{"number", bson.M{"description": int32(3)}, false},
		{"set", bson.M{"description": "d"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Match(tt.doc))
		})
	}
}

func TestByID(t *testing.T) {
	id := primitive.NewObjectID()
	f := ByID(id)

	assert.Equal(t, bson.D{{Key: "_id", Value: id}}, f.BSON())
	assert.True(t, f.Match(bson.M{"_id": id}))
	assert.False(t, f.Match(bson.M{"_id": primitive.NewObjectID()}))
	assert.False(t, f.Match(bson.M{"_id": id.Hex()}))
}

func TestAnd(t *testing.T) {
	f := And(NonEmpty("a"), Missing("b"))

	d := f.BSON()
	assert.Len(t, d, 1)
	assert.Equal(t, "$and", d[0].Key)
	assert.Len(t, d[0].Value, 2)

	assert.True(t, f.Match(bson.M{"a": "x"}))
	assert.False(t, f.Match(bson.M{"a": "x", "b": "y"}))
	assert.False(t, f.Match(bson.M{"b": "y"}))
}

func TestQuery_NilFilterMatchesAll(t *testing.T) {
	q := Query{}
	assert.Equal(t, bson.D{}, q.FilterBSON())
	assert.True(t, q.Match(bson.M{"anything": 1}))
	assert.Empty(t, q.SortBSON())
}

func TestQuery_OrderByDoesNotAlias(t *testing.T) {
	base := Where(All()).OrderBy(SortKey{Field: "a"})
	q1 := base.OrderBy(SortKey{Field: "b"})
	q2 := base.OrderBy(SortKey{Field: "c", Desc: true})

	assert.Equal(t, bson.D{{Key: "a", Value: 1}, {Key: "b", Value: 1}}, q1.SortBSON())
	assert.Equal(t, bson.D{{Key: "a", Value: 1}, {Key: "c", Value: -1}}, q2.SortBSON())
}

func TestViews(t *testing.T) {
	tech := bson.M{"technologies": "Go", "techExperience": 3.0}
	project := bson.M{"technologies": "Go", "project": "P", "description": "D"}
	partial := bson.M{"technologies": "Go", "project": "P"}

	assert.True(t, IsTechOnly().Match(tech))
	assert.False(t, IsTechOnly().Match(project))
	assert.False(t, IsTechOnly().Match(partial))

	assert.False(t, IsProject().Match(tech))
	assert.True(t, IsProject().Match(project))
	assert.False(t, IsProject().Match(partial))
}

func TestIsCompleteStage(t *testing.T) {
	f := IsCompleteStage()
	assert.True(t, f.Match(bson.M{"project": "P", "description": "D", "stageType": "build"}))
	assert.False(t, f.Match(bson.M{"project": "P", "description": "D", "stageType": ""}))
	assert.False(t, f.Match(bson.M{"project": "P", "stageType": "build"}))
}

func TestCompleteStagesInOrder_Sort(t *testing.T) {
	q := CompleteStagesInOrder()
	assert.Equal(t, bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}}, q.SortBSON())
}
