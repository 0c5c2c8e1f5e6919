package pipeline

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/store"
)

func newRepo() *DocumentRepository {
	return NewDocumentRepository(store.NewMemoryCollection[models.PipelineStage]())
}

func stage(project, desc, typ string, order int) *models.PipelineStage {
	return &models.PipelineStage{Project: project, Description: desc, StageType: typ, Order: order}
}

func TestListComplete_HidesDrafts(t *testing.T) {
	ctx := context.Background()
	r := newRepo()

	first, err := r.Create(ctx, stage("Alpha", "Design phase", "design", 1))
	require.NoError(t, err)
	_, err = r.Create(ctx, stage("Alpha", "", "build", 2))
	require.NoError(t, err)
	_, err = r.Create(ctx, stage("", "No project", "build", 3))
	require.NoError(t, err)
	_, err = r.Create(ctx, stage("Alpha", "No type", "", 4))
	require.NoError(t, err)

	got, err := r.ListComplete(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, *first, got[0])
}

func TestCreate_ReturnsStoredValue(t *testing.T) {
	r := newRepo()
	in := stage("Alpha", "Design", "design", 1)
	in.Details = "wireframes"

	got, err := r.Create(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, got.ID.IsZero())
	assert.Equal(t, "wireframes", got.Details)
}

func TestListComplete_SortedForAnyPermutation(t *testing.T) {
	orders := []int{5, 1, 3, 3, 2, 0, 4}

	for seed := int64(0); seed < 5; seed++ {
		ctx := context.Background()
		r := newRepo()

		perm := append([]int(nil), orders...)
		rand.New(rand.NewSource(seed)).Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
		for _, o := range perm {
			_, err := r.Create(ctx, stage("P", "D", "build", o))
			require.NoError(t, err)
		}

		got, err := r.ListComplete(ctx)
		require.NoError(t, err)
		require.Len(t, got, len(orders))
		for i := 1; i < len(got); i++ {
			assert.LessOrEqual(t, got[i-1].Order, got[i].Order, "seed %d", seed)
		}

		again, err := r.ListComplete(ctx)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}
}

func TestListComplete_TiesFollowID(t *testing.T) {
	ctx := context.Background()
	r := newRepo()

	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	_, err := r.Create(ctx, &models.PipelineStage{ID: b, Project: "P", Description: "D", StageType: "t", Order: 1})
	require.NoError(t, err)
	_, err = r.Create(ctx, &models.PipelineStage{ID: a, Project: "P", Description: "D", StageType: "t", Order: 1})
	require.NoError(t, err)

	got, err := r.ListComplete(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a, got[0].ID)
	assert.Equal(t, b, got[1].ID)
}

func TestCreateMany_AllStored(t *testing.T) {
	ctx := context.Background()
	r := newRepo()

	res, err := r.CreateMany(ctx, []models.PipelineStage{
		*stage("P", "D", "design", 1),
		*stage("P", "D", "build", 2),
	})
	require.NoError(t, err)
	assert.Len(t, res.Inserted, 2)
	assert.Empty(t, res.Failed)

	got, err := r.ListComplete(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCreateMany_DuplicateIDReportsPartialFailure(t *testing.T) {
	ctx := context.Background()
	r := newRepo()

	existing, err := r.Create(ctx, stage("P", "Existing", "design", 0))
	require.NoError(t, err)

	batch := []models.PipelineStage{
		*stage("P", "One", "design", 1),
		{ID: existing.ID, Project: "P", Description: "Dup", StageType: "build", Order: 2},
		*stage("P", "Three", "test", 3),
	}
	res, err := r.CreateMany(ctx, batch)

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrPartialFailure)
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	var pfe *PartialFailureError
	require.True(t, errors.As(err, &pfe))
	assert.Same(t, res, pfe.Result)

	assert.Len(t, res.Inserted, 2)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, 1, res.Failed[0].Index)
	assert.Equal(t, existing.ID, res.Failed[0].ID)
	assert.NotEmpty(t, res.Failed[0].Error)

	got, err := r.ListComplete(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	r := newRepo()

	s, err := r.Create(ctx, stage("P", "", "build", 1))
	require.NoError(t, err)

	require.NoError(t, r.Update(ctx, s.ID, stage("P", "Now complete", "build", 1)))
	got, err := r.ListComplete(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, s.ID, got[0].ID)

	err = r.Update(ctx, primitive.NewObjectID(), stage("P", "D", "build", 1))
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	r := newRepo()

	s, err := r.Create(ctx, stage("P", "D", "build", 1))
	require.NoError(t, err)
	_, err = r.Create(ctx, stage("P", "D", "test", 2))
	require.NoError(t, err)

	ok, err := r.Delete(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.False(t, ok)
	got, _ := r.ListComplete(ctx)
	assert.Len(t, got, 2)

	ok, err = r.Delete(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	got, _ = r.ListComplete(ctx)
	assert.Len(t, got, 1)
}

func TestPartialFailureError_Message(t *testing.T) {
	err := &PartialFailureError{Result: &BulkResult{
		Inserted: []primitive.ObjectID{primitive.NewObjectID()},
		Failed:   []BulkFailure{{Index: 1}},
	}}
	assert.Equal(t, "bulk insert: 1 stored, 1 failed", err.Error())
	assert.True(t, errors.Is(err, common.ErrPartialFailure))
}

var _ Repository = (*DocumentRepository)(nil)
