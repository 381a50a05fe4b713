package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/developia-II/catalog-backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type item struct {
	ID        primitive.ObjectID   `bson:"_id"`
	Name      string               `bson:"name"`
	Parent    *primitive.ObjectID  `bson:"parent,omitempty"`
	Refs      []primitive.ObjectID `bson:"refs"`
	CreatedAt time.Time            `bson:"createdAt"`
}

func insert(t *testing.T, s *Store, coll string, docs ...item) {
	t.Helper()
	err := s.WithTransaction(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		for _, d := range docs {
			if err := tx.Insert(ctx, coll, d); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestFindAllNewestFirst(t *testing.T) {
	s := New()
	now := time.Now()
	same := now.Add(time.Minute)
	a := item{ID: primitive.NewObjectID(), Name: "a", CreatedAt: now}
	b := item{ID: primitive.NewObjectID(), Name: "b", CreatedAt: same}
	c := item{ID: primitive.NewObjectID(), Name: "c", CreatedAt: same}
	insert(t, s, "items", a, b, c)

	var got []item
	require.NoError(t, s.FindAll(context.Background(), "items", nil, &got))
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestFindAllEmptyGivesEmptySlice(t *testing.T) {
	s := New()
	got := []item{}
	require.NoError(t, s.FindAll(context.Background(), "nothing", bson.M{"name": "x"}, &got))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAbortedTransactionLeavesNoTrace(t *testing.T) {
	s := New()
	keep := item{ID: primitive.NewObjectID(), Name: "keep", CreatedAt: time.Now()}
	insert(t, s, "items", keep)

	boom := errors.New("boom")
	err := s.WithTransaction(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		require.NoError(t, tx.Insert(ctx, "items", item{ID: primitive.NewObjectID(), Name: "new"}))
		require.NoError(t, tx.DeleteByID(ctx, "items", keep.ID))

		// The transaction sees its own writes.
		n, err := tx.Count(ctx, "items", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var got []item
	require.NoError(t, s.FindAll(context.Background(), "items", nil, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].Name)
}

func TestFilterMatchesArrayElements(t *testing.T) {
	s := New()
	ref := primitive.NewObjectID()
	insert(t, s, "items",
		item{ID: primitive.NewObjectID(), Name: "with", Refs: []primitive.ObjectID{ref}},
		item{ID: primitive.NewObjectID(), Name: "without", Refs: []primitive.ObjectID{}},
	)

	n, err := s.Count(context.Background(), "items", bson.M{"refs": ref})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAddToSetAndPull(t *testing.T) {
	s := New()
	id := primitive.NewObjectID()
	ref := primitive.NewObjectID()
	insert(t, s, "items", item{ID: id, Name: "x", Refs: []primitive.ObjectID{}})

	err := s.WithTransaction(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		if err := tx.AddToSet(ctx, "items", id, "refs", ref); err != nil {
			return err
		}
		return tx.AddToSet(ctx, "items", id, "refs", ref)
	})
	require.NoError(t, err)

	var got item
	require.NoError(t, s.FindByID(context.Background(), "items", id, &got))
	assert.Equal(t, []primitive.ObjectID{ref}, got.Refs)

	err = s.WithTransaction(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		_, err := tx.PullMany(ctx, "items", bson.M{"refs": ref}, "refs", ref)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, s.FindByID(context.Background(), "items", id, &got))
	assert.Empty(t, got.Refs)
}

func TestUpdateAndUnset(t *testing.T) {
	s := New()
	parent := primitive.NewObjectID()
	id := primitive.NewObjectID()
	insert(t, s, "items", item{ID: id, Name: "x", Parent: &parent})

	err := s.WithTransaction(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		if err := tx.UpdateByID(ctx, "items", id, bson.M{"name": "y"}); err != nil {
			return err
		}
		_, err := tx.UnsetMany(ctx, "items", bson.M{"parent": parent}, "parent")
		return err
	})
	require.NoError(t, err)

	var got item
	require.NoError(t, s.FindByID(context.Background(), "items", id, &got))
	assert.Equal(t, "y", got.Name)
	assert.Nil(t, got.Parent)

	err = s.WithTransaction(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		return tx.UpdateByID(ctx, "items", primitive.NewObjectID(), bson.M{"name": "z"})
	})
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestUniqueFooterKey(t *testing.T) {
	s := New()
	err := s.WithTransaction(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		if err := tx.Insert(ctx, domain.FooterCollection, bson.M{"_id": primitive.NewObjectID(), "key": "current"}); err != nil {
			return err
		}
		return tx.Insert(ctx, domain.FooterCollection, bson.M{"_id": primitive.NewObjectID(), "key": "current"})
	})
	assert.True(t, domain.IsConflict(err))

	n, err := s.Count(context.Background(), domain.FooterCollection, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
