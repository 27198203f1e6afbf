package services

import (
	"context"
	"testing"

	"projectflow/model"
	"projectflow/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerExists(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	u := testdb.User(t, db, "u")
	p := testdb.Project(t, db, "p", u.ID)

	ok, err := OwnerExists(ctx, db, model.ProjectOwner(p.ID))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = OwnerExists(ctx, db, model.TaskOwner(p.ID))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = OwnerExists(ctx, db, model.Owner{Type: "Invoice", ID: 1})
	assert.Error(t, err)
}

func TestAttachToChecksOwner(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	u := testdb.User(t, db, "u")
	p := testdb.Project(t, db, "p", u.ID)

	err := AttachTo(ctx, db, model.ProjectOwner(p.ID), &model.Comment{Body: "x", UserID: u.ID})
	assert.Error(t, err, "comments only hang off tasks and comments")

	err = AttachTo(ctx, db, model.TaskOwner(404), &model.Comment{Body: "x", UserID: u.ID})
	assert.ErrorIs(t, err, ErrNotFound)

	a := &model.Attachment{Name: "a", Path: "k", UserID: u.ID}
	require.NoError(t, AttachTo(ctx, db, model.ProjectOwner(p.ID), a))
	assert.Equal(t, model.ProjectOwner(p.ID), a.Owner())

	assert.Error(t, AttachTo(ctx, db, model.ProjectOwner(p.ID), &model.User{}))
}

func TestQueryForOrdering(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	u := testdb.User(t, db, "u")
	owner := model.UserOwner(u.ID)

	for _, s := range []model.BoardStage{
		{Name: "c", Position: 2},
		{Name: "a", Position: 0},
		{Name: "b", Position: 1},
	} {
		s := s
		require.NoError(t, AttachTo(ctx, db, owner, &s))
	}

	var stages []model.BoardStage
	require.NoError(t, QueryFor(ctx, db, owner, &stages))
	require.Len(t, stages, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{stages[0].Name, stages[1].Name, stages[2].Name})

	var none []model.Attachment
	require.NoError(t, QueryFor(ctx, db, owner, &none))
	assert.Empty(t, none)

	var users []model.User
	assert.Error(t, QueryFor(ctx, db, owner, &users))
}
