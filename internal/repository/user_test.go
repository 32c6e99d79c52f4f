package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Integration(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	ts := time.Now().UnixNano()
	username := fmt.Sprintf("ur_%d", ts)
	email := fmt.Sprintf("ur_%d@e.com", ts)

	t.Run("Create and GetByID", func(t *testing.T) {
		user := &models.User{Username: username, Email: email}
		err := repo.Create(ctx, user)
		require.NoError(t, err)
		require.NotZero(t, user.ID)

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, username, got.Username)
	})

	t.Run("GetByUsername", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, username)
		require.NoError(t, err)
		assert.Equal(t, email, got.Email)

		_, err = repo.GetByUsername(ctx, "no-such-user")
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	t.Run("GetByEmail missing is not an error", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "missing@e.com")
		assert.NoError(t, err)
		assert.Nil(t, got)

		got, err = repo.GetByEmail(ctx, email)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, username, got.Username)
	})
}

func TestGroupRepository_Integration(t *testing.T) {
	repo := NewGroupRepository(testDB)
	ctx := context.Background()

	ts := time.Now().UnixNano()
	slug := fmt.Sprintf("gr-%d", ts)

	t.Run("Create and GetBySlug", func(t *testing.T) {
		group := &models.Group{Title: "Group Repo", Slug: slug, Description: "about"}
		require.NoError(t, repo.Create(ctx, group))

		got, err := repo.GetBySlug(ctx, slug)
		require.NoError(t, err)
		assert.Equal(t, "Group Repo", got.Title)
	})

	t.Run("GetBySlug missing", func(t *testing.T) {
		_, err := repo.GetBySlug(ctx, "no-such-group")
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	t.Run("List", func(t *testing.T) {
		groups, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, groups)
	})
}
