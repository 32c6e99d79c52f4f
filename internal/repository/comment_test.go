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

func TestCommentRepository_Integration(t *testing.T) {
	repo := NewCommentRepository(testDB)
	ctx := context.Background()

	ts := time.Now().UnixNano()
	author := &models.User{Username: fmt.Sprintf("ca_%d", ts), Email: fmt.Sprintf("ca_%d@e.com", ts)}
	testDB.Create(author)
	post := &models.Post{Text: "commented post", AuthorID: author.ID}
	testDB.Create(post)

	t.Run("Create and ListByPost oldest first", func(t *testing.T) {
		base := time.Now().Add(-time.Hour)
		for i := 0; i < 3; i++ {
			c := &models.Comment{Text: fmt.Sprintf("comment %d", i), PostID: post.ID, AuthorID: author.ID}
			require.NoError(t, repo.Create(ctx, c))
			testDB.Model(c).Update("created_at", base.Add(time.Duration(i)*time.Minute))
		}

		comments, err := repo.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 3)
		assert.Equal(t, "comment 0", comments[0].Text)
		assert.Equal(t, "comment 2", comments[2].Text)
		assert.Equal(t, author.Username, comments[0].Author.Username)
	})

	t.Run("CountByPost", func(t *testing.T) {
		count, err := repo.CountByPost(ctx, post.ID)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)

		count, err = repo.CountByPost(ctx, 999999)
		assert.NoError(t, err)
		assert.Zero(t, count)
	})
}
