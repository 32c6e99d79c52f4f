package service

import (
	"context"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uint) (*models.Comment, error)
	listByPostFn  func(context.Context, uint) ([]*models.Comment, error)
	countByPostFn func(context.Context, uint) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) CountByPost(ctx context.Context, postID uint) (int64, error) {
	return s.countByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:     func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn:  func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		countByPostFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

func TestCommentService_CreateComment(t *testing.T) {
	ctx := context.Background()

	t.Run("creates comment on existing post", func(t *testing.T) {
		commentRepo := noopCommentRepo()
		commentRepo.createFn = func(_ context.Context, comment *models.Comment) error {
			assert.Equal(t, "nice one", comment.Text)
			assert.Equal(t, uint(3), comment.AuthorID)
			comment.ID = 8
			return nil
		}

		svc := NewCommentService(commentRepo, noopPostRepo())
		comment, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 3, PostID: 7, Text: "nice one"})
		require.NoError(t, err)
		assert.Equal(t, uint(8), comment.ID)
	})

	t.Run("missing post", func(t *testing.T) {
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}

		svc := NewCommentService(noopCommentRepo(), postRepo)
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 3, PostID: 404, Text: "hi"})
		assert.Error(t, err)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 3, PostID: 7, Text: " "})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})

	t.Run("rejects oversized text", func(t *testing.T) {
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 3, PostID: 7, Text: strings.Repeat("y", maxCommentLen+1)})
		assert.Error(t, err)
	})
}

func TestCommentService_ListComments(t *testing.T) {
	ctx := context.Background()

	commentRepo := noopCommentRepo()
	commentRepo.listByPostFn = func(_ context.Context, postID uint) ([]*models.Comment, error) {
		return []*models.Comment{{ID: 1, PostID: postID}, {ID: 2, PostID: postID}}, nil
	}

	svc := NewCommentService(commentRepo, noopPostRepo())
	comments, err := svc.ListComments(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, comments, 2)

	// Empty is a slice, not nil, so handlers serialize [].
	commentRepo.listByPostFn = func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil }
	comments, err = svc.ListComments(ctx, 7)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}
