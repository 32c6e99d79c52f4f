package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts. Every listing is
// ordered by creation time descending; limit/offset are computed by the
// pagination utility at the service layer.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	CountAll(ctx context.Context) (int64, error)
	ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]*models.Post, error)
	CountByGroup(ctx context.Context, groupID uint) (int64, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	ListByAuthors(ctx context.Context, authorIDs []uint, limit, offset int) ([]*models.Post, error)
	CountByAuthors(ctx context.Context, authorIDs []uint) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// listQuery holds the shared preloads and ordering for every post listing.
func (r *postRepository) listQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Order("created_at DESC")
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.listQuery(ctx).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.listQuery(ctx).
		Where("group_id = ?", groupID).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) CountByGroup(ctx context.Context, groupID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("group_id = ?", groupID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.listQuery(ctx).
		Where("author_id = ?", authorID).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) ListByAuthors(ctx context.Context, authorIDs []uint, limit, offset int) ([]*models.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var posts []*models.Post
	if err := r.listQuery(ctx).
		Where("author_id IN ?", authorIDs).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) CountByAuthors(ctx context.Context, authorIDs []uint) (int64, error) {
	if len(authorIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id IN ?", authorIDs).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
