package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines persistence operations for follow relationships.
// A follow is a (user, author) pair; the table enforces uniqueness of the
// pair and rejects self-rows, so Create and Delete are both safe to call
// repeatedly.
type FollowRepository interface {
	Create(ctx context.Context, userID, authorID uint) error
	Delete(ctx context.Context, userID, authorID uint) error
	Exists(ctx context.Context, userID, authorID uint) (bool, error)
	AuthorIDs(ctx context.Context, userID uint) ([]uint, error)
	CountFollowers(ctx context.Context, authorID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the follow pair. A concurrent duplicate insert is absorbed
// by ON CONFLICT DO NOTHING rather than surfacing a constraint error.
func (r *followRepository) Create(ctx context.Context, userID, authorID uint) error {
	follow := models.Follow{UserID: userID, AuthorID: authorID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&follow).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the follow pair if present. Deleting a missing pair is not
// an error.
func (r *followRepository) Delete(ctx context.Context, userID, authorID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// AuthorIDs returns the IDs of every author the user follows.
func (r *followRepository) AuthorIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
