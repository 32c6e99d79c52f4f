// Package service contains the application's business logic.
package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/pagination"
	"inkwell/internal/repository"
)

// FollowService provides follow/unfollow actions and the personalized feed.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	pageSize   int
}

// NewFollowService returns a new FollowService.
func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	pageSize int,
) *FollowService {
	if pageSize < 1 {
		pageSize = pagination.DefaultPageSize
	}
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		postRepo:   postRepo,
		pageSize:   pageSize,
	}
}

// Follow subscribes the user to the named author. Following yourself and
// following someone you already follow are both quietly absorbed: the action
// reports success and the stored state is unchanged. Only an unknown author
// is an error.
func (s *FollowService) Follow(ctx context.Context, userID uint, authorUsername string) error {
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}
	if author.ID == userID {
		return nil
	}
	return s.followRepo.Create(ctx, userID, author.ID)
}

// Unfollow removes the subscription to the named author. Unfollowing someone
// you never followed is not an error.
func (s *FollowService) Unfollow(ctx context.Context, userID uint, authorUsername string) error {
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}
	return s.followRepo.Delete(ctx, userID, author.ID)
}

// Following reports whether the user is subscribed to the author.
func (s *FollowService) Following(ctx context.Context, userID, authorID uint) (bool, error) {
	if userID == 0 || userID == authorID {
		return false, nil
	}
	return s.followRepo.Exists(ctx, userID, authorID)
}

// ProfileCounts returns the follower and following counts for a user.
func (s *FollowService) ProfileCounts(ctx context.Context, userID uint) (followers, following int64, err error) {
	followers, err = s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	following, err = s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

// Feed returns one page of posts by the authors the user follows, newest
// first. A user who follows nobody gets an empty first page rather than an
// error.
func (s *FollowService) Feed(ctx context.Context, userID uint, page int) ([]*models.Post, pagination.Page, error) {
	authorIDs, err := s.followRepo.AuthorIDs(ctx, userID)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	if len(authorIDs) == 0 {
		return []*models.Post{}, pagination.New(0, s.pageSize, page), nil
	}

	total, err := s.postRepo.CountByAuthors(ctx, authorIDs)
	if err != nil {
		return nil, pagination.Page{}, err
	}

	p := pagination.New(total, s.pageSize, page)
	posts, err := s.postRepo.ListByAuthors(ctx, authorIDs, p.Size, p.Offset())
	if err != nil {
		return nil, pagination.Page{}, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, p, nil
}
