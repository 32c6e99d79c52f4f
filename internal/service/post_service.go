package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/pagination"
	"inkwell/internal/repository"
)

const maxPostLen = 20000

// PostService provides post CRUD and the paginated listings built on top
// of it.
type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	isAdmin   func(ctx context.Context, userID uint) (bool, error)
	pageSize  int
}

type CreatePostInput struct {
	UserID    uint
	Text      string
	GroupSlug string
	ImageURL  string
}

type UpdatePostInput struct {
	UserID    uint
	PostID    uint
	Text      string
	GroupSlug string
	ImageURL  string
}

// NewPostService returns a new PostService.
func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
	pageSize int,
) *PostService {
	if pageSize < 1 {
		pageSize = pagination.DefaultPageSize
	}
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		isAdmin:   isAdmin,
		pageSize:  pageSize,
	}
}

func (s *PostService) resolveGroupID(ctx context.Context, slug string) (*uint, error) {
	if slug == "" {
		return nil, nil
	}
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &group.ID, nil
}

// CreatePost stores a new post. It does not touch the cached home listing;
// the new post appears there once the cache entry expires.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(text) > maxPostLen {
		return nil, models.NewValidationError("Post too long (max 20000 characters)")
	}

	groupID, err := s.resolveGroupID(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     text,
		AuthorID: in.UserID,
		GroupID:  groupID,
		ImageURL: in.ImageURL,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost returns a single post with its author and group loaded.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// UpdatePost applies an edit when the caller authored the post. An edit by
// anyone else is absorbed: the stored post is returned untouched instead of
// an error, so a non-author "saving" an edit simply sees the original again.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID {
		return post, nil
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(text) > maxPostLen {
		return nil, models.NewValidationError("Post too long (max 20000 characters)")
	}

	groupID, err := s.resolveGroupID(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}

	post.Text = text
	post.GroupID = groupID
	post.ImageURL = in.ImageURL
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes a post. Only the author or an admin may delete.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
	}
	return s.postRepo.Delete(ctx, postID)
}

// HomePage returns one page of all posts, newest first.
func (s *PostService) HomePage(ctx context.Context, page int) ([]*models.Post, pagination.Page, error) {
	total, err := s.postRepo.CountAll(ctx)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	p := pagination.New(total, s.pageSize, page)
	posts, err := s.postRepo.List(ctx, p.Size, p.Offset())
	if err != nil {
		return nil, pagination.Page{}, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, p, nil
}

// GroupPage returns a group and one page of its posts, newest first.
func (s *PostService) GroupPage(ctx context.Context, slug string, page int) (*models.Group, []*models.Post, pagination.Page, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, pagination.Page{}, err
	}
	total, err := s.postRepo.CountByGroup(ctx, group.ID)
	if err != nil {
		return nil, nil, pagination.Page{}, err
	}
	p := pagination.New(total, s.pageSize, page)
	posts, err := s.postRepo.ListByGroup(ctx, group.ID, p.Size, p.Offset())
	if err != nil {
		return nil, nil, pagination.Page{}, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return group, posts, p, nil
}

// ProfilePage returns a user and one page of their posts, newest first.
func (s *PostService) ProfilePage(ctx context.Context, username string, page int) (*models.User, []*models.Post, pagination.Page, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, pagination.Page{}, err
	}
	total, err := s.postRepo.CountByAuthor(ctx, user.ID)
	if err != nil {
		return nil, nil, pagination.Page{}, err
	}
	p := pagination.New(total, s.pageSize, page)
	posts, err := s.postRepo.ListByAuthor(ctx, user.ID, p.Size, p.Offset())
	if err != nil {
		return nil, nil, pagination.Page{}, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return user, posts, p, nil
}
