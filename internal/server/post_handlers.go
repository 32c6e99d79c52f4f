package server

import (
	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/pagination"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// listingResponse is the shape of every paginated post listing.
type listingResponse struct {
	Posts []*models.Post  `json:"posts"`
	Page  pagination.Page `json:"page"`
}

// GetPosts handles GET /api/posts - the home listing of all posts, newest
// first. The first page is served from a single shared cache entry: every
// visitor sees the same home page, so one key is enough, and a freshly
// created post may lag behind until the entry expires.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePage(c)

	if page == 1 && s.homeCacheTTL > 0 {
		var resp listingResponse
		found, err := cache.GetJSON(c.Context(), cache.TimelineKey, &resp)
		if err == nil && found {
			middleware.TimelineCacheHits.WithLabelValues("hit").Inc()
			return c.JSON(resp)
		}
		middleware.TimelineCacheHits.WithLabelValues("miss").Inc()

		posts, p, err := s.postService.HomePage(c.Context(), page)
		if err != nil {
			return respondServiceError(c, err)
		}
		resp = listingResponse{Posts: posts, Page: p}
		_ = cache.SetJSON(c.Context(), cache.TimelineKey, resp, s.homeCacheTTL)
		return c.JSON(resp)
	}

	if page == 1 {
		middleware.TimelineCacheHits.WithLabelValues("bypass").Inc()
	}

	posts, p, err := s.postService.HomePage(c.Context(), page)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(listingResponse{Posts: posts, Page: p})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	count, err := s.commentRepo.CountByPost(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"post":          post,
		"comment_count": count,
	})
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Text      string `json:"text"`
		GroupSlug string `json:"group_slug"`
		ImageURL  string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:    userID,
		Text:      req.Text,
		GroupSlug: req.GroupSlug,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id. An edit by someone other than the
// author is not rejected: the stored post comes back unchanged with 200, the
// same as viewing it.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text      string `json:"text"`
		GroupSlug string `json:"group_slug"`
		ImageURL  string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:    userID,
		PostID:    id,
		Text:      req.Text,
		GroupSlug: req.GroupSlug,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), userID, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post deleted"})
}
