package server

import (
	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetGroups handles GET /api/groups
func (s *Server) GetGroups(c *fiber.Ctx) error {
	groups, err := s.groupRepo.List(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	if groups == nil {
		groups = []models.Group{}
	}
	return c.JSON(fiber.Map{"groups": groups})
}

// GetGroup handles GET /api/groups/:slug
func (s *Server) GetGroup(c *fiber.Ctx) error {
	group, err := s.groupRepo.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(group)
}

// GetGroupPosts handles GET /api/groups/:slug/posts - one page of the
// group's posts, newest first.
func (s *Server) GetGroupPosts(c *fiber.Ctx) error {
	group, posts, page, err := s.postService.GroupPage(c.Context(), c.Params("slug"), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"group": group,
		"posts": posts,
		"page":  page,
	})
}

// CreateGroup handles POST /api/admin/groups
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title == "" || req.Slug == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and slug are required"))
	}
	if err := validation.ValidateGroupSlug(req.Slug); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	group := &models.Group{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	}
	if err := s.groupRepo.Create(c.Context(), group); err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}
