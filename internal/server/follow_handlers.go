package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:username - the user plus follower
// counts and whether the viewer follows them, without the post listing.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}

	followers, following, err := s.followService.ProfileCounts(c.Context(), user.ID)
	if err != nil {
		return respondServiceError(c, err)
	}

	viewerID, _ := s.optionalUserID(c)
	viewerFollows, err := s.followService.Following(c.Context(), viewerID, user.ID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":        user,
		"followers":   followers,
		"following":   following,
		"is_follower": viewerFollows,
	})
}

// GetUserPosts handles GET /api/users/:username/posts - a profile page: the
// user, one page of their posts, follower counts, and whether the viewer
// follows them (always false for anonymous viewers and self-views).
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	username := c.Params("username")

	user, posts, page, err := s.postService.ProfilePage(c.Context(), username, parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	followers, following, err := s.followService.ProfileCounts(c.Context(), user.ID)
	if err != nil {
		return respondServiceError(c, err)
	}

	viewerID, _ := s.optionalUserID(c)
	viewerFollows, err := s.followService.Following(c.Context(), viewerID, user.ID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":        user,
		"posts":       posts,
		"page":        page,
		"followers":   followers,
		"following":   following,
		"is_follower": viewerFollows,
	})
}

// FollowUser handles POST /api/users/:username/follow. Following yourself or
// someone you already follow succeeds without changing anything.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.followService.Follow(c.Context(), userID, c.Params("username")); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Following " + c.Params("username")})
}

// UnfollowUser handles POST /api/users/:username/unfollow. Unfollowing
// someone you never followed also succeeds.
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.followService.Unfollow(c.Context(), userID, c.Params("username")); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Unfollowed " + c.Params("username")})
}

// GetFeed handles GET /api/feed - one page of posts by the authors the
// authenticated user follows, newest first.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	posts, page, err := s.followService.Feed(c.Context(), userID, parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(listingResponse{Posts: posts, Page: page})
}
