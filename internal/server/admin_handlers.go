package server

import (
	"inkwell/internal/cache"

	"github.com/gofiber/fiber/v2"
)

// ClearHomeCache handles POST /api/admin/cache/clear. It drops the shared
// home listing entry so the next request recomputes it immediately instead
// of waiting out the TTL.
func (s *Server) ClearHomeCache(c *fiber.Ctx) error {
	cache.ClearTimeline(c.Context())
	return c.JSON(fiber.Map{"message": "Home cache cleared"})
}
