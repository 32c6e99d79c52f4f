package server

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parsePage extracts the 1-indexed "page" query parameter. Out-of-range
// values are not an error here; the pagination layer clamps them.
func parsePage(c *fiber.Ctx) int {
	return c.QueryInt("page", 1)
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

func (s *Server) isAdminByUserID(ctx context.Context, userID uint) (bool, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Select("is_admin").First(&user, userID).Error; err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

// statusForError maps application errors to HTTP status codes.
func statusForError(err error) int {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return fiber.StatusNotFound
		case "VALIDATION_ERROR":
			return fiber.StatusBadRequest
		case "UNAUTHORIZED":
			return fiber.StatusForbidden
		}
	}
	return fiber.StatusInternalServerError
}

// respondServiceError writes the right status for a service-layer error.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForError(err), err)
}
