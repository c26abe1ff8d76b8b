package server

import (
	"errors"

	"orbit/internal/models"
	"orbit/internal/token"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given
// default limit. Limit is clamped to maxPaginationLimit, offset to zero.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// parseID extracts a route parameter by name as a positive uint. On failure
// it writes a 400 JSON response and returns errResponseWritten; callers
// should check: if err != nil { return nil }.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// claims returns the verified claims attached by AuthRequired or
// OptionalAuth, or nil when the request is anonymous.
func (s *Server) claims(c *fiber.Ctx) *token.Claims {
	claims, _ := c.Locals(claimsLocalKey).(*token.Claims)
	return claims
}

// viewerID returns the authenticated user's ID, or zero for anonymous
// requests.
func (s *Server) viewerID(c *fiber.Ctx) uint {
	if claims := s.claims(c); claims != nil {
		return claims.UserID
	}
	return 0
}
