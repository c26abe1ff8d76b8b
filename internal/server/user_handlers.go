package server

import (
	"orbit/internal/models"
	"orbit/internal/repository"
	"orbit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:id/profile.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetProfile(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}

	summary := user.Summary()
	// Email stays private to its owner.
	summary.Email = ""
	return c.JSON(fiber.Map{
		"user":     summary,
		"bio":      user.Bio,
		"location": user.Location,
		"website":  user.Website,
	})
}

// GetFollowers handles GET /api/users/:id/followers.
// Query param type∈{followers,following} selects the direction; followers
// is the default.
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	listType := c.Query("type", "followers")

	var users []models.User
	switch listType {
	case "followers":
		users, err = s.userService.ListFollowers(c.Context(), id, p.Limit, p.Offset)
	case "following":
		users, err = s.userService.ListFollowing(c.Context(), id, p.Limit, p.Offset)
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("type must be 'followers' or 'following'"))
	}
	if err != nil {
		return models.RespondError(c, err)
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for i := range users {
		summary := users[i].Summary()
		summary.Email = ""
		summaries = append(summaries, summary)
	}

	return c.JSON(fiber.Map{
		"users":  summaries,
		"type":   listType,
		"limit":  p.Limit,
		"offset": p.Offset,
		"count":  len(summaries),
	})
}

// UpdateProfile handles PATCH /api/users/profile. Partial update: only
// fields present in the body are written.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		Username    *string `json:"username"`
		DisplayName *string `json:"display_name"`
		Bio         *string `json:"bio"`
		Avatar      *string `json:"avatar"`
		Location    *string `json:"location"`
		Website     *string `json:"website"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID: s.viewerID(c),
		Update: repository.ProfileUpdate{
			Username:    req.Username,
			DisplayName: req.DisplayName,
			Bio:         req.Bio,
			Avatar:      req.Avatar,
			Location:    req.Location,
			Website:     req.Website,
		},
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user.Summary())
}

// ToggleFollow handles PATCH /api/users/:id/follow. Follows the target if
// not currently followed, otherwise unfollows.
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	followed, err := s.userService.ToggleFollow(c.Context(), s.viewerID(c), id)
	if err != nil {
		return models.RespondError(c, err)
	}

	message := "Unfollowed"
	if followed {
		message = "Followed"
	}
	return c.JSON(fiber.Map{
		"message":   message,
		"user_id":   id,
		"following": followed,
	})
}

// DeleteAccount handles DELETE /api/users/account. The caller's current
// password must accompany the request; a valid token alone is not enough.
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Password is required"))
	}

	userID := s.viewerID(c)
	if err := s.userService.DeleteAccount(c.Context(), service.DeleteAccountInput{
		UserID:   userID,
		Password: req.Password,
	}); err != nil {
		return models.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Account deleted",
		"id":      userID,
	})
}
