package server

import (
	"orbit/internal/models"
	"orbit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LikePost handles POST /api/posts/:id/like. Liking is permanent; a second
// like from the same user is a 409.
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.engagementService.LikePost(c.Context(), s.viewerID(c), id)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Post liked",
		"post_id":     post.ID,
		"likes_count": post.LikesCount,
	})
}

// CreateComment handles POST /api/posts/:id/comment.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content  string `json:"content"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.engagementService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:   s.viewerID(c),
		PostID:   id,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// SharePost handles PATCH /api/posts/:id/share. The premium tier gate runs
// in middleware before this handler.
func (s *Server) SharePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.engagementService.SharePost(c.Context(), s.viewerID(c), id)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":      "Post shared",
		"post_id":      post.ID,
		"shares_count": post.SharesCount,
	})
}
