package server

import (
	"orbit/internal/models"
	"orbit/internal/repository"
	"orbit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts.
// Query params: limit, offset, sort∈{recent,popular,trending}, visibility,
// user_id. The response echoes the pagination parameters and the returned
// count, not a total.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	userID := c.QueryInt("user_id", 0)
	if userID < 0 {
		userID = 0
	}

	posts, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Limit:      p.Limit,
		Offset:     p.Offset,
		Sort:       c.Query("sort", repository.SortRecent),
		Visibility: c.Query("visibility"),
		UserID:     uint(userID),
		ViewerID:   s.viewerID(c),
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"limit":  p.Limit,
		"offset": p.Offset,
		"count":  len(posts),
	})
}

// GetPost handles GET /api/posts/:id. Private posts are visible only to
// their owner; followers-only posts to the owner and accepted followers.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id, s.viewerID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Content    string  `json:"content"`
		MediaURL   string  `json:"media_url"`
		MediaType  string  `json:"media_type"`
		Visibility *string `json:"visibility"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.CreatePostInput{
		UserID:    s.viewerID(c),
		Content:   req.Content,
		MediaURL:  req.MediaURL,
		MediaType: req.MediaType,
	}
	// An omitted visibility defaults to public; an explicit invalid one is
	// rejected, so the two cases must stay distinguishable here.
	if req.Visibility != nil {
		in.Visibility = *req.Visibility
		in.VisibilitySet = true
	}

	post, err := s.postService.CreatePost(c.Context(), in)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id. Only the owner may update; at
// least one recognized field must be present.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content    *string `json:"content"`
		MediaURL   *string `json:"media_url"`
		MediaType  *string `json:"media_type"`
		Visibility *string `json:"visibility"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	update := repository.PostUpdate{
		Content:  req.Content,
		MediaURL: req.MediaURL,
	}
	if req.MediaType != nil {
		mt := models.MediaType(*req.MediaType)
		update.MediaType = &mt
	}
	if req.Visibility != nil {
		v := models.PostVisibility(*req.Visibility)
		update.Visibility = &v
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		RequesterID: s.viewerID(c),
		PostID:      id,
		Update:      update,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id. Owners and admins may delete.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	claims := s.claims(c)
	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		RequesterID:   claims.UserID,
		RequesterRole: claims.Role,
		PostID:        id,
	}); err != nil {
		return models.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Post deleted",
		"id":      id,
	})
}
