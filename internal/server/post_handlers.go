package server

import (
	"fmt"

	"threadline/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePost creates a post owned by the authenticated user (protected).
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	if req.Title == "" || req.Body == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Title and body are required"))
	}

	post := &models.Post{
		Title:  req.Title,
		Body:   req.Body,
		UserID: userID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost returns a single post (public).
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid post ID"))
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(post)
}
