package server

import (
	"fmt"

	"threadline/internal/content"
	"threadline/internal/models"
	"threadline/internal/repository"
	"threadline/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ownerFromParams derives the owner reference from the :kind/:id route
// segments, rejecting unregistered kinds.
func (s *Server) ownerFromParams(c *fiber.Ctx) (content.Ref, error) {
	kind := c.Params("kind")
	if !s.registry.Known(kind) {
		return content.Ref{}, models.NewNotFoundError("content kind", kind)
	}
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil {
		return content.Ref{}, models.NewValidationError("Invalid owner ID")
	}
	return content.Ref{Kind: kind, ID: id}, nil
}

func parseCommentID(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil {
		return 0, models.NewValidationError("Invalid comment ID")
	}
	return id, nil
}

type commentRequest struct {
	Body     string `json:"body"`
	ParentID *uint  `json:"parent_id"`
	Markup   string `json:"markup"`
	Hidden   bool   `json:"hidden"`
}

// CreateComment creates an identified comment on the owner (protected).
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	owner, err := s.ownerFromParams(c)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.PostComment(ctx, service.PostCommentInput{
		Owner:     owner,
		ParentID:  req.ParentID,
		UserID:    &userID,
		Body:      req.Body,
		Markup:    models.ParseMarkup(req.Markup),
		IsPublic:  !req.Hidden,
		IPAddress: c.IP(),
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// CreateFreeComment creates an anonymous comment on the owner. Anonymous
// submissions start unapproved and pass the visibility gate only through
// their public flag.
func (s *Server) CreateFreeComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	owner, err := s.ownerFromParams(c)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	var req struct {
		commentRequest
		Name    string `json:"name"`
		Website string `json:"website"`
		Email   string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	if req.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Name is required"))
	}

	comment, err := s.commentService.PostComment(ctx, service.PostCommentInput{
		Owner:         owner,
		ParentID:      req.ParentID,
		AuthorName:    req.Name,
		AuthorWebsite: req.Website,
		AuthorEmail:   req.Email,
		Body:          req.Body,
		Markup:        models.ParseMarkup(req.Markup),
		IsPublic:      !req.Hidden,
		IPAddress:     c.IP(),
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ListComments returns the owner's visible comments flat, in submission
// order (public).
func (s *Server) ListComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	owner, err := s.ownerFromParams(c)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	comments, err := s.commentService.ListComments(ctx, owner, repository.CommentFilter{VisibleOnly: true})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(comments)
}

// GetCommentTree returns the owner's visible comments threaded, each
// annotated with its nesting depth (public, cached).
func (s *Server) GetCommentTree(c *fiber.Ctx) error {
	ctx := c.UserContext()

	owner, err := s.ownerFromParams(c)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	tree, err := s.commentService.Thread(ctx, owner, true)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(tree)
}

// GetModerationTree returns the full thread including hidden and
// unapproved comments (moderators only).
func (s *Server) GetModerationTree(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	admin, err := s.isAdminByUserID(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	if !admin {
		return models.RespondWithError(c, fiber.StatusForbidden, models.NewUnauthorizedError("Only moderators can view hidden comments"))
	}

	owner, err := s.ownerFromParams(c)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	tree, err := s.commentService.Thread(ctx, owner, false)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(tree)
}

// GetComment returns a single visible comment (public).
func (s *Server) GetComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := parseCommentID(c)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	comment, err := s.commentService.GetComment(ctx, id)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	if !comment.Visible() {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("comment", id))
	}

	return c.JSON(comment)
}

// UpdateComment applies an author's edit to their own comment (protected).
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	id, err := parseCommentID(c)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(ctx, service.UpdateCommentInput{
		UserID:    userID,
		CommentID: id,
		Body:      req.Body,
		Markup:    models.ParseMarkup(req.Markup),
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(comment)
}

// ApproveComment marks a comment approved (moderators only). The
// approval timestamp is stamped once; repeat approvals do not move it.
func (s *Server) ApproveComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	id, err := parseCommentID(c)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	comment, err := s.commentService.Approve(ctx, userID, id)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(comment)
}
