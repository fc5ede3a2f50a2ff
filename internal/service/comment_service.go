// Package service contains business logic coordinating repositories,
// the content registry and the cache.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"threadline/internal/cache"
	"threadline/internal/content"
	"threadline/internal/models"
	"threadline/internal/observability"
	"threadline/internal/repository"
)

const (
	maxCommentLen  = 10000
	threadCacheTTL = 5 * time.Minute
)

// CommentService owns the comment write path and thread reads.
type CommentService struct {
	comments repository.CommentRepository
	registry *content.Registry
	isAdmin  func(ctx context.Context, userID uint) (bool, error)
}

// PostCommentInput carries one new comment. UserID identifies a
// registered author; AuthorName et al. carry an anonymous one.
type PostCommentInput struct {
	Owner         content.Ref
	ParentID      *uint
	UserID        *uint
	AuthorName    string
	AuthorWebsite string
	AuthorEmail   string
	Body          string
	Markup        models.Markup
	IsPublic      bool
	IPAddress     string
}

// UpdateCommentInput carries an edit to an existing comment.
type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Body      string
	Markup    models.Markup
}

// NewCommentService creates a CommentService. isAdmin may be nil, in
// which case moderation endpoints reject every caller.
func NewCommentService(
	comments repository.CommentRepository,
	registry *content.Registry,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		comments: comments,
		registry: registry,
		isAdmin:  isAdmin,
	}
}

func threadCacheKey(owner content.Ref) string {
	return fmt.Sprintf("thread:%s:%d", owner.Kind, owner.ID)
}

func (s *CommentService) invalidateThread(ctx context.Context, owner content.Ref) {
	if err := cache.Del(ctx, threadCacheKey(owner)); err != nil {
		slog.Warn("thread cache invalidation failed",
			slog.String("owner", owner.String()),
			slog.String("error", err.Error()),
		)
	}
}

// PostComment validates and persists a new comment bound to its owner.
func (s *CommentService) PostComment(ctx context.Context, in PostCommentInput) (*models.Comment, error) {
	if in.Body == "" {
		return nil, models.NewValidationError("Body is required")
	}
	if len(in.Body) > maxCommentLen {
		return nil, models.NewValidationError(fmt.Sprintf("Comment too long (max %d characters)", maxCommentLen))
	}
	if in.UserID == nil && in.AuthorName == "" {
		return nil, models.NewValidationError("A registered user or an author name is required")
	}

	// The owner reference must resolve to a live entity.
	if _, err := s.registry.Resolve(ctx, in.Owner); err != nil {
		if models.IsNotFound(err) {
			return nil, err
		}
		return nil, models.NewValidationError(fmt.Sprintf("Unknown content kind %q", in.Owner.Kind))
	}

	// A reply's parent must live in the same thread; accepting a
	// cross-owner parent would create a comment no tree ever emits.
	if in.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, models.NewValidationError("Parent comment not found")
		}
		if parent.OwnerRef() != in.Owner {
			return nil, models.NewValidationError("Parent comment belongs to a different owner")
		}
	}

	comment := &models.Comment{
		ParentID:      in.ParentID,
		UserID:        in.UserID,
		AuthorName:    in.AuthorName,
		AuthorWebsite: in.AuthorWebsite,
		AuthorEmail:   in.AuthorEmail,
		Body:          in.Body,
		Markup:        in.Markup,
		IsPublic:      in.IsPublic,
		IPAddress:     in.IPAddress,
	}
	if err := s.comments.CreateForOwner(ctx, in.Owner, comment); err != nil {
		return nil, err
	}

	author := "user"
	if comment.Anonymous() {
		author = "anonymous"
	}
	observability.CommentsCreated.WithLabelValues(in.Owner.Kind, author).Inc()
	s.invalidateThread(ctx, in.Owner)

	return s.comments.GetByID(ctx, comment.ID)
}

// Thread returns the owner's comments in depth-first order. Visible
// threads are served through the cache; moderation reads bypass it.
func (s *CommentService) Thread(ctx context.Context, owner content.Ref, visibleOnly bool) ([]*models.Comment, error) {
	if !s.registry.Known(owner.Kind) {
		return nil, models.NewValidationError(fmt.Sprintf("Unknown content kind %q", owner.Kind))
	}

	if !visibleOnly {
		return s.comments.TreeForOwner(ctx, owner, false)
	}

	key := threadCacheKey(owner)
	var tree []*models.Comment
	found, err := cache.GetJSON(ctx, key, &tree)
	if err != nil {
		slog.Warn("thread cache read failed", slog.String("error", err.Error()))
	}
	if found {
		observability.ThreadCacheRequests.WithLabelValues("hit").Inc()
		return tree, nil
	}
	observability.ThreadCacheRequests.WithLabelValues("miss").Inc()

	tree, err = s.comments.TreeForOwner(ctx, owner, true)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, key, tree, threadCacheTTL); err != nil {
		slog.Warn("thread cache write failed", slog.String("error", err.Error()))
	}
	return tree, nil
}

// ListComments returns the owner's comments flat, in submission order.
func (s *CommentService) ListComments(ctx context.Context, owner content.Ref, filter repository.CommentFilter) ([]*models.Comment, error) {
	if !s.registry.Known(owner.Kind) {
		return nil, models.NewValidationError(fmt.Sprintf("Unknown content kind %q", owner.Kind))
	}
	return s.comments.ListForOwner(ctx, owner, filter)
}

// GetComment fetches a single comment by id.
func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	return s.comments.GetByID(ctx, id)
}

// UpdateComment applies an author's edit to their own comment.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID == nil || *comment.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own comments")
	}
	if in.Body == "" {
		return nil, models.NewValidationError("Body is required")
	}
	if len(in.Body) > maxCommentLen {
		return nil, models.NewValidationError(fmt.Sprintf("Comment too long (max %d characters)", maxCommentLen))
	}

	comment.Body = in.Body
	comment.Markup = in.Markup
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	s.invalidateThread(ctx, comment.OwnerRef())

	return s.comments.GetByID(ctx, comment.ID)
}

// Approve marks a comment approved on behalf of a moderator. The
// approval timestamp is stamped by the write path exactly once; a
// repeated approval is a no-op beyond refreshing ModifiedAt.
func (s *CommentService) Approve(ctx context.Context, moderatorID, commentID uint) (*models.Comment, error) {
	if s.isAdmin == nil {
		return nil, models.NewUnauthorizedError("Moderation is not available")
	}
	admin, err := s.isAdmin(ctx, moderatorID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, models.NewUnauthorizedError("Only moderators can approve comments")
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	comment.IsApproved = true
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	observability.CommentsApproved.Inc()
	s.invalidateThread(ctx, comment.OwnerRef())

	return s.comments.GetByID(ctx, comment.ID)
}
