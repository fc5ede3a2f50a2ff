// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"threadline/internal/content"
	"threadline/internal/models"
	"threadline/internal/thread"

	"gorm.io/gorm"
)

// CommentFilter narrows owner-scoped comment queries. Zero-valued fields
// are ignored; set fields are combined with AND.
type CommentFilter struct {
	ParentID    *uint
	RootsOnly   bool
	UserID      *uint
	AuthorName  string
	Body        string
	Markup      *models.Markup
	VisibleOnly bool
}

func (f CommentFilter) apply(db *gorm.DB) *gorm.DB {
	switch {
	case f.RootsOnly:
		db = db.Where("parent_id IS NULL")
	case f.ParentID != nil:
		db = db.Where("parent_id = ?", *f.ParentID)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.AuthorName != "" {
		db = db.Where("author_name = ?", f.AuthorName)
	}
	if f.Body != "" {
		db = db.Where("body = ?", f.Body)
	}
	if f.Markup != nil {
		db = db.Where("markup = ?", *f.Markup)
	}
	if f.VisibleOnly {
		db = db.Scopes(Visible)
	}
	return db
}

// comment builds the record a GetOrCreate falls back to inserting.
func (f CommentFilter) comment() *models.Comment {
	c := &models.Comment{
		ParentID:   f.ParentID,
		UserID:     f.UserID,
		AuthorName: f.AuthorName,
		Body:       f.Body,
		IsPublic:   true,
	}
	if f.Markup != nil {
		c.Markup = *f.Markup
	}
	return c
}

// Visible narrows a comment query to publicly readable records. It is
// layered on top of whatever filter the caller already holds.
func Visible(db *gorm.DB) *gorm.DB {
	return db.Where("is_public = ? OR is_approved = ?", true, true)
}

// CommentRepository defines interface for comment operations.
type CommentRepository interface {
	CreateForOwner(ctx context.Context, owner content.Ref, comment *models.Comment) error
	GetForOwner(ctx context.Context, owner content.Ref, filter CommentFilter) (*models.Comment, error)
	GetOrCreateForOwner(ctx context.Context, owner content.Ref, filter CommentFilter) (*models.Comment, bool, error)
	ListForOwner(ctx context.Context, owner content.Ref, filter CommentFilter) ([]*models.Comment, error)
	TreeForOwner(ctx context.Context, owner content.Ref, visibleOnly bool) ([]*models.Comment, error)
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) ownerScope(ctx context.Context, owner content.Ref) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("owner_kind = ? AND owner_id = ?", owner.Kind, owner.ID)
}

func (r *commentRepository) CreateForOwner(ctx context.Context, owner content.Ref, comment *models.Comment) error {
	comment.SetOwner(owner)
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetForOwner fetches exactly one matching comment. Zero matches yield a
// NOT_FOUND error, more than one a MULTIPLE_RESULTS error.
func (r *commentRepository) GetForOwner(ctx context.Context, owner content.Ref, filter CommentFilter) (*models.Comment, error) {
	var comments []*models.Comment
	err := filter.apply(r.ownerScope(ctx, owner)).
		Order("submitted_at asc, id asc").
		Limit(2).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	switch len(comments) {
	case 0:
		return nil, models.NewNotFoundError("comment", owner.String())
	case 1:
		return comments[0], nil
	default:
		return nil, models.NewMultipleResultsError("comment")
	}
}

// GetOrCreateForOwner returns the single comment matching the filter, or
// inserts one built from the filter's fields. The boolean reports
// whether a record was created.
func (r *commentRepository) GetOrCreateForOwner(ctx context.Context, owner content.Ref, filter CommentFilter) (*models.Comment, bool, error) {
	existing, err := r.GetForOwner(ctx, owner, filter)
	if err == nil {
		return existing, false, nil
	}
	if !models.IsNotFound(err) {
		return nil, false, err
	}

	comment := filter.comment()
	if err := r.CreateForOwner(ctx, owner, comment); err != nil {
		return nil, false, err
	}
	return comment, true, nil
}

func (r *commentRepository) ListForOwner(ctx context.Context, owner content.Ref, filter CommentFilter) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := filter.apply(r.ownerScope(ctx, owner)).
		Preload("User").
		Order("submitted_at asc, id asc").
		Find(&comments).Error
	return comments, err
}

// TreeForOwner fetches the owner's flat comment set in submission order
// and assembles it into depth-first display order.
func (r *commentRepository) TreeForOwner(ctx context.Context, owner content.Ref, visibleOnly bool) ([]*models.Comment, error) {
	flat, err := r.ListForOwner(ctx, owner, CommentFilter{VisibleOnly: visibleOnly})
	if err != nil {
		return nil, err
	}
	return thread.Build(flat), nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("comment", id)
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}
