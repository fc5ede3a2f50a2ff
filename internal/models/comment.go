package models

import (
	"time"

	"threadline/internal/content"

	"gorm.io/gorm"
)

// Comment is a threaded comment attached to an arbitrary owner entity
// through an (OwnerKind, OwnerID) pair. Hierarchy comes from the
// nullable ParentID self-reference.
//
// The author is either a registered user (UserID set) or an inline
// anonymous identity (AuthorName required, website and email optional).
// Exactly one of the two forms is expected; Anonymous() distinguishes
// them.
type Comment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OwnerKind string `gorm:"size:64;not null;index:idx_comments_owner" json:"owner_kind"`
	OwnerID   uint   `gorm:"not null;index:idx_comments_owner" json:"owner_id"`

	ParentID *uint    `gorm:"index" json:"parent_id,omitempty"`
	Parent   *Comment `gorm:"foreignKey:ParentID" json:"-"`

	UserID        *uint  `gorm:"index" json:"user_id,omitempty"`
	User          *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AuthorName    string `gorm:"size:128" json:"author_name,omitempty"`
	AuthorWebsite string `gorm:"size:255" json:"author_website,omitempty"`
	AuthorEmail   string `gorm:"size:255" json:"author_email,omitempty"`

	Body   string `gorm:"type:text;not null" json:"body"`
	Markup Markup `json:"markup"`

	IsPublic   bool `json:"is_public"`
	IsApproved bool `json:"is_approved"`

	IPAddress string `gorm:"size:45" json:"ip_address,omitempty"`

	SubmittedAt time.Time  `json:"submitted_at"`
	ModifiedAt  time.Time  `json:"modified_at"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`

	// Depth is annotated by thread assembly; not persisted.
	Depth int `gorm:"-" json:"depth"`
}

// OwnerRef returns the polymorphic reference of the entity this comment
// is attached to.
func (c *Comment) OwnerRef() content.Ref {
	return content.Ref{Kind: c.OwnerKind, ID: c.OwnerID}
}

// SetOwner stamps the owner reference onto the comment.
func (c *Comment) SetOwner(ref content.Ref) {
	c.OwnerKind = ref.Kind
	c.OwnerID = ref.ID
}

// Anonymous reports whether the comment carries an inline author
// instead of a registered user reference.
func (c *Comment) Anonymous() bool {
	return c.UserID == nil
}

// Visible reports whether the comment passes the public/approved gate.
func (c *Comment) Visible() bool {
	return c.IsPublic || c.IsApproved
}

// BeforeCreate stamps the submission time on first insert.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.SubmittedAt.IsZero() {
		c.SubmittedAt = time.Now()
	}
	return nil
}

// BeforeSave normalizes the record on every persist: an unset markup
// resolves to plaintext, ModifiedAt is refreshed, and ApprovedAt is
// stamped exactly once on the transition into the approved state.
func (c *Comment) BeforeSave(tx *gorm.DB) error {
	if c.Markup == 0 {
		c.Markup = MarkupPlaintext
	}
	c.ModifiedAt = time.Now()
	if c.ApprovedAt == nil && c.IsApproved {
		now := time.Now()
		c.ApprovedAt = &now
	}
	return nil
}

// BaseData produces a flat key/value snapshot of the comment, intended
// for serialization and testing rather than as a stable wire format.
func (c *Comment) BaseData(showDates bool) map[string]any {
	data := map[string]any{
		"owner":       c.OwnerRef(),
		"body":        c.Body,
		"is_public":   c.IsPublic,
		"is_approved": c.IsApproved,
		"ip_address":  c.IPAddress,
		"markup":      c.Markup.String(),
	}
	if c.ParentID != nil {
		data["parent_id"] = *c.ParentID
	}
	if c.UserID != nil {
		data["user_id"] = *c.UserID
	} else {
		data["name"] = c.AuthorName
		data["website"] = c.AuthorWebsite
		data["email"] = c.AuthorEmail
	}
	if showDates {
		data["submitted_at"] = c.SubmittedAt
		data["modified_at"] = c.ModifiedAt
		data["approved_at"] = c.ApprovedAt
	}
	return data
}

// String returns the body truncated for log and admin listings.
func (c *Comment) String() string {
	if len(c.Body) > 50 {
		return c.Body[:50] + "..."
	}
	return c.Body
}
