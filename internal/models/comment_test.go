package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkup_String(t *testing.T) {
	tests := []struct {
		name   string
		markup Markup
		want   string
	}{
		{"markdown", MarkupMarkdown, "markdown"},
		{"textile", MarkupTextile, "textile"},
		{"restructuredtext", MarkupRest, "restructuredtext"},
		{"plaintext", MarkupPlaintext, "plaintext"},
		{"zero value resolves to plaintext", Markup(0), "plaintext"},
		{"retired html slot resolves to plaintext", Markup(4), "plaintext"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.markup.String())
		})
	}
}

func TestParseMarkup(t *testing.T) {
	assert.Equal(t, MarkupMarkdown, ParseMarkup("markdown"))
	assert.Equal(t, MarkupTextile, ParseMarkup("textile"))
	assert.Equal(t, MarkupRest, ParseMarkup("restructuredtext"))
	assert.Equal(t, MarkupPlaintext, ParseMarkup(""))
	assert.Equal(t, MarkupPlaintext, ParseMarkup("html"))
}

func TestComment_BaseData_Identified(t *testing.T) {
	userID := uint(42)
	c := &Comment{
		OwnerKind: KindPosts,
		OwnerID:   7,
		UserID:    &userID,
		Body:      "hello",
		Markup:    MarkupMarkdown,
		IsPublic:  true,
	}

	data := c.BaseData(false)

	assert.Equal(t, c.OwnerRef(), data["owner"])
	assert.Equal(t, uint(42), data["user_id"])
	assert.Equal(t, "markdown", data["markup"])
	assert.NotContains(t, data, "name")
	assert.NotContains(t, data, "submitted_at")
}

func TestComment_BaseData_Anonymous(t *testing.T) {
	c := &Comment{
		OwnerKind:     KindPosts,
		OwnerID:       7,
		AuthorName:    "visitor",
		AuthorWebsite: "https://example.com",
		AuthorEmail:   "visitor@example.com",
		Body:          "hi",
	}

	data := c.BaseData(true)

	assert.True(t, c.Anonymous())
	assert.Equal(t, "visitor", data["name"])
	assert.Equal(t, "https://example.com", data["website"])
	assert.Equal(t, "visitor@example.com", data["email"])
	assert.NotContains(t, data, "user_id")
	assert.Contains(t, data, "submitted_at")
	assert.Contains(t, data, "approved_at")
}

func TestComment_String_Truncates(t *testing.T) {
	short := &Comment{Body: "short comment"}
	assert.Equal(t, "short comment", short.String())

	long := &Comment{Body: strings.Repeat("a", 80)}
	assert.Equal(t, strings.Repeat("a", 50)+"...", long.String())
}

func TestComment_Visible(t *testing.T) {
	assert.False(t, (&Comment{}).Visible())
	assert.True(t, (&Comment{IsPublic: true}).Visible())
	assert.True(t, (&Comment{IsApproved: true}).Visible())
	assert.True(t, (&Comment{IsPublic: true, IsApproved: true}).Visible())
}
