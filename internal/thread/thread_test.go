package thread

import (
	"testing"

	"threadline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comment(id uint, parentID *uint) *models.Comment {
	return &models.Comment{ID: id, ParentID: parentID}
}

func ptr(v uint) *uint { return &v }

func ids(comments []*models.Comment) []uint {
	out := make([]uint, len(comments))
	for i, c := range comments {
		out[i] = c.ID
	}
	return out
}

func depths(comments []*models.Comment) []int {
	out := make([]int, len(comments))
	for i, c := range comments {
		out[i] = c.Depth
	}
	return out
}

func TestBuild_NestedThread(t *testing.T) {
	t.Parallel()

	// A(root), B(parent=A), C(root), D(parent=B)
	flat := []*models.Comment{
		comment(1, nil),
		comment(2, ptr(1)),
		comment(3, nil),
		comment(4, ptr(2)),
	}

	tree := Build(flat)

	assert.Equal(t, []uint{1, 2, 4, 3}, ids(tree))
	assert.Equal(t, []int{0, 1, 2, 0}, depths(tree))
}

func TestBuild_SiblingOrderPreserved(t *testing.T) {
	t.Parallel()

	flat := []*models.Comment{
		comment(10, nil),
		comment(11, ptr(10)),
		comment(12, ptr(10)),
		comment(13, ptr(11)),
		comment(14, ptr(10)),
	}

	tree := Build(flat)

	// Each child appears after its parent and before the subtree of any
	// later sibling.
	assert.Equal(t, []uint{10, 11, 13, 12, 14}, ids(tree))
	assert.Equal(t, []int{0, 1, 2, 1, 1}, depths(tree))
}

func TestBuild_OrphanOmitted(t *testing.T) {
	t.Parallel()

	flat := []*models.Comment{
		comment(1, nil),
		comment(2, ptr(99)), // parent not in the set
	}

	tree := Build(flat)

	assert.Equal(t, []uint{1}, ids(tree))
}

func TestBuild_DepthMatchesAncestry(t *testing.T) {
	t.Parallel()

	flat := []*models.Comment{
		comment(1, nil),
		comment(2, ptr(1)),
		comment(3, ptr(2)),
		comment(4, ptr(3)),
		comment(5, nil),
		comment(6, ptr(5)),
	}

	tree := Build(flat)
	require.Len(t, tree, len(flat))

	index := make(map[uint]int, len(tree))
	for i, c := range tree {
		index[c.ID] = i
	}
	for i, c := range tree {
		if c.ParentID == nil {
			assert.Equal(t, 0, c.Depth)
			continue
		}
		pi, ok := index[*c.ParentID]
		require.True(t, ok)
		assert.Less(t, pi, i, "parent must precede child")
		assert.Equal(t, tree[pi].Depth+1, c.Depth)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	t.Parallel()

	flat := []*models.Comment{
		comment(1, nil),
		comment(2, ptr(1)),
		comment(3, nil),
	}

	first := Build(flat)
	second := Build(flat)

	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, depths(first), depths(second))
}

func TestBuild_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Build(nil))
}
