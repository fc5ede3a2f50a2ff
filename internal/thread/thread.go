// Package thread materializes a flat set of comments into depth-first
// display order.
package thread

import "threadline/internal/models"

// Build orders the comments of a single owner into depth-first sequence
// and annotates each one's Depth with its ancestor count.
//
// Children are grouped by parent id in one pass, preserving the input
// order within each group, so the result matches the input's sibling
// ordering: every comment appears exactly once, strictly after its
// parent and before any later sibling's subtree. Comments whose parent
// is absent from the input (orphaned or cross-owner references) are
// omitted from the result.
func Build(flat []*models.Comment) []*models.Comment {
	roots := make([]*models.Comment, 0, len(flat))
	children := make(map[uint][]*models.Comment)
	for _, c := range flat {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	out := make([]*models.Comment, 0, len(flat))
	var walk func(node *models.Comment, depth int)
	walk = func(node *models.Comment, depth int) {
		node.Depth = depth
		out = append(out, node)
		for _, child := range children[node.ID] {
			walk(child, depth+1)
		}
	}
	for _, root := range roots {
		walk(root, 0)
	}
	return out
}
