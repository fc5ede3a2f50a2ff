package repository

import (
	"context"
	"testing"
	"time"

	"threadline/internal/content"
	"threadline/internal/database"
	"threadline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func ownerRef(id uint) content.Ref {
	return content.Ref{Kind: models.KindPosts, ID: id}
}

// addComment inserts a comment at a fixed submission time so ordering is
// deterministic across fast test runs.
func addComment(t *testing.T, repo CommentRepository, owner content.Ref, offset int, c *models.Comment) *models.Comment {
	t.Helper()
	c.SubmittedAt = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(offset) * time.Minute)
	require.NoError(t, repo.CreateForOwner(context.Background(), owner, c))
	return c
}

func TestCommentRepository_CreateForOwner(t *testing.T) {
	repo := NewCommentRepository(testDB(t))
	ctx := context.Background()
	owner := ownerRef(1)

	comment := &models.Comment{Body: "first!", AuthorName: "visitor", IsPublic: true}
	require.NoError(t, repo.CreateForOwner(ctx, owner, comment))

	assert.NotZero(t, comment.ID)
	assert.Equal(t, models.KindPosts, comment.OwnerKind)
	assert.Equal(t, uint(1), comment.OwnerID)
	assert.Equal(t, models.MarkupPlaintext, comment.Markup, "unset markup defaults to plaintext")
	assert.False(t, comment.SubmittedAt.IsZero())
	assert.False(t, comment.ModifiedAt.IsZero())
	assert.Nil(t, comment.ApprovedAt)
}

func TestCommentRepository_ApprovalStampedOnce(t *testing.T) {
	repo := NewCommentRepository(testDB(t))
	ctx := context.Background()
	owner := ownerRef(1)

	comment := &models.Comment{Body: "approve me", AuthorName: "visitor"}
	require.NoError(t, repo.CreateForOwner(ctx, owner, comment))
	require.Nil(t, comment.ApprovedAt)

	comment.IsApproved = true
	require.NoError(t, repo.Update(ctx, comment))
	require.NotNil(t, comment.ApprovedAt)
	stamped := *comment.ApprovedAt

	// A later save must not move the stamp.
	time.Sleep(5 * time.Millisecond)
	comment.Body = "edited after approval"
	require.NoError(t, repo.Update(ctx, comment))
	require.NotNil(t, comment.ApprovedAt)
	assert.True(t, stamped.Equal(*comment.ApprovedAt))
}

func TestCommentRepository_ModifiedAtRefreshedOnWrite(t *testing.T) {
	repo := NewCommentRepository(testDB(t))
	ctx := context.Background()

	comment := &models.Comment{Body: "original", AuthorName: "visitor"}
	require.NoError(t, repo.CreateForOwner(ctx, ownerRef(1), comment))
	first := comment.ModifiedAt

	time.Sleep(5 * time.Millisecond)
	comment.Body = "edited"
	require.NoError(t, repo.Update(ctx, comment))

	assert.True(t, comment.ModifiedAt.After(first))
}

func TestCommentRepository_GetForOwner(t *testing.T) {
	repo := NewCommentRepository(testDB(t))
	ctx := context.Background()
	owner := ownerRef(1)

	addComment(t, repo, owner, 0, &models.Comment{Body: "unique", AuthorName: "a", IsPublic: true})
	addComment(t, repo, owner, 1, &models.Comment{Body: "dup", AuthorName: "b", IsPublic: true})
	addComment(t, repo, owner, 2, &models.Comment{Body: "dup", AuthorName: "c", IsPublic: true})

	t.Run("single match", func(t *testing.T) {
		got, err := repo.GetForOwner(ctx, owner, CommentFilter{Body: "unique"})
		require.NoError(t, err)
		assert.Equal(t, "a", got.AuthorName)
	})

	t.Run("zero matches", func(t *testing.T) {
		_, err := repo.GetForOwner(ctx, owner, CommentFilter{Body: "nope"})
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("ambiguous filter", func(t *testing.T) {
		_, err := repo.GetForOwner(ctx, owner, CommentFilter{Body: "dup"})
		assert.True(t, models.IsMultipleResults(err))
	})

	t.Run("other owner sees nothing", func(t *testing.T) {
		_, err := repo.GetForOwner(ctx, ownerRef(2), CommentFilter{Body: "unique"})
		assert.True(t, models.IsNotFound(err))
	})
}

func TestCommentRepository_GetOrCreateForOwner(t *testing.T) {
	repo := NewCommentRepository(testDB(t))
	ctx := context.Background()
	owner := ownerRef(1)

	filter := CommentFilter{Body: "hello", AuthorName: "visitor"}

	first, created, err := repo.GetOrCreateForOwner(ctx, owner, filter)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, owner, first.OwnerRef())

	second, created, err := repo.GetOrCreateForOwner(ctx, owner, filter)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestCommentRepository_ListForOwner_Visibility(t *testing.T) {
	repo := NewCommentRepository(testDB(t))
	ctx := context.Background()
	owner := ownerRef(1)

	addComment(t, repo, owner, 0, &models.Comment{Body: "public", AuthorName: "a", IsPublic: true})
	addComment(t, repo, owner, 1, &models.Comment{Body: "approved", AuthorName: "b", IsApproved: true})
	addComment(t, repo, owner, 2, &models.Comment{Body: "hidden", AuthorName: "c"})

	visible, err := repo.ListForOwner(ctx, owner, CommentFilter{VisibleOnly: true})
	require.NoError(t, err)
	bodies := make([]string, len(visible))
	for i, c := range visible {
		bodies[i] = c.Body
	}
	assert.Equal(t, []string{"public", "approved"}, bodies)

	all, err := repo.ListForOwner(ctx, owner, CommentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCommentRepository_TreeForOwner(t *testing.T) {
	repo := NewCommentRepository(testDB(t))
	ctx := context.Background()
	owner := ownerRef(1)

	a := addComment(t, repo, owner, 0, &models.Comment{Body: "A", AuthorName: "x", IsPublic: true})
	b := addComment(t, repo, owner, 1, &models.Comment{Body: "B", AuthorName: "x", IsPublic: true, ParentID: &a.ID})
	addComment(t, repo, owner, 2, &models.Comment{Body: "C", AuthorName: "x", IsPublic: true})
	addComment(t, repo, owner, 3, &models.Comment{Body: "D", AuthorName: "x", IsPublic: true, ParentID: &b.ID})

	tree, err := repo.TreeForOwner(ctx, owner, false)
	require.NoError(t, err)
	require.Len(t, tree, 4)

	bodies := make([]string, len(tree))
	depths := make([]int, len(tree))
	for i, c := range tree {
		bodies[i] = c.Body
		depths[i] = c.Depth
	}
	assert.Equal(t, []string{"A", "B", "D", "C"}, bodies)
	assert.Equal(t, []int{0, 1, 2, 0}, depths)
}

func TestCommentRepository_TreeForOwner_CrossOwnerParentOmitted(t *testing.T) {
	repo := NewCommentRepository(testDB(t))
	ctx := context.Background()

	otherRoot := addComment(t, repo, ownerRef(2), 0, &models.Comment{Body: "other owner root", AuthorName: "x", IsPublic: true})
	addComment(t, repo, ownerRef(1), 1, &models.Comment{Body: "mine", AuthorName: "x", IsPublic: true})
	addComment(t, repo, ownerRef(1), 2, &models.Comment{Body: "orphan", AuthorName: "x", IsPublic: true, ParentID: &otherRoot.ID})

	tree, err := repo.TreeForOwner(ctx, ownerRef(1), false)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "mine", tree[0].Body)
}

func TestCommentRepository_TreeForOwner_VisibleOnly(t *testing.T) {
	repo := NewCommentRepository(testDB(t))
	ctx := context.Background()
	owner := ownerRef(1)

	root := addComment(t, repo, owner, 0, &models.Comment{Body: "root", AuthorName: "x", IsPublic: true})
	addComment(t, repo, owner, 1, &models.Comment{Body: "pending reply", AuthorName: "y", ParentID: &root.ID})

	tree, err := repo.TreeForOwner(ctx, owner, true)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "root", tree[0].Body)
}
