package repository

import (
	"context"
	"regexp"
	"testing"

	"threadline/internal/content"
	"threadline/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestCommentRepository_CreateForOwner_SQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &models.Comment{Body: "Nice post!", AuthorName: "visitor"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.CreateForOwner(ctx, content.Ref{Kind: "posts", ID: 7}, comment)
	assert.NoError(t, err)
	assert.Equal(t, "posts", comment.OwnerKind)
	assert.Equal(t, uint(7), comment.OwnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListForOwner_VisibleSQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	// The visibility predicate must narrow the owner filter, not replace it.
	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE owner_kind = \$1 AND owner_id = \$2 AND \(is_public = \$3 OR is_approved = \$4\)`).
		WithArgs("posts", 7, true, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_kind", "owner_id", "body"}).
			AddRow(1, "posts", 7, "first").
			AddRow(2, "posts", 7, "second"))

	comments, err := repo.ListForOwner(ctx, content.Ref{Kind: "posts", ID: 7}, CommentFilter{VisibleOnly: true})
	assert.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Body)
	assert.NoError(t, mock.ExpectationsWereMet())
}
