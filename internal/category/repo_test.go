package category

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"bookhub/pkg/database"
	"bookhub/pkg/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestCreateDuplicateNameConflicts(t *testing.T) {
	db := newTestDB(t)

	_, err := Create(db, models.Category{Name: "Fiction", IsActive: true})
	require.NoError(t, err)

	_, err = Create(db, models.Category{Name: "Fiction", IsActive: true})
	require.ErrorIs(t, err, ErrConflict)
}

func TestUpdateToDuplicateNameConflicts(t *testing.T) {
	db := newTestDB(t)

	_, err := Create(db, models.Category{Name: "Fiction", IsActive: true})
	require.NoError(t, err)
	drama, err := Create(db, models.Category{Name: "Drama", IsActive: true})
	require.NoError(t, err)

	drama.Name = "Fiction"
	_, err = Update(db, drama)
	require.ErrorIs(t, err, ErrConflict)
}

func TestUpdateMissingIsNotFoundNotConflict(t *testing.T) {
	db := newTestDB(t)

	_, err := Update(db, models.Category{ID: "cat-missing", Name: "Poetry"})
	require.ErrorIs(t, err, ErrNotFound)
	require.NotErrorIs(t, err, ErrConflict)
}
