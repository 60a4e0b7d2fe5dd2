package library

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"bookhub/internal/book"
	"bookhub/internal/user"
	"bookhub/pkg/database"
	"bookhub/pkg/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedDefaults(db))
	return db
}

func seedUser(t *testing.T, db *sql.DB, email string) models.User {
	t.Helper()
	u, err := user.Create(db, models.User{Email: email, Username: email}, "s3cretpass")
	require.NoError(t, err)
	return u
}

func seedEbook(t *testing.T, db *sql.DB, title string) models.Book {
	t.Helper()
	b, err := book.Create(db, models.Book{
		Title: title, Price: 1500, Status: models.BookPublished, Format: models.FormatEbook,
	})
	require.NoError(t, err)
	return b
}

func TestAssignAndDuplicate(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "ada@example.com")
	b := seedEbook(t, db, "Purple Hibiscus")

	e, err := Assign(db, u.ID, b.ID, "manual grant")
	require.NoError(t, err)
	require.Equal(t, models.LibraryActive, e.Status)
	require.Equal(t, "Purple Hibiscus", e.BookTitle)
	require.Zero(t, e.Progress)

	_, err = Assign(db, u.ID, b.ID, "again")
	require.ErrorIs(t, err, ErrExists)
}

func TestUpdateProgressCompletesAtFull(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "ada@example.com")
	b := seedEbook(t, db, "Half of a Yellow Sun")

	e, err := Assign(db, u.ID, b.ID, "")
	require.NoError(t, err)

	e, err = UpdateProgress(db, e.ID, 40, "")
	require.NoError(t, err)
	require.Equal(t, 40, e.Progress)
	require.Equal(t, models.LibraryActive, e.Status)
	require.NotNil(t, e.LastRead)

	e, err = UpdateProgress(db, e.ID, 100, "")
	require.NoError(t, err)
	require.Equal(t, models.LibraryCompleted, e.Status)

	// an explicit status wins over the derived one
	e, err = UpdateProgress(db, e.ID, 60, models.LibraryPaused)
	require.NoError(t, err)
	require.Equal(t, models.LibraryPaused, e.Status)
}

func TestBulkAssignSummary(t *testing.T) {
	db := newTestDB(t)
	u1 := seedUser(t, db, "ada@example.com")
	u2 := seedUser(t, db, "obi@example.com")
	b1 := seedEbook(t, db, "Book One")
	b2 := seedEbook(t, db, "Book Two")

	// pre-assign one pair so it shows up as skipped
	_, err := Assign(db, u1.ID, b1.ID, "earlier grant")
	require.NoError(t, err)

	s := BulkAssign(db, []string{u1.ID, u2.ID}, []string{b1.ID, b2.ID}, "promo")
	require.Equal(t, Summary{Successful: 3, Failed: 0, Skipped: 1}, s)

	lib, err := ListForUser(db, u2.ID)
	require.NoError(t, err)
	require.Len(t, lib, 2)
}

func TestRemove(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "ada@example.com")
	b := seedEbook(t, db, "Arrow of God")

	e, err := Assign(db, u.ID, b.ID, "")
	require.NoError(t, err)

	require.NoError(t, Remove(db, e.ID))
	require.ErrorIs(t, Remove(db, e.ID), ErrNotFound)

	lib, err := ListForUser(db, u.ID)
	require.NoError(t, err)
	require.Empty(t, lib)
}
