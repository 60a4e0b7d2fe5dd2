package book

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

func seed(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO authors (id, name) VALUES ('a1', 'Chinua Achebe'), ('a2', 'Wole Soyinka')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO categories (id, name) VALUES ('c1', 'Fiction'), ('c2', 'Drama')`)
	require.NoError(t, err)

	rows := []models.Book{
		{Title: "Things Fall Apart", AuthorID: "a1", CategoryID: "c1", Price: 3000, Status: models.BookPublished, Format: models.FormatPhysical, StockQuantity: 10},
		{Title: "Arrow of God", AuthorID: "a1", CategoryID: "c1", Price: 2500, Status: models.BookDraft, Format: models.FormatEbook},
		{Title: "Death and the King's Horseman", AuthorID: "a2", CategoryID: "c2", Price: 2000, Status: models.BookPublished, Format: models.FormatEbook},
	}
	for _, b := range rows {
		_, err := Create(db, b)
		require.NoError(t, err)
	}
}

func TestListFilters(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)

	all, total, err := List(db, Filters{})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, all, 3)
	for _, b := range all {
		require.NotEmpty(t, b.AuthorName, "author name should come from the join")
	}

	published, total, err := List(db, Filters{Status: models.BookPublished})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, published, 2)

	drama, total, err := List(db, Filters{CategoryID: "c2"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "Death and the King's Horseman", drama[0].Title)

	// search matches title or author name
	byAuthor, total, err := List(db, Filters{Search: "Soyinka"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "a2", byAuthor[0].AuthorID)
}

func TestListPagination(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)

	page1, total, err := List(db, Filters{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, page1, 2)

	page2, _, err := List(db, Filters{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page2, 1)
}

func TestCRUDRoundTrip(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)

	b, err := Create(db, models.Book{Title: "New Book", Price: 100, Status: models.BookDraft, Format: models.FormatEbook})
	require.NoError(t, err)

	b.Title = "Renamed"
	b.Status = models.BookPublished
	updated, err := Update(db, b)
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)

	n, err := Delete(db, []string{b.ID})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = GetByID(db, b.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBatchUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)

	all, _, err := List(db, Filters{})
	require.NoError(t, err)

	ids := []string{all[0].ID, all[1].ID, "book-missing"}
	n, err := BatchUpdateStatus(db, ids, models.BookArchived)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	archived, total, err := List(db, Filters{Status: models.BookArchived})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, archived, 2)
}
