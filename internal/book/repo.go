package book

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bookhub/pkg/ident"
	"bookhub/pkg/models"
)

var ErrNotFound = errors.New("book not found")

// optional stores empty strings as NULL so foreign keys stay happy on
// books that have no author or category yet.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Filters mirror the admin list querystring.
type Filters struct {
	Search     string
	Status     string
	CategoryID string
	Page       int
	Limit      int
}

const selectCols = `
	b.id, b.title, COALESCE(b.author_id, ''), COALESCE(a.name, ''), COALESCE(b.category_id, ''), COALESCE(c.name, ''),
	b.description, b.price, b.status, b.format, b.stock_quantity, b.is_featured,
	b.cover_image_url, b.ebook_file_url, b.created_at`

const fromJoin = `
	FROM books b
	LEFT JOIN authors a ON a.id = b.author_id
	LEFT JOIN categories c ON c.id = b.category_id`

func scanBook(row interface{ Scan(...any) error }) (models.Book, error) {
	var b models.Book
	err := row.Scan(&b.ID, &b.Title, &b.AuthorID, &b.AuthorName, &b.CategoryID, &b.CategoryName,
		&b.Description, &b.Price, &b.Status, &b.Format, &b.StockQuantity, &b.IsFeatured,
		&b.CoverImageURL, &b.EbookFileURL, &b.CreatedAt)
	return b, err
}

// List applies the admin filters and returns one page plus the total
// row count for pagination.
func List(db *sql.DB, f Filters) ([]models.Book, int, error) {
	where := " WHERE 1=1"
	args := []any{}

	if f.Search != "" {
		where += " AND (b.title LIKE ? OR a.name LIKE ?)"
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}
	if f.Status != "" {
		where += " AND b.status = ?"
		args = append(args, f.Status)
	}
	if f.CategoryID != "" {
		where += " AND b.category_id = ?"
		args = append(args, f.CategoryID)
	}

	var total int
	if err := db.QueryRow(`SELECT COUNT(*)`+fromJoin+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	q := `SELECT` + selectCols + fromJoin + where + ` ORDER BY b.created_at DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var res []models.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, b)
	}
	return res, total, rows.Err()
}

func GetByID(db *sql.DB, id string) (models.Book, error) {
	b, err := scanBook(db.QueryRow(`SELECT`+selectCols+fromJoin+` WHERE b.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, ErrNotFound
	}
	return b, err
}

func Create(db *sql.DB, b models.Book) (models.Book, error) {
	if b.ID == "" {
		b.ID = ident.New("book")
	}
	_, err := db.Exec(`
		INSERT INTO books (id, title, author_id, category_id, description, price, status, format,
			stock_quantity, is_featured, cover_image_url, ebook_file_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Title, optional(b.AuthorID), optional(b.CategoryID), b.Description, b.Price, b.Status, b.Format,
		b.StockQuantity, b.IsFeatured, b.CoverImageURL, b.EbookFileURL)
	if err != nil {
		return models.Book{}, fmt.Errorf("insert book: %w", err)
	}
	return GetByID(db, b.ID)
}

func Update(db *sql.DB, b models.Book) (models.Book, error) {
	res, err := db.Exec(`
		UPDATE books SET title=?, author_id=?, category_id=?, description=?, price=?, status=?,
			format=?, stock_quantity=?, is_featured=?, cover_image_url=?, ebook_file_url=?
		WHERE id=?`,
		b.Title, optional(b.AuthorID), optional(b.CategoryID), b.Description, b.Price, b.Status,
		b.Format, b.StockQuantity, b.IsFeatured, b.CoverImageURL, b.EbookFileURL, b.ID)
	if err != nil {
		return models.Book{}, fmt.Errorf("update book: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return models.Book{}, ErrNotFound
	}
	return GetByID(db, b.ID)
}

// Delete removes one or more books by id and reports how many rows went.
func Delete(db *sql.DB, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ph := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	res, err := db.Exec(`DELETE FROM books WHERE id IN (`+ph+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("delete books: %w", err)
	}
	aff, _ := res.RowsAffected()
	return int(aff), nil
}

// BatchUpdateStatus flips the status of every listed book in one tx.
func BatchUpdateStatus(db *sql.DB, ids []string, status string) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	updated := 0
	for _, id := range ids {
		res, err := tx.Exec(`UPDATE books SET status=? WHERE id=?`, status, id)
		if err != nil {
			return 0, fmt.Errorf("update book %s: %w", id, err)
		}
		if aff, _ := res.RowsAffected(); aff > 0 {
			updated++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return updated, nil
}
