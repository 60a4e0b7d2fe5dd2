package author

import (
	"database/sql"
	"errors"
	"fmt"

	"bookhub/pkg/ident"
	"bookhub/pkg/models"
)

var ErrNotFound = errors.New("author not found")

// books_count / total_sales / revenue come from aggregate joins so the
// admin grid never has to sum them client-side.
const selectAgg = `
	SELECT au.id, au.name, au.email, au.bio, au.avatar_url, au.status,
		COUNT(DISTINCT b.id),
		COALESCE(SUM(oi.quantity), 0),
		COALESCE(SUM(oi.quantity * oi.price), 0)
	FROM authors au
	LEFT JOIN books b ON b.author_id = au.id
	LEFT JOIN order_items oi ON oi.book_id = b.id`

func List(db *sql.DB, search string) ([]models.Author, error) {
	q := selectAgg
	args := []any{}
	if search != "" {
		q += ` WHERE au.name LIKE ? OR au.email LIKE ?`
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	q += ` GROUP BY au.id ORDER BY au.name`

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	var res []models.Author
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Bio, &a.AvatarURL, &a.Status,
			&a.BooksCount, &a.TotalSales, &a.Revenue); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func GetByID(db *sql.DB, id string) (models.Author, error) {
	var a models.Author
	err := db.QueryRow(selectAgg+` WHERE au.id = ? GROUP BY au.id`, id).
		Scan(&a.ID, &a.Name, &a.Email, &a.Bio, &a.AvatarURL, &a.Status,
			&a.BooksCount, &a.TotalSales, &a.Revenue)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Author{}, ErrNotFound
	}
	return a, err
}

func Create(db *sql.DB, a models.Author) (models.Author, error) {
	if a.ID == "" {
		a.ID = ident.New("author")
	}
	if a.Status == "" {
		a.Status = "active"
	}
	_, err := db.Exec(`INSERT INTO authors (id, name, email, bio, avatar_url, status) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Email, a.Bio, a.AvatarURL, a.Status)
	if err != nil {
		return models.Author{}, fmt.Errorf("insert author: %w", err)
	}
	return GetByID(db, a.ID)
}

func Update(db *sql.DB, a models.Author) (models.Author, error) {
	res, err := db.Exec(`UPDATE authors SET name=?, email=?, bio=?, avatar_url=?, status=? WHERE id=?`,
		a.Name, a.Email, a.Bio, a.AvatarURL, a.Status, a.ID)
	if err != nil {
		return models.Author{}, fmt.Errorf("update author: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return models.Author{}, ErrNotFound
	}
	return GetByID(db, a.ID)
}

func Delete(db *sql.DB, id string) error {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM books WHERE author_id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("count author books: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("author still has %d books", n)
	}
	res, err := db.Exec(`DELETE FROM authors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete author: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	return nil
}
