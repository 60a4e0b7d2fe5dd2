package category

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bookhub/pkg/ident"
	"bookhub/pkg/models"
)

var (
	ErrNotFound = errors.New("category not found")
	ErrConflict = errors.New("category name already exists")
)

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

const selectAgg = `
	SELECT c.id, c.name, c.description, c.is_active, COUNT(b.id)
	FROM categories c
	LEFT JOIN books b ON b.category_id = c.id`

func List(db *sql.DB) ([]models.Category, error) {
	rows, err := db.Query(selectAgg + ` GROUP BY c.id ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var res []models.Category
	for rows.Next() {
		var ct models.Category
		if err := rows.Scan(&ct.ID, &ct.Name, &ct.Description, &ct.IsActive, &ct.BookCount); err != nil {
			return nil, err
		}
		res = append(res, ct)
	}
	return res, rows.Err()
}

func GetByID(db *sql.DB, id string) (models.Category, error) {
	var ct models.Category
	err := db.QueryRow(selectAgg+` WHERE c.id = ? GROUP BY c.id`, id).
		Scan(&ct.ID, &ct.Name, &ct.Description, &ct.IsActive, &ct.BookCount)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, ErrNotFound
	}
	return ct, err
}

func Create(db *sql.DB, ct models.Category) (models.Category, error) {
	if ct.ID == "" {
		ct.ID = ident.New("cat")
	}
	_, err := db.Exec(`INSERT INTO categories (id, name, description, is_active) VALUES (?, ?, ?, ?)`,
		ct.ID, ct.Name, ct.Description, ct.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Category{}, ErrConflict
		}
		return models.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return GetByID(db, ct.ID)
}

func Update(db *sql.DB, ct models.Category) (models.Category, error) {
	res, err := db.Exec(`UPDATE categories SET name=?, description=?, is_active=? WHERE id=?`,
		ct.Name, ct.Description, ct.IsActive, ct.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Category{}, ErrConflict
		}
		return models.Category{}, fmt.Errorf("update category: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return models.Category{}, ErrNotFound
	}
	return GetByID(db, ct.ID)
}

func Delete(db *sql.DB, id string) error {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM books WHERE category_id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("count category books: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("category still has %d books", n)
	}
	res, err := db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	return nil
}
