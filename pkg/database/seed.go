package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"bookhub/pkg/models"
)

// seedBook is the catalog JSON shape used by `bookctl seed` and the
// server's optional boot seed.
type seedBook struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	AuthorID     string  `json:"author_id"`
	AuthorName   string  `json:"author_name"`
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Status       string  `json:"status"`
	Format       string  `json:"format"`
	Stock        int     `json:"stock_quantity"`
}

func LoadBooksFromJSON(jsonPath string) ([]models.Book, error) {
	b, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read catalog json: %w", err)
	}

	var raw []seedBook
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal catalog json: %w", err)
	}

	list := make([]models.Book, 0, len(raw))
	for _, r := range raw {
		list = append(list, models.Book{
			ID: r.ID, Title: r.Title,
			AuthorID: r.AuthorID, AuthorName: r.AuthorName,
			CategoryID: r.CategoryID, CategoryName: r.CategoryName,
			Description: r.Description, Price: r.Price,
			Status: r.Status, Format: r.Format, StockQuantity: r.Stock,
		})
	}
	return list, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// SeedBooks inserts catalog rows, creating referenced authors and
// categories on the fly. Existing ids are left untouched.
func SeedBooks(db *sql.DB, books []models.Book) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO books
			(id, title, author_id, category_id, description, price, status, format, stock_quantity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert book: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, b := range books {
		if b.AuthorID != "" {
			if _, err := tx.Exec(`INSERT OR IGNORE INTO authors(id, name) VALUES(?, ?)`,
				b.AuthorID, b.AuthorName); err != nil {
				return 0, fmt.Errorf("insert author %s: %w", b.AuthorID, err)
			}
		}
		if b.CategoryID != "" {
			if _, err := tx.Exec(`INSERT OR IGNORE INTO categories(id, name) VALUES(?, ?)`,
				b.CategoryID, b.CategoryName); err != nil {
				return 0, fmt.Errorf("insert category %s: %w", b.CategoryID, err)
			}
		}

		res, err := stmt.Exec(b.ID, b.Title, nullable(b.AuthorID), nullable(b.CategoryID),
			b.Description, b.Price, b.Status, b.Format, b.StockQuantity)
		if err != nil {
			return 0, fmt.Errorf("insert book %s: %w", b.ID, err)
		}
		aff, _ := res.RowsAffected()
		if aff > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return inserted, nil
}

// SeedDefaults makes sure the rows the checkout and admin surfaces
// assume are present: system roles, payment gateways, shipping methods
// and the contact page document.
func SeedDefaults(db *sql.DB) error {
	stmts := []struct {
		q    string
		args []any
	}{
		{`INSERT OR IGNORE INTO roles(id, name, display_name, description, priority, is_system_role)
			VALUES('role-admin', 'admin', 'Administrator', 'Full back-office access', 100, 1)`, nil},
		{`INSERT OR IGNORE INTO roles(id, name, display_name, description, priority, is_system_role)
			VALUES('role-editor', 'editor', 'Content Editor', 'Catalog and contact-page editing', 50, 1)`, nil},
		{`INSERT OR IGNORE INTO roles(id, name, display_name, description, priority, is_system_role)
			VALUES('role-customer', 'customer', 'Customer', '', 0, 1)`, nil},

		{`INSERT OR IGNORE INTO payment_gateways(id, name, display_name, enabled, account_name, account_number, bank_name)
			VALUES('gw-bank', 'bank_transfer', 'Bank Transfer', 1, 'Bookhub Ltd', '0123456789', 'GTBank')`, nil},
		{`INSERT OR IGNORE INTO payment_gateways(id, name, display_name, enabled)
			VALUES('gw-flutterwave', 'flutterwave', 'Flutterwave', 1)`, nil},
		{`INSERT OR IGNORE INTO payment_gateways(id, name, display_name, enabled)
			VALUES('gw-card', 'card', 'Card (direct)', 1)`, nil},

		{`INSERT OR IGNORE INTO shipping_methods
			(id, name, description, kind, base_cost, cost_per_item, free_shipping_threshold, estimated_days_min, estimated_days_max)
			VALUES('ship-standard', 'Standard Delivery', 'Nationwide courier', 'physical', 500, 200, 10000, 3, 7)`, nil},
		{`INSERT OR IGNORE INTO shipping_methods
			(id, name, description, kind, base_cost, cost_per_item, free_shipping_threshold, estimated_days_min, estimated_days_max)
			VALUES('ship-express', 'Express Delivery', 'Lagos and Abuja next-day', 'physical', 1500, 300, 25000, 1, 2)`, nil},
		{`INSERT OR IGNORE INTO shipping_methods
			(id, name, description, kind, base_cost, cost_per_item, free_shipping_threshold, estimated_days_min, estimated_days_max)
			VALUES('ship-digital', 'Instant Download', 'Ebooks delivered to your library', 'digital', 0, 0, 0, 0, 0)`, nil},

		{`INSERT OR IGNORE INTO contact_page(id, heading, body, email)
			VALUES(1, 'Get in touch', '', 'hello@bookhub.test')`, nil},
	}

	for i, s := range stmts {
		if _, err := db.Exec(s.q, s.args...); err != nil {
			return fmt.Errorf("seed stmt %d: %w", i, err)
		}
	}
	return nil
}
