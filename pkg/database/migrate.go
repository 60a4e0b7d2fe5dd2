package database

import (
	"database/sql"
	"fmt"
)

func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE,
			username TEXT UNIQUE,
			first_name TEXT DEFAULT '',
			last_name TEXT DEFAULT '',
			status TEXT DEFAULT 'active',
			email_verified INTEGER DEFAULT 0,
			password_hash TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS roles (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE,
			display_name TEXT,
			description TEXT DEFAULT '',
			priority INTEGER DEFAULT 0,
			is_system_role INTEGER DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS user_roles (
			user_id TEXT REFERENCES users(id) ON DELETE CASCADE,
			role_id TEXT REFERENCES roles(id) ON DELETE CASCADE,
			PRIMARY KEY (user_id, role_id)
		);`,
		`CREATE TABLE IF NOT EXISTS authors (
			id TEXT PRIMARY KEY,
			name TEXT,
			email TEXT DEFAULT '',
			bio TEXT DEFAULT '',
			avatar_url TEXT DEFAULT '',
			status TEXT DEFAULT 'active'
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE,
			description TEXT DEFAULT '',
			is_active INTEGER DEFAULT 1
		);`,
		`CREATE TABLE IF NOT EXISTS books (
			id TEXT PRIMARY KEY,
			title TEXT,
			author_id TEXT REFERENCES authors(id),
			category_id TEXT REFERENCES categories(id),
			description TEXT DEFAULT '',
			price REAL DEFAULT 0,
			status TEXT DEFAULT 'draft',
			format TEXT DEFAULT 'physical',
			stock_quantity INTEGER DEFAULT 0,
			is_featured INTEGER DEFAULT 0,
			cover_image_url TEXT DEFAULT '',
			ebook_file_url TEXT DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS user_libraries (
			id TEXT PRIMARY KEY,
			user_id TEXT REFERENCES users(id) ON DELETE CASCADE,
			book_id TEXT REFERENCES books(id) ON DELETE CASCADE,
			progress INTEGER DEFAULT 0,
			status TEXT DEFAULT 'active',
			last_read TIMESTAMP,
			assigned_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			reason TEXT DEFAULT '',
			UNIQUE (user_id, book_id)
		);`,
		`CREATE TABLE IF NOT EXISTS shipping_methods (
			id TEXT PRIMARY KEY,
			name TEXT,
			description TEXT DEFAULT '',
			kind TEXT DEFAULT 'physical',
			base_cost REAL DEFAULT 0,
			cost_per_item REAL DEFAULT 0,
			free_shipping_threshold REAL DEFAULT 0,
			estimated_days_min INTEGER DEFAULT 0,
			estimated_days_max INTEGER DEFAULT 0,
			is_active INTEGER DEFAULT 1
		);`,
		`CREATE TABLE IF NOT EXISTS payment_gateways (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE,
			display_name TEXT,
			enabled INTEGER DEFAULT 1,
			account_name TEXT DEFAULT '',
			account_number TEXT DEFAULT '',
			bank_name TEXT DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			email TEXT,
			customer_name TEXT DEFAULT '',
			subtotal REAL DEFAULT 0,
			shipping REAL DEFAULT 0,
			tax REAL DEFAULT 0,
			total REAL DEFAULT 0,
			payment_method TEXT,
			status TEXT DEFAULT 'pending_payment',
			proof_url TEXT DEFAULT '',
			form_json TEXT DEFAULT '{}',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_id TEXT REFERENCES orders(id) ON DELETE CASCADE,
			book_id TEXT,
			title TEXT,
			format TEXT,
			price REAL,
			quantity INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS checkout_sessions (
			token TEXT PRIMARY KEY,
			schema_version INTEGER,
			form_json TEXT,
			current_step INTEGER DEFAULT 1,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS contact_page (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			heading TEXT DEFAULT '',
			body TEXT DEFAULT '',
			email TEXT DEFAULT '',
			phone TEXT DEFAULT '',
			address TEXT DEFAULT '',
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
	}

	for i, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("migrate stmt %d: %w", i, err)
		}
	}
	return nil
}
