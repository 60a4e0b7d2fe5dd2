package checkout

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"bookhub/pkg/ident"
	"bookhub/pkg/models"
)

var ErrNotFound = errors.New("order not found")

// CreateOrder writes the order, its line items and the stock
// decrements in one tx. Physical items with insufficient stock abort
// the whole order.
func CreateOrder(db *sql.DB, o models.Order, form models.CheckoutForm) (models.Order, error) {
	if o.ID == "" {
		o.ID = ident.New("order")
	}
	formJSON, err := json.Marshal(form)
	if err != nil {
		return models.Order{}, fmt.Errorf("marshal form: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return models.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO orders (id, email, customer_name, subtotal, shipping, tax, total, payment_method, status, form_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Email, o.CustomerName, o.Subtotal, o.Shipping, o.Tax, o.Total,
		o.PaymentMethod, o.Status, string(formJSON))
	if err != nil {
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		if _, err := tx.Exec(`
			INSERT INTO order_items (order_id, book_id, title, format, price, quantity)
			VALUES (?, ?, ?, ?, ?, ?)`,
			o.ID, it.BookID, it.Title, it.Format, it.Price, it.Quantity); err != nil {
			return models.Order{}, fmt.Errorf("insert item %s: %w", it.BookID, err)
		}

		if it.Format == models.FormatPhysical {
			res, err := tx.Exec(`UPDATE books SET stock_quantity = stock_quantity - ?
				WHERE id = ? AND stock_quantity >= ?`, it.Quantity, it.BookID, it.Quantity)
			if err != nil {
				return models.Order{}, fmt.Errorf("decrement stock %s: %w", it.BookID, err)
			}
			if aff, _ := res.RowsAffected(); aff == 0 {
				return models.Order{}, fmt.Errorf("insufficient stock for %q", it.Title)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Order{}, fmt.Errorf("commit tx: %w", err)
	}
	return GetOrder(db, o.ID)
}

func GetOrder(db *sql.DB, id string) (models.Order, error) {
	var o models.Order
	err := db.QueryRow(`
		SELECT id, email, customer_name, subtotal, shipping, tax, total, payment_method, status, proof_url, created_at
		FROM orders WHERE id = ?`, id).
		Scan(&o.ID, &o.Email, &o.CustomerName, &o.Subtotal, &o.Shipping, &o.Tax, &o.Total,
			&o.PaymentMethod, &o.Status, &o.ProofURL, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}

	rows, err := db.Query(`SELECT book_id, title, format, price, quantity FROM order_items WHERE order_id = ?`, id)
	if err != nil {
		return models.Order{}, fmt.Errorf("order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.BookID, &it.Title, &it.Format, &it.Price, &it.Quantity); err != nil {
			return models.Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

func SetOrderStatus(db *sql.DB, id, status string) error {
	res, err := db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("set order status: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	return nil
}

func AttachProof(db *sql.DB, id, proofURL string) error {
	res, err := db.Exec(`UPDATE orders SET proof_url = ?, status = ? WHERE id = ? AND payment_method = 'bank_transfer'`,
		proofURL, models.OrderPendingVerification, id)
	if err != nil {
		return fmt.Errorf("attach proof: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	return nil
}
