package analytics

import (
	"database/sql"
	"fmt"
	"time"

	"bookhub/pkg/models"
)

// BookStats is the admin dashboard headline block.
type BookStats struct {
	TotalBooks    int            `json:"total_books"`
	ByStatus      map[string]int `json:"by_status"`
	FeaturedCount int            `json:"featured_count"`
	TotalSold     int            `json:"total_sold"`
	Revenue       float64        `json:"revenue"`
	TopBooks      []TopBook      `json:"top_books"`
}

type TopBook struct {
	BookID  string  `json:"book_id"`
	Title   string  `json:"title"`
	Sold    int     `json:"sold"`
	Revenue float64 `json:"revenue"`
}

// ReadingStats summarizes one user's library.
type ReadingStats struct {
	TotalBooks  int        `json:"total_books"`
	Completed   int        `json:"completed"`
	InProgress  int        `json:"in_progress"`
	Paused      int        `json:"paused"`
	AvgProgress float64    `json:"avg_progress"`
	LastRead    *time.Time `json:"last_read,omitempty"`
}

func Books(db *sql.DB) (BookStats, error) {
	s := BookStats{ByStatus: map[string]int{}, TopBooks: []TopBook{}}

	if err := db.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&s.TotalBooks); err != nil {
		return s, fmt.Errorf("count books: %w", err)
	}

	rows, err := db.Query(`SELECT status, COUNT(*) FROM books GROUP BY status`)
	if err != nil {
		return s, fmt.Errorf("status breakdown: %w", err)
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			rows.Close()
			return s, err
		}
		s.ByStatus[status] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return s, err
	}

	if err := db.QueryRow(`SELECT COUNT(*) FROM books WHERE is_featured = 1`).Scan(&s.FeaturedCount); err != nil {
		return s, fmt.Errorf("featured count: %w", err)
	}
	if err := db.QueryRow(`SELECT COALESCE(SUM(quantity), 0), COALESCE(SUM(quantity * price), 0)
		FROM order_items`).Scan(&s.TotalSold, &s.Revenue); err != nil {
		return s, fmt.Errorf("sales totals: %w", err)
	}

	top, err := db.Query(`
		SELECT oi.book_id, COALESCE(b.title, oi.title), SUM(oi.quantity), SUM(oi.quantity * oi.price)
		FROM order_items oi LEFT JOIN books b ON b.id = oi.book_id
		GROUP BY oi.book_id ORDER BY SUM(oi.quantity) DESC LIMIT 5`)
	if err != nil {
		return s, fmt.Errorf("top books: %w", err)
	}
	defer top.Close()
	for top.Next() {
		var t TopBook
		if err := top.Scan(&t.BookID, &t.Title, &t.Sold, &t.Revenue); err != nil {
			return s, err
		}
		s.TopBooks = append(s.TopBooks, t)
	}
	return s, top.Err()
}

func Reading(db *sql.DB, userID string) (ReadingStats, error) {
	var s ReadingStats
	err := db.QueryRow(`
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(progress), 0)
		FROM user_libraries WHERE user_id = ?`,
		models.LibraryCompleted, models.LibraryActive, models.LibraryPaused, userID).
		Scan(&s.TotalBooks, &s.Completed, &s.InProgress, &s.Paused, &s.AvgProgress)
	if err != nil {
		return ReadingStats{}, fmt.Errorf("reading stats: %w", err)
	}

	var last time.Time
	err = db.QueryRow(`
		SELECT last_read FROM user_libraries
		WHERE user_id = ? AND last_read IS NOT NULL
		ORDER BY last_read DESC LIMIT 1`, userID).Scan(&last)
	switch {
	case err == sql.ErrNoRows:
		// never opened a book
	case err != nil:
		return ReadingStats{}, fmt.Errorf("last read: %w", err)
	default:
		s.LastRead = &last
	}
	return s, nil
}
