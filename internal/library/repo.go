package library

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookhub/pkg/ident"
	"bookhub/pkg/models"
)

var (
	ErrNotFound = errors.New("library entry not found")
	ErrExists   = errors.New("book already in library")
)

// Summary is the bulk-assign breakdown the admin UI renders verbatim.
type Summary struct {
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

const selectCols = `
	l.id, l.user_id, l.book_id, COALESCE(b.title, ''), COALESCE(b.format, ''),
	l.progress, l.status, l.last_read, l.assigned_at`

func scanEntry(row interface{ Scan(...any) error }) (models.LibraryEntry, error) {
	var e models.LibraryEntry
	err := row.Scan(&e.ID, &e.UserID, &e.BookID, &e.BookTitle, &e.BookFormat,
		&e.Progress, &e.Status, &e.LastRead, &e.AssignedAt)
	return e, err
}

func ListForUser(db *sql.DB, userID string) ([]models.LibraryEntry, error) {
	rows, err := db.Query(`SELECT`+selectCols+`
		FROM user_libraries l LEFT JOIN books b ON b.id = l.book_id
		WHERE l.user_id = ? ORDER BY l.assigned_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}
	defer rows.Close()

	res := []models.LibraryEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func ListAll(db *sql.DB, userID, bookID string, limit, offset int) ([]models.LibraryEntry, error) {
	q := `SELECT` + selectCols + `
		FROM user_libraries l LEFT JOIN books b ON b.id = l.book_id WHERE 1=1`
	args := []any{}
	if userID != "" {
		q += ` AND l.user_id = ?`
		args = append(args, userID)
	}
	if bookID != "" {
		q += ` AND l.book_id = ?`
		args = append(args, bookID)
	}
	q += ` ORDER BY l.assigned_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	defer rows.Close()

	res := []models.LibraryEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func Get(db *sql.DB, id string) (models.LibraryEntry, error) {
	e, err := scanEntry(db.QueryRow(`SELECT`+selectCols+`
		FROM user_libraries l LEFT JOIN books b ON b.id = l.book_id WHERE l.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.LibraryEntry{}, ErrNotFound
	}
	return e, err
}

// Assign grants one user one book. A second assignment of the same pair
// is reported as ErrExists so bulk callers can count it as skipped.
func Assign(db *sql.DB, userID, bookID, reason string) (models.LibraryEntry, error) {
	var existing string
	err := db.QueryRow(`SELECT id FROM user_libraries WHERE user_id = ? AND book_id = ?`,
		userID, bookID).Scan(&existing)
	if err == nil {
		return models.LibraryEntry{}, ErrExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.LibraryEntry{}, fmt.Errorf("check entry: %w", err)
	}

	id := ident.New("lib")
	_, err = db.Exec(`
		INSERT INTO user_libraries (id, user_id, book_id, progress, status, reason)
		VALUES (?, ?, ?, 0, ?, ?)`,
		id, userID, bookID, models.LibraryActive, reason)
	if err != nil {
		return models.LibraryEntry{}, fmt.Errorf("insert entry: %w", err)
	}
	return Get(db, id)
}

func Remove(db *sql.DB, id string) error {
	res, err := db.Exec(`DELETE FROM user_libraries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProgress moves the reading position and stamps last_read.
// 100% flips the status to completed unless the caller set one.
func UpdateProgress(db *sql.DB, id string, progress int, status string) (models.LibraryEntry, error) {
	if status == "" {
		status = models.LibraryActive
		if progress >= 100 {
			status = models.LibraryCompleted
		}
	}
	res, err := db.Exec(`
		UPDATE user_libraries SET progress = ?, status = ?, last_read = ? WHERE id = ?`,
		progress, status, time.Now().UTC(), id)
	if err != nil {
		return models.LibraryEntry{}, fmt.Errorf("update progress: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return models.LibraryEntry{}, ErrNotFound
	}
	return Get(db, id)
}

// BulkAssign grants every listed user every listed book. Pairs already
// assigned are skipped; per-pair failures do not abort the rest.
func BulkAssign(db *sql.DB, userIDs, bookIDs []string, reason string) Summary {
	var s Summary
	for _, uid := range userIDs {
		for _, bid := range bookIDs {
			_, err := Assign(db, uid, bid, reason)
			switch {
			case err == nil:
				s.Successful++
			case errors.Is(err, ErrExists):
				s.Skipped++
			default:
				s.Failed++
			}
		}
	}
	return s
}
