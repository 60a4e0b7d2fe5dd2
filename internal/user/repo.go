package user

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"bookhub/pkg/ident"
	"bookhub/pkg/models"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrConflict = errors.New("email or username already exists")
)

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type Filters struct {
	Search string
	Status string
	Page   int
	Limit  int
}

const selectCols = `id, email, username, first_name, last_name, status, email_verified, password_hash, created_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.Status, &u.EmailVerified, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

func List(db *sql.DB, f Filters) ([]models.User, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if f.Search != "" {
		where += ` AND (email LIKE ? OR username LIKE ? OR first_name LIKE ? OR last_name LIKE ?)`
		s := "%" + f.Search + "%"
		args = append(args, s, s, s, s)
	}
	if f.Status != "" {
		where += ` AND status = ?`
		args = append(args, f.Status)
	}

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	rows, err := db.Query(`SELECT `+selectCols+` FROM users`+where+` ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var res []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, u)
	}
	return res, total, rows.Err()
}

func GetByID(db *sql.DB, id string) (models.User, error) {
	u, err := scanUser(db.QueryRow(`SELECT `+selectCols+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

func Create(db *sql.DB, u models.User, password string) (models.User, error) {
	if u.ID == "" {
		u.ID = ident.New("user")
	}
	if u.Status == "" {
		u.Status = models.UserActive
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	_, err = db.Exec(`
		INSERT INTO users (id, email, username, first_name, last_name, status, email_verified, password_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Username, u.FirstName, u.LastName, u.Status, u.EmailVerified, string(hash))
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrConflict
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return GetByID(db, u.ID)
}

func Update(db *sql.DB, u models.User) (models.User, error) {
	res, err := db.Exec(`
		UPDATE users SET email=?, username=?, first_name=?, last_name=?, status=?, email_verified=?
		WHERE id=?`,
		u.Email, u.Username, u.FirstName, u.LastName, u.Status, u.EmailVerified, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrConflict
		}
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return models.User{}, ErrNotFound
	}
	return GetByID(db, u.ID)
}

func Delete(db *sql.DB, id string) error {
	res, err := db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	return nil
}

func SetPassword(db *sql.DB, id, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	res, err := db.Exec(`UPDATE users SET password_hash = ? WHERE id = ?`, string(hash), id)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	return nil
}

func VerifyLogin(db *sql.DB, email, password string) (models.User, error) {
	u, err := scanUser(db.QueryRow(`SELECT `+selectCols+` FROM users WHERE email = ? OR username = ?`, email, email))
	if err != nil {
		return models.User{}, errors.New("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return models.User{}, errors.New("invalid credentials")
	}
	if u.Status == models.UserBanned {
		return models.User{}, errors.New("account banned")
	}
	return u, nil
}

func AllRoles(db *sql.DB) ([]models.Role, error) {
	rows, err := db.Query(`SELECT id, name, display_name, description, priority, is_system_role
		FROM roles ORDER BY priority DESC`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var res []models.Role
	for rows.Next() {
		var r models.Role
		if err := rows.Scan(&r.ID, &r.Name, &r.DisplayName, &r.Description, &r.Priority, &r.IsSystemRole); err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

func RolesForUser(db *sql.DB, userID string) ([]models.Role, error) {
	rows, err := db.Query(`
		SELECT r.id, r.name, r.display_name, r.description, r.priority, r.is_system_role
		FROM roles r JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = ? ORDER BY r.priority DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("user roles: %w", err)
	}
	defer rows.Close()

	res := []models.Role{}
	for rows.Next() {
		var r models.Role
		if err := rows.Scan(&r.ID, &r.Name, &r.DisplayName, &r.Description, &r.Priority, &r.IsSystemRole); err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

// ReplaceRoles swaps the user's full role set in one tx. An empty slice
// is a valid assignment and leaves the user with no roles.
func ReplaceRoles(db *sql.DB, userID string, roleIDs []string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM user_roles WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear roles: %w", err)
	}
	for _, rid := range roleIDs {
		if _, err := tx.Exec(`INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)`, userID, rid); err != nil {
			return fmt.Errorf("assign role %s: %w", rid, err)
		}
	}
	return tx.Commit()
}
