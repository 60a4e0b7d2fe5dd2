package checkout

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"bookhub/pkg/models"
)

// SchemaVersion guards persisted sessions. Bump it whenever the stored
// form shape changes; stale rows are cleared, not migrated.
const SchemaVersion = 1

const (
	MinStep = 1
	MaxStep = 4
)

// Session is the server-side replacement for the client's old
// localStorage keys: one row per checkout token.
type Session struct {
	Token       string              `json:"token"`
	Form        models.CheckoutForm `json:"form"`
	CurrentStep int                 `json:"current_step"`
}

// SaveSession upserts the in-progress form for a token.
func SaveSession(db *sql.DB, s Session) error {
	if s.CurrentStep < MinStep || s.CurrentStep > MaxStep {
		return fmt.Errorf("current_step %d out of range", s.CurrentStep)
	}
	raw, err := json.Marshal(s.Form)
	if err != nil {
		return fmt.Errorf("marshal form: %w", err)
	}
	_, err = db.Exec(`
		INSERT INTO checkout_sessions (token, schema_version, form_json, current_step, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(token) DO UPDATE SET
			schema_version=excluded.schema_version, form_json=excluded.form_json,
			current_step=excluded.current_step, updated_at=CURRENT_TIMESTAMP`,
		s.Token, SchemaVersion, string(raw), s.CurrentStep)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession restores a saved session. A corrupt payload, an unknown
// schema version or an out-of-range step clears the row entirely and
// reports not-found, so the flow restarts at step 1. No partial
// recovery is attempted.
func LoadSession(db *sql.DB, token string) (Session, bool, error) {
	var (
		version int
		raw     string
		step    int
	)
	err := db.QueryRow(`SELECT schema_version, form_json, current_step FROM checkout_sessions WHERE token = ?`,
		token).Scan(&version, &raw, &step)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("load session: %w", err)
	}

	var form models.CheckoutForm
	if version != SchemaVersion || step < MinStep || step > MaxStep ||
		json.Unmarshal([]byte(raw), &form) != nil {
		log.Printf("checkout session %s unusable (version=%d step=%d), clearing", token, version, step)
		if err := ClearSession(db, token); err != nil {
			return Session{}, false, err
		}
		return Session{}, false, nil
	}

	return Session{Token: token, Form: form, CurrentStep: step}, true, nil
}

func ClearSession(db *sql.DB, token string) error {
	if _, err := db.Exec(`DELETE FROM checkout_sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
