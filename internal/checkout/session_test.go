package checkout

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"bookhub/pkg/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedDefaults(db))
	return db
}

func TestSessionRoundTrip(t *testing.T) {
	db := newTestDB(t)

	s := Session{Token: "tok-1", Form: validForm(), CurrentStep: 3}
	require.NoError(t, SaveSession(db, s))

	got, found, err := LoadSession(db, "tok-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 3, got.CurrentStep)
	require.Equal(t, s.Form, got.Form)

	// saving again overwrites in place
	s.CurrentStep = 4
	s.Form.Payment.Method = "bank_transfer"
	require.NoError(t, SaveSession(db, s))

	got, found, err = LoadSession(db, "tok-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 4, got.CurrentStep)
	require.Equal(t, "bank_transfer", got.Form.Payment.Method)
}

func TestSessionStepRange(t *testing.T) {
	db := newTestDB(t)

	require.Error(t, SaveSession(db, Session{Token: "t", CurrentStep: 0}))
	require.Error(t, SaveSession(db, Session{Token: "t", CurrentStep: 5}))
}

func TestSessionCorruptPayloadClears(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Exec(`INSERT INTO checkout_sessions (token, schema_version, form_json, current_step)
		VALUES ('tok-bad', ?, '{not json', 2)`, SchemaVersion)
	require.NoError(t, err)

	_, found, err := LoadSession(db, "tok-bad")
	require.NoError(t, err)
	require.False(t, found)

	// the row is gone, not half-recovered
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM checkout_sessions WHERE token = 'tok-bad'`).Scan(&n))
	require.Zero(t, n)
}

func TestSessionUnknownVersionClears(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Exec(`INSERT INTO checkout_sessions (token, schema_version, form_json, current_step)
		VALUES ('tok-old', 99, '{}', 2)`)
	require.NoError(t, err)

	_, found, err := LoadSession(db, "tok-old")
	require.NoError(t, err)
	require.False(t, found)
}

func TestSessionMissingToken(t *testing.T) {
	db := newTestDB(t)

	_, found, err := LoadSession(db, "nope")
	require.NoError(t, err)
	require.False(t, found)
}
