package user

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"bookhub/pkg/database"
	"bookhub/pkg/models"
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

func TestCreateAndLogin(t *testing.T) {
	db := newTestDB(t)

	u, err := Create(db, models.User{Email: "ada@example.com", Username: "ada"}, "s3cretpass")
	require.NoError(t, err)
	require.Equal(t, models.UserActive, u.Status)

	got, err := VerifyLogin(db, "ada@example.com", "s3cretpass")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	// username works as a login handle too
	_, err = VerifyLogin(db, "ada", "s3cretpass")
	require.NoError(t, err)

	_, err = VerifyLogin(db, "ada@example.com", "wrong")
	require.Error(t, err)
}

func TestDuplicateEmailConflicts(t *testing.T) {
	db := newTestDB(t)

	_, err := Create(db, models.User{Email: "ada@example.com", Username: "ada"}, "s3cretpass")
	require.NoError(t, err)

	_, err = Create(db, models.User{Email: "ada@example.com", Username: "other"}, "s3cretpass")
	require.ErrorIs(t, err, ErrConflict)
}

func TestUpdateToDuplicateEmailConflicts(t *testing.T) {
	db := newTestDB(t)

	_, err := Create(db, models.User{Email: "ada@example.com", Username: "ada"}, "s3cretpass")
	require.NoError(t, err)
	obi, err := Create(db, models.User{Email: "obi@example.com", Username: "obi"}, "s3cretpass")
	require.NoError(t, err)

	obi.Email = "ada@example.com"
	_, err = Update(db, obi)
	require.ErrorIs(t, err, ErrConflict)

	// a missing row is not-found, never a conflict
	_, err = Update(db, models.User{ID: "user-missing", Email: "x@example.com", Username: "x"})
	require.ErrorIs(t, err, ErrNotFound)
	require.NotErrorIs(t, err, ErrConflict)
}

func TestBannedUserCannotLogin(t *testing.T) {
	db := newTestDB(t)

	u, err := Create(db, models.User{Email: "ada@example.com", Username: "ada", Status: models.UserBanned}, "s3cretpass")
	require.NoError(t, err)
	require.Equal(t, models.UserBanned, u.Status)

	_, err = VerifyLogin(db, "ada@example.com", "s3cretpass")
	require.Error(t, err)
}

func TestReplaceRolesIsReplaceAll(t *testing.T) {
	db := newTestDB(t)

	u, err := Create(db, models.User{Email: "ada@example.com", Username: "ada"}, "s3cretpass")
	require.NoError(t, err)

	require.NoError(t, ReplaceRoles(db, u.ID, []string{"role-admin", "role-editor"}))
	roles, err := RolesForUser(db, u.ID)
	require.NoError(t, err)
	require.Len(t, roles, 2)

	// a later assignment replaces, never merges
	require.NoError(t, ReplaceRoles(db, u.ID, []string{"role-customer"}))
	roles, err = RolesForUser(db, u.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	require.Equal(t, "customer", roles[0].Name)

	// the empty set is a valid assignment and strips every role
	require.NoError(t, ReplaceRoles(db, u.ID, []string{}))
	roles, err = RolesForUser(db, u.ID)
	require.NoError(t, err)
	require.Empty(t, roles)
}

func TestSetPassword(t *testing.T) {
	db := newTestDB(t)

	u, err := Create(db, models.User{Email: "ada@example.com", Username: "ada"}, "oldpassword")
	require.NoError(t, err)

	require.NoError(t, SetPassword(db, u.ID, "newpassword"))
	_, err = VerifyLogin(db, "ada@example.com", "oldpassword")
	require.Error(t, err)
	_, err = VerifyLogin(db, "ada@example.com", "newpassword")
	require.NoError(t, err)

	require.ErrorIs(t, SetPassword(db, "user-missing", "whatever"), ErrNotFound)
}
