package payment

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

func TestValidateProof(t *testing.T) {
	require.NoError(t, ValidateProof("receipt.jpg", 1024))
	require.NoError(t, ValidateProof("statement.pdf", 4*1024*1024))
	require.NoError(t, ValidateProof("shot.PNG", 1024))

	require.Error(t, ValidateProof("receipt.jpg", 6*1024*1024))
	require.Error(t, ValidateProof("receipt.docx", 1024))
	require.Error(t, ValidateProof("receipt", 1024))
}

func TestListGatewaysSeeded(t *testing.T) {
	db := newTestDB(t)

	gws, err := ListGateways(db)
	require.NoError(t, err)
	require.Len(t, gws, 3)

	names := map[string]bool{}
	for _, g := range gws {
		names[g.Name] = true
	}
	require.True(t, names["bank_transfer"])
	require.True(t, names["flutterwave"])
	require.True(t, names["card"])

	// bank details ride along for the transfer-instructions screen
	for _, g := range gws {
		if g.Name == "bank_transfer" {
			require.NotEmpty(t, g.AccountNumber)
			require.NotEmpty(t, g.BankName)
		}
	}
}

func TestListGatewaysSkipsDisabled(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Exec(`UPDATE payment_gateways SET enabled = 0 WHERE name = 'flutterwave'`)
	require.NoError(t, err)

	gws, err := ListGateways(db)
	require.NoError(t, err)
	require.Len(t, gws, 2)
}
