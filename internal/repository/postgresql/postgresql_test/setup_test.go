package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/inout-app/inout-backend-go/internal/pkg/database"
	"github.com/inout-app/inout-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to TEST_DATABASE_URL, applies the schema and truncates
// every table. Tests are skipped when the variable is not set.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, postgresql.Migrate(ctx, db))

	_, err = db.Exec(ctx, "TRUNCATE TABLE attendance, users, locations CASCADE")
	require.NoError(t, err)

	return db
}
