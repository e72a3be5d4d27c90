package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/storage"
	"github.com/mcoot/sportsched/internal/storage/storagetest"
	"github.com/mcoot/sportsched/internal/testutil"
)

// testDatabaseURL points at a disposable database; its tables are truncated
func testDatabaseURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("SCHEDULER_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("SCHEDULER_TEST_DATABASE_URL not set")
	}
	return url
}

func TestConformanceSuite(t *testing.T) {
	url := testDatabaseURL(t)

	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage {
			ctx := context.Background()
			s, err := New(ctx, Config{URL: url}, testutil.NopLogger())
			require.NoError(t, err)
			_, err = s.pool.Exec(ctx, `TRUNCATE locations, officials, games, users, assignments, activity`)
			require.NoError(t, err)
			return s
		},
	})
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/sched", migrateURL("postgres://u:p@db:5432/sched"))
	assert.Equal(t, "pgx5://db/sched?sslmode=disable", migrateURL("postgresql://db/sched?sslmode=disable"))
	assert.Equal(t, "pgx5://db/sched", migrateURL("pgx5://db/sched"))
}

func TestSerializationFailureIsStaleWrite(t *testing.T) {
	err := mapError(&pgconn.PgError{Code: "40001", Message: "could not serialize access"})
	assert.ErrorIs(t, err, model.ErrStaleWrite)

	other := &pgconn.PgError{Code: "23505"}
	assert.Equal(t, error(other), mapError(other))
}

func TestCmpOr(t *testing.T) {
	assert.Equal(t, int32(5), cmpOr(int32(0), 5))
	assert.Equal(t, int32(3), cmpOr(int32(3), 5))
}
