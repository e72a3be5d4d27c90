package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/storage"
	"github.com/mcoot/sportsched/internal/storage/storagetest"
)

func TestConformanceSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage {
			s, err := New(filepath.Join(t.TempDir(), "sched.db"))
			require.NoError(t, err)
			return s
		},
	})
}

func TestDataSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "sched.db")

	s, err := New(path)
	require.NoError(t, err)
	err = s.RunInTransaction(ctx, func(tx storage.Tx) error {
		if err := tx.SaveLocation(ctx, &model.Location{ID: "loc-1", Name: "Field A", IsActive: true}); err != nil {
			return err
		}
		return tx.AppendActivity(ctx, &model.ActivityLogEntry{ID: "act-1", Action: "location.created"})
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	loc, err := reopened.GetLocation(ctx, "loc-1")
	require.NoError(t, err)
	assert.Equal(t, "Field A", loc.Name)

	activity, err := reopened.ListActivity(ctx)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, "location.created", activity[0].Action)
	assert.Equal(t, path, reopened.Path())
}
