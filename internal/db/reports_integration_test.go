//go:build integration

package db

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Open(ctx, dsn)
	require.NoError(t, err, "failed to open test database")

	_, _ = db.pool.Exec(ctx, "DELETE FROM reports WHERE client LIKE 'integration-%'")
	return db
}

func TestIntegration_Report_CRUD(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	report := &Report{
		ID:        uuid.New(),
		SessionID: uuid.New(),
		Kind:      "workout",
		Client:    "integration-ana",
		FileName:  "workout-integration-ana-2026-01-02.pdf",
		Pages:     2,
		Warnings:  []string{"hip corrected"},
		PlanText:  "TRAINING BLOCK A",
		Content:   []byte("%PDF-1.3"),
	}

	t.Run("save", func(t *testing.T) {
		require.NoError(t, db.SaveReport(ctx, report))
		assert.False(t, report.CreatedAt.IsZero())
	})

	t.Run("get", func(t *testing.T) {
		got, err := db.GetReport(ctx, report.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, report.FileName, got.FileName)
		assert.Equal(t, report.Warnings, got.Warnings)
		assert.Equal(t, report.Content, got.Content)
	})

	t.Run("list", func(t *testing.T) {
		got, err := db.ListReports(ctx, ReportFilters{Client: "integration-ana"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, report.ID, got[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, db.DeleteReport(ctx, report.ID))
		got, err := db.GetReport(ctx, report.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestIntegration_MigrateIsIdempotent(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}
	require.NoError(t, Migrate(dsn))
	require.NoError(t, Migrate(dsn))
}
