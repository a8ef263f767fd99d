package migrations

import (
	"context"
	"testing"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/chainsafe/cascoin-bridge/pkg/config"
	"github.com/chainsafe/cascoin-bridge/pkg/pgutil"
)

type testDao struct {
	bun.BaseModel `bun:"table:test_table"`
	ID            int64  `bun:",pk,autoincrement"`
	Name          string `bun:",notnull,type:varchar(100)"`
	Age           int    `bun:",nullzero"`
}

func indexExists(t *testing.T, db *bun.DB, name string) bool {
	t.Helper()
	var exists bool
	query := `SELECT EXISTS (SELECT FROM pg_indexes WHERE schemaname = 'public' AND indexname = ?)`
	if err := db.NewRaw(query, name).Scan(context.Background(), &exists); err != nil {
		t.Fatalf("failed to check index %s: %v", name, err)
	}
	return exists
}

func TestConnectDB_InvalidHost(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "invalid-host-that-does-not-exist",
		Port:     5432,
		User:     "test",
		Password: "test",
		Database: "test",
		SSLMode:  "disable",
	}

	db, err := pgutil.ConnectDB(context.Background(), cfg, zap.NewNop())
	if err == nil {
		db.Close()
		t.Error("ConnectDB() should fail with invalid host")
	}
}

func TestCreateAndDropSchema(t *testing.T) {
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := CreateSchema(ctx, db, &testDao{}); err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}
	pgutil.AssertTableExists(t, db, "test_table")

	// idempotent
	if err := CreateSchema(ctx, db, &testDao{}); err != nil {
		t.Errorf("CreateSchema() second call failed: %v", err)
	}

	if err := DropTables(ctx, db, &testDao{}); err != nil {
		t.Fatalf("DropTables() failed: %v", err)
	}
	pgutil.AssertTableNotExists(t, db, "test_table")

	if err := DropTables(ctx, db, &testDao{}); err != nil {
		t.Errorf("DropTables() second call failed: %v", err)
	}
}

func TestModelIndexes(t *testing.T) {
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := CreateSchema(ctx, db, &testDao{}); err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}

	if err := CreateModelIndexes(ctx, db, &testDao{}, "name", "age"); err != nil {
		t.Fatalf("CreateModelIndexes() failed: %v", err)
	}
	// repeated creation is a no-op
	if err := CreateModelIndexes(ctx, db, &testDao{}, "age"); err != nil {
		t.Fatalf("CreateModelIndexes() second call failed: %v", err)
	}
	pgutil.AssertIndexExists(t, db, "idx_test_table_age")
	pgutil.AssertIndexExists(t, db, "idx_test_table_name")

	if err := DropModelIndexes(ctx, db, &testDao{}, "name", "age"); err != nil {
		t.Fatalf("DropModelIndexes() failed: %v", err)
	}
	if indexExists(t, db, "idx_test_table_name") || indexExists(t, db, "idx_test_table_age") {
		t.Error("indexes should be dropped")
	}
}

func TestAddColumns_IdempotentWithBackfill(t *testing.T) {
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := CreateSchema(ctx, db, &testDao{}); err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}
	if _, err := db.NewInsert().Model(&testDao{Name: "existing"}).Exec(ctx); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	cols := []Column{
		{Name: "score", Definition: "INTEGER", Backfill: 12},
		{Name: "note", Definition: "VARCHAR(32)"},
	}
	for i := 0; i < 2; i++ {
		if err := AddColumns(ctx, db, &testDao{}, cols...); err != nil {
			t.Fatalf("AddColumns() run %d failed: %v", i+1, err)
		}
	}

	var score int
	if err := db.NewRaw("SELECT score FROM test_table WHERE name = ?", "existing").Scan(ctx, &score); err != nil {
		t.Fatalf("failed to read backfilled column: %v", err)
	}
	if score != 12 {
		t.Errorf("backfill mismatch: got %d want 12", score)
	}
}
