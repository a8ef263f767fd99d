package migrations

import (
	"context"
	"testing"

	"github.com/chainsafe/cascoin-bridge/pkg/migrations/bridgedb"
	mghelper "github.com/chainsafe/cascoin-bridge/pkg/pgutil"
	"github.com/uptrace/bun/migrate"
)

func TestBridgeDBMigrations_Apply(t *testing.T) {
	db, cleanup := mghelper.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	migrator := migrate.NewMigrator(db, bridgedb.Migrations)

	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	if group.IsZero() {
		t.Error("Expected migrations to run, but none were applied")
	}

	expectedTables := []string{
		"deposit_intents",
		"gas_payment_intents",
		"return_intents",
		"release_transactions",
		"key_indexes",
		"chain_cursors",
		"bun_migrations",
	}
	for _, table := range expectedTables {
		mghelper.AssertTableExists(t, db, table)
	}

	mghelper.AssertIndexExists(t, db, "idx_deposit_intents_status")
	mghelper.AssertIndexExists(t, db, "idx_deposit_intents_destination_address")
	mghelper.AssertIndexExists(t, db, "idx_gas_payment_intents_owner_address")
	mghelper.AssertIndexExists(t, db, "idx_return_intents_source_address")
	mghelper.AssertIndexExists(t, db, "idx_release_transactions_to_address")
}

func TestMigrations_Idempotency(t *testing.T) {
	db, cleanup := mghelper.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	migrator := migrate.NewMigrator(db, bridgedb.Migrations)

	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("First Migrate() failed: %v", err)
	}

	// Run migrations second time - should not fail
	group, err := migrator.Migrate(ctx)
	if err != nil {
		t.Fatalf("Second Migrate() failed: %v", err)
	}
	if !group.IsZero() {
		t.Error("Expected no new migrations on second run")
	}

	mghelper.AssertTableExists(t, db, "deposit_intents")
	mghelper.AssertTableExists(t, db, "release_transactions")
}

func TestConfirmationColumns_BackfillLegacyRows(t *testing.T) {
	db, cleanup := mghelper.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// a deposit table from before confirmation tracking existed
	_, err := db.ExecContext(ctx, `CREATE TABLE deposit_intents (
		id UUID PRIMARY KEY,
		destination_address VARCHAR(42) NOT NULL,
		deposit_address VARCHAR(64) NOT NULL UNIQUE,
		derivation_index BIGINT NOT NULL UNIQUE,
		requested_amount NUMERIC(38,18) NOT NULL,
		fee_model VARCHAR(32) NOT NULL,
		status VARCHAR(32) NOT NULL,
		received_amount NUMERIC(38,18),
		mint_tx_hash VARCHAR(66),
		fee_amount NUMERIC(38,18),
		net_amount NUMERIC(38,18),
		failure_reason TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
	)`)
	if err != nil {
		t.Fatalf("failed to create legacy table: %v", err)
	}
	_, err = db.ExecContext(ctx, `INSERT INTO deposit_intents
		(id, destination_address, deposit_address, derivation_index, requested_amount, fee_model, status)
		VALUES ('6f1c1b3e-5f5e-4b8a-9a47-0c7d6f1d2a10', '0x1111111111111111111111111111111111111111',
		'CLegacyDepositAddress', 0, 10, 'deducted', 'pending')`)
	if err != nil {
		t.Fatalf("failed to insert legacy row: %v", err)
	}

	migrator := migrate.NewMigrator(db, bridgedb.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}

	var row struct {
		Current  int `bun:"current_confirmations"`
		Required int `bun:"required_confirmations"`
	}
	err = db.NewSelect().
		TableExpr("deposit_intents").
		Column("current_confirmations", "required_confirmations").
		Scan(ctx, &row)
	if err != nil {
		t.Fatalf("failed to read legacy row: %v", err)
	}
	if row.Current != 0 || row.Required != 12 {
		t.Errorf("expected 0/12 confirmations on legacy row, got %d/%d", row.Current, row.Required)
	}
	mghelper.AssertRowCount(t, db, "deposit_intents", 1)
}

func TestMigrations_Rollback(t *testing.T) {
	db, cleanup := mghelper.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	migrator := migrate.NewMigrator(db, bridgedb.Migrations)

	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}

	group, err := migrator.Rollback(ctx)
	if err != nil {
		t.Fatalf("Rollback() failed: %v", err)
	}
	if group.IsZero() {
		t.Error("Expected rollback to process a migration")
	}

	mghelper.AssertTableNotExists(t, db, "chain_cursors")
	mghelper.AssertTableNotExists(t, db, "key_indexes")
	mghelper.AssertTableNotExists(t, db, "release_transactions")
	mghelper.AssertTableNotExists(t, db, "return_intents")
	mghelper.AssertTableNotExists(t, db, "gas_payment_intents")
	mghelper.AssertTableNotExists(t, db, "deposit_intents")
}
