package bridgedb

import (
	"context"
	"log"

	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
	"github.com/chainsafe/cascoin-bridge/pkg/bridgestore"
	mghelper "github.com/chainsafe/cascoin-bridge/pkg/pgutil/migrations"

	"github.com/uptrace/bun"
)

// confirmationColumns brings databases created before confirmation tracking
// up to the current shape. On a fresh schema every column already exists.
var confirmationColumns = []mghelper.Column{
	{Name: "current_confirmations", Definition: "INTEGER NOT NULL DEFAULT 0", Backfill: 0},
	{Name: "required_confirmations", Definition: "INTEGER NOT NULL DEFAULT 12", Backfill: bridge.DefaultRequiredConfirmations},
	{Name: "deposit_tx_hash", Definition: "VARCHAR(128)"},
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("adding confirmation tracking columns...")
		if err := mghelper.AddColumns(ctx, db, &bridgestore.DepositIntentDao{}, confirmationColumns...); err != nil {
			return err
		}
		return mghelper.AddColumns(ctx, db, &bridgestore.ReleaseTransactionDao{}, confirmationColumns...)
	}, func(ctx context.Context, db *bun.DB) error {
		// the columns are part of the base tables; nothing to undo
		return nil
	})
}
