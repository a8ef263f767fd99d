package bridgedb

import (
	"context"
	"log"

	"github.com/chainsafe/cascoin-bridge/pkg/bridgestore"
	mghelper "github.com/chainsafe/cascoin-bridge/pkg/pgutil/migrations"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating deposit_intents table...")
		if err := mghelper.CreateSchema(ctx, db, &bridgestore.DepositIntentDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &bridgestore.DepositIntentDao{}, "status", "destination_address")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping deposit_intents table...")
		if err := mghelper.DropModelIndexes(ctx, db, &bridgestore.DepositIntentDao{}, "status", "destination_address"); err != nil {
			return err
		}
		return mghelper.DropTables(ctx, db, &bridgestore.DepositIntentDao{})
	})
}
