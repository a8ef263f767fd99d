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
		log.Println("creating gas_payment_intents table...")
		if err := mghelper.CreateSchema(ctx, db, &bridgestore.GasPaymentIntentDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &bridgestore.GasPaymentIntentDao{}, "status", "owner_address")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping gas_payment_intents table...")
		if err := mghelper.DropModelIndexes(ctx, db, &bridgestore.GasPaymentIntentDao{}, "status", "owner_address"); err != nil {
			return err
		}
		return mghelper.DropTables(ctx, db, &bridgestore.GasPaymentIntentDao{})
	})
}
