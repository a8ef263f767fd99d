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
		log.Println("creating release_transactions table...")
		if err := mghelper.CreateSchema(ctx, db, &bridgestore.ReleaseTransactionDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &bridgestore.ReleaseTransactionDao{}, "status", "to_address", "source_address")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping release_transactions table...")
		if err := mghelper.DropModelIndexes(ctx, db, &bridgestore.ReleaseTransactionDao{}, "status", "to_address", "source_address"); err != nil {
			return err
		}
		return mghelper.DropTables(ctx, db, &bridgestore.ReleaseTransactionDao{})
	})
}
