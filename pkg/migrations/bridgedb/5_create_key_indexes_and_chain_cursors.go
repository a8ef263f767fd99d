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
		log.Println("creating key_indexes and chain_cursors tables...")
		return mghelper.CreateSchema(ctx, db, &bridgestore.KeyIndexDao{}, &bridgestore.ChainCursorDao{})
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping key_indexes and chain_cursors tables...")
		return mghelper.DropTables(ctx, db, &bridgestore.KeyIndexDao{}, &bridgestore.ChainCursorDao{})
	})
}
