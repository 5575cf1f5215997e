// Package sqlengine provides a SQL implementation of the reaction query object.
//
// A ReactionQuery is bound to one message and answers read queries about its reactions
// inside a caller-supplied transaction. Queries are built with goqu for PostgreSQL
// (default), SQLite, or MySQL, and run on pgx, database/sql, or sqlx transactions.
//
// Key features:
//   - Read operations degrade to empty results on storage failures and never return errors
//   - Sequence reads that fail mid-way keep the rows decoded so far
//   - Read and write transaction handles are separate types
//   - Optional logging, metrics and tracing via the reactionstore observability interfaces
//   - TxManager for commit/rollback handling on pgx, sql.DB and sqlx pools
//
// Usage examples:
//
//	// Transactions managed by TxManager
//	pool, _ := pgxpool.New(context.Background(), dsn)
//	txManager, _ := sqlengine.NewTxManagerFromPGXPool(pool)
//	query, _ := sqlengine.NewReactionQuery(messageID, sqlengine.WithLogger(logger))
//
//	_ = txManager.InReadTx(ctx, func(tx reactionstore.ReadTx) error {
//		reaction, found := query.ReactionBy(ctx, tx, reactionstore.IdentityFromStableID(userID))
//		// ...
//		return nil
//	})
//
//	// Caller-owned transaction
//	tx, _ := db.BeginTx(ctx, nil)
//	writeTx, _ := sqlengine.WriteTxFromSQL(tx)
//	if err := query.DeleteAllReactions(ctx, writeTx); err != nil {
//		_ = tx.Rollback()
//	}
package sqlengine
