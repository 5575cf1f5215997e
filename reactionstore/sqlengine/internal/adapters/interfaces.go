package adapters

import (
	"context"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
)

// DBAdapter defines the interface for beginning transactions on a connection pool.
type DBAdapter interface {
	BeginTx(ctx context.Context, readOnly bool) (TxAdapter, error)
}

// TxAdapter defines the interface for one open transaction.
type TxAdapter interface {
	reactionstore.WriteTx
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

var (
	_ DBAdapter = (*PGXAdapter)(nil)
	_ DBAdapter = (*SQLAdapter)(nil)
	_ DBAdapter = (*SQLXAdapter)(nil)
	_ TxAdapter = (*PGXTxAdapter)(nil)
	_ TxAdapter = (*SQLTxAdapter)(nil)
	_ TxAdapter = (*SQLXTxAdapter)(nil)
)
