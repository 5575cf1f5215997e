package sqlengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
	"github.com/AntonStoeckl/message-reactions-go/reactionstore/sqlengine"
	. "github.com/AntonStoeckl/message-reactions-go/testutil/sqlengine/helper"           //nolint:revive
	. "github.com/AntonStoeckl/message-reactions-go/testutil/sqlengine/helper/dbwrapper" //nolint:revive
)

func Test_TxManager_Constructors_When_ConnectionIsNil_ReturnError(t *testing.T) {
	_, pgxErr := sqlengine.NewTxManagerFromPGXPool(nil)
	_, replicaErr := sqlengine.NewTxManagerFromPGXPoolWithReplica(nil, nil)
	_, sqlErr := sqlengine.NewTxManagerFromSQLDB(nil)
	_, sqlxErr := sqlengine.NewTxManagerFromSQLX(nil)

	assert.ErrorIs(t, pgxErr, reactionstore.ErrNilDatabaseConnection)
	assert.ErrorIs(t, replicaErr, reactionstore.ErrNilDatabaseConnection)
	assert.ErrorIs(t, sqlErr, reactionstore.ErrNilDatabaseConnection)
	assert.ErrorIs(t, sqlxErr, reactionstore.ErrNilDatabaseConnection)
}

func Test_TxHandleConstructors_When_TransactionIsNil_ReturnError(t *testing.T) {
	_, readPGXErr := sqlengine.ReadTxFromPGX(nil)
	_, writePGXErr := sqlengine.WriteTxFromPGX(nil)
	_, readSQLErr := sqlengine.ReadTxFromSQL(nil)
	_, writeSQLErr := sqlengine.WriteTxFromSQL(nil)
	_, readSQLXErr := sqlengine.ReadTxFromSQLX(nil)
	_, writeSQLXErr := sqlengine.WriteTxFromSQLX(nil)

	for _, err := range []error{readPGXErr, writePGXErr, readSQLErr, writeSQLErr, readSQLXErr, writeSQLXErr} {
		assert.ErrorIs(t, err, reactionstore.ErrNilTransaction)
	}
}

func Test_TxManager_InReadTx_HandsOutAHandleWithoutWriteAccess(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()

	// act & assert
	InReadTx(t, ctxWithTimeout, wrapper, func(tx reactionstore.ReadTx) {
		_, isWriteTx := tx.(reactionstore.WriteTx)
		assert.False(t, isWriteTx)
	})
}

func Test_TxManager_InWriteTx_When_FunctionReturnsNil_Commits(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()

	// arrange
	wrapper.CleanUp(t)
	messageID := GivenUniqueID(t)
	GivenReactionWasStored(t, wrapper, messageID, "A", "", thumbsUp, 1)
	query := wrapper.NewReactionQuery(t, messageID)

	// act
	err := wrapper.TxManager().InWriteTx(ctxWithTimeout, func(tx reactionstore.WriteTx) error {
		return query.DeleteAllReactions(ctxWithTimeout, tx)
	})

	// assert
	require.NoError(t, err)
	InReadTx(t, ctxWithTimeout, wrapper, func(tx reactionstore.ReadTx) {
		assert.False(t, query.AnyReactionExists(ctxWithTimeout, tx))
	})
}

func Test_TxManager_InWriteTx_When_FunctionPanics_RollsBackAndRepanics(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()

	// arrange
	wrapper.CleanUp(t)
	messageID := GivenUniqueID(t)
	GivenReactionWasStored(t, wrapper, messageID, "A", "", thumbsUp, 1)
	query := wrapper.NewReactionQuery(t, messageID)

	// act & assert
	assert.PanicsWithValue(t, "boom", func() {
		_ = wrapper.TxManager().InWriteTx(ctxWithTimeout, func(tx reactionstore.WriteTx) error {
			_ = query.DeleteAllReactions(ctxWithTimeout, tx)
			panic("boom")
		})
	})

	InReadTx(t, ctxWithTimeout, wrapper, func(tx reactionstore.ReadTx) {
		assert.True(t, query.AnyReactionExists(ctxWithTimeout, tx), "the delete must be rolled back")
	})
}

func Test_TxManager_InReadTx_When_FunctionReturnsError_ReturnsIt(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()

	// act
	err := wrapper.TxManager().InReadTx(ctxWithTimeout, func(reactionstore.ReadTx) error {
		return assert.AnError
	})

	// assert
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, reactionstore.ErrRollbackTxFailed)
}

func Test_TxManager_When_ContextIsCanceled_FailsToBegin(t *testing.T) {
	// setup
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()

	// act
	called := false
	err := wrapper.TxManager().InWriteTx(ctx, func(reactionstore.WriteTx) error {
		called = true
		return nil
	})

	// assert
	assert.ErrorIs(t, err, reactionstore.ErrBeginTxFailed)
	assert.False(t, called)
}

func Test_TxManager_WithReplica_RoutesOnlyReplicaReadsToTheReplica(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()

	if wrapper.AdapterType() != TypePGXPoolReplica {
		t.Skip("needs a streaming replica, run with ADAPTER_TYPE=" + TypePGXPoolReplica)
	}

	inRecovery := func(tx reactionstore.ReadTx) bool {
		var recovering bool
		require.NoError(t, tx.QueryRow(ctxWithTimeout, "SELECT pg_is_in_recovery()").Scan(&recovering))

		return recovering
	}

	// act & assert
	InReadTx(t, ctxWithTimeout, wrapper, func(tx reactionstore.ReadTx) {
		assert.False(t, inRecovery(tx), "a plain read must run on the primary")
	})

	InReadTx(t, reactionstore.ReadFromReplica(ctxWithTimeout), wrapper, func(tx reactionstore.ReadTx) {
		assert.True(t, inRecovery(tx), "a replica read must run on the replica")
	})

	err := InWriteTx(reactionstore.ReadFromReplica(ctxWithTimeout), wrapper, func(tx reactionstore.WriteTx) error {
		assert.False(t, inRecovery(tx), "a write must run on the primary")
		return nil
	})
	require.NoError(t, err)
}
