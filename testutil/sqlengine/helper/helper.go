package helper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
	"github.com/AntonStoeckl/message-reactions-go/testutil/sqlengine/helper/dbwrapper"
)

// FakeClock is the reacted-at time of the reaction with sort id 0.
var FakeClock = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func GivenUniqueID(t testing.TB) string {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return id.String()
}

// ReactedAtFor derives a reacted-at time from the sort id, one second apart.
func ReactedAtFor(sortID int64) time.Time {
	return FakeClock.Add(time.Duration(sortID) * time.Second)
}

// FixtureReaction builds a raw reaction row with a fresh row id. Empty reactor ids are stored as NULL.
func FixtureReaction(t testing.TB, messageID, stableID, secondaryID, emoji string, sortID int64) dbwrapper.StoredReaction {
	return dbwrapper.StoredReaction{
		RowID:       GivenUniqueID(t),
		MessageID:   messageID,
		StableID:    stableID,
		SecondaryID: secondaryID,
		Emoji:       emoji,
		SortID:      sortID,
		ReactedAtMS: ReactedAtFor(sortID).UnixMilli(),
	}
}

// FixtureReadReaction is FixtureReaction for a reaction already marked as read.
func FixtureReadReaction(t testing.TB, messageID, stableID, secondaryID, emoji string, sortID int64) dbwrapper.StoredReaction {
	reaction := FixtureReaction(t, messageID, stableID, secondaryID, emoji, sortID)
	reaction.Read = true

	return reaction
}

func GivenReactionsWereStored(t testing.TB, wrapper dbwrapper.Wrapper, reactions ...dbwrapper.StoredReaction) {
	for _, reaction := range reactions {
		wrapper.StoreReaction(t, reaction)
	}
}

func GivenReactionWasStored(
	t testing.TB,
	wrapper dbwrapper.Wrapper,
	messageID, stableID, secondaryID, emoji string,
	sortID int64,
) dbwrapper.StoredReaction {

	reaction := FixtureReaction(t, messageID, stableID, secondaryID, emoji, sortID)
	wrapper.StoreReaction(t, reaction)

	return reaction
}

// InReadTx runs fn in a managed read transaction and fails the test if the transaction fails.
func InReadTx(t testing.TB, ctx context.Context, wrapper dbwrapper.Wrapper, fn func(tx reactionstore.ReadTx)) {
	err := wrapper.TxManager().InReadTx(ctx, func(tx reactionstore.ReadTx) error {
		fn(tx)
		return nil
	})
	require.NoError(t, err, "error in the managed read transaction")
}

// InWriteTx runs fn in a managed write transaction and returns the transaction's error.
func InWriteTx(ctx context.Context, wrapper dbwrapper.Wrapper, fn func(tx reactionstore.WriteTx) error) error {
	return wrapper.TxManager().InWriteTx(ctx, fn)
}

// RowIDs returns the row ids of the given reactions in order.
func RowIDs(reactions ...dbwrapper.StoredReaction) []string {
	ids := make([]string, 0, len(reactions))
	for _, reaction := range reactions {
		ids = append(ids, reaction.RowID)
	}

	return ids
}

// RowIDsOf returns the row ids of the given query results in order.
func RowIDsOf(reactions reactionstore.Reactions) []string {
	ids := make([]string, 0, len(reactions))
	for _, reaction := range reactions {
		ids = append(ids, reaction.RowID)
	}

	return ids
}
