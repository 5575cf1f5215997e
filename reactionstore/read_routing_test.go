package reactionstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
)

func Test_ReadSourceFrom_DefaultsToPrimary(t *testing.T) {
	assert.Equal(t, reactionstore.PrimarySource, reactionstore.ReadSourceFrom(context.Background()))
}

func Test_ReadSourceFrom_ReturnsTheLatestRequest(t *testing.T) {
	ctx := reactionstore.ReadFromReplica(context.Background())
	assert.Equal(t, reactionstore.ReplicaSource, reactionstore.ReadSourceFrom(ctx))

	ctx = reactionstore.ReadFromPrimary(ctx)
	assert.Equal(t, reactionstore.PrimarySource, reactionstore.ReadSourceFrom(ctx))
}

func Test_ReadSource_String(t *testing.T) {
	assert.Equal(t, "primary", reactionstore.PrimarySource.String())
	assert.Equal(t, "replica", reactionstore.ReplicaSource.String())
	assert.Equal(t, "unknown", reactionstore.ReadSource(7).String())
}
