package adapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
	"github.com/AntonStoeckl/message-reactions-go/reactionstore/sqlengine/internal/adapters"
)

func Test_UsesReplica(t *testing.T) {
	replicaCtx := reactionstore.ReadFromReplica(context.Background())

	testCases := []struct {
		name       string
		ctx        context.Context
		readOnly   bool
		hasReplica bool
		expected   bool
	}{
		{name: "plain read stays on primary", ctx: context.Background(), readOnly: true, hasReplica: true, expected: false},
		{name: "replica read goes to replica", ctx: replicaCtx, readOnly: true, hasReplica: true, expected: true},
		{name: "write ignores replica request", ctx: replicaCtx, readOnly: false, hasReplica: true, expected: false},
		{name: "replica read without replica stays on primary", ctx: replicaCtx, readOnly: true, hasReplica: false, expected: false},
		{name: "primary request overrides replica request", ctx: reactionstore.ReadFromPrimary(replicaCtx), readOnly: true, hasReplica: true, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, adapters.UsesReplica(tc.ctx, tc.readOnly, tc.hasReplica))
		})
	}
}
