package sqlengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
	"github.com/AntonStoeckl/message-reactions-go/reactionstore/sqlengine"
)

func Test_NewReactionQuery_When_MessageIDIsEmpty_ReturnsError(t *testing.T) {
	query, err := sqlengine.NewReactionQuery("")

	assert.ErrorIs(t, err, reactionstore.ErrEmptyMessageID)
	assert.Nil(t, query)
}

func Test_NewReactionQuery_BindsTheMessageID(t *testing.T) {
	query, err := sqlengine.NewReactionQuery("message-1")

	require.NoError(t, err)
	assert.Equal(t, "message-1", query.MessageID())
}

func Test_NewReactionQuery_When_OptionIsInvalid_ReturnsError(t *testing.T) {
	testCases := []struct {
		name        string
		option      sqlengine.Option
		expectedErr error
	}{
		{
			name:        "empty table name",
			option:      sqlengine.WithTableName(""),
			expectedErr: reactionstore.ErrEmptyTableName,
		},
		{
			name:        "unsupported dialect",
			option:      sqlengine.WithDialect("oracle"),
			expectedErr: reactionstore.ErrUnsupportedDialect,
		},
		{
			name:        "nil record mapper",
			option:      sqlengine.WithRecordMapper(nil),
			expectedErr: reactionstore.ErrNilRecordMapper,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query, err := sqlengine.NewReactionQuery("message-1", tc.option)

			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Nil(t, query)
		})
	}
}

func Test_NewReactionQuery_AcceptsAllSupportedDialects(t *testing.T) {
	for _, dialect := range []string{"postgres", "sqlite3", "mysql"} {
		t.Run(dialect, func(t *testing.T) {
			_, err := sqlengine.NewReactionQuery("message-1", sqlengine.WithDialect(dialect))

			assert.NoError(t, err)
		})
	}
}

func Test_NewReactionQuery_AcceptsNilObservability(t *testing.T) {
	_, err := sqlengine.NewReactionQuery(
		"message-1",
		sqlengine.WithLogger(nil),
		sqlengine.WithContextualLogger(nil),
		sqlengine.WithMetrics(nil),
		sqlengine.WithTracing(nil),
	)

	assert.NoError(t, err)
}
