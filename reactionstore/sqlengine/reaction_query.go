package sqlengine

import (
	"context"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
)

const (
	defaultReactionsTableName = "reactions"
	dialectPostgres           = "postgres"
	dialectSQLite             = "sqlite3"
	dialectMySQL              = "mysql"
)

// ReactionQuery is the query object for the reactions of one message.
//
// It is bound to a single message id for its lifetime, and every operation implicitly
// filters by it. It holds no connection and caches nothing: each operation runs on the
// transaction handle passed to it.
//
// Read operations never return errors. A storage failure is logged, recorded by the configured
// observability collectors, and the operation degrades to its empty result. A sequence
// read that fails after some rows were decoded returns those rows.
type ReactionQuery struct {
	messageID        string
	tableName        string
	dialect          string
	mapper           reactionstore.RecordMapper
	logger           reactionstore.Logger
	metricsCollector reactionstore.MetricsCollector
	tracingCollector reactionstore.TracingCollector
	contextualLogger reactionstore.ContextualLogger
}

// NewReactionQuery creates a ReactionQuery for the given message id with optional configuration.
func NewReactionQuery(messageID string, options ...Option) (*ReactionQuery, error) {
	if messageID == "" {
		return nil, reactionstore.ErrEmptyMessageID
	}

	q := &ReactionQuery{
		messageID: messageID,
		tableName: defaultReactionsTableName,
		dialect:   dialectPostgres,
		mapper:    reactionstore.RecordMapperFunc(reactionstore.BuildReaction),
	}

	for _, option := range options {
		if err := option(q); err != nil {
			return nil, err
		}
	}

	return q, nil
}

// MessageID returns the message id this query is bound to.
func (q *ReactionQuery) MessageID() string {
	return q.messageID
}

// ReactionBy returns the reaction of the given reactor, looking it up by stable id first
// and by secondary id second. The boolean is false if no reaction was found.
//
// A stable-id match always wins, even if a different row matches the secondary id.
func (q *ReactionQuery) ReactionBy(
	ctx context.Context,
	tx reactionstore.ReadTx,
	reactor reactionstore.ReactorIdentity,
) (reactionstore.Reaction, bool) {

	obs, ctx := q.startOperation(ctx, operationReactionBy)

	hit := degrade(obs, q.lookupReaction(ctx, obs, tx, reactor.LookupPlan()), lookupHit{}, lookupHit.count)

	return hit.reaction, hit.found
}

// ReactorsFor returns the reactors who reacted with exactly this emoji, newest first.
func (q *ReactionQuery) ReactorsFor(
	ctx context.Context,
	tx reactionstore.ReadTx,
	emoji string,
) []reactionstore.ReactorIdentity {

	obs, ctx := q.startOperation(ctx, operationReactorsFor)

	return degrade(obs, q.queryReactors(ctx, tx, emoji), []reactionstore.ReactorIdentity{}, lenOf[[]reactionstore.ReactorIdentity])
}

// AllReactions returns every reaction on the message, newest first.
func (q *ReactionQuery) AllReactions(ctx context.Context, tx reactionstore.ReadTx) reactionstore.Reactions {
	obs, ctx := q.startOperation(ctx, operationAllReactions)

	return degrade(obs, q.queryReactions(ctx, tx, false), reactionstore.Reactions{}, lenOf[reactionstore.Reactions])
}

// UnreadReactions returns every reaction on the message that is not marked as read, newest first.
func (q *ReactionQuery) UnreadReactions(ctx context.Context, tx reactionstore.ReadTx) reactionstore.Reactions {
	obs, ctx := q.startOperation(ctx, operationUnreadReactions)

	return degrade(obs, q.queryReactions(ctx, tx, true), reactionstore.Reactions{}, lenOf[reactionstore.Reactions])
}

// EmojiCounts returns each distinct emoji used on the message with its number of reactors,
// highest count first.
//
// Among equal counts, the emoji that was used first comes first. Callers should not
// depend on that sub-ordering.
func (q *ReactionQuery) EmojiCounts(ctx context.Context, tx reactionstore.ReadTx) reactionstore.EmojiCounts {
	obs, ctx := q.startOperation(ctx, operationEmojiCounts)

	return degrade(obs, q.queryEmojiCounts(ctx, tx), reactionstore.EmojiCounts{}, lenOf[reactionstore.EmojiCounts])
}

// AnyReactionExists reports whether at least one reaction exists for the message.
func (q *ReactionQuery) AnyReactionExists(ctx context.Context, tx reactionstore.ReadTx) bool {
	obs, ctx := q.startOperation(ctx, operationAnyReactionExists)

	return degrade(obs, q.probeExistence(ctx, tx), false, boolCount)
}

// ForEachReaction visits every reaction on the message, oldest first.
//
// The iteration ends early when the visitor returns reactionstore.Stop.
// A nil visitor returns at once without querying.
func (q *ReactionQuery) ForEachReaction(ctx context.Context, tx reactionstore.ReadTx, visitor reactionstore.Visitor) {
	if visitor == nil {
		return
	}

	obs, ctx := q.startOperation(ctx, operationForEachReaction)

	_ = degrade(obs, q.visitReactions(ctx, tx, visitor), 0, identityCount)
}

// AllReactionKeys returns the unique row ids of all reactions on the message, oldest first.
func (q *ReactionQuery) AllReactionKeys(ctx context.Context, tx reactionstore.ReadTx) []string {
	obs, ctx := q.startOperation(ctx, operationAllReactionKeys)

	return degrade(obs, q.queryReactionKeys(ctx, tx), []string{}, lenOf[[]string])
}

// DeleteAllReactions removes every reaction on the message.
//
// Deleting from a message without reactions is a no-op. Failures are returned
// so the transaction layer can roll back.
func (q *ReactionQuery) DeleteAllReactions(ctx context.Context, tx reactionstore.WriteTx) error {
	obs, ctx := q.startOperation(ctx, operationDeleteAllReactions)

	rowsAffected, err := q.deleteReactions(ctx, tx)
	if err != nil {
		obs.finishFailedDelete(err)
		return err
	}

	obs.finishSuccess(logAttrRowsAffected, rowsAffected)

	return nil
}

// degrade maps a failed storage Result to the fallback at the query object's boundary
// and records the cause. Truncated results keep their prefix.
func degrade[T any](obs *operationObserver, result reactionstore.Result[T], fallback T, countOf func(T) int) T {
	value := result.OrDefault(fallback, func(cause error) {
		obs.finishDegradedRead(cause, result.IsTruncated())
	})

	if result.IsOk() {
		obs.finishSuccess(logAttrResultCount, int64(countOf(value)))
	}

	return value
}

func lenOf[S ~[]E, E any](s S) int {
	return len(s)
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}

func identityCount(n int) int {
	return n
}
