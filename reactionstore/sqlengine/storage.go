package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
)

// queryResultRow is the scan target for one reaction row.
type queryResultRow struct {
	uniqueRowID        string
	uniqueMessageID    string
	reactorStableID    sql.NullString
	reactorSecondaryID sql.NullString
	emoji              string
	sortID             int64
	isRead             bool
	reactedAtMS        int64
}

func (r *queryResultRow) scanTargets() []any {
	return []any{
		&r.uniqueRowID,
		&r.uniqueMessageID,
		&r.reactorStableID,
		&r.reactorSecondaryID,
		&r.emoji,
		&r.sortID,
		&r.isRead,
		&r.reactedAtMS,
	}
}

func (r *queryResultRow) toRecord() reactionstore.ReactionRecord {
	return reactionstore.ReactionRecord{
		UniqueRowID:        r.uniqueRowID,
		UniqueMessageID:    r.uniqueMessageID,
		ReactorStableID:    r.reactorStableID.String,
		HasStableID:        r.reactorStableID.Valid,
		ReactorSecondaryID: r.reactorSecondaryID.String,
		HasSecondaryID:     r.reactorSecondaryID.Valid,
		Emoji:              r.emoji,
		SortID:             r.sortID,
		Read:               r.isRead,
		ReactedAtMillis:    r.reactedAtMS,
	}
}

// lookupHit is the outcome of resolving a reactor identity.
type lookupHit struct {
	reaction reactionstore.Reaction
	found    bool
}

func (h lookupHit) count() int {
	return boolCount(h.found)
}

// rowDecoder decodes the current row of a rows iterator.
type rowDecoder[T any] func(rows reactionstore.Rows) (T, error)

// lookupReaction walks the lookup plan and returns the first matching reaction.
//
// A step that fails in storage counts as a miss and the next identifier is still tried.
// If a later step matches, the failures are recorded on obs and the match is returned.
// If nothing matches, the joined failures make up the error of the result.
func (q *ReactionQuery) lookupReaction(
	ctx context.Context,
	obs *operationObserver,
	tx reactionstore.ReadTx,
	plan []reactionstore.LookupStep,
) reactionstore.Result[lookupHit] {

	var stepErrs []error

	for _, step := range plan {
		stmt, buildErr := q.buildLookupQuery(step)
		if buildErr != nil {
			return reactionstore.Err[lookupHit](buildErr)
		}

		start := time.Now()
		result := queryResultRow{}
		scanErr := tx.QueryRow(ctx, stmt.query, stmt.args...).Scan(result.scanTargets()...)
		q.logQueryWithDuration(ctx, stmt.query, operationReactionBy, time.Since(start))

		if errors.Is(scanErr, reactionstore.ErrNoRows) {
			continue
		}

		if scanErr != nil {
			stepErrs = append(stepErrs, errors.Join(reactionstore.ErrQueryingReactionsFailed, scanErr))
			continue
		}

		reaction, mapErr := q.mapper.MapReaction(result.toRecord())
		if mapErr != nil {
			stepErrs = append(stepErrs, errors.Join(reactionstore.ErrMappingReactionFailed, mapErr))
			continue
		}

		for _, stepErr := range stepErrs {
			obs.recordFailedLookupStep(stepErr)
		}

		return reactionstore.Ok(lookupHit{reaction: reaction, found: true})
	}

	if len(stepErrs) > 0 {
		return reactionstore.Err[lookupHit](errors.Join(stepErrs...))
	}

	return reactionstore.Ok(lookupHit{})
}

func (q *ReactionQuery) queryReactions(
	ctx context.Context,
	tx reactionstore.ReadTx,
	unreadOnly bool,
) reactionstore.Result[reactionstore.Reactions] {

	stmt, buildErr := q.buildSelectReactionsQuery(unreadOnly)
	if buildErr != nil {
		return reactionstore.Err[reactionstore.Reactions](buildErr)
	}

	operation := operationAllReactions
	if unreadOnly {
		operation = operationUnreadReactions
	}

	return collectRows(ctx, q, tx, stmt, operation, q.decodeReaction)
}

func (q *ReactionQuery) queryReactors(
	ctx context.Context,
	tx reactionstore.ReadTx,
	emoji string,
) reactionstore.Result[[]reactionstore.ReactorIdentity] {

	stmt, buildErr := q.buildSelectReactorsQuery(emoji)
	if buildErr != nil {
		return reactionstore.Err[[]reactionstore.ReactorIdentity](buildErr)
	}

	return collectRows(ctx, q, tx, stmt, operationReactorsFor, decodeReactor)
}

func (q *ReactionQuery) queryEmojiCounts(
	ctx context.Context,
	tx reactionstore.ReadTx,
) reactionstore.Result[reactionstore.EmojiCounts] {

	stmt, buildErr := q.buildEmojiCountsQuery()
	if buildErr != nil {
		return reactionstore.Err[reactionstore.EmojiCounts](buildErr)
	}

	return collectRows(ctx, q, tx, stmt, operationEmojiCounts, decodeEmojiCount)
}

func (q *ReactionQuery) queryReactionKeys(ctx context.Context, tx reactionstore.ReadTx) reactionstore.Result[[]string] {
	stmt, buildErr := q.buildSelectOldestFirstQuery(colUniqueRowID)
	if buildErr != nil {
		return reactionstore.Err[[]string](buildErr)
	}

	return collectRows(ctx, q, tx, stmt, operationAllReactionKeys, decodeReactionKey)
}

// probeExistence selects at most one row, so the database can stop at the first match.
func (q *ReactionQuery) probeExistence(ctx context.Context, tx reactionstore.ReadTx) reactionstore.Result[bool] {
	stmt, buildErr := q.buildExistsQuery()
	if buildErr != nil {
		return reactionstore.Err[bool](buildErr)
	}

	start := time.Now()
	var one int64
	scanErr := tx.QueryRow(ctx, stmt.query, stmt.args...).Scan(&one)
	q.logQueryWithDuration(ctx, stmt.query, operationAnyReactionExists, time.Since(start))

	switch {
	case errors.Is(scanErr, reactionstore.ErrNoRows):
		return reactionstore.Ok(false)
	case scanErr != nil:
		return reactionstore.Err[bool](errors.Join(reactionstore.ErrQueryingReactionsFailed, scanErr))
	default:
		return reactionstore.Ok(true)
	}
}

// visitReactions feeds reactions oldest first to the visitor and returns how many were visited.
func (q *ReactionQuery) visitReactions(
	ctx context.Context,
	tx reactionstore.ReadTx,
	visitor reactionstore.Visitor,
) reactionstore.Result[int] {

	stmt, buildErr := q.buildSelectOldestFirstQuery(reactionColumns()...)
	if buildErr != nil {
		return reactionstore.Err[int](buildErr)
	}

	rows, queryErr := q.executeQuery(ctx, tx, stmt, operationForEachReaction)
	if queryErr != nil {
		return reactionstore.Err[int](queryErr)
	}
	defer q.closeRows(ctx, rows)

	visited := 0
	for rows.Next() {
		reaction, decodeErr := q.decodeReaction(rows)
		if decodeErr != nil {
			return reactionstore.Truncated(visited, decodeErr)
		}

		visited++

		if visitor.Visit(reaction) == reactionstore.Stop {
			return reactionstore.Ok(visited)
		}
	}

	if iterErr := rows.Err(); iterErr != nil {
		return reactionstore.Truncated(visited, errors.Join(reactionstore.ErrIteratingDBRowsFailed, iterErr))
	}

	return reactionstore.Ok(visited)
}

// deleteReactions executes the delete and returns the number of removed rows.
func (q *ReactionQuery) deleteReactions(ctx context.Context, tx reactionstore.WriteTx) (int64, error) {
	stmt, buildErr := q.buildDeleteQuery()
	if buildErr != nil {
		return 0, buildErr
	}

	start := time.Now()
	tag, execErr := tx.Exec(ctx, stmt.query, stmt.args...)
	q.logQueryWithDuration(ctx, stmt.query, operationDeleteAllReactions, time.Since(start))

	if execErr != nil {
		return 0, errors.Join(reactionstore.ErrDeletingReactionsFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := tag.RowsAffected()
	if rowsAffectedErr != nil {
		return 0, errors.Join(reactionstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, nil
}

// collectRows executes the query and decodes all rows.
//
// A failure after the query started returns the already-decoded rows as a truncated result.
func collectRows[T any](
	ctx context.Context,
	q *ReactionQuery,
	tx reactionstore.ReadTx,
	stmt sqlStatement,
	operation string,
	decode rowDecoder[T],
) reactionstore.Result[[]T] {

	rows, queryErr := q.executeQuery(ctx, tx, stmt, operation)
	if queryErr != nil {
		return reactionstore.Err[[]T](queryErr)
	}
	defer q.closeRows(ctx, rows)

	collected := make([]T, 0)
	for rows.Next() {
		item, decodeErr := decode(rows)
		if decodeErr != nil {
			return reactionstore.Truncated(collected, decodeErr)
		}

		collected = append(collected, item)
	}

	if iterErr := rows.Err(); iterErr != nil {
		return reactionstore.Truncated(collected, errors.Join(reactionstore.ErrIteratingDBRowsFailed, iterErr))
	}

	return reactionstore.Ok(collected)
}

// executeQuery executes the SQL query and logs it with timing information.
func (q *ReactionQuery) executeQuery(
	ctx context.Context,
	tx reactionstore.ReadTx,
	stmt sqlStatement,
	operation string,
) (reactionstore.Rows, error) {

	start := time.Now()
	rows, queryErr := tx.Query(ctx, stmt.query, stmt.args...)
	q.logQueryWithDuration(ctx, stmt.query, operation, time.Since(start))

	if queryErr != nil {
		return nil, errors.Join(reactionstore.ErrQueryingReactionsFailed, queryErr)
	}

	return rows, nil
}

// closeRows safely closes database rows and logs any errors.
func (q *ReactionQuery) closeRows(ctx context.Context, rows reactionstore.Rows) {
	if closeErr := rows.Close(); closeErr != nil {
		q.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

func (q *ReactionQuery) decodeReaction(rows reactionstore.Rows) (reactionstore.Reaction, error) {
	result := queryResultRow{}

	if scanErr := rows.Scan(result.scanTargets()...); scanErr != nil {
		return reactionstore.Reaction{}, errors.Join(reactionstore.ErrScanningDBRowFailed, scanErr)
	}

	reaction, mapErr := q.mapper.MapReaction(result.toRecord())
	if mapErr != nil {
		return reactionstore.Reaction{}, errors.Join(reactionstore.ErrMappingReactionFailed, mapErr)
	}

	return reaction, nil
}

func decodeReactor(rows reactionstore.Rows) (reactionstore.ReactorIdentity, error) {
	var stableID, secondaryID sql.NullString

	if scanErr := rows.Scan(&stableID, &secondaryID); scanErr != nil {
		return reactionstore.ReactorIdentity{}, errors.Join(reactionstore.ErrScanningDBRowFailed, scanErr)
	}

	reactor, buildErr := reactionstore.BuildReactorIdentity(stableID.String, secondaryID.String)
	if buildErr != nil {
		return reactionstore.ReactorIdentity{}, errors.Join(reactionstore.ErrMappingReactionFailed, buildErr)
	}

	return reactor, nil
}

func decodeEmojiCount(rows reactionstore.Rows) (reactionstore.EmojiCount, error) {
	var emoji string
	var count int64

	if scanErr := rows.Scan(&emoji, &count); scanErr != nil {
		return reactionstore.EmojiCount{}, errors.Join(reactionstore.ErrScanningDBRowFailed, scanErr)
	}

	return reactionstore.EmojiCount{Emoji: emoji, Count: int(count)}, nil
}

func decodeReactionKey(rows reactionstore.Rows) (string, error) {
	var rowID string

	if scanErr := rows.Scan(&rowID); scanErr != nil {
		return "", errors.Join(reactionstore.ErrScanningDBRowFailed, scanErr)
	}

	return rowID, nil
}
