package sqlengine

import (
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"    // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect import
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
)

const (
	colUniqueRowID        = "unique_row_id"
	colUniqueMessageID    = "unique_message_id"
	colReactorStableID    = "reactor_stable_id"
	colReactorSecondaryID = "reactor_secondary_id"
	colEmoji              = "emoji"
	colSortID             = "sort_id"
	colIsRead             = "is_read"
	colReactedAtMS        = "reacted_at_ms"
	aliasEmojiCount       = "emoji_count"
	literalOne            = "1"
)

type sqlQueryString = string

// sqlStatement is a built SQL statement with its positional arguments.
type sqlStatement struct {
	query sqlQueryString
	args  []any
}

func isSupportedDialect(dialect string) bool {
	switch dialect {
	case dialectPostgres, dialectSQLite, dialectMySQL:
		return true
	default:
		return false
	}
}

// reactionColumns is the column order scanned by queryResultRow.scanTargets.
func reactionColumns() []any {
	return []any{
		colUniqueRowID,
		colUniqueMessageID,
		colReactorStableID,
		colReactorSecondaryID,
		colEmoji,
		colSortID,
		colIsRead,
		colReactedAtMS,
	}
}

// messageFilter restricts a statement to the rows of the bound message.
func (q *ReactionQuery) messageFilter() exp.Expression {
	return goqu.C(colUniqueMessageID).Eq(q.messageID)
}

func (q *ReactionQuery) selectFromMessage() *goqu.SelectDataset {
	return goqu.Dialect(q.dialect).
		From(q.tableName).
		Prepared(true).
		Where(q.messageFilter())
}

func (q *ReactionQuery) buildSelectReactionsQuery(unreadOnly bool) (sqlStatement, error) {
	selectStmt := q.selectFromMessage().
		Select(reactionColumns()...).
		Order(goqu.C(colSortID).Desc())

	if unreadOnly {
		selectStmt = selectStmt.Where(goqu.C(colIsRead).IsFalse())
	}

	return toStatement(selectStmt)
}

func (q *ReactionQuery) buildLookupQuery(step reactionstore.LookupStep) (sqlStatement, error) {
	var lookupColumn string

	switch step.Column {
	case reactionstore.LookupByStableID:
		lookupColumn = colReactorStableID
	case reactionstore.LookupBySecondaryID:
		lookupColumn = colReactorSecondaryID
	default:
		return sqlStatement{}, errors.Join(reactionstore.ErrBuildingQueryFailed, errUnknownLookupColumn)
	}

	selectStmt := q.selectFromMessage().
		Select(reactionColumns()...).
		Where(goqu.C(lookupColumn).Eq(step.Value)).
		Order(goqu.C(colSortID).Desc()).
		Limit(1)

	return toStatement(selectStmt)
}

func (q *ReactionQuery) buildSelectReactorsQuery(emoji string) (sqlStatement, error) {
	selectStmt := q.selectFromMessage().
		Select(colReactorStableID, colReactorSecondaryID).
		Where(goqu.C(colEmoji).Eq(emoji)).
		Order(goqu.C(colSortID).Desc())

	return toStatement(selectStmt)
}

func (q *ReactionQuery) buildEmojiCountsQuery() (sqlStatement, error) {
	selectStmt := q.selectFromMessage().
		Select(colEmoji, goqu.COUNT(goqu.Star()).As(aliasEmojiCount)).
		GroupBy(colEmoji).
		Order(goqu.C(aliasEmojiCount).Desc(), goqu.MIN(colSortID).Asc())

	return toStatement(selectStmt)
}

func (q *ReactionQuery) buildExistsQuery() (sqlStatement, error) {
	selectStmt := q.selectFromMessage().
		Select(goqu.L(literalOne)).
		Limit(1)

	return toStatement(selectStmt)
}

func (q *ReactionQuery) buildSelectOldestFirstQuery(columns ...any) (sqlStatement, error) {
	selectStmt := q.selectFromMessage().
		Select(columns...).
		Order(goqu.C(colSortID).Asc())

	return toStatement(selectStmt)
}

func (q *ReactionQuery) buildDeleteQuery() (sqlStatement, error) {
	deleteStmt := goqu.Dialect(q.dialect).
		Delete(q.tableName).
		Prepared(true).
		Where(q.messageFilter())

	sqlQuery, args, toSQLErr := deleteStmt.ToSQL()
	if toSQLErr != nil {
		return sqlStatement{}, errors.Join(reactionstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlStatement{query: sqlQuery, args: args}, nil
}

func toStatement(selectStmt *goqu.SelectDataset) (sqlStatement, error) {
	sqlQuery, args, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return sqlStatement{}, errors.Join(reactionstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlStatement{query: sqlQuery, args: args}, nil
}

var errUnknownLookupColumn = errors.New("unknown lookup column")
