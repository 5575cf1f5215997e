package reactionstore

import (
	"errors"
)

var ErrEmptyMessageID = errors.New("empty message id supplied")
var ErrEmptyTableName = errors.New("empty reactions table name supplied")
var ErrUnsupportedDialect = errors.New("unsupported sql dialect supplied")
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrNilTransaction = errors.New("transaction must not be nil")
var ErrNilRecordMapper = errors.New("record mapper must not be nil")

var ErrNoRows = errors.New("no rows in result set")
var ErrEmptyRowID = errors.New("reaction record has an empty row id")

var ErrBuildingQueryFailed = errors.New("building the sql query failed")
var ErrQueryingReactionsFailed = errors.New("querying reactions failed")
var ErrScanningDBRowFailed = errors.New("scanning db row failed")
var ErrIteratingDBRowsFailed = errors.New("iterating db rows failed")
var ErrMappingReactionFailed = errors.New("mapping reaction record failed")
var ErrDeletingReactionsFailed = errors.New("deleting reactions failed")
var ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
var ErrBeginTxFailed = errors.New("beginning the transaction failed")
var ErrCommitTxFailed = errors.New("committing the transaction failed")
var ErrRollbackTxFailed = errors.New("rolling back the transaction failed")
