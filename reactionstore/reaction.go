package reactionstore

import (
	"time"
)

// Reactions is an alias type for a slice of Reaction.
type Reactions = []Reaction

// EmojiCounts is an alias type for a slice of EmojiCount.
type EmojiCounts = []EmojiCount

// Reaction is one reactor's emoji reaction on one message.
//
// A reactor has at most one active reaction per message. The Emoji changes in place
// when the reactor changes their reaction, the RowID stays the same.
type Reaction struct {
	RowID     string
	MessageID string
	Reactor   ReactorIdentity
	Emoji     string
	SortID    int64
	ReactedAt time.Time
	Read      bool
}

// EmojiCount pairs a distinct emoji used on a message with the number of reactors using it.
type EmojiCount struct {
	Emoji string
	Count int
}

// ReactionRecord is the raw shape of one stored reaction row.
//
// Nullable reactor identifiers are flattened to their string value plus a presence flag.
type ReactionRecord struct {
	UniqueRowID        string
	UniqueMessageID    string
	ReactorStableID    string
	HasStableID        bool
	ReactorSecondaryID string
	HasSecondaryID     bool
	Emoji              string
	SortID             int64
	Read               bool
	ReactedAtMillis    int64
}

// RecordMapper converts one raw reaction row into a Reaction.
//
// Implementations must not fail on well-formed rows.
type RecordMapper interface {
	MapReaction(record ReactionRecord) (Reaction, error)
}

// RecordMapperFunc is an adapter to allow the use of ordinary functions as RecordMapper.
type RecordMapperFunc func(record ReactionRecord) (Reaction, error)

// MapReaction calls f(record).
func (f RecordMapperFunc) MapReaction(record ReactionRecord) (Reaction, error) {
	return f(record)
}

// BuildReaction is the default RecordMapper.
//
// It returns ErrEmptyRowID if the record has no row id and ErrEmptyReactorIdentity
// if it carries neither a stable nor a secondary reactor identifier.
func BuildReaction(record ReactionRecord) (Reaction, error) {
	if record.UniqueRowID == "" {
		return Reaction{}, ErrEmptyRowID
	}

	var stableID, secondaryID string

	if record.HasStableID {
		stableID = record.ReactorStableID
	}

	if record.HasSecondaryID {
		secondaryID = record.ReactorSecondaryID
	}

	reactor, err := BuildReactorIdentity(stableID, secondaryID)
	if err != nil {
		return Reaction{}, err
	}

	return Reaction{
		RowID:     record.UniqueRowID,
		MessageID: record.UniqueMessageID,
		Reactor:   reactor,
		Emoji:     record.Emoji,
		SortID:    record.SortID,
		ReactedAt: time.UnixMilli(record.ReactedAtMillis).UTC(),
		Read:      record.Read,
	}, nil
}

var _ RecordMapper = RecordMapperFunc(BuildReaction)
