package main

import (
	"context"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
	"github.com/AntonStoeckl/message-reactions-go/reactionstore/sqlengine"
)

// InspectionReport is the JSON document printed for one message.
type InspectionReport struct {
	MessageID         string           `json:"message_id"`
	AnyReactionExists bool             `json:"any_reaction_exists"`
	EmojiCounts       []EmojiCountView `json:"emoji_counts"`
	Reactions         []ReactionView   `json:"reactions"`
	UnreadCount       int              `json:"unread_count"`
	ReactionKeys      []string         `json:"reaction_keys"`
	FirstReaction     *ReactionView    `json:"first_reaction,omitempty"`
	ReactorReaction   *ReactionView    `json:"reactor_reaction,omitempty"`
	EmojiReactors     []ReactorView    `json:"emoji_reactors,omitempty"`
	Deleted           bool             `json:"deleted,omitempty"`
}

type EmojiCountView struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

type ReactorView struct {
	StableID    string `json:"stable_id,omitempty"`
	SecondaryID string `json:"secondary_id,omitempty"`
}

type ReactionView struct {
	RowID     string      `json:"row_id"`
	Reactor   ReactorView `json:"reactor"`
	Emoji     string      `json:"emoji"`
	SortID    int64       `json:"sort_id"`
	ReactedAt time.Time   `json:"reacted_at"`
	Read      bool        `json:"read"`
}

func toReactorView(reactor reactionstore.ReactorIdentity) ReactorView {
	stableID, _ := reactor.StableID()
	secondaryID, _ := reactor.SecondaryID()

	return ReactorView{StableID: stableID, SecondaryID: secondaryID}
}

func toReactionView(reaction reactionstore.Reaction) ReactionView {
	return ReactionView{
		RowID:     reaction.RowID,
		Reactor:   toReactorView(reaction.Reactor),
		Emoji:     reaction.Emoji,
		SortID:    reaction.SortID,
		ReactedAt: reaction.ReactedAt,
		Read:      reaction.Read,
	}
}

// inspect runs all read operations for the message in one read transaction and, if requested,
// deletes the reactions in a separate write transaction afterwards.
// With flags.ReplicaReads the read transaction may run on the replica, the delete never does.
func inspect(
	ctx context.Context,
	txManager *sqlengine.TxManager,
	query *sqlengine.ReactionQuery,
	flags Flags,
) (InspectionReport, error) {

	report := InspectionReport{MessageID: query.MessageID()}

	if flags.ReplicaReads {
		ctx = reactionstore.ReadFromReplica(ctx)
	}

	readErr := txManager.InReadTx(ctx, func(tx reactionstore.ReadTx) error {

		report.AnyReactionExists = query.AnyReactionExists(ctx, tx)

		for _, count := range query.EmojiCounts(ctx, tx) {
			report.EmojiCounts = append(report.EmojiCounts, EmojiCountView{Emoji: count.Emoji, Count: count.Count})
		}

		report.Reactions = make([]ReactionView, 0)
		for _, reaction := range query.AllReactions(ctx, tx) {
			report.Reactions = append(report.Reactions, toReactionView(reaction))
		}

		report.UnreadCount = len(query.UnreadReactions(ctx, tx))
		report.ReactionKeys = query.AllReactionKeys(ctx, tx)

		query.ForEachReaction(ctx, tx, reactionstore.VisitorFunc(func(reaction reactionstore.Reaction) reactionstore.VisitSignal {
			first := toReactionView(reaction)
			report.FirstReaction = &first

			return reactionstore.Stop
		}))

		if reactor, err := reactionstore.BuildReactorIdentity(flags.StableID, flags.SecondaryID); err == nil {
			if reaction, found := query.ReactionBy(ctx, tx, reactor); found {
				view := toReactionView(reaction)
				report.ReactorReaction = &view
			}
		}

		if flags.Emoji != "" {
			report.EmojiReactors = make([]ReactorView, 0)
			for _, reactor := range query.ReactorsFor(ctx, tx, flags.Emoji) {
				report.EmojiReactors = append(report.EmojiReactors, toReactorView(reactor))
			}
		}

		return nil
	})
	if readErr != nil {
		return InspectionReport{}, readErr
	}

	if report.EmojiCounts == nil {
		report.EmojiCounts = make([]EmojiCountView, 0)
	}

	if !flags.Delete {
		return report, nil
	}

	deleteErr := txManager.InWriteTx(ctx, func(tx reactionstore.WriteTx) error {
		return query.DeleteAllReactions(ctx, tx)
	})
	if deleteErr != nil {
		return InspectionReport{}, deleteErr
	}

	report.Deleted = true

	return report, nil
}

func writeReport(w io.Writer, report InspectionReport) error {
	encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(report)
}
