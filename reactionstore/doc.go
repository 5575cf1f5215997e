// Package reactionstore provides core abstractions and types for querying
// emoji reactions attached to chat messages.
//
// This package defines the types shared by the storage engine implementations,
// including reactions, reactor identities, transaction handles, observability
// interfaces, and common error definitions.
//
// Key types:
//   - Reaction: One reactor's reaction on one message
//   - ReactorIdentity: A tagged identity with a stable and/or a secondary identifier
//   - ReadTx / WriteTx: Caller-supplied transaction handles
//   - Visitor: Callback used when iterating reactions, may signal Stop
//   - Result: Distinguishes Ok, Err, and Truncated storage call outcomes
//
// Common usage pattern:
//
//	query, err := sqlengine.NewReactionQuery(messageID)
//	if err != nil {
//		// handle error
//	}
//
//	err = txManager.InReadTx(ctx, func(tx reactionstore.ReadTx) error {
//		reactions := query.AllReactions(ctx, tx)
//		counts := query.EmojiCounts(ctx, tx)
//		// ...
//		return nil
//	})
package reactionstore
