package reactionstore

import "context"

// ReadSource names the database a managed read transaction runs on.
type ReadSource int

const (
	// PrimarySource is the default. Reads see every committed delete, so reactions
	// removed a moment ago don't show up again.
	PrimarySource ReadSource = iota

	// ReplicaSource lets read transactions run on a replica if one is configured.
	// Replica reads can lag behind the primary, which is fine for rendering
	// reaction summaries but not for a read that follows a delete.
	ReplicaSource
)

type readSourceKey struct{}

// ReadFromReplica marks ctx so that managed read transactions may use the replica pool.
// Write transactions always run on the primary.
func ReadFromReplica(ctx context.Context) context.Context {
	return context.WithValue(ctx, readSourceKey{}, ReplicaSource)
}

// ReadFromPrimary marks ctx so that managed read transactions use the primary pool,
// overriding an earlier ReadFromReplica.
func ReadFromPrimary(ctx context.Context) context.Context {
	return context.WithValue(ctx, readSourceKey{}, PrimarySource)
}

// ReadSourceFrom returns the read source requested by ctx, PrimarySource if none was set.
func ReadSourceFrom(ctx context.Context) ReadSource {
	source, ok := ctx.Value(readSourceKey{}).(ReadSource)
	if !ok {
		return PrimarySource
	}

	return source
}

// String returns the log and span representation of the read source.
func (s ReadSource) String() string {
	switch s {
	case PrimarySource:
		return "primary"
	case ReplicaSource:
		return "replica"
	default:
		return "unknown"
	}
}
