package pangenome

import "errors"

// Sentinel errors returned by the graph model. Callers match them with
// errors.Is; every returned error wraps one of these with context.
var (
	// ErrNotFound reports a lookup for a key that is not in the graph.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate reports an insertion that would reuse an existing key.
	ErrDuplicate = errors.New("duplicate key")

	// ErrInvariant reports a structural invariant violation during graph
	// construction (e.g. an edge between genes of different organisms).
	// It indicates an upstream logic bug, not a recoverable condition.
	ErrInvariant = errors.New("invariant violation")

	// ErrNoPartition reports a partition query on a family whose partition
	// has not been assigned yet.
	ErrNoPartition = errors.New("family has no partition")

	// ErrEmptyRegion reports an operation that needs at least one gene in
	// the region.
	ErrEmptyRegion = errors.New("region has no genes")
)
