package reactionstore

// VisitSignal tells ForEachReaction whether to continue with the next reaction.
type VisitSignal int

const (
	// Continue asks for the next reaction.
	Continue VisitSignal = iota

	// Stop ends the iteration, no further reactions are visited.
	Stop
)

// String provides a string representation of VisitSignal for logging and debugging.
func (s VisitSignal) String() string {
	switch s {
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// Visitor is invoked once per reaction while iterating.
type Visitor interface {
	Visit(reaction Reaction) VisitSignal
}

// VisitorFunc is an adapter to allow the use of ordinary functions as Visitor.
type VisitorFunc func(reaction Reaction) VisitSignal

// Visit calls f(reaction).
func (f VisitorFunc) Visit(reaction Reaction) VisitSignal {
	return f(reaction)
}
