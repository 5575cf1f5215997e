package reactionstore

import (
	"errors"
)

var ErrEmptyReactorIdentity = errors.New("reactor identity needs a stable or a secondary identifier")

// IdentityKind tags which identifiers a ReactorIdentity carries.
type IdentityKind int

const (
	// StableOnly identities carry only the persistent user identifier.
	StableOnly IdentityKind = iota + 1

	// SecondaryOnly identities carry only the secondary identifier, e.g., a phone number.
	SecondaryOnly

	// StableAndSecondary identities carry both identifiers.
	StableAndSecondary
)

// String provides a string representation of IdentityKind for logging and debugging.
func (k IdentityKind) String() string {
	switch k {
	case StableOnly:
		return "stable"
	case SecondaryOnly:
		return "secondary"
	case StableAndSecondary:
		return "stable_and_secondary"
	default:
		return "unknown"
	}
}

// ReactorIdentity identifies who reacted to a message.
//
// It carries a stable identifier, a secondary identifier, or both. It must only be
// constructed with the supplied factory methods:
//   - IdentityFromStableID
//   - IdentityFromSecondaryID
//   - BuildReactorIdentity
type ReactorIdentity struct {
	kind        IdentityKind
	stableID    string
	secondaryID string
}

// IdentityFromStableID builds a ReactorIdentity that only carries a stable identifier.
func IdentityFromStableID(stableID string) ReactorIdentity {
	return ReactorIdentity{kind: StableOnly, stableID: stableID}
}

// IdentityFromSecondaryID builds a ReactorIdentity that only carries a secondary identifier.
func IdentityFromSecondaryID(secondaryID string) ReactorIdentity {
	return ReactorIdentity{kind: SecondaryOnly, secondaryID: secondaryID}
}

// BuildReactorIdentity builds a ReactorIdentity from optional identifiers, an empty string meaning absent.
//
// Returns ErrEmptyReactorIdentity if both identifiers are empty.
func BuildReactorIdentity(stableID string, secondaryID string) (ReactorIdentity, error) {
	switch {
	case stableID != "" && secondaryID != "":
		return ReactorIdentity{kind: StableAndSecondary, stableID: stableID, secondaryID: secondaryID}, nil

	case stableID != "":
		return IdentityFromStableID(stableID), nil

	case secondaryID != "":
		return IdentityFromSecondaryID(secondaryID), nil

	default:
		return ReactorIdentity{}, ErrEmptyReactorIdentity
	}
}

// Kind returns which identifiers this identity carries.
func (r ReactorIdentity) Kind() IdentityKind {
	return r.kind
}

// StableID returns the stable identifier and whether it is present.
func (r ReactorIdentity) StableID() (string, bool) {
	return r.stableID, r.kind == StableOnly || r.kind == StableAndSecondary
}

// SecondaryID returns the secondary identifier and whether it is present.
func (r ReactorIdentity) SecondaryID() (string, bool) {
	return r.secondaryID, r.kind == SecondaryOnly || r.kind == StableAndSecondary
}

// IsZero reports whether the identity was never built.
func (r ReactorIdentity) IsZero() bool {
	return r.kind == 0
}

// LookupColumn names the identifier a LookupStep matches on.
type LookupColumn int

const (
	LookupByStableID LookupColumn = iota + 1
	LookupBySecondaryID
)

// LookupStep is one step of resolving a ReactorIdentity to a stored reaction.
type LookupStep struct {
	Column LookupColumn
	Value  string
}

// LookupPlan returns the ordered lookup steps for this identity.
//
// The stable identifier always comes first, so a stable-id match wins over a
// secondary-id match even when both identifiers are present.
// The zero ReactorIdentity yields an empty plan.
func (r ReactorIdentity) LookupPlan() []LookupStep {
	plan := make([]LookupStep, 0, 2)

	if stableID, ok := r.StableID(); ok {
		plan = append(plan, LookupStep{Column: LookupByStableID, Value: stableID})
	}

	if secondaryID, ok := r.SecondaryID(); ok {
		plan = append(plan, LookupStep{Column: LookupBySecondaryID, Value: secondaryID})
	}

	return plan
}
