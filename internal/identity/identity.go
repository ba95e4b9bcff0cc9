// Package identity classifies interacting principals as authenticated
// account holders or anonymous visitors. Every persistence decision in the
// memory engine routes through this classification, which is what keeps the
// anonymous and authenticated partitions from cross-contaminating.
package identity

import "github.com/google/uuid"

// Kind is the classification of a principal identifier.
type Kind int

const (
	// Anonymous is an ephemeral, session-scoped visitor identity.
	Anonymous Kind = iota
	// Authenticated is a stable account-holder identity.
	Authenticated
)

// String returns the kind as a label for logs.
func (k Kind) String() string {
	if k == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Classify reports whether identifier is a stable authenticated identity.
// Authenticated identities are canonical UUIDs; anything else, including
// malformed input, classifies as Anonymous so that unexpected shapes fail
// toward the non-persistent path.
func Classify(identifier string) Kind {
	if _, err := uuid.Parse(identifier); err != nil {
		return Anonymous
	}
	return Authenticated
}

// IsAuthenticated is a convenience wrapper over Classify.
func IsAuthenticated(identifier string) bool {
	return Classify(identifier) == Authenticated
}
