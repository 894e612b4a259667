package domain

import (
	"strings"
	"time"
)

// Identity is the authenticated subject attached to a request. It lives only
// for the duration of that request and is never persisted.
type Identity struct {
	SubjectID   string
	Email       string
	AccountType AccountType
}

// TokenPayload is the verified content of an identity token.
type TokenPayload struct {
	SubjectID   string
	Email       string
	AccountType AccountType
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// Identity drops the timing claims.
func (p TokenPayload) Identity() Identity {
	return Identity{SubjectID: p.SubjectID, Email: p.Email, AccountType: p.AccountType}
}

// NormalizeID canonicalises an opaque identifier for equality checks.
// ObjectID hex strings are case-insensitive.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Owns reports whether the identity is the recorded owner. An empty owner
// never matches.
func (i Identity) Owns(ownerID string) bool {
	owner := NormalizeID(ownerID)
	if owner == "" {
		return false
	}
	return NormalizeID(i.SubjectID) == owner
}
