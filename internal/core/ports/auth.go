package ports

import (
	"context"

	"github.com/sixcities/rental-api/internal/core/domain"
)

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	Issue(subject domain.Identity) (string, error)
}

// TokenVerifier checks identity tokens. Any failure wraps domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (domain.TokenPayload, error)
}

// PasswordHasher hashes and checks credentials. A wrong password is
// (false, nil); only malformed digests or library failures return an error.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

// LoginThrottle limits repeated failed logins for the same account.
type LoginThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// OwnerLookup resolves the owning identity of a resource, or a not-found error.
type OwnerLookup interface {
	OwnerOf(ctx context.Context, id string) (string, error)
}

// OwnerLookupFunc adapts a function to OwnerLookup.
type OwnerLookupFunc func(ctx context.Context, id string) (string, error)

func (f OwnerLookupFunc) OwnerOf(ctx context.Context, id string) (string, error) {
	return f(ctx, id)
}
