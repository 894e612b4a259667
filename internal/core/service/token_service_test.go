package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixcities/rental-api/internal/core/domain"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestTokenService(t *testing.T, secret, expiresIn string, now time.Time) *TokenService {
	t.Helper()
	svc, err := NewTokenService(secret, expiresIn, zerolog.Nop(), WithClock(clockAt(now)))
	require.NoError(t, err)
	return svc
}

func TestParseExpiration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"15m", 15 * time.Minute},
		{"24h", 24 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{" 2h ", 2 * time.Hour},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseExpiration(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseExpiration_Invalid(t *testing.T) {
	for _, in := range []string{"", "24", "h", "1w", "1.5h", "-1h", "0h", "24H", "99999999999999999999d"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseExpiration(in)
			require.ErrorIs(t, err, ErrInvalidExpiration)
		})
	}
}

func TestNewTokenService_ConfigErrors(t *testing.T) {
	_, err := NewTokenService("", "24h", zerolog.Nop())
	require.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewTokenService("secret", "1y", zerolog.Nop())
	require.ErrorIs(t, err, ErrInvalidExpiration)
}

func TestNewTokenService_DefaultExpiration(t *testing.T) {
	svc, err := NewTokenService("secret", "", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, svc.TTL())
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := newTestTokenService(t, "secret", "24h", fixedNow)
	subjects := []domain.Identity{
		{SubjectID: "65f1c0ffee0000000000abcd", Email: "alice@example.com", AccountType: domain.AccountPro},
		{SubjectID: "65f1c0ffee0000000000dcba", Email: "bob@example.com", AccountType: domain.AccountRegular},
		{SubjectID: "u-1", Email: "", AccountType: ""},
	}

	for _, subject := range subjects {
		token, err := svc.Issue(subject)
		require.NoError(t, err)

		payload, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, subject, payload.Identity())
	}
}

func TestTokenService_ExpiryIsExact(t *testing.T) {
	svc := newTestTokenService(t, "secret", "24h", fixedNow)

	token, err := svc.Issue(domain.Identity{SubjectID: "u1", Email: "u1@example.com", AccountType: domain.AccountRegular})
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	iat, err := claims.GetIssuedAt()
	require.NoError(t, err)

	assert.Equal(t, fixedNow.Unix(), iat.Unix())
	assert.Equal(t, fixedNow.Unix()+86400, exp.Unix())

	payload, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(24*time.Hour).Unix(), payload.ExpiresAt.Unix())
}

func TestTokenService_ExpiredTokenRejected(t *testing.T) {
	issuer := newTestTokenService(t, "secret", "1h", fixedNow)
	token, err := issuer.Issue(domain.Identity{SubjectID: "u1"})
	require.NoError(t, err)

	justBefore := newTestTokenService(t, "secret", "1h", fixedNow.Add(time.Hour-time.Second))
	_, err = justBefore.Verify(token)
	require.NoError(t, err)

	for _, at := range []time.Time{fixedNow.Add(time.Hour), fixedNow.Add(48 * time.Hour)} {
		verifier := newTestTokenService(t, "secret", "1h", at)
		_, err := verifier.Verify(token)
		require.ErrorIs(t, err, domain.ErrInvalidToken, "verify at %s", at)
	}
}

func TestTokenService_WrongSecretRejected(t *testing.T) {
	issuer := newTestTokenService(t, "right-secret", "24h", fixedNow)
	verifier := newTestTokenService(t, "wrong-secret", "24h", fixedNow)

	token, err := issuer.Issue(domain.Identity{SubjectID: "u2"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_MalformedRejected(t *testing.T) {
	svc := newTestTokenService(t, "secret", "24h", fixedNow)
	for _, token := range []string{"", "not-a-token", "not.a.jwt", "a.b"} {
		_, err := svc.Verify(token)
		require.ErrorIs(t, err, domain.ErrInvalidToken, "token %q", token)
	}
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	svc := newTestTokenService(t, "secret", "24h", fixedNow)

	claims := jwt.MapClaims{"sub": "u1", "iat": fixedNow.Unix(), "exp": fixedNow.Add(time.Hour).Unix()}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.Verify(hs512)
	require.ErrorIs(t, err, domain.ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(none)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_RequiresExpiryAndSubject(t *testing.T) {
	svc := newTestTokenService(t, "secret", "24h", fixedNow)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "iat": fixedNow.Unix()}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.Verify(noExp)
	require.ErrorIs(t, err, domain.ErrInvalidToken)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"iat": fixedNow.Unix(), "exp": fixedNow.Add(time.Hour).Unix()}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.Verify(noSub)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_IssueRequiresSubject(t *testing.T) {
	svc := newTestTokenService(t, "secret", "24h", fixedNow)
	_, err := svc.Issue(domain.Identity{Email: "x@example.com"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrInvalidToken))
}
