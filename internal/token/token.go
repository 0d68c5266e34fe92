// Package token signs and verifies the access and refresh tokens used
// by the authentication endpoints.  Tokens are standard three-segment
// JWTs signed with RS256; the header carries the configured key ID and
// declares `exp` as a critical claim.  Verification is self-contained:
// signature plus embedded claims, no server-side session state.
package token

import (
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/2gazb/BargainDrivingServer/internal/model"
)

// Sentinel errors returned by Verify*.  Handlers and middleware map
// all four onto 401 responses but use the distinction for logging and
// tests.
var (
	ErrMalformedToken   = errors.New("token is malformed")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrTokenExpired     = errors.New("token is expired")
	ErrInvalidPayload   = errors.New("token payload has the wrong shape")
)

// Default lifetimes, matching what mobile clients were shipped with:
// access tokens live for an hour, refresh tokens for thirty days.
const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 30 * 24 * time.Hour
)

// Values of the `typ` claim.  Both token families are signed with the
// same key, so the payload itself has to say which family it belongs
// to; Verify* reject a token whose `typ` names the other family.
const (
	typAccess  = "access"
	typRefresh = "refresh"
)

// Signer issues and verifies tokens with a single RSA key pair.  The
// key pair is immutable for the lifetime of the process, so a Signer
// is safe for concurrent use.
type Signer struct {
	key        *rsa.PrivateKey
	kid        string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewSigner builds a Signer around the given private key.  Non-positive
// TTLs fall back to the defaults.
func NewSigner(key *rsa.PrivateKey, kid string, accessTTL, refreshTTL time.Duration) *Signer {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &Signer{
		key:        key,
		kid:        kid,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock overrides the clock used when stamping iat/exp claims.
// Intended for tests that need deterministic expirations.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	s.now = now
	return s
}

// SignAccess issues an access token for the user.  The claims carry
// the public profile fields and the role ordinal so that authorization
// can be decided without a credential store read.
func (s *Signer) SignAccess(u model.User) (string, error) {
	now := s.now().UTC()
	claims := AccessClaims{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Status:    int(u.Role),
		Typ:       typAccess,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	return s.sign(claims)
}

// SignRefresh issues a refresh token carrying only the user ID.
func (s *Signer) SignRefresh(u model.User) (string, error) {
	now := s.now().UTC()
	claims := RefreshClaims{
		ID:        u.ID,
		Typ:       typRefresh,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	return s.sign(claims)
}

// sign serializes the claims and signs header.payload with the private
// key.  The header declares the algorithm, the key ID and the critical
// claim names.
func (s *Signer) sign(claims jwt.Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	t.Header["kid"] = s.kid
	t.Header["crit"] = []string{"exp"}
	return t.SignedString(s.key)
}

// VerifyAccess checks signature and expiration of an access token and
// returns its claims.
func (s *Signer) VerifyAccess(raw string) (AccessClaims, error) {
	var claims AccessClaims
	if err := s.verify(raw, &claims); err != nil {
		return AccessClaims{}, err
	}
	// A structurally valid JWT whose payload is not an access payload
	// (e.g. a refresh token) carries the wrong `typ` or decodes to zero
	// values here.
	if claims.Typ != typAccess || claims.ID == 0 || claims.Username == "" {
		return AccessClaims{}, ErrInvalidPayload
	}
	return claims, nil
}

// VerifyRefresh checks signature and expiration of a refresh token and
// returns its claims.
func (s *Signer) VerifyRefresh(raw string) (RefreshClaims, error) {
	var claims RefreshClaims
	if err := s.verify(raw, &claims); err != nil {
		return RefreshClaims{}, err
	}
	// An access token decodes cleanly into RefreshClaims because its
	// extra fields are ignored; the `typ` discriminator is what keeps a
	// short-lived access token from being redeemed as a refresh token.
	if claims.Typ != typRefresh || claims.ID == 0 {
		return RefreshClaims{}, ErrInvalidPayload
	}
	return claims, nil
}

func (s *Signer) verify(raw string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return &s.key.PublicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformedToken
	default:
		return ErrInvalidSignature
	}
}
