package token

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/2gazb/BargainDrivingServer/internal/model"
)

// AccessClaims is the payload carried by access tokens.  Besides the
// expiration claims it embeds enough of the user's profile that most
// requests can be served without touching the credential store.  The
// role travels as its raw ordinal under the `status` key, and `typ`
// discriminates the payload kind so the two token families can never
// stand in for each other.
type AccessClaims struct {
	ID        uint64           `json:"id"`
	Username  string           `json:"username"`
	FirstName *string          `json:"firstName,omitempty"`
	LastName  *string          `json:"lastName,omitempty"`
	Status    int              `json:"status"`
	Typ       string           `json:"typ"`
	ExpiresAt *jwt.NumericDate `json:"exp"`
	IssuedAt  *jwt.NumericDate `json:"iat"`
}

// RefreshClaims is the payload carried by refresh tokens.  It
// deliberately contains only the user ID and the `typ` discriminator;
// the profile is re-fetched from the credential store when the token
// is redeemed.
type RefreshClaims struct {
	ID        uint64           `json:"id"`
	Typ       string           `json:"typ"`
	ExpiresAt *jwt.NumericDate `json:"exp"`
	IssuedAt  *jwt.NumericDate `json:"iat"`
}

// Role returns the role ordinal embedded in the claims.
func (c AccessClaims) Role() model.Role { return model.Role(c.Status) }

func (c AccessClaims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }
func (c AccessClaims) GetIssuedAt() (*jwt.NumericDate, error)       { return c.IssuedAt, nil }
func (c AccessClaims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c AccessClaims) GetIssuer() (string, error)                   { return "", nil }
func (c AccessClaims) GetSubject() (string, error)                  { return "", nil }
func (c AccessClaims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

func (c RefreshClaims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }
func (c RefreshClaims) GetIssuedAt() (*jwt.NumericDate, error)       { return c.IssuedAt, nil }
func (c RefreshClaims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c RefreshClaims) GetIssuer() (string, error)                   { return "", nil }
func (c RefreshClaims) GetSubject() (string, error)                  { return "", nil }
func (c RefreshClaims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }
