package utils // package utils provides small helpers shared across packages

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleOperator is the role claim required to trigger ingestion runs.
const RoleOperator = "OPERATOR"

// AccessToken is a signed HS256 JWT along with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken signs an HS256 JWT for subject with the given role.  The
// token carries the standard sub, exp and iat claims plus a role claim
// that RequireRole checks on protected routes.
func NewAccessToken(secret, subject, role string, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
