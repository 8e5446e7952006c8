package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AssertionClaims is the claim set of a JWT bearer assertion. Fields are
// encoded in declaration order and used verbatim: a zero iat stays zero.
type AssertionClaims struct {
	Iss   string `json:"iss"`
	Scope string `json:"scope,omitempty"`
	Aud   string `json:"aud"`
	Exp   int64  `json:"exp"`
	Iat   int64  `json:"iat"`
	Sub   string `json:"sub,omitempty"`
}

var _ jwt.Claims = (*AssertionClaims)(nil)

func (c *AssertionClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.Exp, 0)), nil
}

func (c *AssertionClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.Iat, 0)), nil
}

func (c *AssertionClaims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }

func (c *AssertionClaims) GetIssuer() (string, error) { return c.Iss, nil }

func (c *AssertionClaims) GetSubject() (string, error) { return c.Sub, nil }

// GetAudience wraps aud for validation only; on the wire it stays a plain
// string, which the Google token endpoint requires.
func (c *AssertionClaims) GetAudience() (jwt.ClaimStrings, error) {
	return jwt.ClaimStrings{c.Aud}, nil
}
