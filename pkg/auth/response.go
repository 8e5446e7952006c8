package auth

import (
	"encoding/json"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/vinm0/sheets-token/pkg/constants"
)

// TokenResponse is the decoded JSON body of the token endpoint, kept as-is.
type TokenResponse map[string]any

// AccessToken reports the access_token field when it is a non-empty string.
func (r TokenResponse) AccessToken() (string, bool) {
	return r.str(constants.TokenResponseAccessToken)
}

// TokenType returns token_type, or "" when absent.
func (r TokenResponse) TokenType() string {
	s, _ := r.str(constants.TokenResponseTokenType)
	return s
}

// ErrorCode returns the OAuth2 error field, or "" on success.
func (r TokenResponse) ErrorCode() string {
	s, _ := r.str(constants.TokenResponseError)
	return s
}

func (r TokenResponse) ErrorDescription() string {
	s, _ := r.str(constants.TokenResponseErrorDescription)
	return s
}

// ExpiresIn returns expires_in as a duration. Google sends a number; a
// numeric string is accepted too.
func (r TokenResponse) ExpiresIn() (time.Duration, bool) {
	var secs float64
	switch v := r[constants.TokenResponseExpiresIn].(type) {
	case float64:
		secs = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		secs = f
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		secs = f
	default:
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// Err returns an *AuthServerError when the body carries an error field.
func (r TokenResponse) Err() error {
	if _, ok := r[constants.TokenResponseError]; !ok {
		return nil
	}
	return &AuthServerError{Code: r.ErrorCode(), Description: r.ErrorDescription()}
}

// Token converts a successful response into an oauth2.Token. Expiry is
// measured from now.
func (r TokenResponse) Token() (*oauth2.Token, error) {
	if err := r.Err(); err != nil {
		return nil, err
	}
	access, ok := r.AccessToken()
	if !ok {
		return nil, &MissingTokenError{Response: r}
	}
	tok := &oauth2.Token{
		AccessToken: access,
		TokenType:   r.TokenType(),
	}
	if d, ok := r.ExpiresIn(); ok && d > 0 {
		tok.Expiry = time.Now().Add(d)
		tok.ExpiresIn = int64(d / time.Second)
	}
	return tok.WithExtra(map[string]any(r)), nil
}

func (r TokenResponse) str(key string) (string, bool) {
	s, ok := r[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
