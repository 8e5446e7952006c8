package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vinm0/sheets-token/pkg/constants"
)

// Exchanger trades a signed assertion for an access token using the
// JWT-bearer grant. It never retries and keeps no state between calls.
type Exchanger struct {
	// TokenURL defaults to the Google OAuth2 token endpoint.
	TokenURL string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
	// Timeout bounds a single exchange. Zero waits as long as the transport does.
	Timeout time.Duration
	// Strict reports OAuth2 error bodies as *AuthServerError. By default they
	// are returned as data with a nil error.
	Strict bool
}

// ExchangeForToken posts assertion to the default token endpoint.
func ExchangeForToken(ctx context.Context, assertion string) (TokenResponse, error) {
	return (&Exchanger{}).Exchange(ctx, assertion)
}

// Exchange posts grant_type and assertion as a form and decodes the JSON
// answer whatever the HTTP status. Callers inspect the returned mapping for
// access_token or error.
func (e *Exchanger) Exchange(ctx context.Context, assertion string) (TokenResponse, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	tokenURL := e.tokenURL()
	v := url.Values{}
	v.Set(constants.GrantType, constants.OAuth2GrantType)
	v.Set(constants.OAuth2Assertion, assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(v.Encode()))
	if err != nil {
		return nil, &TransportError{URL: tokenURL, Err: err}
	}
	req.Header.Set(constants.HTTPContentType, constants.HTTPAppForm)

	resp, err := e.client().Do(req)
	if err != nil {
		return nil, &TransportError{URL: tokenURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: tokenURL, Err: err}
	}

	var result TokenResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &ResponseFormatError{StatusCode: resp.StatusCode, Body: body, Err: err}
	}
	if result == nil {
		return nil, &ResponseFormatError{StatusCode: resp.StatusCode, Body: body, Err: errors.New("body is null")}
	}

	if e.Strict {
		if err := strictCheck(resp.StatusCode, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func strictCheck(status int, result TokenResponse) error {
	_, hasToken := result.AccessToken()
	_, hasError := result[constants.TokenResponseError]
	ok := status >= 200 && status < 300
	if !hasError && ok && hasToken {
		return nil
	}
	return &AuthServerError{
		StatusCode:  status,
		Code:        result.ErrorCode(),
		Description: result.ErrorDescription(),
	}
}

func (e *Exchanger) tokenURL() string {
	if e.TokenURL == "" {
		return constants.OAuth2TokenURL
	}
	return e.TokenURL
}

func (e *Exchanger) client() *http.Client {
	if e.HTTPClient == nil {
		return http.DefaultClient
	}
	return e.HTTPClient
}
