package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// TokenSource implements oauth2.TokenSource.
// It signs a JWT with the service account's own private key and exchanges it
// for an access token on every call. Wrap it yourself if you want reuse.
// Used bare as an API client's token source, that means one signature and one
// token endpoint round trip per API request.
type TokenSource struct {
	ctx         context.Context
	credentials Credentials
	builder     *Builder
	exchanger   *Exchanger
}

// NewTokenSource returns a TokenSource bound to ctx. Nil builder or exchanger
// fall back to the defaults.
func NewTokenSource(ctx context.Context, creds Credentials, b *Builder, e *Exchanger) *TokenSource {
	if b == nil {
		b = NewBuilder()
	}
	if e == nil {
		e = &Exchanger{}
	}
	return &TokenSource{ctx: ctx, credentials: creds, builder: b, exchanger: e}
}

// Token satisfies the oauth2.TokenSource interface.
// Server side OAuth2 errors are always reported as errors here, whatever the
// exchanger's Strict setting.
func (s *TokenSource) Token() (*oauth2.Token, error) {
	// 1. Sign the assertion locally
	assertion, err := s.builder.BuildAssertion(s.credentials)
	if err != nil {
		return nil, err
	}

	// 2. Exchange it at the token endpoint
	resp, err := s.exchanger.Exchange(s.ctx, assertion)
	if err != nil {
		return nil, err
	}

	// 3. Convert the mapping
	tok, err := resp.Token()
	if err != nil {
		return nil, fmt.Errorf("exchange assertion for %s: %w", s.credentials.ClientEmail, err)
	}
	return tok, nil
}
