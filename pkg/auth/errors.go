package auth

import (
	"encoding/json"
	"fmt"
	"strings"
)

// KeyLoadError reports unusable service account credentials: a missing field,
// a private key that is not PEM, is encrypted, or is not RSA.
type KeyLoadError struct {
	Reason string
	Err    error
}

func (e *KeyLoadError) Error() string {
	if e.Err == nil {
		return "load key: " + e.Reason
	}
	return fmt.Sprintf("load key: %s: %v", e.Reason, e.Err)
}

func (e *KeyLoadError) Unwrap() error { return e.Err }

// SigningError reports a failure producing the RS256 signature.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string { return fmt.Sprintf("sign assertion: %v", e.Err) }

func (e *SigningError) Unwrap() error { return e.Err }

// TransportError reports a network level failure talking to the token endpoint.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("token request to %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ResponseFormatError reports a token endpoint body that is not a JSON object.
type ResponseFormatError struct {
	StatusCode int
	Body       []byte
	Err        error
}

// maxBodyInError bounds how much of a bad body ends up in an error message.
const maxBodyInError = 256

func (e *ResponseFormatError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if len(body) > maxBodyInError {
		body = body[:maxBodyInError] + "..."
	}
	return fmt.Sprintf("token response (status %d) is not a JSON object: %v: %q", e.StatusCode, e.Err, body)
}

func (e *ResponseFormatError) Unwrap() error { return e.Err }

// AuthServerError is an OAuth2 error returned by the token endpoint as data.
// The exchanger only returns it as an error in strict mode.
type AuthServerError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *AuthServerError) Error() string {
	code := e.Code
	if code == "" {
		code = "unknown_error"
	}
	msg := fmt.Sprintf("token endpoint error %s", code)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Description != "" {
		msg += ": " + e.Description
	}
	return msg
}

// MissingTokenError is a token response with neither access_token nor an
// OAuth2 error field. Response holds the decoded body unchanged.
type MissingTokenError struct {
	Response map[string]any
}

func (e *MissingTokenError) Error() string {
	body, err := json.Marshal(e.Response)
	if err != nil {
		return fmt.Sprintf("token response has no access_token: %v", e.Response)
	}
	return "token response has no access_token: " + string(body)
}
