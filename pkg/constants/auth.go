package constants

import "time"

const (
	// OAuth2GrantType is the grant type for JWT bearer tokens.
	OAuth2GrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	// OAuth2Assertion is the key for the assertion in the token request.
	OAuth2Assertion = "assertion"
	// OAuth2TokenURL is the URL for the Google OAuth2 token endpoint.
	OAuth2TokenURL = "https://oauth2.googleapis.com/token"
	// SpreadsheetsScope grants read/write access to Google Sheets.
	SpreadsheetsScope = "https://www.googleapis.com/auth/spreadsheets"

	// JWTAlgorithm is the only signing algorithm the assertion builder emits.
	JWTAlgorithm = "RS256"
	// JWTType is the typ header value.
	JWTType = "JWT"
	// AssertionLifetime is the gap between iat and exp.
	AssertionLifetime = time.Hour

	// GrantType is the grant type for the token request.
	GrantType = "grant_type"

	// TokenResponseAccessToken is the key for the access token in the token response.
	TokenResponseAccessToken = "access_token"
	// TokenResponseExpiresIn is the key for the expiration time in the token response.
	TokenResponseExpiresIn = "expires_in"
	// TokenResponseTokenType is the key for the token type in the token response.
	TokenResponseTokenType = "token_type"
	// TokenResponseError is the key for the error code in a failed token response.
	TokenResponseError = "error"
	// TokenResponseErrorDescription is the key for the human readable error.
	TokenResponseErrorDescription = "error_description"
)
