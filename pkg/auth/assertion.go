package auth

import (
	"crypto/rsa"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vinm0/sheets-token/pkg/constants"
)

// Credentials is the part of a service account key needed to sign an assertion.
type Credentials struct {
	ClientEmail string
	PrivateKey  string // PEM, PKCS#1 or PKCS#8, unencrypted
}

// Builder produces signed JWT bearer assertions. The zero value is usable and
// falls back to the spreadsheet scope, the Google token audience and a one hour
// lifetime. A Builder is safe for concurrent use.
type Builder struct {
	Scope    string
	Audience string
	// Subject is the user to impersonate under domain-wide delegation.
	// Left out of the claims when empty.
	Subject  string
	Lifetime time.Duration
	// Now overrides the clock; tests pin it to get reproducible output.
	Now func() time.Time
}

// NewBuilder returns a Builder with every default filled in explicitly.
func NewBuilder() *Builder {
	return &Builder{
		Scope:    constants.SpreadsheetsScope,
		Audience: constants.OAuth2TokenURL,
		Lifetime: constants.AssertionLifetime,
	}
}

// BuildAssertion signs an assertion for creds using the default Builder.
func BuildAssertion(creds Credentials) (string, error) {
	return NewBuilder().BuildAssertion(creds)
}

// BuildAssertion returns header.claims.signature, each segment base64url
// encoded without padding. The signature is RS256 over the first two segments.
func (b *Builder) BuildAssertion(creds Credentials) (string, error) {
	if strings.TrimSpace(creds.ClientEmail) == "" {
		return "", &KeyLoadError{Reason: "client_email is empty"}
	}
	if b.Lifetime < 0 {
		return "", fmt.Errorf("assertion lifetime %s must not be negative", b.Lifetime)
	}
	key, err := ParsePrivateKey(creds.PrivateKey)
	if err != nil {
		return "", err
	}

	iat := b.now().Unix()
	claims := &AssertionClaims{
		Iss:   creds.ClientEmail,
		Scope: b.scope(),
		Aud:   b.audience(),
		Sub:   b.Subject,
		Iat:   iat,
		Exp:   iat + int64(b.lifetime()/time.Second),
	}
	return sign(claims, key)
}

// sign encodes the fixed {"alg":"RS256","typ":"JWT"} header and claims, then
// signs them with RSA PKCS#1 v1.5 over SHA-256.
func sign(claims *AssertionClaims, key *rsa.PrivateKey) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", &SigningError{Err: err}
	}
	return signed, nil
}

// ParsePrivateKey decodes an unencrypted PEM RSA private key.
func ParsePrivateKey(privateKey string) (*rsa.PrivateKey, error) {
	if strings.TrimSpace(privateKey) == "" {
		return nil, &KeyLoadError{Reason: "private_key is empty"}
	}
	block, _ := pem.Decode([]byte(privateKey))
	if block == nil {
		return nil, &KeyLoadError{Reason: "private_key is not PEM encoded", Err: jwt.ErrKeyMustBePEMEncoded}
	}
	if block.Type == "ENCRYPTED PRIVATE KEY" || isEncryptedPEM(block) {
		return nil, &KeyLoadError{Reason: "private_key is encrypted"}
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKey))
	if err != nil {
		if errors.Is(err, jwt.ErrNotRSAPrivateKey) {
			return nil, &KeyLoadError{Reason: "private_key is not an RSA key", Err: err}
		}
		return nil, &KeyLoadError{Reason: "parse private_key", Err: err}
	}
	return key, nil
}

// isEncryptedPEM matches legacy OpenSSL "Proc-Type: 4,ENCRYPTED" blocks.
func isEncryptedPEM(block *pem.Block) bool {
	return strings.Contains(block.Headers["Proc-Type"], "ENCRYPTED")
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *Builder) scope() string {
	if b.Scope == "" {
		return constants.SpreadsheetsScope
	}
	return b.Scope
}

func (b *Builder) audience() string {
	if b.Audience == "" {
		return constants.OAuth2TokenURL
	}
	return b.Audience
}

func (b *Builder) lifetime() time.Duration {
	if b.Lifetime == 0 {
		return constants.AssertionLifetime
	}
	return b.Lifetime
}
