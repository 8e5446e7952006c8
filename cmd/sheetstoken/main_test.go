package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/vinm0/sheets-token/pkg/auth"
	"github.com/vinm0/sheets-token/pkg/config"
	"github.com/vinm0/sheets-token/pkg/sheets"
)

const clientEmail = "labx-sheets@labx-sheets.iam.gserviceaccount.com"

func writeKeyFile(t *testing.T) (string, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	body, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"client_email": clientEmail,
		"private_key":  string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})),
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "service-account.json")
	require.NoError(t, os.WriteFile(path, body, 0o600))
	return path, key
}

func testConfig(t *testing.T, keyPath, tokenURL string) config.Config {
	t.Helper()
	cfg, err := config.FromLookup(func(string) (string, bool) { return "", false })
	require.NoError(t, err)
	cfg.ServiceAccountFile = keyPath
	cfg.TokenURL = tokenURL
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestRun_PrintsJWTAndToken(t *testing.T) {
	keyPath, key := writeKeyFile(t)
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"ya29.cli","expires_in":3599,"token_type":"Bearer"}`))
	}))
	defer tokenSrv.Close()

	var out bytes.Buffer
	err := run(context.Background(), testConfig(t, keyPath, tokenSrv.URL), &out, discardLogger())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "JWT: "))
	assert.Equal(t, "Access Token: ya29.cli", lines[1])

	assertion := strings.TrimPrefix(lines[0], "JWT: ")
	claims := &auth.AssertionClaims{}
	tok, err := jwt.ParseWithClaims(assertion, claims, func(*jwt.Token) (any, error) {
		return &key.PublicKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}), jwt.WithIssuedAt())
	require.NoError(t, err)
	assert.True(t, tok.Valid)
	assert.Equal(t, clientEmail, claims.Iss)
}

func TestRun_ServerErrorFailsRun(t *testing.T) {
	keyPath, _ := writeKeyFile(t)
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid JWT Signature."}`))
	}))
	defer tokenSrv.Close()

	for _, strict := range []bool{false, true} {
		cfg := testConfig(t, keyPath, tokenSrv.URL)
		cfg.Strict = strict

		var out bytes.Buffer
		err := run(context.Background(), cfg, &out, discardLogger())
		var serverErr *auth.AuthServerError
		require.True(t, errors.As(err, &serverErr), "strict=%v got %T", strict, err)
		assert.Equal(t, "invalid_grant", serverErr.Code)
		assert.NotContains(t, out.String(), "Access Token")
	}
}

func TestRun_MissingTokenKeepsBody(t *testing.T) {
	keyPath, _ := writeKeyFile(t)
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"backend down"}`))
	}))
	defer tokenSrv.Close()

	var out bytes.Buffer
	err := run(context.Background(), testConfig(t, keyPath, tokenSrv.URL), &out, discardLogger())
	var missing *auth.MissingTokenError
	require.True(t, errors.As(err, &missing), "got %T", err)
	assert.Contains(t, err.Error(), `"message":"backend down"`)
	assert.NotContains(t, out.String(), "Access Token")
}

func TestRun_BadKeyPrintsNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"client_email":"a@b","private_key":"nope"}`), 0o600))

	var hit bool
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hit = true }))
	defer tokenSrv.Close()

	var out bytes.Buffer
	err := run(context.Background(), testConfig(t, path, tokenSrv.URL), &out, discardLogger())
	var keyErr *auth.KeyLoadError
	require.True(t, errors.As(err, &keyErr), "got %T", err)
	assert.Empty(t, out.String())
	assert.False(t, hit)
}

func TestRun_UnreachableEndpoint(t *testing.T) {
	keyPath, _ := writeKeyFile(t)
	tokenSrv := httptest.NewServer(http.NotFoundHandler())
	tokenURL := tokenSrv.URL
	tokenSrv.Close()

	var out bytes.Buffer
	err := run(context.Background(), testConfig(t, keyPath, tokenURL), &out, discardLogger())
	var transportErr *auth.TransportError
	require.True(t, errors.As(err, &transportErr), "got %T", err)
	assert.True(t, strings.HasPrefix(out.String(), "JWT: "))
	assert.NotContains(t, out.String(), "Access Token")
}

func TestRun_ListsSheetsWithToken(t *testing.T) {
	keyPath, _ := writeKeyFile(t)
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"ya29.sheets","expires_in":3599,"token_type":"Bearer"}`))
	}))
	defer tokenSrv.Close()

	var gotAuth string
	sheetsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sheets":[{"properties":{"sheetId":7,"title":"Lab 1","index":0}}]}`))
	}))
	defer sheetsSrv.Close()

	cfg := testConfig(t, keyPath, tokenSrv.URL)
	cfg.SpreadsheetID = "1AbC"

	var out bytes.Buffer
	err := run(context.Background(), cfg, &out, discardLogger(), option.WithEndpoint(sheetsSrv.URL+"/"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer ya29.sheets", gotAuth)
	assert.Contains(t, out.String(), "Sheet: 7 Lab 1\n")
}

func TestRun_ResolvesSheetName(t *testing.T) {
	keyPath, _ := writeKeyFile(t)
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"ya29.sheets","expires_in":3599,"token_type":"Bearer"}`))
	}))
	defer tokenSrv.Close()
	sheetsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sheets":[{"properties":{"sheetId":7,"title":"Lab 1","index":0}},{"properties":{"sheetId":99,"title":"Lab 2","index":1}}]}`))
	}))
	defer sheetsSrv.Close()

	cfg := testConfig(t, keyPath, tokenSrv.URL)
	cfg.SpreadsheetID = "1AbC"
	cfg.SheetName = "Lab 2"

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &out, discardLogger(), option.WithEndpoint(sheetsSrv.URL+"/")))
	assert.Contains(t, out.String(), "Sheet ID: 99\n")
	assert.NotContains(t, out.String(), "Sheet: ")

	cfg.SheetName = "Lab 3"
	out.Reset()
	err := run(context.Background(), cfg, &out, discardLogger(), option.WithEndpoint(sheetsSrv.URL+"/"))
	assert.ErrorIs(t, err, sheets.ErrSheetNotFound)
}
