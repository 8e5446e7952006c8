// Package credentials reads Google service account key files.
package credentials

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vinm0/sheets-token/pkg/auth"
)

// ServiceAccount mirrors the JSON key export of a Google service account.
type ServiceAccount struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
}

// Load reads and parses the key file at path.
func Load(path string) (*ServiceAccount, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &auth.KeyLoadError{Reason: fmt.Sprintf("read %s", path), Err: err}
	}
	return Parse(b)
}

// Parse decodes a key file and checks that client_email and private_key are set.
func Parse(b []byte) (*ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal(b, &sa); err != nil {
		return nil, &auth.KeyLoadError{Reason: "decode service account json", Err: err}
	}
	if sa.ClientEmail == "" {
		return nil, &auth.KeyLoadError{Reason: "service account json has no client_email"}
	}
	if sa.PrivateKey == "" {
		return nil, &auth.KeyLoadError{Reason: "service account json has no private_key"}
	}
	return &sa, nil
}

// Credentials returns the signing inputs for the assertion builder.
func (sa *ServiceAccount) Credentials() auth.Credentials {
	return auth.Credentials{
		ClientEmail: sa.ClientEmail,
		PrivateKey:  sa.PrivateKey,
	}
}
