// Command sheetstoken signs a service account JWT, exchanges it for an
// OAuth2 access token and prints both. With SPREADSHEET_ID set it also lists
// the tabs of that spreadsheet as a smoke test of the token, or only the id of
// the tab named by SHEET_NAME.
//
// The key file path is the first argument, or SERVICE_ACCOUNT_FILE.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/vinm0/sheets-token/pkg/auth"
	"github.com/vinm0/sheets-token/pkg/config"
	"github.com/vinm0/sheets-token/pkg/credentials"
	"github.com/vinm0/sheets-token/pkg/sheets"
)

func main() {
	config.LoadDotEnv()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stdout, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(os.Args) > 1 {
		cfg.ServiceAccountFile = os.Args[1]
	}

	if err := run(context.Background(), cfg, os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stdout, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run performs one sign-and-exchange. Output lines are only written once the
// step producing them has succeeded.
func run(ctx context.Context, cfg config.Config, out io.Writer, logger *slog.Logger, sheetOpts ...option.ClientOption) error {
	sa, err := credentials.Load(cfg.ServiceAccountFile)
	if err != nil {
		return err
	}

	assertion, err := cfg.Builder().BuildAssertion(sa.Credentials())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "JWT: %s\n", assertion)

	resp, err := cfg.Exchanger().Exchange(ctx, assertion)
	if err != nil {
		var serverErr *auth.AuthServerError
		if errors.As(err, &serverErr) {
			logger.Warn("token endpoint rejected assertion", "error_code", serverErr.Code, "status", serverErr.StatusCode)
		}
		return err
	}
	if err := resp.Err(); err != nil {
		logger.Warn("token endpoint rejected assertion", "error_code", resp.ErrorCode())
		return err
	}
	tok, err := resp.Token()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Access Token: %s\n", tok.AccessToken)
	logger.Info("access token issued", "client_email", sa.ClientEmail, "token_type", tok.TokenType, "expiry", tok.Expiry)

	if cfg.SpreadsheetID == "" {
		return nil
	}
	opts := append([]option.ClientOption{option.WithTokenSource(oauth2.StaticTokenSource(tok))}, sheetOpts...)
	client, err := sheets.New(ctx, opts...)
	if err != nil {
		return err
	}
	if cfg.SheetName != "" {
		id, err := client.SheetID(ctx, cfg.SpreadsheetID, cfg.SheetName)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Sheet ID: %d\n", id)
		return nil
	}
	tabs, err := client.SheetTitles(ctx, cfg.SpreadsheetID)
	if err != nil {
		return err
	}
	for _, t := range tabs {
		fmt.Fprintf(out, "Sheet: %d %s\n", t.ID, t.Title)
	}
	return nil
}
