package function

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/vinm0/sheets-token/pkg/auth"
	"github.com/vinm0/sheets-token/pkg/config"
	"github.com/vinm0/sheets-token/pkg/constants"
	"github.com/vinm0/sheets-token/pkg/credentials"
	"github.com/vinm0/sheets-token/pkg/sheets"
)

// Query parameters. SPREADSHEET_ID and SHEET_NAME are the fallbacks.
const (
	QuerySpreadsheet = "spreadsheet"
	QuerySheet       = "sheet" // narrows the answer to one tab
)

func init() {
	functions.HTTP("HandleSheets", HandleSheets)
}

type sheetLister interface {
	SheetTitles(ctx context.Context, spreadsheetID string) ([]sheets.Sheet, error)
	SheetID(ctx context.Context, spreadsheetID, title string) (int64, error)
}

var (
	// Global client to reuse across warm starts
	mu          sync.Mutex
	sheetClient sheetLister
)

// newSheetClient signs with the configured service account key. Replaced in tests.
var newSheetClient = func(ctx context.Context, cfg config.Config) (sheetLister, error) {
	sa, err := credentials.Load(cfg.ServiceAccountFile)
	if err != nil {
		return nil, err
	}
	exchanger := cfg.Exchanger()
	exchanger.Strict = true
	// The token source outlives the request that created it.
	ts := auth.NewTokenSource(context.WithoutCancel(ctx), sa.Credentials(), cfg.Builder(), exchanger)
	return sheets.NewWithTokenSource(ctx, ts)
}

func initSheetClient(ctx context.Context, cfg config.Config) (sheetLister, error) {
	mu.Lock()
	defer mu.Unlock()
	if sheetClient != nil {
		return sheetClient, nil
	}
	c, err := newSheetClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	sheetClient = c
	return c, nil
}

type sheetsResponse struct {
	SpreadsheetID string         `json:"spreadsheet_id"`
	Sheets        []sheets.Sheet `json:"sheets,omitempty"`
	Sheet         *sheets.Sheet  `json:"sheet,omitempty"`
}

// HandleSheets lists the tabs of a spreadsheet using the service account's
// own access token, or resolves the id of the tab named by ?sheet=. The token
// itself never leaves the function.
func HandleSheets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		http.Error(w, "Configuration Error", http.StatusInternalServerError)
		return
	}

	spreadsheetID := r.URL.Query().Get(QuerySpreadsheet)
	if spreadsheetID == "" {
		spreadsheetID = cfg.SpreadsheetID
	}
	if spreadsheetID == "" {
		http.Error(w, "Bad Request: missing spreadsheet", http.StatusBadRequest)
		return
	}

	client, err := initSheetClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to init auth", "error", err)
		http.Error(w, "Auth Configuration Error", http.StatusInternalServerError)
		return
	}

	sheetName := r.URL.Query().Get(QuerySheet)
	if sheetName == "" {
		sheetName = cfg.SheetName
	}

	resp := sheetsResponse{SpreadsheetID: spreadsheetID}
	if sheetName != "" {
		var id int64
		id, err = client.SheetID(ctx, spreadsheetID, sheetName)
		resp.Sheet = &sheets.Sheet{ID: id, Title: sheetName}
	} else {
		resp.Sheets, err = client.SheetTitles(ctx, spreadsheetID)
	}
	if err != nil {
		var serverErr *auth.AuthServerError
		switch {
		case errors.Is(err, sheets.ErrSheetNotFound):
			logger.Warn("sheet not found", "spreadsheet_id", spreadsheetID, "sheet", sheetName)
			http.Error(w, "Sheet Not Found", http.StatusNotFound)
		case errors.As(err, &serverErr):
			logger.Error("token endpoint rejected assertion", "error_code", serverErr.Code, "error", err)
			http.Error(w, "Upstream Auth Error", http.StatusBadGateway)
		default:
			logger.Error("upstream sheets call failed", "spreadsheet_id", spreadsheetID, "error", err)
			http.Error(w, "Upstream API Error", http.StatusBadGateway)
		}
		return
	}

	logger.Info("resolved sheets", "spreadsheet_id", spreadsheetID, "sheet", sheetName, "count", len(resp.Sheets))

	w.Header().Set(constants.HTTPContentType, constants.HTTPAppJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
