// Package sheets resolves the tabs of a spreadsheet with the access token
// minted by the auth package.
package sheets

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// ErrSheetNotFound is returned by SheetID when no tab has the given title.
var ErrSheetNotFound = errors.New("sheet not found")

// Sheet is one tab of a spreadsheet.
type Sheet struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Index int64  `json:"index"`
}

// Client is a thin wrapper around the Sheets v4 service.
type Client struct {
	srv *sheetsapi.Service
}

// New creates a Client. Pass option.WithTokenSource in production.
func New(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	srv, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{srv: srv}, nil
}

// NewWithTokenSource creates a Client authorized by ts.
func NewWithTokenSource(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	return New(ctx, option.WithTokenSource(ts))
}

// SheetTitles lists the tabs of spreadsheetID in display order.
func (c *Client) SheetTitles(ctx context.Context, spreadsheetID string) ([]Sheet, error) {
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet id is empty")
	}
	ss, err := c.srv.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet %s: %w", spreadsheetID, err)
	}

	out := make([]Sheet, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties == nil {
			continue
		}
		out = append(out, Sheet{
			ID:    s.Properties.SheetId,
			Title: s.Properties.Title,
			Index: s.Properties.Index,
		})
	}
	return out, nil
}

// SheetID returns the numeric id of the tab named title.
func (c *Client) SheetID(ctx context.Context, spreadsheetID, title string) (int64, error) {
	tabs, err := c.SheetTitles(ctx, spreadsheetID)
	if err != nil {
		return 0, err
	}
	for _, t := range tabs {
		if t.Title == title {
			return t.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, title, spreadsheetID)
}
