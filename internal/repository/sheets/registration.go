package sheets

import (
	"context"
	"fmt"

	"registrar/internal/domain"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// valueInputRaw stores cells exactly as sent, so user text is never parsed
// as a formula or number
const valueInputRaw = "RAW"

// RegistrationRepo implements repository.RegistrationRepository on a Google Sheet
type RegistrationRepo struct {
	values        *gsheets.SpreadsheetsValuesService
	spreadsheetID string
	sheetRange    string
}

// NewService builds a Sheets API client from service account JSON
func NewService(ctx context.Context, credentialsJSON []byte, opts ...option.ClientOption) (*gsheets.Service, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse google credentials: %w", err)
	}

	srv, err := gsheets.NewService(ctx, append([]option.ClientOption{option.WithCredentials(creds)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return srv, nil
}

// NewRegistrationRepo creates a writer appending to sheetRange of the spreadsheet
func NewRegistrationRepo(srv *gsheets.Service, spreadsheetID, sheetRange string) *RegistrationRepo {
	return &RegistrationRepo{
		values:        srv.Spreadsheets.Values,
		spreadsheetID: spreadsheetID,
		sheetRange:    sheetRange,
	}
}

// Append adds one row after the last row of the table in the configured range
func (r *RegistrationRepo) Append(ctx context.Context, reg domain.Registration) error {
	body := &gsheets.ValueRange{
		Values: [][]interface{}{reg.Row()},
	}

	_, err := r.values.Append(r.spreadsheetID, r.sheetRange, body).
		ValueInputOption(valueInputRaw).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row to %s: %w", r.sheetRange, err)
	}
	return nil
}
