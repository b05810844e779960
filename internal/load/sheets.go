package load

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Bizzati/ETL-Pipeline/internal/model"
)

const (
	defaultSheetName = "Sheet1"
	clearRegionEnd   = "ZZZ100000"
)

// SheetsSink uploads the clean table to a Google Sheets document using a
// service account credentials file.
type SheetsSink struct {
	svc *sheets.Service
	log *slog.Logger
}

func NewSheetsSink(ctx context.Context, credentialsPath string, log *slog.Logger) (*SheetsSink, error) {
	if credentialsPath == "" {
		return nil, &LoadError{Sink: "sheets", Err: errors.New("credentials path is empty")}
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, &LoadError{Sink: "sheets", Err: err}
	}

	return &SheetsSink{svc: svc, log: log}, nil
}

// Upload clears a large rectangular region starting at the target cell and
// writes header + stringified rows there. A clear failure is logged but
// does not abort the write.
func (s *SheetsSink) Upload(ctx context.Context, spreadsheetID, rangeName string, table model.CleanTable) error {
	if spreadsheetID == "" {
		return &LoadError{Sink: "sheets", Err: errors.New("spreadsheet id is empty")}
	}
	if rangeName == "" {
		return &LoadError{Sink: "sheets", Err: errors.New("range is empty")}
	}
	if len(table) == 0 {
		return &LoadError{Sink: "sheets", Err: ErrEmptyTable}
	}

	sheetName, cell := splitRange(rangeName)

	clearRange := fmt.Sprintf("%s!%s:%s", sheetName, cell, clearRegionEnd)
	_, err := s.svc.Spreadsheets.Values.
		Clear(spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		s.log.Warn("sheet clear failed", "range", clearRange, "error", err)
	}

	values := make([][]interface{}, 0, len(table)+1)

	header := make([]interface{}, len(model.AllColumns))
	for i, col := range model.AllColumns {
		header[i] = col
	}
	values = append(values, header)

	for _, p := range table {
		cells := rowStrings(p)
		row := make([]interface{}, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		values = append(values, row)
	}

	_, err = s.svc.Spreadsheets.Values.
		Update(spreadsheetID, fmt.Sprintf("%s!%s", sheetName, cell), &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return &LoadError{Sink: "sheets", Err: err}
	}

	s.log.Info("sheet upload complete",
		"rows", len(table),
		"url", "https://docs.google.com/spreadsheets/d/"+spreadsheetID,
	)

	return nil
}

// splitRange separates "Sheet1!A1" into sheet name and cell; a bare cell
// targets the default sheet.
func splitRange(rangeName string) (string, string) {
	if name, cell, ok := strings.Cut(rangeName, "!"); ok {
		return name, cell
	}
	return defaultSheetName, rangeName
}
