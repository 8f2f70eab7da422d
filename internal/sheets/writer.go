package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/okaimono/sage/internal/common"
	"github.com/okaimono/sage/internal/model"
	"github.com/okaimono/sage/internal/ranking"
	"github.com/okaimono/sage/internal/service"
)

// Writer exports savings data to a Google Sheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets savings exporter.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// Write exports the user's savings history and the current leaderboard.
func (w *Writer) Write(ctx context.Context, records []model.SavingsRecord, leaderboard *ranking.Result) error {
	w.logger.Info("starting savings export",
		"records", len(records),
		"leaderboard_entries", leaderboardSize(leaderboard))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if clearErr := w.clearSheet(ctx, spreadsheetID); clearErr != nil {
		return fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values := w.prepareReportData(records, leaderboard)

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheetID)
		}, retryOpts)
		if err != nil {
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("savings export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))
	return nil
}

func leaderboardSize(leaderboard *ranking.Result) int {
	if leaderboard == nil {
		return 0
	}
	return len(leaderboard.Rankings)
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: "Savings"}},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)
	return created.SpreadsheetId, nil
}

// clearSheet clears all data from the sheet.
func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// prepareReportData lays out the export: a summary block, the leaderboard
// and the per-receipt history.
func (w *Writer) prepareReportData(records []model.SavingsRecord, leaderboard *ranking.Result) [][]any {
	totalSaved := 0
	totalOverpaid := 0
	for _, record := range records {
		totalSaved += record.TotalSavedAmount
		totalOverpaid += record.TotalOverpaidAmount
	}

	estimatedRows := 12 + len(records) + leaderboardSize(leaderboard)
	values := make([][]any, 0, estimatedRows)

	values = append(values,
		[]any{"Savings Report", time.Now().Format("Jan 2, 2006")},
		[]any{},
		[]any{"Summary"},
		[]any{"Total Saved", totalSaved},
		[]any{"Total Overpaid", totalOverpaid},
		[]any{"Net Saved", totalSaved - totalOverpaid},
		[]any{"Receipts", len(records)},
	)

	if leaderboard != nil {
		values = append(values,
			[]any{},
			[]any{"Leaderboard"},
			[]any{"Rank", "User", "Nickname", "Net Saved", "Overpaid"},
		)
		for _, entry := range leaderboard.Rankings {
			nickname := ""
			if entry.Nickname != nil {
				nickname = *entry.Nickname
			}
			values = append(values, []any{
				entry.Rank,
				entry.UserID,
				nickname,
				entry.TotalSaved,
				entry.TotalOverpaid,
			})
		}
	}

	values = append(values,
		[]any{},
		[]any{"Receipt History"},
		[]any{"Date", "Store", "Saved", "Overpaid", "Items"},
	)
	for _, record := range records {
		values = append(values, []any{
			record.PurchaseDate,
			record.StoreName,
			record.TotalSavedAmount,
			record.TotalOverpaidAmount,
			record.ItemCount,
		})
	}

	return values
}

// writeData writes the prepared values starting at A1.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	valueRange := &sheets.ValueRange{Values: values}
	_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, "A1", valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	return err
}

// applyFormatting bolds the title and section headers.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string) error {
	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					StartRowIndex: 0,
					EndRowIndex:   1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true, FontSize: 14},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
	}
	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}
