package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/okaimono/sage/internal/config"
	"github.com/okaimono/sage/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export savings history to Google Sheets",
		Long: `Export your savings history and the current leaderboard snapshot to a
Google Sheet. Authentication uses either a service account key or OAuth2
credentials; run "sage export auth" once to obtain a refresh token.`,
		RunE: runExport,
	}

	cmd.Flags().Int("limit", 10, "leaderboard entries to include")
	cmd.AddCommand(exportAuthCmd())
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	userID, err := requireUser()
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return fmt.Errorf("sheets configuration: %w", err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	records, err := store.GetSavingsRecordsByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load savings records: %w", err)
	}

	leaderboard, err := computeRanking(ctx, store, userID, limit, false)
	if err != nil {
		return err
	}

	writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}
	if err := writer.Write(ctx, records, leaderboard); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	cmd.Println("Export complete")
	return nil
}

func exportAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Sheets interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientID := viper.GetString("sheets.client_id")
			clientSecret := viper.GetString("sheets.client_secret")
			if clientID == "" || clientSecret == "" {
				return fmt.Errorf("sheets.client_id and sheets.client_secret are required")
			}

			token, err := sheets.AuthenticateOAuth2Interactive(cmd.Context(), sheets.OAuth2Config{
				ClientID:     clientID,
				ClientSecret: clientSecret,
				TokenFile:    config.ExpandPath("~/.config/sage/sheets-token.json"),
			})
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			cmd.Println("Authentication successful.")
			cmd.Println("Add this refresh token to your config as sheets.refresh_token:")
			cmd.Println(token.RefreshToken)
			return nil
		},
	}
}
