package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/okaimono/sage/internal/sheets"
)

// LoadSheetsConfig loads Google Sheets configuration. Precedence:
// 1. Viper configuration (config file or SAGE_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Defaults
func LoadSheetsConfig() (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	if v := viper.GetString("sheets.service_account_path"); v != "" {
		config.ServiceAccountPath = ExpandPath(v)
	}
	if v := viper.GetString("sheets.client_id"); v != "" {
		config.ClientID = v
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		config.ClientSecret = v
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		config.RefreshToken = v
	}
	if v := viper.GetString("sheets.spreadsheet_id"); v != "" {
		config.SpreadsheetID = v
	}
	if v := viper.GetString("sheets.spreadsheet_name"); v != "" {
		config.SpreadsheetName = v
	}

	if config.ServiceAccountPath == "" {
		if v := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"); v != "" {
			config.ServiceAccountPath = ExpandPath(v)
		}
	}
	if config.ClientID == "" {
		config.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if config.ClientSecret == "" {
		config.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if config.RefreshToken == "" {
		config.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	if config.SpreadsheetID == "" {
		config.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	}
	if config.SpreadsheetName == "" {
		if v := os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"); v != "" {
			config.SpreadsheetName = v
		} else {
			config.SpreadsheetName = "Savings Report"
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
