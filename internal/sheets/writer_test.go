package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okaimono/sage/internal/model"
	"github.com/okaimono/sage/internal/ranking"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "no auth",
			config:  DefaultConfig(),
			wantErr: true,
		},
		{
			name: "oauth only",
			config: Config{
				ClientID:     "id",
				ClientSecret: "secret",
				RefreshToken: "token",
			},
			wantErr: false,
		},
		{
			name: "service account only",
			config: Config{
				ServiceAccountPath: "/tmp/key.json",
			},
			wantErr: false,
		},
		{
			name: "both auth methods",
			config: Config{
				ClientID:           "id",
				ClientSecret:       "secret",
				RefreshToken:       "token",
				ServiceAccountPath: "/tmp/key.json",
			},
			wantErr: true,
		},
		{
			name: "negative retries",
			config: Config{
				ServiceAccountPath: "/tmp/key.json",
				RetryAttempts:      -1,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, "Asia/Tokyo", config.TimeZone)
	assert.Equal(t, 3, config.RetryAttempts)
	assert.Equal(t, time.Second, config.RetryDelay)
	assert.True(t, config.EnableFormatting)
}

func TestPrepareReportData(t *testing.T) {
	w := &Writer{config: DefaultConfig()}

	nickname := "たろう"
	rank := 1
	leaderboard := &ranking.Result{
		MyRank: &rank,
		Rankings: model.RankingEntries{
			{Rank: 1, UserID: "u1", Nickname: &nickname, TotalSaved: 350, TotalOverpaid: 150},
			{Rank: 2, UserID: "u2", TotalSaved: 300},
		},
	}
	records := []model.SavingsRecord{
		{PurchaseDate: "2025-05-30", StoreName: "スーパーみどり", TotalSavedAmount: 500, TotalOverpaidAmount: 100, ItemCount: 8},
		{PurchaseDate: "2025-06-01", TotalSavedAmount: 0, TotalOverpaidAmount: 50, ItemCount: 2},
	}

	values := w.prepareReportData(records, leaderboard)
	require.NotEmpty(t, values)
	assert.Equal(t, "Savings Report", values[0][0])

	flat := flatten(values)
	assert.Contains(t, flat, "Total Saved")
	assert.Contains(t, flat, 500)
	assert.Contains(t, flat, "Net Saved")
	assert.Contains(t, flat, 350)
	assert.Contains(t, flat, "たろう")
	assert.Contains(t, flat, "スーパーみどり")
	assert.Contains(t, flat, "Leaderboard")
	assert.Contains(t, flat, "Receipt History")
}

func TestPrepareReportData_NoLeaderboard(t *testing.T) {
	w := &Writer{config: DefaultConfig()}

	values := w.prepareReportData(nil, nil)
	flat := flatten(values)
	assert.Contains(t, flat, "Receipt History")
	assert.NotContains(t, flat, "Leaderboard")
}

func flatten(values [][]any) []any {
	var flat []any
	for _, row := range values {
		flat = append(flat, row...)
	}
	return flat
}
