package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReceiptInput_JSON(t *testing.T) {
	input, err := ParseReceiptInput(strings.NewReader(`{
		"purchase_date": "2025-05-30",
		"store_name": "スーパーみどり",
		"lines": [
			{"raw_name": "牛乳", "unit_price": 198, "quantity": 1},
			{"raw_name": "食パン", "unit_price": 158, "quantity": 2}
		]
	}`))
	require.NoError(t, err)
	assert.Equal(t, "2025-05-30", input.PurchaseDate)
	assert.Equal(t, "スーパーみどり", input.StoreName)
	require.Len(t, input.Lines, 2)
	assert.Equal(t, "食パン", input.Lines[1].RawName)
	assert.Equal(t, float64(2), input.Lines[1].Quantity)
}

func TestParseReceiptInput_TabSeparated(t *testing.T) {
	input, err := ParseReceiptInput(strings.NewReader(
		"# store receipt\n牛乳\t198\nカップ 焼きそば\t128\t3\n\n"))
	require.NoError(t, err)
	require.Len(t, input.Lines, 2)
	assert.Equal(t, "牛乳", input.Lines[0].RawName)
	assert.Equal(t, float64(1), input.Lines[0].Quantity)
	assert.Equal(t, "カップ 焼きそば", input.Lines[1].RawName)
	assert.Equal(t, float64(3), input.Lines[1].Quantity)
}

func TestParseReceiptInput_SpaceSeparated(t *testing.T) {
	input, err := ParseReceiptInput(strings.NewReader(
		"牛乳 198\nカップ 焼きそば 128 3\n"))
	require.NoError(t, err)
	require.Len(t, input.Lines, 2)
	assert.Equal(t, float64(198), input.Lines[0].UnitPrice)
	assert.Equal(t, "カップ 焼きそば", input.Lines[1].RawName)
	assert.Equal(t, float64(128), input.Lines[1].UnitPrice)
	assert.Equal(t, float64(3), input.Lines[1].Quantity)
}

func TestParseReceiptInput_Malformed(t *testing.T) {
	_, err := ParseReceiptInput(strings.NewReader("牛乳\tabc\n"))
	assert.Error(t, err)

	_, err = ParseReceiptInput(strings.NewReader("justname\n"))
	assert.Error(t, err)

	_, err = ParseReceiptInput(strings.NewReader(`{"lines": [`))
	assert.Error(t, err)
}
