package source

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/pbudget/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseValid(t *testing.T) {
	data := "Date,Category,Amount,Card_ID\n" +
		"2024-03-01,Groceries,42.10,c1\n" +
		"02.03.2024, Eating out ,\"1,250.00\",\n" +
		"03/03/2024,Leisure,-5,c2\n"

	txns, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, txns, 3)

	assert.Equal(t, date(2024, 3, 1), txns[0].Date)
	assert.Equal(t, "Groceries", txns[0].Category)
	assert.True(t, txns[0].Amount.Equal(dec("42.10")))
	assert.Equal(t, "c1", txns[0].CardID)

	assert.Equal(t, date(2024, 3, 2), txns[1].Date)
	assert.Equal(t, "Eating out", txns[1].Category)
	assert.True(t, txns[1].Amount.Equal(dec("1250")))

	assert.Equal(t, date(2024, 3, 3), txns[2].Date)
	assert.True(t, txns[2].Amount.IsNegative(), "refunds keep their sign")
}

func TestParseWithoutCardColumn(t *testing.T) {
	txns, err := Parse([]byte("category,amount,date\nTransport,12,2024-01-05T08:30:00Z\n"))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Empty(t, txns[0].CardID)
	assert.Equal(t, date(2024, 1, 5), txns[0].Date)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    error
		wantRow string
	}{
		{"empty file", "", ErrNoTransactions, ""},
		{"header only", "date,category,amount\n", ErrNoTransactions, ""},
		{"missing column", "date,amount\n2024-01-01,5\n", ErrMissingColumn, ""},
		{"blank category", "date,category,amount\n2024-01-01,Food,5\n2024-01-02,  ,5\n", ErrEmptyCategory, "row 3"},
		{"bad date", "date,category,amount\nyesterday,Food,5\n", ErrMalformedRow, "row 2"},
		{"bad amount", "date,category,amount\n2024-01-01,Food,lots\n", ErrMalformedRow, "row 2"},
		{"empty amount", "date,category,amount\n2024-01-01,Food,\n", ErrMalformedRow, "row 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.ErrorIs(t, err, tt.want)
			if tt.wantRow != "" {
				assert.Contains(t, err.Error(), tt.wantRow)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"42.10", "42.10"},
		{"12,50", "12.50"},
		{"12,5", "12.5"},
		{"1,234.56", "1234.56"},
		{"1,234", "1234"},
		{"1,234,567", "1234567"},
		{"1.234,56", "1234.56"},
		{"1.234.567", "1234567"},
		{"1'234.50", "1234.50"},
		{"$1,250.00", "1250"},
		{"-€12,50", "-12.50"},
		{"$-7", "-7"},
		{"1.5", "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
		})
	}

	for _, bad := range []string{"", "lots", "12,5000", "1,23,456", "1.234,56,7", "1e3"} {
		_, err := ParseAmount(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseEuropeanRow(t *testing.T) {
	txns, err := Parse([]byte("date,category,amount\n15.03.2024,Groceries,\"12,50\"\n"))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, date(2024, 3, 15), txns[0].Date)
	assert.True(t, txns[0].Amount.Equal(dec("12.50")), "got %s", txns[0].Amount)

	_, err = Parse([]byte("date,category,amount\n15.03.2024,Groceries,\"12,5000\"\n"))
	require.ErrorIs(t, err, ErrMalformedRow)
	assert.Contains(t, err.Error(), "row 2")
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.csv"))
	require.ErrorIs(t, err, ErrMissingFile)

	_, err = ReadFile("")
	require.ErrorIs(t, err, ErrMissingFile)
}

func TestWriteReadRoundTrip(t *testing.T) {
	in := []model.Transaction{
		{Date: date(2024, 2, 29), Category: "Groceries", Amount: dec("19.99"), CardID: "a"},
		{Date: date(2024, 3, 1), Category: "Leisure", Amount: dec("-3.50")},
	}
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteFile(path, in))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "date,category,amount,card_id\n"))

	out, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for i := range in {
		assert.Equal(t, in[i].Date, out[i].Date)
		assert.Equal(t, in[i].Category, out[i].Category)
		assert.True(t, in[i].Amount.Equal(out[i].Amount))
		assert.Equal(t, in[i].CardID, out[i].CardID)
	}
}

func TestReadFromReader(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("\ufeffDATE,CATEGORY,AMOUNT\n2024-05-05,Food,1\n")
	txns, err := Read(&buf)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}
