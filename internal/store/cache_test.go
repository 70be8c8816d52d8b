package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/pbudget/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache", "pbudget.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sample() []model.Transaction {
	return []model.Transaction{
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Category: "Groceries", Amount: decimal.RequireFromString("12.34"), CardID: "c1"},
		{Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Category: "Leisure", Amount: decimal.RequireFromString("-1.50")},
	}
}

func TestSaveLoadFile(t *testing.T) {
	c := openTemp(t)
	require.NoError(t, c.SaveFile("/data/a.csv", sample(), 111, 222))

	tracked, err := c.GetTrackedFiles()
	require.NoError(t, err)
	assert.Equal(t, FileInfo{MtimeNs: 111, SizeBytes: 222}, tracked["/data/a.csv"])

	got, err := c.LoadFile("/data/a.csv")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i, want := range sample() {
		assert.Equal(t, want.Date, got[i].Date)
		assert.Equal(t, want.Category, got[i].Category)
		assert.True(t, want.Amount.Equal(got[i].Amount))
		assert.Equal(t, want.CardID, got[i].CardID)
	}
}

func TestSaveFileReplaces(t *testing.T) {
	c := openTemp(t)
	require.NoError(t, c.SaveFile("/data/a.csv", sample(), 1, 1))
	require.NoError(t, c.SaveFile("/data/a.csv", sample()[:1], 2, 2))
	require.NoError(t, c.SaveFile("/data/b.csv", sample(), 3, 3))

	got, err := c.LoadFile("/data/a.csv")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	other, err := c.LoadFile("/data/b.csv")
	require.NoError(t, err)
	assert.Len(t, other, 2)
}

func TestDeleteFileCascades(t *testing.T) {
	c := openTemp(t)
	require.NoError(t, c.SaveFile("/data/a.csv", sample(), 1, 1))
	require.NoError(t, c.DeleteFile("/data/a.csv"))

	got, err := c.LoadFile("/data/a.csv")
	require.NoError(t, err)
	assert.Empty(t, got)

	tracked, err := c.GetTrackedFiles()
	require.NoError(t, err)
	assert.Empty(t, tracked)
}
