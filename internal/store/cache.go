// Package store provides a SQLite-backed cache of parsed spending files.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/pbudget/internal/model"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // register sqlite driver
)

const dateLayout = "2006-01-02"

// Cache provides SQLite-backed transaction caching keyed by source file.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// Matches reports whether the tracked info equals the file's current stat.
func (fi FileInfo) Matches(info os.FileInfo) bool {
	return fi.MtimeNs == info.ModTime().UnixNano() && fi.SizeBytes == info.Size()
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveFile replaces the cached transactions for filePath and records its
// tracking info in one transaction.
func (c *Cache) SaveFile(filePath string, txns []model.Transaction, mtimeNs, sizeBytes int64) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)

	// Deleting the tracker row cascades to the file's transactions.
	if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath); err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT INTO file_tracker (file_path, mtime_ns, size_bytes, parsed_at)
		VALUES (?, ?, ?, ?)`, filePath, mtimeNs, sizeBytes, now)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO transactions
		(file_path, row_num, txn_date, category, amount, card_id)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, t := range txns {
		_, err = stmt.Exec(filePath, i, t.Date.Format(dateLayout), t.Category, t.Amount.String(), t.CardID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadFile reads the cached transactions for filePath in their original order.
func (c *Cache) LoadFile(filePath string) ([]model.Transaction, error) {
	rows, err := c.db.Query(`SELECT txn_date, category, amount, card_id
		FROM transactions WHERE file_path = ? ORDER BY row_num`, filePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var dateStr, amountStr string
		var t model.Transaction
		if err := rows.Scan(&dateStr, &t.Category, &amountStr, &t.CardID); err != nil {
			return nil, err
		}
		if t.Date, err = time.Parse(dateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("cached date %q: %w", dateStr, err)
		}
		if t.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("cached amount %q: %w", amountStr, err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// DeleteFile removes a file's tracking entry and its cached transactions.
func (c *Cache) DeleteFile(filePath string) error {
	_, err := c.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath)
	return err
}
