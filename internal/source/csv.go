// Package source reads spending transactions from CSV files and generates
// synthetic spending history.
package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/theirongolddev/pbudget/internal/logging"
	"github.com/theirongolddev/pbudget/internal/model"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

var log = logging.Get()

// RequiredColumns must be present in the header, in any case and order.
var RequiredColumns = []string{"date", "category", "amount"}

// Accepted date layouts, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
	time.RFC3339,
}

// Row is one raw CSV record before validation.
type Row struct {
	Date     string `csv:"date"`
	Category string `csv:"category"`
	Amount   string `csv:"amount"`
	CardID   string `csv:"card_id"`
}

func init() {
	gocsv.SetHeaderNormalizer(normalizeHeader)
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

// ReadFile reads and validates the spending CSV at path.
func ReadFile(path string) ([]model.Transaction, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no path configured", ErrMissingFile)
	}
	f, err := os.Open(path) //nolint:gosec // user-supplied data file
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	txns, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.WithField("path", path).WithField("rows", len(txns)).Debug("read spending csv")
	return txns, nil
}

// Read reads and validates spending CSV data from r.
func Read(r io.Reader) ([]model.Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return Parse(data)
}

// Parse validates the header and converts every record to a transaction.
// Any malformed record aborts the parse; row numbers count the header as 1.
func Parse(data []byte) ([]model.Transaction, error) {
	if err := checkHeader(data); err != nil {
		return nil, err
	}

	var rows []Row
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoTransactions
	}

	txns := make([]model.Transaction, 0, len(rows))
	for i, r := range rows {
		t, err := r.Transaction()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

func checkHeader(data []byte) error {
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ErrNoTransactions
		}
		return fmt.Errorf("%w: header: %w", ErrMalformedRow, err)
	}
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[normalizeHeader(h)] = true
	}
	var missing []string
	for _, col := range RequiredColumns {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// Transaction validates the raw record.
func (r Row) Transaction() (model.Transaction, error) {
	category := strings.TrimSpace(r.Category)
	if category == "" {
		return model.Transaction{}, ErrEmptyCategory
	}
	date, err := ParseDate(r.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: %w", ErrMalformedRow, err)
	}
	amount, err := ParseAmount(r.Amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: %w", ErrMalformedRow, err)
	}
	return model.Transaction{
		Date:     date,
		Category: category,
		Amount:   amount,
		CardID:   strings.TrimSpace(r.CardID),
	}, nil
}

// ParseDate parses a date in any accepted layout, returning midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Amount layouts with separators. A comma is a thousands separator only in
// full groups of three; a lone comma before one or two digits is a decimal
// comma. Anything else with a comma is ambiguous and rejected.
var (
	commaThousands = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)
	dotThousands   = regexp.MustCompile(`^\d{1,3}(\.\d{3})+(,\d+)?$`)
	decimalComma   = regexp.MustCompile(`^\d+,\d{1,2}$`)
)

// ParseAmount parses a decimal amount in US ("1,234.56") or European
// ("1.234,56", "12,50") notation. A sign and a leading currency symbol are
// tolerated, as are apostrophe thousands separators.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	neg := false
	for range 2 {
		clean = strings.TrimLeft(clean, "$€£ ")
		if rest, ok := strings.CutPrefix(clean, "-"); ok {
			neg, clean = true, rest
		} else {
			clean = strings.TrimPrefix(clean, "+")
		}
	}
	clean = strings.ReplaceAll(clean, "'", "")
	if clean == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	switch {
	case commaThousands.MatchString(clean):
		clean = strings.ReplaceAll(clean, ",", "")
	case dotThousands.MatchString(clean) && (strings.Contains(clean, ",") || strings.Count(clean, ".") > 1):
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case decimalComma.MatchString(clean):
		clean = strings.Replace(clean, ",", ".", 1)
	case strings.Contains(clean, ","):
		return decimal.Zero, fmt.Errorf("ambiguous amount %q", s)
	}

	d, err := decimal.NewFromString(clean)
	if err != nil || strings.ContainsAny(clean, "eE") {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// NewRow converts a transaction to its CSV record.
func NewRow(t model.Transaction) Row {
	return Row{
		Date:     t.Date.Format("2006-01-02"),
		Category: t.Category,
		Amount:   t.Amount.StringFixed(2),
		CardID:   t.CardID,
	}
}

// Write encodes transactions as CSV with a header row.
func Write(w io.Writer, txns []model.Transaction) error {
	rows := make([]Row, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, NewRow(t))
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteFile writes transactions to a CSV file at path.
func WriteFile(path string, txns []model.Transaction) error {
	f, err := os.Create(path) //nolint:gosec // user-supplied output path
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(f, txns); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
