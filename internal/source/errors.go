package source

import "errors"

// Sentinel errors returned by the CSV reader. Callers match them with
// errors.Is; the wrapped message carries the path or row number.
var (
	ErrMissingFile    = errors.New("spending file not found")
	ErrMissingColumn  = errors.New("missing required column")
	ErrMalformedRow   = errors.New("malformed row")
	ErrEmptyCategory  = errors.New("empty category")
	ErrNoTransactions = errors.New("no transactions")
)
