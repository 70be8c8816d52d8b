package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/pbudget/internal/source"
	"github.com/theirongolddev/pbudget/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
	Pruned    int
}

// LoadWithCache discovers files, diffs them against the cache by mtime and
// size, parses only changed files, and returns the combined transactions.
// When path is a directory, cached entries for CSVs no longer in it are
// dropped.
func LoadWithCache(path string, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := source.Discover(path)
	if err != nil {
		return nil, err
	}

	result := &CachedLoadResult{
		LoadResult: LoadResult{TotalFiles: len(files)},
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	if n := prune(path, files, tracked, cache); n > 0 {
		result.Pruned = n
		log.WithField("files", n).Debug("pruned vanished files from cache")
	}

	// Diff: partition into changed and unchanged
	var toReparse []string
	stats := make(map[string]os.FileInfo, len(files))
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", f, err)
		}
		stats[f] = info
		if cached, ok := tracked[f]; !ok || !cached.Matches(info) {
			toReparse = append(toReparse, f)
		}
	}

	result.CacheHits = len(files) - len(toReparse)
	result.Reparsed = len(toReparse)

	parsed := parseAll(toReparse, func(n int) {
		if progressFn != nil {
			progressFn(n+result.CacheHits, result.TotalFiles)
		}
	})
	fresh := make(map[string]fileResult, len(toReparse))
	for i, f := range toReparse {
		fresh[f] = parsed[i]
	}

	// Combine in discovery order so the merge is deterministic.
	for _, f := range files {
		if fr, ok := fresh[f]; ok {
			if fr.err != nil {
				return nil, fr.err
			}
			info := stats[f]
			if err := cache.SaveFile(f, fr.txns, info.ModTime().UnixNano(), info.Size()); err != nil {
				log.WithError(err).WithField("file", f).Warn("cache write failed")
			}
			result.Transactions = append(result.Transactions, fr.txns...)
		} else {
			txns, err := cache.LoadFile(f)
			if err != nil {
				return nil, fmt.Errorf("loading cached %s: %w", f, err)
			}
			result.Transactions = append(result.Transactions, txns...)
		}
		result.ParsedFiles++
	}

	log.WithField("hits", result.CacheHits).WithField("reparsed", result.Reparsed).Debug("cache load")

	if err := result.finish(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return result, nil
}

// prune deletes tracked files that sat in the loaded directory but were not
// discovered this time.
func prune(path string, files []string, tracked map[string]store.FileInfo, cache *store.Cache) int {
	if info, err := os.Stat(path); err != nil || !info.IsDir() || len(files) == 0 {
		return 0
	}
	dir := filepath.Dir(files[0])
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f] = true
	}
	n := 0
	for f := range tracked {
		if present[f] || filepath.Dir(f) != dir {
			continue
		}
		if err := cache.DeleteFile(f); err != nil {
			log.WithError(err).WithField("file", f).Warn("cache prune failed")
			continue
		}
		n++
	}
	return n
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "pbudget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "pbudget")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "transactions.db")
}

// LogPath returns the log file used while the dashboard owns the terminal.
func LogPath() string {
	return filepath.Join(CacheDir(), "pbudget.log")
}
