package scraper

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// cacheDuration determines how long section searches are kept before refreshing
const cacheDuration = 12 * time.Hour

const cacheDirName = ".langara_cache"

// CacheEntry represents the disk data format
type CacheEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Term      string    `json:"term"`
	Courses   []Course  `json:"courses"`
}

// cacheKey builds a filesystem-safe name from the term and the subject set.
// Subject order does not matter.
func cacheKey(term Term, subjects []string) string {
	sorted := append([]string(nil), subjects...)
	sort.Strings(sorted)

	sum := sha1.Sum([]byte(strings.Join(sorted, ",")))
	return fmt.Sprintf("%s_%s", term, hex.EncodeToString(sum[:])[:12])
}

func getCacheDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}

	cacheDir := filepath.Join(homeDir, cacheDirName)
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("could not create cache directory: %w", err)
	}
	return cacheDir, nil
}

func getCachePath(key string) (string, error) {
	cacheDir, err := getCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, key+".json"), nil
}

// readCache checks if a valid, unexpired cache exists for this search
func readCache(key string) ([]Course, bool) {
	path, err := getCachePath(key)
	if err != nil {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false // File doesn't exist or can't be read
	}

	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}

	if time.Since(entry.Timestamp) > cacheDuration {
		return nil, false
	}

	return entry.Courses, true
}

// writeCache saves a section search to disk
func writeCache(key string, courses []Course) {
	path, err := getCachePath(key)
	if err != nil {
		return
	}

	entry := CacheEntry{
		Timestamp: time.Now(),
		Term:      strings.SplitN(key, "_", 2)[0],
		Courses:   courses,
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return
	}

	_ = os.WriteFile(path, data, 0644)
}

// ClearCache removes every cached section search
func ClearCache() error {
	cacheDir, err := getCacheDir()
	if err != nil {
		return err
	}
	if err := os.RemoveAll(cacheDir); err != nil {
		return fmt.Errorf("could not remove cache directory: %w", err)
	}
	return nil
}
