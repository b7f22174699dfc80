// Package signature fingerprints source files so that a report can be
// recognised as up to date without reading the files.
//
// A file's token is derived from its modification time and size only. An
// in-place edit that preserves both is therefore invisible.
package signature

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"
)

// FileSignature returns "<mtime-unix-nanos>_<size>" for an existing file and
// "" when the file is absent or cannot be stat'ed.
func FileSignature(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d_%d", info.ModTime().UnixNano(), info.Size())
}

// Combined hashes the "path:token" pairs of every file in paths, sorted, joined with "|".
// Non-file parameters, when given, are hashed after the pairs in their given order.
// The input slice is not modified.
func Combined(paths []string, params ...string) string {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	pairs := make([]string, 0, len(sorted))
	for _, p := range sorted {
		pairs = append(pairs, p+":"+FileSignature(p))
	}

	hasher := sha256.New()
	hasher.Write([]byte(strings.Join(pairs, "|")))
	if len(params) > 0 {
		hasher.Write([]byte("|" + strings.Join(params, "|")))
	}
	return hex.EncodeToString(hasher.Sum(nil))
}
