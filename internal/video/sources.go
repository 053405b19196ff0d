package video

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// videoExtensions is the set of container extensions recognised when
// enumerating a directory, matched case-insensitively.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".m4v":  true,
}

// ListSources expands a path into an ordered list of video inputs. A file
// path is returned as-is; a directory is enumerated non-recursively,
// filtered by known video extensions and sorted for determinism.
func ListSources(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}

	var sources []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if videoExtensions[ext] {
			sources = append(sources, filepath.Join(path, entry.Name()))
		}
	}
	sort.Strings(sources)
	return sources, nil
}

// OutputName derives the deterministic annotated-output filename for an
// input source, e.g. "clips/mall.mp4" becomes "tracked_mall.mp4".
func OutputName(source string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("tracked_%s.mp4", stem)
}
