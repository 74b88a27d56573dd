// Package pipeline discovers template documents on disk, parses them with a
// bounded worker pool and imports the valid ones into the catalog.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/theirongolddev/fsplan/internal/template"
)

// DiscoveredFile is a template document found on disk.
type DiscoveredFile struct {
	Path   string
	Name   string // catalog name derived from the file name
	Format template.Format
}

// Scan expands paths into template files. A file argument must carry a
// supported extension; directories are walked and files with other
// extensions are skipped. Results are sorted by path and deduplicated.
func Scan(paths ...string) ([]DiscoveredFile, error) {
	seen := make(map[string]bool)
	var files []DiscoveredFile

	add := func(path string) error {
		f, err := template.FormatFromPath(path)
		if err != nil {
			return err
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if seen[abs] {
			return nil
		}
		seen[abs] = true
		files = append(files, DiscoveredFile{Path: path, Name: nameFromPath(path), Format: f})
		return nil
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", p, err)
		}
		if !info.IsDir() {
			if err := add(p); err != nil {
				return nil, fmt.Errorf("scanning %s: %w", p, err)
			}
			continue
		}

		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // intentionally skip unreadable entries
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if _, err := template.FormatFromPath(path); err != nil {
				return nil //nolint:nilerr // not a template file
			}
			return add(path)
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", p, err)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// nameFromPath turns "plans/FY-2026 Draft.yaml" into "fy-2026-draft".
func nameFromPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	base = strings.ToLower(strings.TrimSpace(base))
	return strings.Join(strings.Fields(base), "-")
}
