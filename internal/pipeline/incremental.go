package pipeline

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/theirongolddev/fsplan/internal/store"
)

// ImportResult extends LoadResult with catalog metadata.
type ImportResult struct {
	LoadResult
	Imported  []store.Entry
	Unchanged []string // names whose stored source already matches
}

// Import discovers, parses and stores templates. Files whose source is
// byte-identical to the stored entry of the same name are skipped. A
// non-empty name overrides the catalog name and is only allowed for a
// single file; otherwise the document's own name wins over the file name.
// The returned error collects every file that failed; valid files are
// imported regardless.
func Import(cat *store.Catalog, paths []string, name string, progressFn ProgressFunc) (*ImportResult, error) {
	files, err := Scan(paths...)
	if err != nil {
		return nil, err
	}
	if name != "" && len(files) != 1 {
		return nil, fmt.Errorf("a catalog name needs exactly one template file, found %d", len(files))
	}

	loaded := Load(files, progressFn)
	result := &ImportResult{LoadResult: *loaded}

	var errs *multierror.Error
	for _, pr := range loaded.Failed {
		errs = multierror.Append(errs, pr.Err)
	}

	for _, pr := range loaded.Parsed {
		catName := name
		if catName == "" {
			catName = pr.File.Name
			if pr.Doc.Name != "" {
				catName = pr.Doc.Name
			}
		}

		stored, f, err := cat.Source(catName)
		switch {
		case err == nil && f == pr.File.Format && bytes.Equal(stored, pr.Source):
			result.Unchanged = append(result.Unchanged, catName)
			continue
		case err != nil && !errors.Is(err, store.ErrTemplateNotFound):
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", pr.File.Path, err))
			continue
		}

		e, err := cat.Save(catName, pr.File.Format, pr.Source)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", pr.File.Path, err))
			continue
		}
		result.Imported = append(result.Imported, e)
	}

	return result, errs.ErrorOrNil()
}
