package finder

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// DefaultPatterns matches Papyrus sources at any depth.
var DefaultPatterns = []string{"**/*.psc"}

// ScriptFinder is responsible for finding script files in a directory
type ScriptFinder interface {
	// FindScripts finds all files under dir matching any of the patterns
	FindScripts(ctx context.Context, dir string, patterns []string) ([]string, error)
}

// FileInfo represents a found script file
type FileInfo struct {
	Path    string
	Content []byte
}

// DefaultFinder walks an afero filesystem
type DefaultFinder struct {
	fs afero.Fs
}

// NewDefaultFinder creates a new DefaultFinder
func NewDefaultFinder(fs afero.Fs) *DefaultFinder {
	return &DefaultFinder{fs: fs}
}

// FindScripts implements ScriptFinder. Patterns are doublestar globs relative
// to dir; nil means DefaultPatterns. Results are sorted and unique.
func (f *DefaultFinder) FindScripts(ctx context.Context, dir string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Errorf("invalid pattern %q", p)
		}
	}

	info, err := f.fs.Stat(dir)
	if err != nil {
		return nil, errors.Errorf("reading directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", dir)
	}

	var found []string
	err = afero.Walk(f.fs, dir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, p := range patterns {
			if ok, _ := doublestar.Match(p, rel); ok {
				found = append(found, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", dir, err)
	}

	sort.Strings(found)
	zerolog.Ctx(ctx).Debug().Str("dir", dir).Int("count", len(found)).Msg("found scripts")
	return found, nil
}

// Load reads every path found under dir.
func (f *DefaultFinder) Load(ctx context.Context, dir string, patterns []string) ([]FileInfo, error) {
	paths, err := f.FindScripts(ctx, dir, patterns)
	if err != nil {
		return nil, err
	}

	out := make([]FileInfo, 0, len(paths))
	for _, p := range paths {
		content, err := afero.ReadFile(f.fs, p)
		if err != nil {
			return nil, errors.Errorf("reading %s: %w", p, err)
		}
		out = append(out, FileInfo{Path: p, Content: content})
	}
	return out, nil
}
