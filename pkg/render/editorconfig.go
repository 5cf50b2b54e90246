package render

import (
	"path/filepath"
	"strconv"

	"github.com/editorconfig/editorconfig-core-go/v2"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// TabWidth resolves tab_width (or a numeric indent_size) for path from the
// .editorconfig files above it, nearest first, stopping at one marked
// root = true. fallback is returned when none sets a width.
func TabWidth(fs afero.Fs, path string, fallback int) (int, error) {
	abs := filepath.Clean(path)
	dir := filepath.Dir(abs)

	for {
		cfgPath := filepath.Join(dir, ".editorconfig")
		if ok, _ := afero.Exists(fs, cfgPath); ok {
			width, root, err := tabWidthFrom(fs, cfgPath, dir, abs)
			if err != nil {
				return fallback, err
			}
			if width > 0 {
				return width, nil
			}
			if root {
				break
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return fallback, nil
}

func tabWidthFrom(fs afero.Fs, cfgPath, dir, file string) (width int, root bool, err error) {
	f, err := fs.Open(cfgPath)
	if err != nil {
		return 0, false, errors.Errorf("opening %s: %w", cfgPath, err)
	}
	defer f.Close()

	ec, err := editorconfig.Parse(f)
	if err != nil {
		return 0, false, errors.Errorf("parsing %s: %w", cfgPath, err)
	}

	rel, err := filepath.Rel(dir, file)
	if err != nil {
		return 0, ec.Root, errors.Errorf("resolving %s: %w", file, err)
	}

	def, err := ec.GetDefinitionForFilename("/" + filepath.ToSlash(rel))
	if err != nil {
		return 0, ec.Root, errors.Errorf("matching %s: %w", file, err)
	}
	if def.TabWidth > 0 {
		return def.TabWidth, ec.Root, nil
	}
	if n, err := strconv.Atoi(def.IndentSize); err == nil && n > 0 {
		return n, ec.Root, nil
	}
	return 0, ec.Root, nil
}
