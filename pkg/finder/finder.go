package finder

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// DefaultPatterns match Clarion source and include files in any case.
var DefaultPatterns = []string{"**/*.{clw,CLW,Clw}", "**/*.{inc,INC,Inc}"}

// SourceFinder finds source files below a directory.
type SourceFinder interface {
	// Find returns the files under root matching any of patterns, sorted and
	// without duplicates. Patterns use doublestar syntax relative to root.
	Find(ctx context.Context, root string, patterns []string) ([]string, error)
}

// GlobFinder is the SourceFinder over an afero filesystem.
type GlobFinder struct {
	fs afero.Fs
}

func NewGlobFinder(fs afero.Fs) *GlobFinder {
	return &GlobFinder{fs: fs}
}

// Find implements SourceFinder
func (f *GlobFinder) Find(ctx context.Context, root string, patterns []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("finding sources: %w", err)
	}

	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	isDir, err := afero.IsDir(f.fs, root)
	if err != nil {
		return nil, errors.Errorf("checking root %q: %w", root, err)
	}
	if !isDir {
		return nil, errors.Errorf("root %q is not a directory", root)
	}

	fsys := afero.NewIOFS(afero.NewBasePathFs(f.fs, root))

	seen := map[string]bool{}
	var out []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid pattern %q", pattern)
		}

		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("globbing %q: %w", pattern, err)
		}

		for _, m := range matches {
			path := filepath.Join(root, filepath.FromSlash(m))
			if seen[path] {
				continue
			}
			seen[path] = true
			out = append(out, path)
		}
	}

	sort.Strings(out)

	zerolog.Ctx(ctx).Debug().Str("root", root).Strs("patterns", patterns).Int("files", len(out)).Msg("found source files")

	return out, nil
}
