// Package resolver turns the filenames recorded on INCLUDE, MEMBER, MODULE
// and LINK tokens into paths. The tokenizer never touches the filesystem;
// callers run a Resolver over Document.References afterwards.
package resolver

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/msarson/Clarion-Extension-sub003/pkg/token"
)

var ErrNotFound = errors.Base("reference not found")

// Resolver maps a referenced filename, as written in the document at from,
// to a path.
type Resolver interface {
	Resolve(ctx context.Context, ref, from string) (string, error)
}

// SearchPathResolver looks next to the referring document, then in each
// search path in order. Names compare case-insensitively, as the Clarion
// toolchain does on Windows.
type SearchPathResolver struct {
	fs    afero.Fs
	paths []string
}

func NewSearchPathResolver(fs afero.Fs, paths ...string) *SearchPathResolver {
	return &SearchPathResolver{fs: fs, paths: paths}
}

// Resolve implements Resolver
func (r *SearchPathResolver) Resolve(ctx context.Context, ref, from string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.Errorf("resolving empty reference: %w", ErrNotFound)
	}
	ref = filepath.FromSlash(strings.ReplaceAll(ref, `\`, "/"))

	if filepath.IsAbs(ref) {
		if found, ok := r.lookup(filepath.Dir(ref), filepath.Base(ref)); ok {
			return found, nil
		}
		return "", errors.Errorf("resolving %q: %w", ref, ErrNotFound)
	}

	dirs := make([]string, 0, len(r.paths)+1)
	if from != "" {
		dirs = append(dirs, filepath.Dir(from))
	}
	dirs = append(dirs, r.paths...)

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return "", errors.Errorf("resolving %q: %w", ref, err)
		}
		candidate := filepath.Join(dir, ref)
		if found, ok := r.lookup(filepath.Dir(candidate), filepath.Base(candidate)); ok {
			zerolog.Ctx(ctx).Trace().Str("ref", ref).Str("path", found).Msg("resolved reference")
			return found, nil
		}
	}

	return "", errors.Errorf("resolving %q from %q: %w", ref, from, ErrNotFound)
}

// lookup finds name in dir, trying the exact name before a case-insensitive
// scan of the directory.
func (r *SearchPathResolver) lookup(dir, name string) (string, bool) {
	exact := filepath.Join(dir, name)
	if ok, err := afero.Exists(r.fs, exact); err == nil && ok {
		if isDir, _ := afero.IsDir(r.fs, exact); !isDir {
			return exact, true
		}
	}

	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), name) {
			return filepath.Join(dir, e.Name()), true
		}
	}
	return "", false
}

// Attach resolves every external reference in doc and records the result on
// the token. References that cannot be resolved are left without a path and
// reported together in the returned error.
func Attach(ctx context.Context, doc *token.Document, r Resolver, from string) error {
	var errs error
	for _, i := range doc.References() {
		t := &doc.Tokens[i]
		path, err := r.Resolve(ctx, t.ExternalReference, from)
		if err != nil {
			errs = multierr.Append(errs, errors.Errorf("line %d: %w", t.Line+1, err))
			continue
		}
		t.ResolvedPath = path
	}
	return errs
}
