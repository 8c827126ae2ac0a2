// Package workspace ties configuration, file discovery, tokenization and
// reference resolution together for tools that work on files.
package workspace

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/msarson/Clarion-Extension-sub003/pkg/config"
	"github.com/msarson/Clarion-Extension-sub003/pkg/finder"
	"github.com/msarson/Clarion-Extension-sub003/pkg/pattern"
	"github.com/msarson/Clarion-Extension-sub003/pkg/resolver"
	"github.com/msarson/Clarion-Extension-sub003/pkg/token"
	"github.com/msarson/Clarion-Extension-sub003/pkg/tokenizer"
)

type Workspace struct {
	fs       afero.Fs
	cfg      *config.Config
	reg      *pattern.Registry
	finder   finder.SourceFinder
	resolver resolver.Resolver
}

// File is one tokenized source file.
type File struct {
	Path     string
	Document *token.Document
}

func New(fs afero.Fs, cfg *config.Config) *Workspace {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Workspace{
		fs:       fs,
		cfg:      cfg,
		reg:      pattern.Shared(),
		finder:   finder.NewGlobFinder(fs),
		resolver: resolver.NewSearchPathResolver(fs, cfg.SearchPaths()...),
	}
}

func (w *Workspace) Config() *config.Config {
	return w.cfg
}

// Expand turns command line arguments into source files. Directories are
// searched with the configured patterns.
func (w *Workspace) Expand(ctx context.Context, args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		isDir, err := afero.IsDir(w.fs, arg)
		if err != nil {
			return nil, errors.Errorf("reading %q: %w", arg, err)
		}
		if !isDir {
			out = append(out, arg)
			continue
		}

		found, err := w.finder.Find(ctx, arg, w.cfg.Search.Patterns)
		if err != nil {
			return nil, errors.Errorf("searching %q: %w", arg, err)
		}
		out = append(out, found...)
	}
	return out, nil
}

// Open reads and tokenizes one file.
func (w *Workspace) Open(ctx context.Context, path string) (*File, error) {
	data, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return nil, errors.Errorf("reading source: %w", err)
	}

	tk := tokenizer.New(w.reg,
		tokenizer.WithTabWidth(w.cfg.TabWidthFor(ctx, path)),
		tokenizer.WithChildren(w.cfg.Children),
	)

	ctx = zerolog.Ctx(ctx).With().Str("file", path).Logger().WithContext(ctx)

	return &File{Path: path, Document: tk.Tokenize(ctx, string(data))}, nil
}

// Resolve attaches paths to the file's external references.
func (w *Workspace) Resolve(ctx context.Context, f *File) error {
	return resolver.Attach(ctx, f.Document, w.resolver, f.Path)
}

// Each opens every path and calls fn with it. A failing file does not stop
// the others; all failures are returned together.
func (w *Workspace) Each(ctx context.Context, paths []string, fn func(*File) error) error {
	var errs error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, errors.Errorf("processing files: %w", err))
		}

		f, err := w.Open(ctx, path)
		if err != nil {
			errs = multierr.Append(errs, errors.Errorf("%s: %w", path, err))
			continue
		}
		if err := fn(f); err != nil {
			errs = multierr.Append(errs, errors.Errorf("%s: %w", path, err))
		}
	}
	return errs
}

type contextKey struct{}

// WithContext stores w in ctx for command handlers.
func WithContext(ctx context.Context, w *Workspace) context.Context {
	return context.WithValue(ctx, contextKey{}, w)
}

// FromContext returns the workspace stored by WithContext, or one over the
// OS filesystem with default configuration.
func FromContext(ctx context.Context) *Workspace {
	if w, ok := ctx.Value(contextKey{}).(*Workspace); ok {
		return w
	}
	return New(afero.NewOsFs(), nil)
}
