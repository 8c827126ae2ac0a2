package config

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/editorconfig/editorconfig-core-go/v2"
	"github.com/rs/zerolog"
)

// TabWidthFor returns the tab width .editorconfig files on disk assign to
// path, or c.TabWidth when none applies. indent_size is used when tab_width
// is unset.
func (c *Config) TabWidthFor(ctx context.Context, path string) int {
	def := c.TabWidth
	if def < 1 {
		def = Default().TabWidth
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return def
	}

	d, err := editorconfig.GetDefinitionForFilename(abs)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("reading editorconfig")
		return def
	}

	if d.TabWidth > 0 {
		return d.TabWidth
	}
	if n, err := strconv.Atoi(d.IndentSize); err == nil && n > 0 {
		return n
	}
	return def
}
