// Package config loads the tool configuration from HCL or YAML.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/msarson/Clarion-Extension-sub003/pkg/position"
)

// Names are the file names Discover looks for, in order.
var Names = []string{".clarion-tokens.hcl", ".clarion-tokens.yaml", ".clarion-tokens.yml"}

const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatVSCode = "vscode"
)

type Config struct {
	// TabWidth is used for files without an .editorconfig tab width.
	TabWidth int  `json:"tab_width,omitempty" yaml:"tab_width,omitempty" hcl:"tab_width,optional"`
	Children bool `json:"children,omitempty" yaml:"children,omitempty" hcl:"children,optional"`
	// Strict turns structural warnings into failures in the check command.
	Strict   bool   `json:"strict,omitempty" yaml:"strict,omitempty" hcl:"strict,optional"`
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" hcl:"log_level,optional"`
	Format   string `json:"format,omitempty" yaml:"format,omitempty" hcl:"format,optional"`

	Search *SearchBlock `json:"search,omitempty" yaml:"search,omitempty" hcl:"search,block"`
}

// SearchBlock configures where sources and referenced files are looked up.
type SearchBlock struct {
	// Paths are tried, in order, for INCLUDE and MODULE references.
	Paths []string `json:"paths,omitempty" yaml:"paths,omitempty" hcl:"paths,optional"`
	// Patterns select source files when a directory is given.
	Patterns []string `json:"patterns,omitempty" yaml:"patterns,omitempty" hcl:"patterns,optional"`
}

func Default() *Config {
	return &Config{
		TabWidth: position.DefaultTabWidth,
		LogLevel: "info",
		Format:   FormatText,
		Search:   &SearchBlock{},
	}
}

// Load reads the configuration at path. YAML is chosen by extension; anything
// else is parsed as HCL, where env.NAME refers to the environment.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, errors.Errorf("parsing YAML: %w", err)
		}
	} else {
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCL(data, path)
		if diags.HasErrors() {
			return nil, errors.Errorf("parsing HCL: %s", diags.Error())
		}

		ctx := &hcl.EvalContext{
			Variables: map[string]cty.Value{
				"env": environment(),
			},
		}

		diags = gohcl.DecodeBody(file.Body, ctx, &cfg)
		if diags.HasErrors() {
			return nil, errors.Errorf("decoding HCL: %s", diags.Error())
		}
	}

	cfg.fill()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating %s: %w", path, err)
	}

	return &cfg, nil
}

// Discover returns the first config file in dir, if any.
func Discover(fs afero.Fs, dir string) (string, bool) {
	for _, name := range Names {
		path := filepath.Join(dir, name)
		if ok, err := afero.Exists(fs, path); err == nil && ok {
			return path, true
		}
	}
	return "", false
}

func (c *Config) fill() {
	def := Default()
	if c.TabWidth == 0 {
		c.TabWidth = def.TabWidth
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Format == "" {
		c.Format = def.Format
	}
	if c.Search == nil {
		c.Search = def.Search
	}
}

func (c *Config) Validate() error {
	if c.TabWidth < 1 {
		return errors.Errorf("tab_width must be positive, got %d", c.TabWidth)
	}
	switch c.Format {
	case FormatText, FormatJSON, FormatVSCode:
	default:
		return errors.Errorf("unknown format %q", c.Format)
	}
	return nil
}

func environment() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}

// SearchPaths returns the cleaned search paths with duplicates removed,
// keeping the first occurrence of each.
func (c *Config) SearchPaths() []string {
	if c.Search == nil {
		return nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(c.Search.Paths))
	for _, p := range c.Search.Paths {
		clean := filepath.Clean(p)
		if seen[clean] {
			continue
		}
		seen[clean] = true
		out = append(out, clean)
	}
	return out
}
