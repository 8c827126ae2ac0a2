package tokens_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msarson/Clarion-Extension-sub003/cmd/clarion-tokens/tokens"
	"github.com/msarson/Clarion-Extension-sub003/pkg/workspace"
)

const program = "  PROGRAM\n  INCLUDE('equates.clw')\n  MAP\n  END\n  CODE\n"

func setup(t *testing.T) context.Context {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/main.clw", []byte(program), 0o644))
	return workspace.WithContext(context.Background(), workspace.New(fs, nil))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := tokens.NewTokensCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(setup(t))
	return out.String(), err
}

func TestTokensText(t *testing.T) {
	out, err := run(t, "--kind", "endMarker", "/src/main.clw")
	require.NoError(t, err)
	assert.Equal(t, "# /src/main.clw\n4:3\tendMarker\t\"END\"\n", out)
}

func TestTokensJSON(t *testing.T) {
	out, err := run(t, "--json", "/src")
	require.NoError(t, err)

	var got struct {
		File   string           `json:"file"`
		Tokens []map[string]any `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "/src/main.clw", got.File)

	var mapTok map[string]any
	for _, tok := range got.Tokens {
		if tok["text"] == "MAP" {
			mapTok = tok
		}
	}
	require.NotNil(t, mapTok)
	assert.Equal(t, "structure", mapTok["kind"])
	assert.Equal(t, "other", mapTok["construct"])
}

func TestTokensAt(t *testing.T) {
	tests := []struct {
		name     string
		at       string
		expected string
	}{
		{
			name:     "on_opener",
			at:       "3:4",
			expected: "# /src/main.clw\n3:3\tstructure\t\"MAP\"\nin\tMAP\t3:3-4\n",
		},
		{
			name:     "on_end_marker",
			at:       "4:3",
			expected: "# /src/main.clw\n4:3\tendMarker\t\"END\"\nin\tMAP\t3:3-4\n",
		},
		{
			name:     "whitespace_outside_constructs",
			at:       "1:1",
			expected: "# /src/main.clw\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "--at", tt.at, "/src/main.clw")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestTokensErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown_kind", args: []string{"--kind", "bogus", "/src/main.clw"}},
		{name: "missing_file", args: []string{"/src/nope.clw"}},
		{name: "no_args", args: nil},
		{name: "bad_place", args: []string{"--at", "x", "/src/main.clw"}},
		{name: "zero_place", args: []string{"--at", "0:1", "/src/main.clw"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}
