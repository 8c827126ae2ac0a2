package outline_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msarson/Clarion-Extension-sub003/cmd/clarion-tokens/outline"
	"github.com/msarson/Clarion-Extension-sub003/pkg/workspace"
)

const program = `  PROGRAM
  MAP
  END
Customer FILE,PRE(CUS)
Record RECORD
Name STRING(20)
  END
  END
  CODE
  IF x THEN y = x.
  LOOP
  END
`

func TestOutline(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/main.clw", []byte(program), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/src/open.clw", []byte("Q QUEUE\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/src/stray.clw", []byte("  IF a.\n  END\n"), 0o644))
	ctx := workspace.WithContext(context.Background(), workspace.New(fs, nil))

	var out bytes.Buffer
	cmd := outline.NewOutlineCommand()
	cmd.SetArgs([]string{"/src"})
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	require.NoError(t, cmd.ExecuteContext(ctx))

	expected := "# /src/main.clw\n" +
		"MAP\tother\t2:3-3\n" +
		"FILE\tdata\t4:10-8\n" +
		"  RECORD\tdata\t5:8-7\n" +
		"IF\tcontrol\t10:3-10\n" +
		"LOOP\tcontrol\t11:3-12\n" +
		"# /src/open.clw\n" +
		"QUEUE\tdata\t1:3-2\tunclosed\n" +
		"# /src/stray.clw\n" +
		"IF\tcontrol\t1:3-1\n" +
		"END\torphan\t2:3\n"
	assert.Equal(t, expected, out.String())
}
