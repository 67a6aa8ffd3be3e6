package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drewjocham/go-json-utils/internal/adapter"
	"github.com/drewjocham/go-json-utils/internal/jsonutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	prev := zap.L()
	t.Cleanup(func() {
		zap.ReplaceGlobals(prev)
		require.NoError(t, jsonutil.SetBuilder(nil))
	})

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-file", filepath.Join(t.TempDir(), "jsu.log")}, args...))

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "help flag", args: []string{"--help"}},
		{name: "version command", args: []string{"version"}},
		{name: "invalid command", args: []string{"invalid"}, wantErr: true},
		{name: "too many args", args: []string{"fmt", "a", "b"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "", tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "dev (commit: none, build date: unknown)\n", out)
}

func TestFmt(t *testing.T) {
	file := writeFile(t, "doc.json", `{"b":1,"a":[true]}`)

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{name: "compact sorts keys", stdin: `{"b":1,"a":2}`, args: []string{"fmt", "--compact"}, want: "{\"a\":2,\"b\":1}\n"},
		{name: "pretty", stdin: `[1,2]`, args: []string{"fmt"}, want: "[\n  1,\n  2\n]\n"},
		{name: "indent override", stdin: `[1]`, args: []string{"fmt", "--indent", "4"}, want: "[\n    1\n]\n"},
		{name: "explicit stdin", stdin: `"x"`, args: []string{"fmt", "-"}, want: "\"x\"\n"},
		{name: "file argument", args: []string{"fmt", "--compact", file}, want: "{\"a\":[true],\"b\":1}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestFmtErrors(t *testing.T) {
	_, _, err := run(t, "", "fmt", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = run(t, `{"a":`, "fmt")
	var jerr *adapter.Error
	assert.ErrorAs(t, err, &jerr)

	_, _, err = run(t, `[1]`, "fmt", "--indent", "0")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	out, _, err := run(t, `{"a":1}`, "validate")
	require.NoError(t, err)
	assert.Equal(t, "valid (7 B)\n", out)

	_, _, err = run(t, `{"a":`, "validate")
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestGet(t *testing.T) {
	doc := `{"users":[{"name":"ann"},{"name":"bo"}]}`

	out, _, err := run(t, doc, "get", "users.#.name")
	require.NoError(t, err)
	assert.Equal(t, "[\"ann\",\"bo\"]\n", out)

	out, _, err = run(t, "", "get", "users.1", writeFile(t, "users.json", doc))
	require.NoError(t, err)
	assert.Equal(t, "{\"name\":\"bo\"}\n", out)

	_, _, err = run(t, doc, "get", "groups")
	assert.ErrorContains(t, err, `no value at "groups"`)

	_, _, err = run(t, `{`, "get", "a")
	assert.ErrorIs(t, err, ErrInvalidJSON)

	_, _, err = run(t, doc, "get")
	assert.Error(t, err)
}

func TestStream(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		want    string
		wantErr string
	}{
		{name: "elements", stdin: `[1, {"a":"x"}, null]`, want: "1\n{\"a\":\"x\"}\nnull\n", wantErr: "3 elements\n"},
		{name: "empty input", stdin: "", want: "", wantErr: "0 elements\n"},
		{name: "null", stdin: "null", want: "", wantErr: "0 elements\n"},
		{name: "quiet", stdin: `[true]`, args: []string{"-q"}, want: "true\n", wantErr: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, err := run(t, tt.stdin, append([]string{"stream"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, tt.wantErr, errOut)
		})
	}
}

func TestStreamErrors(t *testing.T) {
	_, _, err := run(t, `{"a":1}`, "stream")
	assert.Error(t, err)

	out, _, err := run(t, `[1, oops]`, "stream")
	assert.ErrorContains(t, err, "element 1")
	assert.Equal(t, "1\n", out)
}

func TestShowConfig(t *testing.T) {
	out, _, err := run(t, "", "fmt", "--show-config")
	assert.ErrorIs(t, err, ErrShowConfigDisplayed)
	assert.Contains(t, out, `"fieldNaming": "identity"`)
	assert.Contains(t, out, `"timeZone": "UTC"`)
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("JSONUTIL_NON_EXECUTABLE", "true")

	out, _, err := run(t, `[1]`, "fmt", "--compact")
	require.NoError(t, err)
	assert.Equal(t, ")]}'\n[1]\n", out)
}

func TestConfigFile(t *testing.T) {
	t.Cleanup(func() { _ = os.Unsetenv("JSONUTIL_INDENT") })
	path := writeFile(t, "jsu.env", "JSONUTIL_INDENT=4\n")

	out, _, err := run(t, `[1]`, "fmt", "-c", path)
	require.NoError(t, err)
	assert.Equal(t, "[\n    1\n]\n", out)
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("JSONUTIL_NUMBER_STRATEGY", "bogus")

	_, _, err := run(t, `[1]`, "fmt")
	assert.ErrorContains(t, err, "config load failed")
}

func TestMCPConfig(t *testing.T) {
	out, _, err := run(t, "", "mcp", "config")
	require.NoError(t, err)
	assert.Contains(t, out, `"json-utils"`)
	assert.Contains(t, out, `"mcp"`)
}
