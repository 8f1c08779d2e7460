package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sonemaro/arbor/internal/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envNames = []string{
	"WORKERS", "MAX_DEPTH", "FOLLOW_SYMLINKS", "ALL", "SECURITY", "KEYWORDS",
	"MATCH", "FORMAT", "OUTPUT", "STATS", "ASCII", "NO_PAGER", "NO_PROGRESS",
	"NO_COLOR", "VERBOSE", "TIMEOUT", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envNames {
		t.Setenv(config.EnvPrefix+"_"+name, "")
		os.Unsetenv(config.EnvPrefix + "_" + name)
	}
}

func execute(t *testing.T, fs afero.Fs, args ...string) (string, string, error) {
	t.Helper()
	clearEnv(t)

	cmd := newRootCommand(&Options{Fs: fs})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func testFS(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/a/x.txt", []byte("x"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/proj/.git/HEAD", []byte("ref"), 0644))
	require.NoError(t, fs.MkdirAll("/proj/b", 0755))
	return fs
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "defaults",
			args: []string{"/proj"},
			want: "/proj/\n├── a/\n│   └── x.txt\n└── b/\n",
		},
		{
			name: "show hidden",
			args: []string{"-a", "/proj"},
			want: "/proj/\n├── .git/\n│   └── HEAD\n├── a/\n│   └── x.txt\n└── b/\n",
		},
		{
			name: "short flags combined",
			args: []string{"-w", "1", "-d", "0", "--ascii", "/proj"},
			want: "/proj/\n|-- a/\n`-- b/\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, testFS(t), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestRootCommandOutputFile(t *testing.T) {
	fs := testFS(t)
	stdout, stderr, err := execute(t, fs, "-o", "/tmp/tree.txt", "/proj")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Tree structure has been written to /tmp/tree.txt")

	data, err := afero.ReadFile(fs, "/tmp/tree.txt")
	require.NoError(t, err)
	assert.Equal(t, "/proj/\n├── a/\n│   └── x.txt\n└── b/\n", string(data))
}

func TestRootCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"zero workers", []string{"-w", "0", "/proj"}, "workers must be between"},
		{"bad format", []string{"--format", "xml", "/proj"}, "unsupported format"},
		{"missing root", []string{"/nope"}, "root path does not exist"},
		{"too many arguments", []string{"/proj", "/other"}, "accepts at most 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, testFS(t), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, stdout)
		})
	}
}

func TestRootCommandConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arbor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ascii: true\nmax_depth: 0\n"), 0644))

	stdout, _, err := execute(t, testFS(t), "--config", path, "/proj")
	require.NoError(t, err)
	assert.Equal(t, "/proj/\n|-- a/\n`-- b/\n", stdout)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, afero.NewMemMapFs(), "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "arbor "))

	stdout, _, err = execute(t, afero.NewMemMapFs(), "version", "--full")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Version Information:")
}
