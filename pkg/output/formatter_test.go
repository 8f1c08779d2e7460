package output

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/sonemaro/arbor/pkg/logger"
	"github.com/sonemaro/arbor/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// mockLogger implements logger.Logger interface for testing
type mockLogger struct {
	logs []string
}

func (m *mockLogger) Info(msg string)                               { m.logs = append(m.logs, "INFO: "+msg) }
func (m *mockLogger) Debug(msg string)                              { m.logs = append(m.logs, "DEBUG: "+msg) }
func (m *mockLogger) Error(msg string)                              { m.logs = append(m.logs, "ERROR: "+msg) }
func (m *mockLogger) Warn(msg string)                               { m.logs = append(m.logs, "WARN: "+msg) }
func (m *mockLogger) Trace(msg string)                              { m.logs = append(m.logs, "TRACE: "+msg) }
func (m *mockLogger) WithFields(fields logger.Fields) logger.Logger { return m }
func (m *mockLogger) Named(name string) logger.Logger               { return m }
func (m *mockLogger) Sync() error                                   { return nil }

func createTestTree() *tree.PathEntry {
	return &tree.PathEntry{
		Name: "root",
		Path: "/root",
		Kind: tree.Directory,
		Mode: os.ModeDir | 0755,
		Children: []*tree.PathEntry{
			{
				Name: "dir1",
				Path: "/root/dir1",
				Kind: tree.Directory,
				Mode: os.ModeDir | 0755,
				Children: []*tree.PathEntry{
					{Name: "file1.txt", Path: "/root/dir1/file1.txt", Kind: tree.File, Size: 100, Mode: 0644},
					{Name: "file2.json", Path: "/root/dir1/file2.json", Kind: tree.File, Size: 200, Mode: 0644},
				},
			},
			{
				Name: "dir2",
				Path: "/root/dir2",
				Kind: tree.Directory,
				Mode: os.ModeDir | 0755,
				Children: []*tree.PathEntry{
					{Name: "link1", Path: "/root/dir2/link1", Kind: tree.Symlink, Target: "../dir1/file1.txt", Mode: os.ModeSymlink | 0777},
				},
			},
			{Name: "locked", Path: "/root/locked", Kind: tree.Inaccessible, Mode: os.ModeDir, Note: "permission denied"},
			{Name: "secrets", Path: "/root/secrets", Kind: tree.Directory, Mode: os.ModeDir | 0700, Flagged: true, Children: []*tree.PathEntry{}},
			{Name: "file3.txt", Path: "/root/file3.txt", Kind: tree.File, Size: 300, Mode: 0644},
		},
	}
}

func TestRenderTree(t *testing.T) {
	tests := []struct {
		name  string
		root  *tree.PathEntry
		style Style
		want  []string
	}{
		{
			name: "unicode connectors",
			root: createTestTree(),
			want: []string{
				"/root/",
				"├── dir1/",
				"│   ├── file1.txt",
				"│   └── file2.json",
				"├── dir2/",
				"│   └── link1 -> ../dir1/file1.txt",
				"├── locked/ [inaccessible: permission denied]",
				"├── secrets/ [!]",
				"└── file3.txt",
			},
		},
		{
			name:  "ascii connectors",
			root:  createTestTree(),
			style: Style{ASCII: true},
			want: []string{
				"/root/",
				"|-- dir1/",
				"|   |-- file1.txt",
				"|   `-- file2.json",
				"|-- dir2/",
				"|   `-- link1 -> ../dir1/file1.txt",
				"|-- locked/ [inaccessible: permission denied]",
				"|-- secrets/ [!]",
				"`-- file3.txt",
			},
		},
		{
			name: "empty root",
			root: &tree.PathEntry{Name: "empty", Path: "empty", Kind: tree.Directory, Children: []*tree.PathEntry{}},
			want: []string{"empty/"},
		},
		{
			name: "root path already ends with a separator",
			root: &tree.PathEntry{Name: "/", Path: "/", Kind: tree.Directory},
			want: []string{"/"},
		},
		{
			name: "nested last child uses blank continuation",
			root: &tree.PathEntry{Name: "r", Path: "r", Kind: tree.Directory, Children: []*tree.PathEntry{
				{Name: "a", Path: "r/a", Kind: tree.Directory, Children: []*tree.PathEntry{
					{Name: "x.txt", Path: "r/a/x.txt", Kind: tree.File},
				}},
				{Name: "b", Path: "r/b", Kind: tree.Directory, Children: []*tree.PathEntry{
					{Name: "y.txt", Path: "r/b/y.txt", Kind: tree.File},
				}},
			}},
			want: []string{
				"r/",
				"├── a/",
				"│   └── x.txt",
				"└── b/",
				"    └── y.txt",
			},
		},
		{
			name: "symlink decorations",
			root: &tree.PathEntry{Name: "r", Path: "r", Kind: tree.Directory, Children: []*tree.PathEntry{
				{Name: "followed", Path: "r/followed", Kind: tree.Directory, Target: "a", Children: []*tree.PathEntry{}},
				{Name: "loop", Path: "r/loop", Kind: tree.Symlink, Target: "..", Cycle: true, Note: "cycle"},
				{Name: "dangling", Path: "r/dangling", Kind: tree.Symlink, Target: "missing", Note: "broken symlink"},
			}},
			want: []string{
				"r/",
				"├── followed/ -> a",
				"├── loop -> .. [cycle]",
				"└── dangling -> missing [broken symlink]",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderTree(tt.root, tt.style))
		})
	}
}

func TestRenderTreeIsPure(t *testing.T) {
	root := createTestTree()
	first := RenderTree(root, Style{})
	second := RenderTree(root, Style{})
	assert.Equal(t, first, second)
	assert.Nil(t, RenderTree(nil, Style{}))
}

func TestFormatter(t *testing.T) {
	tests := []struct {
		name         string
		format       Format
		withStats    bool
		withFindings bool
		withColors   bool
		findings     []string
		verify       func(*testing.T, string, *mockLogger)
	}{
		{
			name:   "tree format basic",
			format: FormatTree,
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.True(t, strings.HasPrefix(output, "/root/\n├── dir1/\n"))
				assert.True(t, strings.HasSuffix(output, "└── file3.txt\n"))
				assert.NotContains(t, output, "POTENTIAL SECURITY FINDINGS")
				assert.NotContains(t, output, "\x1b[")
			},
		},
		{
			name:       "tree format with colors",
			format:     FormatTree,
			withColors: true,
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.Contains(t, output, "\x1b[34;1m") // Bold blue for directories
				assert.Contains(t, output, "\x1b[36m")   // Cyan for symlinks
				assert.Contains(t, output, "\x1b[31m")   // Red for inaccessible
				assert.Contains(t, output, "\x1b[31;1m") // Bold red for findings
				assert.Contains(t, output, "\x1b[0m")    // Reset
			},
		},
		{
			name:      "tree format with stats",
			format:    FormatTree,
			withStats: true,
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.Contains(t, output, "\nSTATISTICS\n==========\n")
				assert.Contains(t, output, "Total directories found: 4\n")
				assert.Contains(t, output, "Total files: 3\n")
				assert.Contains(t, output, "Symlinks: 1\n")
				assert.Contains(t, output, "Inaccessible: 1\n")
				assert.Contains(t, output, "Total size: 600 B\n")
				assert.Contains(t, log.logs, "DEBUG: Adding statistics to output")
			},
		},
		{
			name:         "tree format with findings",
			format:       FormatTree,
			withFindings: true,
			findings:     []string{"/root/secrets"},
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.Contains(t, output, "└── file3.txt\n\nPOTENTIAL SECURITY FINDINGS\n===========================\n- /root/secrets\n")
			},
		},
		{
			name:         "tree format with no findings",
			format:       FormatTree,
			withFindings: true,
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.True(t, strings.HasSuffix(output, "POTENTIAL SECURITY FINDINGS\n===========================\nnone\n"))
			},
		},
		{
			name:     "findings hidden when disabled",
			format:   FormatTree,
			findings: []string{"/root/secrets"},
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.NotContains(t, output, "- /root/secrets")
			},
		},
		{
			name:   "json format",
			format: FormatJSON,
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.Contains(t, output, `"name": "root"`)
				assert.Contains(t, output, `"type": "directory"`)
				assert.Contains(t, output, `"type": "symlink"`)
				assert.Contains(t, output, `"target": "../dir1/file1.txt"`)
				assert.Contains(t, output, `"children"`)
				assert.Contains(t, log.logs, "DEBUG: Formatting JSON output")
			},
		},
		{
			name:         "json format with stats and findings",
			format:       FormatJSON,
			withStats:    true,
			withFindings: true,
			findings:     []string{"/root/secrets"},
			verify: func(t *testing.T, output string, log *mockLogger) {
				var doc struct {
					Statistics map[string]int `json:"statistics"`
					Findings   []string       `json:"findings"`
				}
				require.NoError(t, json.Unmarshal([]byte(output), &doc))
				assert.Equal(t, 3, doc.Statistics["totalFiles"])
				assert.Equal(t, 600, doc.Statistics["totalSize"])
				assert.Equal(t, []string{"/root/secrets"}, doc.Findings)
			},
		},
		{
			name:   "yaml format",
			format: FormatYAML,
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.Contains(t, output, "name: root")
				assert.Contains(t, output, "type: directory")
				assert.Contains(t, output, "note: permission denied")
				assert.Contains(t, output, "flagged: true")
				assert.Contains(t, output, "children:")
				assert.Contains(t, log.logs, "DEBUG: Formatting YAML output")
			},
		},
		{
			name:      "yaml format with stats",
			format:    FormatYAML,
			withStats: true,
			verify: func(t *testing.T, output string, log *mockLogger) {
				var doc struct {
					Statistics map[string]int `yaml:"statistics"`
				}
				require.NoError(t, yaml.Unmarshal([]byte(output), &doc))
				assert.Equal(t, 4, doc.Statistics["totalDirectories"])
				assert.Equal(t, 1, doc.Statistics["inaccessible"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &mockLogger{}

			formatter := NewFormatter(Config{
				Format:       tt.format,
				WithStats:    tt.withStats,
				WithFindings: tt.withFindings,
				WithColors:   tt.withColors,
			}, log)

			output, err := formatter.Format(createTestTree(), tt.findings)

			require.NoError(t, err)
			require.NotEmpty(t, output)

			tt.verify(t, output, log)
		})
	}
}

func TestFormatterDeterministic(t *testing.T) {
	for _, format := range []Format{FormatTree, FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			f := NewFormatter(Config{Format: format, WithStats: true, WithFindings: true}, logger.Nop())

			first, err := f.Format(createTestTree(), []string{"/root/secrets"})
			require.NoError(t, err)
			second, err := f.Format(createTestTree(), []string{"/root/secrets"})
			require.NoError(t, err)

			assert.Equal(t, first, second)
		})
	}
}

func TestFormatterEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		tree    *tree.PathEntry
		format  Format
		wantErr bool
		errLog  string
	}{
		{
			name:    "nil tree",
			tree:    nil,
			format:  FormatTree,
			wantErr: true,
			errLog:  "ERROR: nil tree provided for formatting",
		},
		{
			name:    "invalid format",
			tree:    createTestTree(),
			format:  "invalid",
			wantErr: true,
			errLog:  "ERROR: unsupported format: invalid",
		},
		{
			name:   "empty format defaults to tree",
			tree:   createTestTree(),
			format: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &mockLogger{}
			formatter := NewFormatter(Config{Format: tt.format}, log)

			output, err := formatter.Format(tt.tree, nil)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, output)
				assert.Contains(t, log.logs, tt.errLog)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, output)
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "tree", want: FormatTree},
		{in: "JSON", want: FormatJSON},
		{in: " yaml ", want: FormatYAML},
		{in: "", want: FormatTree},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
