package security

import (
	"os"
	"testing"

	"github.com/sonemaro/arbor/pkg/logger"
	"github.com/sonemaro/arbor/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		input  string
		want   bool
	}{
		{name: "substring hit", input: "my_secrets", want: true},
		{name: "substring is case insensitive", input: "SSH-Keys", want: true},
		{name: "substring matches inside words", input: "monkey", want: true},
		{name: "substring miss", input: "docs", want: false},
		{name: "dot keyword", input: "prod.env", want: true},
		{name: "segment hit", config: Config{Rule: RuleSegment}, input: "aws-key", want: true},
		{name: "segment ignores partial words", config: Config{Rule: RuleSegment}, input: "monkey", want: false},
		{name: "segment dot keyword", config: Config{Rule: RuleSegment}, input: "prod.env", want: true},
		{name: "case sensitive miss", config: Config{CaseSensitive: true}, input: "SECRET", want: false},
		{name: "custom keywords", config: Config{Keywords: []string{"backup"}}, input: "Backups", want: true},
		{name: "custom keywords replace defaults", config: Config{Keywords: []string{"backup"}}, input: "secret", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatcher(tt.config, logger.Nop())
			require.NoError(t, err)

			_, got := m.Match(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewMatcherErrors(t *testing.T) {
	_, err := NewMatcher(Config{Rule: "fuzzy"}, logger.Nop())
	assert.Error(t, err)

	_, err = NewMatcher(Config{Keywords: []string{" ", ""}}, logger.Nop())
	assert.Error(t, err)
}

func TestParseRule(t *testing.T) {
	tests := []struct {
		in      string
		want    Rule
		wantErr bool
	}{
		{in: "", want: RuleSubstring},
		{in: "substring", want: RuleSubstring},
		{in: " Segment ", want: RuleSegment},
		{in: "regex", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRule(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMark(t *testing.T) {
	d := func(path, name string, children ...*tree.PathEntry) *tree.PathEntry {
		return &tree.PathEntry{Path: path, Name: name, Kind: tree.Directory, Mode: os.ModeDir, Children: children}
	}
	f := func(path, name string) *tree.PathEntry {
		return &tree.PathEntry{Path: path, Name: name, Kind: tree.File}
	}

	root := d("/secret-root", "secret-root",
		d("/secret-root/a", "a",
			d("/secret-root/a/private", "private"),
		),
		d("/secret-root/certs", "certs"),
		f("/secret-root/password.txt", "password.txt"),
		&tree.PathEntry{Path: "/secret-root/tokens", Name: "tokens", Kind: tree.Inaccessible, Mode: os.ModeDir},
	)

	m, err := NewMatcher(Config{}, logger.Nop())
	require.NoError(t, err)

	flagged := m.Mark(root)
	assert.Equal(t, []string{"/secret-root/a/private", "/secret-root/certs", "/secret-root/tokens"}, flagged)

	assert.False(t, root.Flagged, "root is not checked")
	assert.False(t, root.Children[2].Flagged, "files are not checked")
	assert.True(t, root.Children[1].Flagged)
}

func TestMarkNoFindings(t *testing.T) {
	m, err := NewMatcher(Config{}, logger.Nop())
	require.NoError(t, err)

	root := &tree.PathEntry{Path: "/r", Name: "r", Kind: tree.Directory, Children: []*tree.PathEntry{
		{Path: "/r/docs", Name: "docs", Kind: tree.Directory},
	}}
	assert.Empty(t, m.Mark(root))
}
