package version

import (
	"fmt"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSemVer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"v1.2.3", "1.2.3"},
		{"1.2.3-rc.1", "1.2.3"},
		{"v0.4.0+dirty", "0.4.0"},
		{"dev", "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, semVer(tt.in))
		})
	}
}

func TestApplySettings(t *testing.T) {
	t.Run("fills unknown values", func(t *testing.T) {
		info := BuildInfo{GitCommit: "unknown", BuildDate: "unknown"}
		applySettings(&info, []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2024-05-01T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		})
		assert.Equal(t, "abc123", info.GitCommit)
		assert.Equal(t, "2024-05-01T10:00:00Z", info.BuildDate)
		assert.True(t, info.Modified)
	})

	t.Run("keeps stamped values", func(t *testing.T) {
		info := BuildInfo{GitCommit: "fromldflags", BuildDate: "today"}
		applySettings(&info, []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2024-05-01T10:00:00Z"},
		})
		assert.Equal(t, "fromldflags", info.GitCommit)
		assert.Equal(t, "today", info.BuildDate)
		assert.False(t, info.Modified)
	})
}

func TestFormat(t *testing.T) {
	info := BuildInfo{
		Version:   "v1.0.0",
		SemVer:    "1.0.0",
		BuildDate: "2024-05-01",
		GitCommit: "abc123",
		GitBranch: "main",
		Modified:  true,
		GoVersion: "go1.22.0",
		Platform:  "linux/amd64",
		NumCPU:    8,
	}
	for i := 0; i < maxDeps+3; i++ {
		info.BuildDeps = append(info.BuildDeps, Module{Path: fmt.Sprintf("example.com/m%d", i), Version: "v1.0.0"})
	}

	out := format(info)
	assert.Contains(t, out, "Arbor v1.0.0\n============\n")
	assert.Contains(t, out, "Commit:       abc123 (modified)")
	assert.Contains(t, out, "Platform:     linux/amd64")
	assert.Contains(t, out, "example.com/m0@v1.0.0")
	assert.NotContains(t, out, fmt.Sprintf("example.com/m%d@", maxDeps))
	assert.Contains(t, out, "... and 3 more")
}

func TestShort(t *testing.T) {
	assert.Equal(t, "arbor "+Version, Short())
}
