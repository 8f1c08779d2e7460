package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sonemaro/arbor/pkg/tree"
	"github.com/sonemaro/arbor/pkg/util"
)

// Style controls how RenderTree draws lines.
type Style struct {
	// ASCII uses plain ASCII connectors instead of box-drawing characters.
	ASCII bool

	// Color adds terminal colour codes to names and markers.
	Color bool
}

type connectors struct {
	branch, last, pipe, blank string
}

var (
	unicodeConnectors = connectors{branch: "├── ", last: "└── ", pipe: "│   ", blank: "    "}
	asciiConnectors   = connectors{branch: "|-- ", last: "`-- ", pipe: "|   ", blank: "    "}
)

// RenderTree returns one line per entry, starting with the root path.
func RenderTree(root *tree.PathEntry, style Style) []string {
	if root == nil {
		return nil
	}

	c := unicodeConnectors
	if style.ASCII {
		c = asciiConnectors
	}
	p := newPalette(style.Color)

	lines := []string{rootLabel(root, p)}
	var render func(e *tree.PathEntry, prefix string)
	render = func(e *tree.PathEntry, prefix string) {
		for i, child := range e.Children {
			connector, next := c.branch, c.pipe
			if i == len(e.Children)-1 {
				connector, next = c.last, c.blank
			}
			lines = append(lines, prefix+connector+label(child, p))
			render(child, prefix+next)
		}
	}
	render(root, "")
	return lines
}

func rootLabel(root *tree.PathEntry, p palette) string {
	name := root.Path
	if !strings.HasSuffix(name, string(os.PathSeparator)) {
		name += string(os.PathSeparator)
	}
	return p.dir(name)
}

// label renders an entry's name with its decorations.
func label(e *tree.PathEntry, p palette) string {
	var b strings.Builder

	switch {
	case e.Kind == tree.Directory:
		b.WriteString(p.dir(e.Name + "/"))
	case e.Kind == tree.Symlink:
		b.WriteString(p.link(e.Name))
	case e.Kind == tree.Inaccessible:
		name := e.Name
		if e.Mode.IsDir() {
			name += "/"
		}
		b.WriteString(p.bad(name))
	default:
		b.WriteString(e.Name)
	}

	if e.Target != "" {
		b.WriteString(" -> ")
		b.WriteString(e.Target)
	}

	switch {
	case e.Cycle:
		b.WriteString(" " + p.bad("[cycle]"))
	case e.Kind == tree.Inaccessible:
		b.WriteString(" " + p.bad(fmt.Sprintf("[inaccessible: %s]", e.Note)))
	case e.Note != "":
		b.WriteString(" " + p.bad("["+e.Note+"]"))
	}

	if e.Flagged {
		b.WriteString(" " + p.flag("[!]"))
	}
	return b.String()
}

// palette wraps the colour functions so that disabled colour is a no-op.
type palette struct {
	dir, link, bad, flag func(a ...interface{}) string
}

func newPalette(enabled bool) palette {
	if !enabled {
		plain := fmt.Sprint
		return palette{dir: plain, link: plain, bad: plain, flag: plain}
	}
	paint := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.Sprint
	}
	return palette{
		dir:  paint(color.FgBlue, color.Bold),
		link: paint(color.FgCyan),
		bad:  paint(color.FgRed),
		flag: paint(color.FgRed, color.Bold),
	}
}

// formatTree formats the tree with its trailing sections
func (f *formatter) formatTree(root *tree.PathEntry, findings []string) (string, error) {
	f.log.Debug("Formatting tree output")

	lines := RenderTree(root, Style{ASCII: f.config.ASCII, Color: f.config.WithColors})

	var builder strings.Builder
	builder.WriteString(strings.Join(lines, "\n"))
	builder.WriteString("\n")

	if f.config.WithFindings {
		f.log.Debug("Adding security findings to output")
		builder.WriteString("\n")
		writeHeading(&builder, "POTENTIAL SECURITY FINDINGS")
		if len(findings) == 0 {
			builder.WriteString("none\n")
		}
		for _, finding := range findings {
			builder.WriteString("- " + finding + "\n")
		}
	}

	if f.config.WithStats {
		f.log.Debug("Adding statistics to output")
		stats := f.calculateStats(root)
		builder.WriteString("\n")
		writeHeading(&builder, "STATISTICS")
		builder.WriteString(fmt.Sprintf("Total directories found: %d\n", stats.Dirs))
		builder.WriteString(fmt.Sprintf("Total files: %d\n", stats.Files))
		builder.WriteString(fmt.Sprintf("Symlinks: %d\n", stats.Symlinks))
		builder.WriteString(fmt.Sprintf("Inaccessible: %d\n", stats.Inaccessible))
		builder.WriteString(fmt.Sprintf("Total size: %s\n", util.FormatSize(stats.TotalSize)))
	}

	return builder.String(), nil
}

func writeHeading(b *strings.Builder, title string) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n")
}
