package output

import (
	"encoding/json"

	"github.com/sonemaro/arbor/pkg/logger"
	"github.com/sonemaro/arbor/pkg/tree"
)

// jsonNode represents an entry in JSON and YAML output
type jsonNode struct {
	Name     string      `json:"name" yaml:"name"`
	Path     string      `json:"path" yaml:"path"`
	Type     string      `json:"type" yaml:"type"`
	Size     int64       `json:"size,omitempty" yaml:"size,omitempty"`
	Mode     string      `json:"mode,omitempty" yaml:"mode,omitempty"`
	Target   string      `json:"target,omitempty" yaml:"target,omitempty"`
	Note     string      `json:"note,omitempty" yaml:"note,omitempty"`
	Hidden   bool        `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Cycle    bool        `json:"cycle,omitempty" yaml:"cycle,omitempty"`
	Flagged  bool        `json:"flagged,omitempty" yaml:"flagged,omitempty"`
	Children []*jsonNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// jsonOutput represents the complete document
type jsonOutput struct {
	Root       *jsonNode `json:"root" yaml:"root"`
	Statistics *stats    `json:"statistics,omitempty" yaml:"statistics,omitempty"`
	Findings   []string  `json:"findings,omitempty" yaml:"findings,omitempty"`
}

func (f *formatter) buildDocument(root *tree.PathEntry, findings []string) *jsonOutput {
	doc := &jsonOutput{
		Root: f.convertToJSONNode(root),
	}

	if f.config.WithStats {
		f.log.Debug("Adding statistics to document")
		doc.Statistics = f.calculateStats(root)
	}
	if f.config.WithFindings {
		doc.Findings = findings
	}
	return doc
}

func (f *formatter) formatJSON(root *tree.PathEntry, findings []string) (string, error) {
	f.log.Debug("Formatting JSON output")

	bytes, err := json.MarshalIndent(f.buildDocument(root, findings), "", "  ")
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal JSON")
		return "", err
	}

	return string(bytes) + "\n", nil
}

func (f *formatter) convertToJSONNode(e *tree.PathEntry) *jsonNode {
	if e == nil {
		return nil
	}

	f.log.WithFields(logger.Fields{
		"path": e.Path,
		"kind": e.Kind.String(),
	}).Trace("Converting entry to document node")

	node := &jsonNode{
		Name:    e.Name,
		Path:    e.Path,
		Type:    e.Kind.String(),
		Target:  e.Target,
		Note:    e.Note,
		Hidden:  e.Hidden,
		Cycle:   e.Cycle,
		Flagged: e.Flagged,
	}
	if e.Kind == tree.File {
		node.Size = e.Size
	}
	if e.Mode != 0 {
		node.Mode = e.Mode.String()
	}

	if len(e.Children) > 0 {
		node.Children = make([]*jsonNode, len(e.Children))
		for i, child := range e.Children {
			node.Children[i] = f.convertToJSONNode(child)
		}
	}

	return node
}
