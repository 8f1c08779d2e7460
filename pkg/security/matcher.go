// Package security flags directories whose names suggest sensitive content.
//
// The check is a keyword heuristic over names only; file contents are never
// read. Findings are advisory.
package security

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sonemaro/arbor/pkg/logger"
	"github.com/sonemaro/arbor/pkg/tree"
)

// Rule selects how a keyword is compared against a name.
type Rule string

const (
	// RuleSubstring matches when the keyword occurs anywhere in the name.
	RuleSubstring Rule = "substring"

	// RuleSegment matches when the keyword's tokens appear as whole tokens
	// of the name, where tokens are runs of letters and digits.
	RuleSegment Rule = "segment"
)

// DefaultKeywords is used when no keywords are configured.
var DefaultKeywords = []string{
	"secret", "private", "secure", "security", "password",
	"credential", "cert", "certificate", "key", "token",
	"auth", "oauth", "ssh", "ssl", "tls", "confidential",
	"sensitive", "restricted", ".env", "vault",
}

// ParseRule converts a rule name.
func ParseRule(s string) (Rule, error) {
	switch Rule(strings.ToLower(strings.TrimSpace(s))) {
	case RuleSubstring, "":
		return RuleSubstring, nil
	case RuleSegment:
		return RuleSegment, nil
	default:
		return "", fmt.Errorf("unknown match rule %q (want %s or %s)", s, RuleSubstring, RuleSegment)
	}
}

// Config configures a Matcher.
type Config struct {
	Keywords      []string
	Rule          Rule
	CaseSensitive bool
}

// Matcher checks entry names against a keyword list.
type Matcher struct {
	keywords      []string
	rule          Rule
	caseSensitive bool
	log           logger.Logger
}

// NewMatcher builds a matcher. Empty keywords fall back to DefaultKeywords.
func NewMatcher(config Config, log logger.Logger) (*Matcher, error) {
	rule, err := ParseRule(string(config.Rule))
	if err != nil {
		return nil, err
	}

	source := config.Keywords
	if len(source) == 0 {
		source = DefaultKeywords
	}

	keywords := make([]string, 0, len(source))
	for _, kw := range source {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if !config.CaseSensitive {
			kw = strings.ToLower(kw)
		}
		keywords = append(keywords, kw)
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no usable keywords")
	}

	return &Matcher{
		keywords:      keywords,
		rule:          rule,
		caseSensitive: config.CaseSensitive,
		log:           log.Named("security"),
	}, nil
}

// Keywords returns the normalized keyword list.
func (m *Matcher) Keywords() []string {
	return append([]string(nil), m.keywords...)
}

// Match reports the first keyword that matches name.
func (m *Matcher) Match(name string) (string, bool) {
	if !m.caseSensitive {
		name = strings.ToLower(name)
	}

	var nameTokens []string
	if m.rule == RuleSegment {
		nameTokens = tokens(name)
	}

	for _, kw := range m.keywords {
		switch m.rule {
		case RuleSegment:
			if containsRun(nameTokens, tokens(kw)) {
				return kw, true
			}
		default:
			if strings.Contains(name, kw) {
				return kw, true
			}
		}
	}
	return "", false
}

// Mark flags every directory-like entry below root whose name matches and
// returns the flagged paths in display order. The root itself is not checked.
func (m *Matcher) Mark(root *tree.PathEntry) []string {
	var flagged []string
	tree.Walk(root, func(e *tree.PathEntry, depth int) bool {
		if depth == 0 || !e.IsDirLike() {
			return true
		}
		if kw, ok := m.Match(e.Name); ok {
			e.Flagged = true
			flagged = append(flagged, e.Path)
			m.log.WithFields(logger.Fields{
				"path":    e.Path,
				"keyword": kw,
			}).Debug("Potential security finding")
		}
		return true
	})

	m.log.WithFields(logger.Fields{
		"findings": len(flagged),
		"rule":     string(m.rule),
	}).Info("Security pass completed")
	return flagged
}

func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// containsRun reports whether want occurs as a contiguous run inside have.
func containsRun(have, want []string) bool {
	if len(want) == 0 || len(want) > len(have) {
		return false
	}
	for i := 0; i+len(want) <= len(have); i++ {
		match := true
		for j := range want {
			if have[i+j] != want[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
