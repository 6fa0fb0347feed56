package record

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Rule says what to prune for one top-level section title: either the whole
// section (DropAll) or the named child sections within it.
type Rule struct {
	DropAll  bool
	Children map[string]bool
}

// Rules maps a top-level section title to its pruning rule. Titles without a
// rule pass through unchanged.
type Rules map[string]Rule

// ruleFile is the YAML layout of a rules file.
type ruleFile struct {
	Sections []struct {
		Title    string   `yaml:"title"`
		Children []string `yaml:"children"`
	} `yaml:"sections"`
}

// ParseRules parses a YAML rules document.
func ParseRules(data []byte) (Rules, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse section rules: %w", err)
	}

	rules := make(Rules, len(file.Sections))
	for _, entry := range file.Sections {
		if entry.Title == "" {
			return nil, fmt.Errorf("section rule without a title")
		}
		if len(entry.Children) == 0 {
			rules[entry.Title] = Rule{DropAll: true}
			continue
		}
		children := make(map[string]bool, len(entry.Children))
		for _, c := range entry.Children {
			children[c] = true
		}
		rules[entry.Title] = Rule{Children: children}
	}
	return rules, nil
}

// DefaultRules returns the embedded pruning rules.
func DefaultRules() Rules {
	rules, err := ParseRules(defaultRulesYAML)
	if err != nil {
		// The embedded file is part of the build; a parse failure is a bug.
		panic(err)
	}
	return rules
}

// LoadRules reads rules from a YAML file, or the embedded defaults when path
// is empty.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read section rules %s: %w", path, err)
	}
	return ParseRules(data)
}

// Filter returns a new section sequence with the ruled-out sections removed.
// The input is deep-copied and never mutated, and the operation is
// idempotent. A surviving top-level section whose child list becomes empty
// after pruning is dropped entirely.
func (r Rules) Filter(sections []RawSection) []RawSection {
	out := make([]RawSection, 0, len(sections))

	for _, section := range sections {
		rule, ruled := r[section.TOCHeading]
		if ruled && rule.DropAll {
			continue
		}

		section = section.Clone()

		if section.Section != nil {
			kept := make([]RawSection, 0, len(section.Section))
			for _, sub := range section.Section {
				if ruled && rule.Children[sub.TOCHeading] {
					continue
				}
				kept = append(kept, sub)
			}
			// An information-only section whose named subsections were all
			// excluded is pointless on its own.
			if len(kept) == 0 {
				continue
			}
			section.Section = kept
		}

		out = append(out, section)
	}

	return out
}
