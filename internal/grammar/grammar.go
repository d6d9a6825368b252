// Package grammar reads and writes grammar documents: a main pattern plus
// an ordered list of named sub-patterns, stored as YAML or JSON.
//
//	name: toki
//	pattern: "{C}{V}^pa^ki"
//	count: 20
//	definitions:
//	  - C: p/t/k
//	  - V: a/i
//
// All text is normalised to Unicode NFC when a document is parsed, so that
// precomposed and decomposed spellings of the same letter generate equal
// words.
//
// A document must have a non-empty pattern. The generator itself accepts
// the empty pattern and yields one empty word, but in a file an empty or
// missing pattern key is treated as a mistake. Definitions may be empty.
package grammar

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/wordgen/pkg/wordgen"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// ErrInvalidDefinition is wrapped by every definition-level error.
var ErrInvalidDefinition = errors.New("invalid definition")

// Grammar is one generation recipe.
type Grammar struct {
	Name        string
	Description string
	Pattern     string
	Count       int
	Definitions []wordgen.Definition

	// Path is the file the grammar was loaded from, if any.
	Path string
}

// Error reports a problem with a grammar file.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// document is the on-disk shape.
type document struct {
	Name        string         `yaml:"name,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Pattern     patternText    `yaml:"pattern"`
	Count       int            `yaml:"count,omitempty"`
	Definitions definitionList `yaml:"definitions,omitempty"`
}

// Load reads the grammar at path. A missing name defaults to the file name
// without its extension.
func Load(path string) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar: %w", err)
	}

	g, err := Parse(data)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	g.Path = path
	if g.Name == "" {
		g.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return g, nil
}

// Parse decodes a YAML or JSON grammar document and validates it.
func Parse(data []byte) (*Grammar, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse grammar: %w", err)
	}

	g := &Grammar{
		Name:        norm.NFC.String(strings.TrimSpace(doc.Name)),
		Description: doc.Description,
		Pattern:     norm.NFC.String(string(doc.Pattern)),
		Count:       doc.Count,
		Definitions: make([]wordgen.Definition, len(doc.Definitions)),
	}
	for i, d := range doc.Definitions {
		g.Definitions[i] = wordgen.Definition{
			Name:    norm.NFC.String(d.Name),
			Pattern: norm.NFC.String(d.Pattern),
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks the grammar for problems the generator cannot recover
// from at the file level, including an empty pattern. Grammar-level
// oddities such as unknown references are left to the linter.
func (g *Grammar) Validate() error {
	if g.Pattern == "" {
		return errors.New("pattern is required")
	}
	if g.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", g.Count)
	}
	for i, d := range g.Definitions {
		if err := validateName(d.Name); err != nil {
			return fmt.Errorf("definitions[%d]: %w", i, err)
		}
	}
	return nil
}

// Save writes g to path as YAML.
func Save(path string, g *Grammar) error {
	data, err := Marshal(g)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write grammar: %w", err)
	}
	return nil
}

// Marshal encodes g as a YAML document.
func Marshal(g *Grammar) ([]byte, error) {
	doc := document{
		Name:        g.Name,
		Description: g.Description,
		Pattern:     patternText(g.Pattern),
		Count:       g.Count,
		Definitions: make(definitionList, len(g.Definitions)),
	}
	copy(doc.Definitions, g.Definitions)

	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode grammar: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode grammar: %w", err)
	}
	return []byte(sb.String()), nil
}

// ParseDefinitionFlag parses a NAME=PATTERN command line value. The pattern
// may itself contain '='.
func ParseDefinitionFlag(s string) (wordgen.Definition, error) {
	name, pattern, ok := strings.Cut(s, "=")
	if !ok {
		return wordgen.Definition{}, fmt.Errorf("%w: %q is not NAME=PATTERN", ErrInvalidDefinition, s)
	}
	name = norm.NFC.String(strings.TrimSpace(name))
	if err := validateName(name); err != nil {
		return wordgen.Definition{}, err
	}
	return wordgen.Definition{Name: name, Pattern: norm.NFC.String(pattern)}, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidDefinition)
	}
	if strings.ContainsAny(name, "{}") {
		return fmt.Errorf("%w: name %q cannot contain braces", ErrInvalidDefinition, name)
	}
	return nil
}

// Sample returns the starter grammar written by "wordgen init".
func Sample() *Grammar {
	return &Grammar{
		Name:        "sample",
		Description: "CV(C) syllables with an optional second syllable",
		Pattern:     "{C}{V}({N})({C}{V})^ji^wu",
		Count:       20,
		Definitions: []wordgen.Definition{
			{Name: "C", Pattern: "p/t/k/m/n/s*2/l/w/j"},
			{Name: "V", Pattern: "a*3/e/i*2/o/u"},
			{Name: "N", Pattern: "n/m"},
		},
	}
}
