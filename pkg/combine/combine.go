// Package combine implements the combine operation (spec.md §6
// "Combined-output file format"), grounded on
// original_source/secretscanning/combine.py: walk a tree of
// patterns.yml files and re-emit the filtered pattern mappings as one
// YAML document.
package combine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/advanced-security/patterntest/pkg/loader"
)

// Document is the combined-output shape (spec.md §6): a fixed display
// name plus every surviving pattern's verbatim mapping.
type Document struct {
	Name     string      `yaml:"name"`
	Patterns []yaml.Node `yaml:"patterns"`
}

// rawPatternsFile decodes only as much of a patterns.yml document as
// combine needs: the raw pattern nodes, kept unparsed so re-emitting
// them for upload doesn't lose or normalize any field the Loader would
// otherwise discard.
type rawPatternsFile struct {
	Patterns []yaml.Node `yaml:"patterns"`
}

// Combine walks root for patterns.yml files, applies filter the same
// way the Loader would, and returns one combined Document holding
// every surviving pattern's raw YAML mapping (not the normalized
// types.Pattern — the combined output is meant for re-upload, so it
// must preserve whatever the source file actually wrote).
func Combine(root string, filter loader.Filter) (*Document, error) {
	doc := &Document{Name: "Collection of custom patterns"}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != loader.Filename {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		var raw rawPatternsFile
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		for _, node := range raw.Patterns {
			node := node
			typeName, name, err := patternFields(&node)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if !filter.Keep(typeName, name) {
				continue
			}
			doc.Patterns = append(doc.Patterns, node)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("combining patterns under %s: %w", root, err)
	}

	return doc, nil
}

// patternFields extracts just the type/name fields from a raw pattern
// mapping node, enough to apply loader.Filter without fully decoding
// (and thereby normalizing away) the pattern.
func patternFields(node *yaml.Node) (typeName, name string, err error) {
	var fields struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	}
	if err := node.Decode(&fields); err != nil {
		return "", "", fmt.Errorf("decoding pattern fields: %w", err)
	}
	return fields.Type, fields.Name, nil
}
