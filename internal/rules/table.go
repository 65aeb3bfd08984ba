// Package rules builds the extension-to-folder rule table from the rules
// document and classifies file names against it.
package rules

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"organize/internal/errors"
)

// Table is the immutable extension-to-folder mapping for one run.
type Table struct {
	byExt   map[string]string
	folders []string
	extsFor map[string][]string
}

// Load reads and parses the rules document at path.
func Load(path string, log *logrus.Logger) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewConfigError("rules file not found", path, errors.ConfigNotFound, err)
		}
		return nil, errors.NewConfigError("error reading rules file", path, errors.ConfigNotFound, err)
	}
	table, err := Parse(data, log)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid rules file %s", path)
	}
	return table, nil
}

// Parse builds a Table from a rules document: a JSON object whose keys are
// folder names and whose values are arrays of extension strings with the
// leading dot. JSON is a YAML subset, so the document is decoded through
// yaml.Node, which preserves key order; when the same extension appears
// under two folders, the first folder in the document keeps it and the
// duplicate is logged as a warning.
func Parse(data []byte, log *logrus.Logger) (*Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewConfigError("malformed rules document", "", errors.ConfigFormat, err)
	}
	if len(doc.Content) == 0 {
		return nil, errors.NewConfigError("empty rules document", "", errors.ConfigFormat, nil)
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.NewConfigError("rules document must be an object of folder names to extension lists", "", errors.ConfigSchema, nil)
	}

	t := &Table{
		byExt:   make(map[string]string),
		extsFor: make(map[string][]string),
	}

	// Mapping nodes hold key/value pairs flattened into Content.
	for i := 0; i < len(root.Content); i += 2 {
		keyNode := root.Content[i]
		valNode := root.Content[i+1]

		if keyNode.Kind != yaml.ScalarNode || keyNode.Tag != "!!str" {
			return nil, errors.NewConfigError("folder names must be strings", keyNode.Value, errors.ConfigSchema, nil)
		}
		folder := keyNode.Value
		if folder == "" {
			return nil, errors.NewConfigError("folder name must not be empty", "", errors.ConfigSchema, nil)
		}
		if valNode.Kind != yaml.SequenceNode {
			return nil, errors.NewConfigError("extensions must be an array of strings", folder, errors.ConfigSchema, nil)
		}

		t.folders = append(t.folders, folder)
		for _, extNode := range valNode.Content {
			if extNode.Kind != yaml.ScalarNode || extNode.Tag != "!!str" {
				return nil, errors.NewConfigError("extensions must be strings", folder, errors.ConfigSchema, nil)
			}
			ext := strings.ToLower(extNode.Value)
			if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
				return nil, errors.NewConfigError("extension must start with a dot", extNode.Value, errors.ConfigSchema, nil)
			}
			if first, dup := t.byExt[ext]; dup {
				// First occurrence in the document wins.
				if log != nil {
					log.Warnf("extension %s already mapped to %s, ignoring duplicate under %s", ext, first, folder)
				}
				continue
			}
			t.byExt[ext] = folder
			t.extsFor[folder] = append(t.extsFor[folder], ext)
		}
	}

	return t, nil
}

// Classify returns the destination folder for a file name. The lookup is
// pure: extension extraction plus a case-insensitive table lookup, no
// filesystem access. The second return is false for extension-less names
// and extensions with no rule.
func (t *Table) Classify(name string) (string, bool) {
	ext := ExtensionOf(name)
	if ext == "" {
		return "", false
	}
	folder, ok := t.byExt[strings.ToLower(ext)]
	return folder, ok
}

// ExtensionOf extracts the extension of a file name: everything from the
// final dot onward. Names without a dot, names consisting of a single
// leading dot (dotfiles like ".bashrc"), and names ending in a dot are
// extension-less and return "".
func ExtensionOf(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}

// Folders returns the folder names in document order.
func (t *Table) Folders() []string {
	return t.folders
}

// Extensions returns the extensions mapped to folder, in document order.
func (t *Table) Extensions(folder string) []string {
	return t.extsFor[folder]
}

// Len returns the number of mapped extensions.
func (t *Table) Len() int {
	return len(t.byExt)
}
