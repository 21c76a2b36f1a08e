package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

var (
	errBlockScalar      = errors.New("block scalars cannot be rewritten in place")
	errScalarMismatch   = errors.New("scalar text does not match its position")
	errPositionOutRange = errors.New("scalar position is outside the document")
)

// yamlDocument is a YAML file kept both as raw bytes and as a node tree, so
// values found in the tree can be rewritten in the bytes.
type yamlDocument struct {
	path    string
	content []byte
	root    *yaml.Node
}

func readYAMLDocument(path string) (*yamlDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	var root yaml.Node
	if err = yaml.Unmarshal(content, &root); err != nil {
		return nil, &entities.ParseError{Source: path, Input: "YAML document", Err: err}
	}
	return &yamlDocument{path: path, content: content, root: &root}, nil
}

// body returns the top-level node of the document, nil for an empty file.
func (it *yamlDocument) body() *yaml.Node {
	if it.root.Kind == yaml.DocumentNode && len(it.root.Content) > 0 {
		return it.root.Content[0]
	}
	return nil
}

// mappingValue returns the value node of key in a mapping node.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// walkKey calls fn for every scalar value of key, at any depth.
func walkKey(node *yaml.Node, key string, fn func(value *yaml.Node)) {
	if node == nil {
		return
	}
	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range node.Content {
			walkKey(child, key, fn)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if k.Value == key && v.Kind == yaml.ScalarNode {
				fn(v)
				continue
			}
			walkKey(v, key, fn)
		}
	case yaml.ScalarNode, yaml.AliasNode:
	}
}

// topLevelEnv returns the scalar node of env.<name> at the document root.
func (it *yamlDocument) topLevelEnv(name string) *yaml.Node {
	value := mappingValue(mappingValue(it.body(), "env"), name)
	if value == nil || value.Kind != yaml.ScalarNode {
		return nil
	}
	return value
}

type scalarEdit struct {
	start int
	end   int
	text  string
}

// scalarSpan locates the raw bytes of a flow scalar from its line and column.
func (it *yamlDocument) scalarSpan(node *yaml.Node) (int, int, error) {
	offset, err := offsetOf(it.content, node.Line, node.Column)
	if err != nil {
		return 0, 0, err
	}
	rest := it.content[offset:]

	switch node.Style {
	case yaml.LiteralStyle, yaml.FoldedStyle:
		return 0, 0, errBlockScalar
	case yaml.DoubleQuotedStyle:
		end := closingYAMLQuote(rest, '"')
		if end < 0 {
			return 0, 0, errScalarMismatch
		}
		return offset, offset + end + 1, nil
	case yaml.SingleQuotedStyle:
		end := closingYAMLQuote(rest, '\'')
		if end < 0 {
			return 0, 0, errScalarMismatch
		}
		return offset, offset + end + 1, nil
	default:
		if !bytes.HasPrefix(rest, []byte(node.Value)) {
			return 0, 0, errScalarMismatch
		}
		return offset, offset + len(node.Value), nil
	}
}

// replacement renders value in the quoting style of node.
func replacement(node *yaml.Node, value string) string {
	switch node.Style {
	case yaml.DoubleQuotedStyle:
		return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value) + `"`
	case yaml.SingleQuotedStyle:
		return "'" + strings.ReplaceAll(value, "'", "''") + "'"
	default:
		return value
	}
}

// rewrite replaces each node with its new value and returns the new content.
// Nodes already holding their value are left alone.
func (it *yamlDocument) rewrite(values map[*yaml.Node]string) ([]byte, error) {
	edits := make([]scalarEdit, 0, len(values))
	for node, value := range values {
		if node.Value == value {
			continue
		}
		start, end, err := it.scalarSpan(node)
		if err != nil {
			return nil, fmt.Errorf("%s:%d:%d: %w", it.path, node.Line, node.Column, err)
		}
		edits = append(edits, scalarEdit{start: start, end: end, text: replacement(node, value)})
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].start > edits[j].start })

	content := bytes.Clone(it.content)
	for _, edit := range edits {
		content = append(content[:edit.start], append([]byte(edit.text), content[edit.end:]...)...)
	}
	return content, nil
}

// offsetOf converts a 1-based line and rune column to a byte offset.
func offsetOf(content []byte, line, column int) (int, error) {
	offset := 0
	for current := 1; current < line; current++ {
		next := bytes.IndexByte(content[offset:], '\n')
		if next < 0 {
			return 0, errPositionOutRange
		}
		offset += next + 1
	}
	for col := 1; col < column; col++ {
		if offset >= len(content) || content[offset] == '\n' {
			return 0, errPositionOutRange
		}
		_, size := utf8.DecodeRune(content[offset:])
		offset += size
	}
	return offset, nil
}

// closingQuote returns the index of the quote closing the scalar opened at raw[0].
func closingYAMLQuote(raw []byte, quote byte) int {
	if len(raw) == 0 || raw[0] != quote {
		return -1
	}
	for i := 1; i < len(raw); i++ {
		switch {
		case quote == '"' && raw[i] == '\\':
			i++
		case raw[i] == quote:
			if quote == '\'' && i+1 < len(raw) && raw[i+1] == '\'' {
				i++
				continue
			}
			return i
		}
	}
	return -1
}
