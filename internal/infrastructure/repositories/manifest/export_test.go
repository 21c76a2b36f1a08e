package manifest

import "gopkg.in/yaml.v3"

// TOMLString exports tomlString for testing.
type TOMLString = tomlString

// ScanArrayStrings exports scanArrayStrings for testing.
var ScanArrayStrings = scanArrayStrings //nolint:gochecknoglobals // test export

// FindArrayStrings exports findArrayStrings for testing.
var FindArrayStrings = findArrayStrings //nolint:gochecknoglobals // test export

// EncodeTOMLString exports encodeTOMLString for testing.
var EncodeTOMLString = encodeTOMLString //nolint:gochecknoglobals // test export

// WriteFileAtomic exports writeFileAtomic for testing.
var WriteFileAtomic = writeFileAtomic //nolint:gochecknoglobals // test export

// RewriteYAMLValues replaces every scalar value of key in the file at path
// and returns the new content without writing it.
func RewriteYAMLValues(path, key, value string) ([]byte, error) {
	doc, err := readYAMLDocument(path)
	if err != nil {
		return nil, err
	}
	values := map[*yaml.Node]string{}
	walkKey(doc.root, key, func(node *yaml.Node) {
		values[node] = value
	})
	return doc.rewrite(values)
}
