package manifest

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// tomlString is a string literal found inside an array value of a TOML
// document. Start and End delimit the literal including its quotes.
type tomlString struct {
	Path  []string
	Value string
	Quote string
	Start int
	End   int
}

// scanArrayStrings lists the string elements of every array in a TOML
// document, keyed by the full dotted path of the array (table header plus
// key). Inline tables are followed; arrays of tables are not indexed.
func scanArrayStrings(src string) ([]tomlString, error) {
	s := &tomlScanner{src: src}
	if err := s.document(); err != nil {
		line := strings.Count(src[:min(s.pos, len(src))], "\n") + 1
		return nil, fmt.Errorf("line %d: %w", line, err)
	}
	return s.found, nil
}

// findArrayStrings keeps the strings of the array at path.
func findArrayStrings(strs []tomlString, path ...string) []tomlString {
	var result []tomlString
	for _, str := range strs {
		if slices.Equal(str.Path, path) {
			result = append(result, str)
		}
	}
	return result
}

var (
	errUnterminatedString = errors.New("unterminated string")
	errUnexpectedEOF      = errors.New("unexpected end of document")
)

type tomlScanner struct {
	src   string
	pos   int
	table []string
	found []tomlString
}

func (s *tomlScanner) eof() bool { return s.pos >= len(s.src) }

func (s *tomlScanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *tomlScanner) hasPrefix(prefix string) bool {
	return strings.HasPrefix(s.src[s.pos:], prefix)
}

// skipSpace skips blanks and, when newlines is set, line breaks and comments.
func (s *tomlScanner) skipSpace(newlines bool) {
	for !s.eof() {
		switch c := s.peek(); {
		case c == ' ' || c == '\t':
			s.pos++
		case newlines && (c == '\n' || c == '\r'):
			s.pos++
		case newlines && c == '#':
			s.skipComment()
		default:
			return
		}
	}
}

func (s *tomlScanner) skipComment() {
	for !s.eof() && s.peek() != '\n' {
		s.pos++
	}
}

// endOfLine accepts trailing blanks and a comment before the line break.
func (s *tomlScanner) endOfLine() error {
	s.skipSpace(false)
	if s.peek() == '#' {
		s.skipComment()
	}
	if s.eof() {
		return nil
	}
	if c := s.peek(); c == '\n' || c == '\r' {
		s.pos++
		return nil
	}
	return fmt.Errorf("unexpected %q after value", s.peek())
}

func (s *tomlScanner) document() error {
	for {
		s.skipSpace(true)
		if s.eof() {
			return nil
		}
		if s.peek() == '[' {
			if err := s.header(); err != nil {
				return err
			}
			continue
		}
		if err := s.keyValue(s.table); err != nil {
			return err
		}
		if err := s.endOfLine(); err != nil {
			return err
		}
	}
}

func (s *tomlScanner) header() error {
	arrayTable := s.hasPrefix("[[")
	if arrayTable {
		s.pos += 2
	} else {
		s.pos++
	}
	key, err := s.key()
	if err != nil {
		return err
	}
	closing := "]"
	if arrayTable {
		closing = "]]"
		// array-of-tables members are not addressed by a fixed path
		key = append(key, "[]")
	}
	s.skipSpace(false)
	if !s.hasPrefix(closing) {
		return fmt.Errorf("expected %q to close table header", closing)
	}
	s.pos += len(closing)
	s.table = key
	return s.endOfLine()
}

func (s *tomlScanner) keyValue(prefix []string) error {
	key, err := s.key()
	if err != nil {
		return err
	}
	s.skipSpace(false)
	if s.peek() != '=' {
		return fmt.Errorf("expected '=' after key %q", strings.Join(key, "."))
	}
	s.pos++
	s.skipSpace(false)
	return s.value(join(prefix, key), false)
}

// key parses a dotted key made of bare and quoted parts.
func (s *tomlScanner) key() ([]string, error) {
	var parts []string
	for {
		s.skipSpace(false)
		switch c := s.peek(); {
		case c == '"' || c == '\'':
			value, _, err := s.str()
			if err != nil {
				return nil, err
			}
			parts = append(parts, value)
		case isBareKeyChar(c):
			start := s.pos
			for !s.eof() && isBareKeyChar(s.peek()) {
				s.pos++
			}
			parts = append(parts, s.src[start:s.pos])
		default:
			return nil, fmt.Errorf("invalid key character %q", c)
		}
		s.skipSpace(false)
		if s.peek() != '.' {
			return parts, nil
		}
		s.pos++
	}
}

func isBareKeyChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}

func (s *tomlScanner) value(path []string, inArray bool) error {
	if s.eof() {
		return errUnexpectedEOF
	}
	switch s.peek() {
	case '"', '\'':
		start := s.pos
		value, quote, err := s.str()
		if err != nil {
			return err
		}
		if inArray {
			s.found = append(s.found, tomlString{
				Path: slices.Clone(path), Value: value, Quote: quote, Start: start, End: s.pos,
			})
		}
		return nil
	case '[':
		return s.array(path)
	case '{':
		return s.inlineTable(path)
	default:
		start := s.pos
		for !s.eof() && !strings.ContainsRune(",]}\n\r#", rune(s.peek())) {
			s.pos++
		}
		if strings.TrimSpace(s.src[start:s.pos]) == "" {
			return fmt.Errorf("missing value for %q", strings.Join(path, "."))
		}
		return nil
	}
}

func (s *tomlScanner) array(path []string) error {
	s.pos++ // [
	for {
		s.skipSpace(true)
		if s.eof() {
			return errUnexpectedEOF
		}
		if s.peek() == ']' {
			s.pos++
			return nil
		}
		if err := s.value(path, true); err != nil {
			return err
		}
		s.skipSpace(true)
		switch s.peek() {
		case ',':
			s.pos++
		case ']':
			s.pos++
			return nil
		default:
			return fmt.Errorf("expected ',' or ']' in array %q", strings.Join(path, "."))
		}
	}
}

func (s *tomlScanner) inlineTable(path []string) error {
	s.pos++ // {
	for {
		s.skipSpace(false)
		if s.eof() {
			return errUnexpectedEOF
		}
		if s.peek() == '}' {
			s.pos++
			return nil
		}
		if err := s.keyValue(path); err != nil {
			return err
		}
		s.skipSpace(false)
		switch s.peek() {
		case ',':
			s.pos++
		case '}':
			s.pos++
			return nil
		default:
			return fmt.Errorf("expected ',' or '}' in inline table %q", strings.Join(path, "."))
		}
	}
}

// str parses any of the four string forms and returns the decoded value and
// the quote used.
func (s *tomlScanner) str() (string, string, error) {
	for _, quote := range []string{`"""`, `'''`, `"`, `'`} {
		if !s.hasPrefix(quote) {
			continue
		}
		s.pos += len(quote)
		start := s.pos
		end, err := s.closingQuote(quote)
		if err != nil {
			return "", "", err
		}
		raw := s.src[start:end]
		s.pos = end + len(quote)
		value, err := decodeTOMLString(raw, quote)
		return value, quote, err
	}
	return "", "", fmt.Errorf("expected string at %q", s.peek())
}

func (s *tomlScanner) closingQuote(quote string) (int, error) {
	basic := quote[0] == '"'
	multiline := len(quote) == 3 //nolint:mnd // triple quote
	for i := s.pos; i < len(s.src); i++ {
		c := s.src[i]
		switch {
		case basic && c == '\\':
			i++
		case !multiline && c == '\n':
			return 0, errUnterminatedString
		case strings.HasPrefix(s.src[i:], quote):
			// up to two quotes may close a multi-line string early: """a"""" is `a"`
			for multiline && strings.HasPrefix(s.src[i+1:], quote) {
				i++
			}
			return i, nil
		}
	}
	return 0, errUnterminatedString
}

func decodeTOMLString(raw, quote string) (string, error) {
	if len(quote) == 3 { //nolint:mnd // triple quote
		raw = strings.TrimPrefix(strings.TrimPrefix(raw, "\r"), "\n")
	}
	if quote[0] == '\'' || !strings.Contains(raw, `\`) {
		return raw, nil
	}
	unquoted, err := strconv.Unquote(`"` + strings.ReplaceAll(raw, "\n", `\n`) + `"`)
	if err != nil {
		return "", fmt.Errorf("invalid escape in %q: %w", raw, err)
	}
	return unquoted, nil
}

// encodeTOMLString writes value with the given quote style, falling back to a
// basic string when a literal string cannot hold the value.
func encodeTOMLString(value, quote string) string {
	switch quote {
	case `'`, `'''`:
		if !strings.Contains(value, "'") && !strings.Contains(value, "\n") {
			return quote + value + quote
		}
		quote = `"`
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	return quote + escaped + quote
}

func join(prefix, key []string) []string {
	path := make([]string, 0, len(prefix)+len(key))
	path = append(path, prefix...)
	return append(path, key...)
}
