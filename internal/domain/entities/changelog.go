package entities

import (
	"fmt"
	"strings"
)

const (
	unreleasedHeading = "## [Unreleased]"
	changedSubheading = "### Changed"
	releasePrefix     = "## ["
	bulletPrefix      = "- "
)

// DependencyChangelogEntry is the bullet recorded for one upgrade.
func DependencyChangelogEntry(name, from, to string) string {
	if from == "" {
		return fmt.Sprintf("%schanged the `%s` dependency to `%s`", bulletPrefix, name, to)
	}
	return fmt.Sprintf("%sbumped `%s` from `%s` to `%s`", bulletPrefix, name, from, to)
}

// InsertChangelogEntry adds bullets to the "### Changed" list of the
// "## [Unreleased]" section of a Keep-a-Changelog document and reports whether
// the content changed.
//
// Content without an Unreleased section is returned unchanged. A missing
// "### Changed" subsection is created right below the Unreleased heading, and
// bullets already present in it are not added twice.
func InsertChangelogEntry(content string, entries ...string) (string, bool) {
	lines := strings.Split(content, "\n")

	start := indexOfLine(lines, 0, len(lines), unreleasedHeading)
	if start < 0 {
		return content, false
	}
	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), releasePrefix) {
			end = i
			break
		}
	}

	changed := indexOfLine(lines, start+1, end, changedSubheading)
	var fresh []string
	for _, entry := range entries {
		if changed >= 0 && indexOfLine(lines, changed+1, end, entry) >= 0 {
			continue
		}
		if !containsString(fresh, entry) {
			fresh = append(fresh, entry)
		}
	}
	if len(fresh) == 0 {
		return content, false
	}

	if changed < 0 {
		block := append([]string{"", changedSubheading, ""}, fresh...)
		return strings.Join(spliceLines(lines, start+1, block), "\n"), true
	}

	last := changed
	for i := changed + 1; i < end; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, bulletPrefix) {
			break
		}
		last = i
	}
	if last == changed {
		// keep one blank line between the heading and the first bullet
		fresh = append([]string{""}, fresh...)
	}
	return strings.Join(spliceLines(lines, last+1, fresh), "\n"), true
}

func indexOfLine(lines []string, from, to int, want string) int {
	for i := from; i < to; i++ {
		if strings.TrimSpace(lines[i]) == want {
			return i
		}
	}
	return -1
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func spliceLines(lines []string, at int, extra []string) []string {
	result := make([]string, 0, len(lines)+len(extra))
	result = append(result, lines[:at]...)
	result = append(result, extra...)
	return append(result, lines[at:]...)
}
