package entities

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// versionPattern is the PEP 440 version grammar, with an optional leading "v"
// so release tags such as "v4.1.0" parse too.
var versionPattern = regexp.MustCompile(`(?i)^\s*v?` +
	`(?:(?P<epoch>[0-9]+)!)?` +
	`(?P<release>[0-9]+(?:\.[0-9]+)*)` +
	`(?:[-_.]?(?P<pre_l>alpha|beta|preview|pre|rc|a|b|c)[-_.]?(?P<pre_n>[0-9]+)?)?` +
	`(?:-(?P<post_n1>[0-9]+)|[-_.]?(?P<post_l>post|rev|r)[-_.]?(?P<post_n2>[0-9]+)?)?` +
	`(?:[-_.]?(?P<dev_l>dev)[-_.]?(?P<dev_n>[0-9]+)?)?` +
	`(?:\+(?P<local>[a-z0-9]+(?:[-_.][a-z0-9]+)*))?\s*$`)

var errInvalidVersion = errors.New("not a valid version")

// preRelease labels in ascending order.
var preReleaseRank = map[string]int{"a": 0, "b": 1, "rc": 2}

// Version is a parsed PEP 440 version. The zero value is not a valid version.
type Version struct {
	raw     string
	epoch   int
	release []int
	preL    string // "", "a", "b" or "rc"
	preN    int
	hasPost bool
	postN   int
	hasDev  bool
	devN    int
	local   string
}

// ParseVersion parses a PEP 440 version string.
func ParseVersion(raw string) (Version, error) {
	match := versionPattern.FindStringSubmatch(raw)
	if match == nil {
		return Version{}, &ParseError{Source: "version", Input: raw, Err: errInvalidVersion}
	}
	group := func(name string) string {
		return match[versionPattern.SubexpIndex(name)]
	}

	v := Version{raw: strings.TrimSpace(raw)}
	if epoch := group("epoch"); epoch != "" {
		v.epoch, _ = strconv.Atoi(epoch)
	}
	for _, part := range strings.Split(group("release"), ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, &ParseError{Source: "version", Input: raw, Err: err}
		}
		v.release = append(v.release, n)
	}
	if preL := group("pre_l"); preL != "" {
		v.preL = normalizePreLabel(preL)
		v.preN, _ = strconv.Atoi(group("pre_n"))
	}
	if postN := group("post_n1"); postN != "" {
		v.hasPost = true
		v.postN, _ = strconv.Atoi(postN)
	} else if group("post_l") != "" {
		v.hasPost = true
		v.postN, _ = strconv.Atoi(group("post_n2"))
	}
	if group("dev_l") != "" {
		v.hasDev = true
		v.devN, _ = strconv.Atoi(group("dev_n"))
	}
	v.local = strings.ToLower(group("local"))
	return v, nil
}

// MustParseVersion is ParseVersion for literals known to be valid.
func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func normalizePreLabel(label string) string {
	switch strings.ToLower(label) {
	case "a", "alpha":
		return "a"
	case "b", "beta":
		return "b"
	default:
		return "rc"
	}
}

// String returns the version as it was written.
func (v Version) String() string { return v.raw }

// Release returns a copy of the release segments.
func (v Version) Release() []int {
	return append([]int(nil), v.release...)
}

// Major returns the first release segment.
func (v Version) Major() int { return v.segment(0) }

// Minor returns the second release segment, 0 when absent.
func (v Version) Minor() int { return v.segment(1) }

// Micro returns the third release segment, 0 when absent.
func (v Version) Micro() int { return v.segment(2) } //nolint:mnd // third segment

func (v Version) segment(i int) int {
	if i < len(v.release) {
		return v.release[i]
	}
	return 0
}

// IsPreRelease reports whether the version is a pre-release or a dev release.
func (v Version) IsPreRelease() bool { return v.preL != "" || v.hasDev }

// IsPostRelease reports whether the version carries a post segment.
func (v Version) IsPostRelease() bool { return v.hasPost }

// HasLocal reports whether the version carries a local label.
func (v Version) HasLocal() bool { return v.local != "" }

// Public returns the version without its local label.
func (v Version) Public() Version {
	v.local = ""
	return v
}

// Equal reports PEP 440 equality (zero padding is ignored).
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

// Compare returns -1, 0 or 1 ordering v against o per PEP 440.
func (v Version) Compare(o Version) int {
	if c := compareInt(v.epoch, o.epoch); c != 0 {
		return c
	}
	if c := compareRelease(v.release, o.release); c != 0 {
		return c
	}
	if c := compareInt(v.preKey(), o.preKey()); c != 0 {
		return c
	}
	if v.preL != "" && o.preL != "" {
		if c := compareInt(v.preN, o.preN); c != 0 {
			return c
		}
	}
	if c := compareInt(v.postKey(), o.postKey()); c != 0 {
		return c
	}
	if c := compareInt(v.devKey(), o.devKey()); c != 0 {
		return c
	}
	return compareLocal(v.local, o.local)
}

// preKey ranks the pre-release phase: a dev-only release sorts before any
// pre-release of the same release, a final release after all of them.
func (v Version) preKey() int {
	switch {
	case v.preL == "" && !v.hasPost && v.hasDev:
		return -1
	case v.preL == "":
		return len(preReleaseRank)
	default:
		return preReleaseRank[v.preL]
	}
}

func (v Version) postKey() int {
	if !v.hasPost {
		return -1
	}
	return v.postN
}

func (v Version) devKey() int {
	if !v.hasDev {
		return int(^uint(0) >> 1)
	}
	return v.devN
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareRelease(a, b []int) int {
	n := max(len(a), len(b))
	for i := range n {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if c := compareInt(x, y); c != 0 {
			return c
		}
	}
	return 0
}

// compareLocal orders local labels; numeric segments sort after alphanumeric ones.
func compareLocal(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return -1
	}
	if b == "" {
		return 1
	}
	split := func(s string) []string {
		return strings.FieldsFunc(s, func(r rune) bool { return r == '.' || r == '-' || r == '_' })
	}
	as, bs := split(a), split(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aErr := strconv.Atoi(as[i])
		bn, bErr := strconv.Atoi(bs[i])
		switch {
		case aErr == nil && bErr == nil:
			if c := compareInt(an, bn); c != 0 {
				return c
			}
		case aErr == nil:
			return 1
		case bErr == nil:
			return -1
		default:
			if c := strings.Compare(as[i], bs[i]); c != 0 {
				return c
			}
		}
	}
	return compareInt(len(as), len(bs))
}
