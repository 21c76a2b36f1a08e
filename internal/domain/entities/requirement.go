package entities

import (
	"errors"
	"regexp"
	"strings"
)

var (
	requirementPattern = regexp.MustCompile(
		`^\s*([A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)\s*(?:\[([^\]]*)\])?\s*([^;]*?)\s*(?:;\s*(.*?))?\s*$`,
	)
	extraPattern          = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?$`)
	nameSeparatorsPattern = regexp.MustCompile(`[-_.]+`)

	errURLRequirement = errors.New("direct URL requirements are not supported")
	errBadExtra       = errors.New("invalid extra name")
)

// Requirement is a parsed dependency declaration such as `httpx[http2]>=0.27; python_version>"3.9"`.
type Requirement struct {
	Name      string
	Extras    []string
	Specifier Specifier
	Marker    string
}

// ParseRequirement parses a requirement string. Any malformed part fails the
// whole string with a ParseError naming it.
func ParseRequirement(raw string) (Requirement, error) {
	fail := func(err error) (Requirement, error) {
		return Requirement{}, &ParseError{Source: "requirement", Input: raw, Err: err}
	}

	match := requirementPattern.FindStringSubmatch(raw)
	if match == nil {
		return fail(errInvalidVersion)
	}
	name, rawExtras, rawSpec, marker := match[1], match[2], match[3], match[4]
	if strings.HasPrefix(rawSpec, "@") {
		return fail(errURLRequirement)
	}

	var extras []string
	if strings.TrimSpace(rawExtras) != "" {
		for _, extra := range strings.Split(rawExtras, ",") {
			extra = strings.TrimSpace(extra)
			if !extraPattern.MatchString(extra) {
				return fail(errBadExtra)
			}
			extras = append(extras, extra)
		}
	}

	// the legacy "name (>=1.0)" spelling
	if strings.HasPrefix(rawSpec, "(") && strings.HasSuffix(rawSpec, ")") {
		rawSpec = strings.TrimSpace(rawSpec[1 : len(rawSpec)-1])
	}
	specifier, err := ParseSpecifier(rawSpec)
	if err != nil {
		return fail(err)
	}

	return Requirement{Name: name, Extras: extras, Specifier: specifier, Marker: marker}, nil
}

// CanonicalName is the normalized form of Name.
func (r Requirement) CanonicalName() string { return CanonicalizeName(r.Name) }

// String serializes the requirement with clauses in declaration order.
func (r Requirement) String() string {
	var sb strings.Builder
	sb.WriteString(r.Name)
	if len(r.Extras) > 0 {
		sb.WriteString("[")
		sb.WriteString(strings.Join(r.Extras, ","))
		sb.WriteString("]")
	}
	clauses := r.Specifier.Clauses()
	for i, c := range clauses {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(c.String())
	}
	if r.Marker != "" {
		sb.WriteString("; ")
		sb.WriteString(r.Marker)
	}
	return sb.String()
}

// WithVersion returns a copy constrained to the single clause built from the
// first declared operator and version. Requirements without a usable operator
// get ">=".
func (r Requirement) WithVersion(version string) Requirement {
	operator := OpGreaterOrEqual
	if clauses := r.Specifier.Clauses(); len(clauses) > 0 {
		switch clauses[0].Operator {
		case OpNotEqual, OpLess, OpLessOrEqual:
		default:
			operator = clauses[0].Operator
		}
	}
	updated := r
	updated.Extras = append([]string(nil), r.Extras...)
	updated.Specifier = NewSpecifier(Clause{Operator: operator, Version: version})
	return updated
}

// CanonicalizeName lowercases a package name and collapses runs of "-", "_"
// and "." into a single "-".
func CanonicalizeName(name string) string {
	return strings.ToLower(nameSeparatorsPattern.ReplaceAllString(strings.TrimSpace(name), "-"))
}
