package entities

import (
	"errors"
	"regexp"
	"slices"
	"strings"
)

// Clause operators.
const (
	OpEqual           = "=="
	OpNotEqual        = "!="
	OpLess            = "<"
	OpLessOrEqual     = "<="
	OpGreater         = ">"
	OpGreaterOrEqual  = ">="
	OpCompatible      = "~="
	OpArbitraryEquals = "==="
)

var clausePattern = regexp.MustCompile(`^\s*(===|==|!=|~=|<=|>=|<|>)\s*([^\s,;()]+)\s*$`)

var (
	errEmptyClause       = errors.New("empty version clause")
	errBadWildcard       = errors.New("wildcard is only allowed with == and !=")
	errCompatibleRelease = errors.New("~= requires at least two release segments")
)

// Clause is one (operator, version) constraint.
type Clause struct {
	Operator string
	Version  string
}

// String returns the clause as written in a requirement, e.g. ">=1.2".
func (c Clause) String() string { return c.Operator + c.Version }

// IsWildcard reports whether the clause matches a version prefix ("==1.2.*").
func (c Clause) IsWildcard() bool { return strings.HasSuffix(c.Version, ".*") }

// Specifier is an AND-combined set of clauses. Declaration order is kept for
// re-serialization; Sorted gives the deterministic order.
type Specifier struct {
	clauses []Clause
}

// NewSpecifier builds a specifier from already validated clauses.
func NewSpecifier(clauses ...Clause) Specifier {
	return Specifier{clauses: append([]Clause(nil), clauses...)}
}

// ParseSpecifier parses a comma separated list of clauses. The empty string
// yields the empty specifier.
func ParseSpecifier(raw string) (Specifier, error) {
	if strings.TrimSpace(raw) == "" {
		return Specifier{}, nil
	}
	var clauses []Clause
	for _, part := range strings.Split(raw, ",") {
		clause, err := parseClause(part)
		if err != nil {
			return Specifier{}, &ParseError{Source: "specifier", Input: raw, Err: err}
		}
		clauses = append(clauses, clause)
	}
	return Specifier{clauses: clauses}, nil
}

func parseClause(raw string) (Clause, error) {
	if strings.TrimSpace(raw) == "" {
		return Clause{}, errEmptyClause
	}
	match := clausePattern.FindStringSubmatch(raw)
	if match == nil {
		return Clause{}, &ParseError{Source: "clause", Input: strings.TrimSpace(raw), Err: errInvalidVersion}
	}
	clause := Clause{Operator: match[1], Version: match[2]}
	if clause.Operator == OpArbitraryEquals {
		return clause, nil
	}
	operand := clause.Version
	if clause.IsWildcard() {
		if clause.Operator != OpEqual && clause.Operator != OpNotEqual {
			return Clause{}, errBadWildcard
		}
		operand = strings.TrimSuffix(operand, ".*")
	}
	v, err := ParseVersion(operand)
	if err != nil {
		return Clause{}, err
	}
	if clause.Operator == OpCompatible && len(v.release) < 2 { //nolint:mnd // X.Y at least
		return Clause{}, errCompatibleRelease
	}
	return clause, nil
}

// Clauses returns the clauses in declaration order.
func (s Specifier) Clauses() []Clause {
	return append([]Clause(nil), s.clauses...)
}

// IsEmpty reports whether the specifier has no clause.
func (s Specifier) IsEmpty() bool { return len(s.clauses) == 0 }

// Sorted returns the clauses ordered lexicographically by their string form.
func (s Specifier) Sorted() []Clause {
	sorted := s.Clauses()
	slices.SortStableFunc(sorted, func(a, b Clause) int {
		return strings.Compare(a.String(), b.String())
	})
	return sorted
}

// Primary returns the first clause under the Sorted order.
func (s Specifier) Primary() (Clause, bool) {
	sorted := s.Sorted()
	if len(sorted) == 0 {
		return Clause{}, false
	}
	return sorted[0], true
}

// PrimaryVersion is the version literal of the primary clause, or "" when empty.
func (s Specifier) PrimaryVersion() string {
	clause, ok := s.Primary()
	if !ok {
		return ""
	}
	return strings.TrimSuffix(clause.Version, ".*")
}

// String joins the sorted clauses with commas.
func (s Specifier) String() string {
	parts := make([]string, 0, len(s.clauses))
	for _, c := range s.Sorted() {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ",")
}

// Satisfies reports whether v is accepted by every clause. Pre-releases only
// match when some clause names a pre-release itself; the empty specifier
// accepts everything.
func (s Specifier) Satisfies(v Version) bool {
	if s.IsEmpty() {
		return true
	}
	if v.IsPreRelease() && !s.allowsPreReleases() {
		return false
	}
	for _, c := range s.clauses {
		if !c.accepts(v) {
			return false
		}
	}
	return true
}

// IsExactMatch reports whether some non-wildcard equality clause equals v.
func (s Specifier) IsExactMatch(v Version) bool {
	for _, c := range s.clauses {
		switch {
		case c.Operator == OpArbitraryEquals:
			if strings.EqualFold(c.Version, v.String()) {
				return true
			}
		case c.Operator == OpEqual && !c.IsWildcard():
			if operand, err := ParseVersion(c.Version); err == nil && operand.Equal(v) {
				return true
			}
		}
	}
	return false
}

// NeedsUpdate reports whether latest falls outside the specifier.
func (s Specifier) NeedsUpdate(latest Version) bool {
	return !s.Satisfies(latest)
}

func (s Specifier) allowsPreReleases() bool {
	for _, c := range s.clauses {
		if c.Operator == OpArbitraryEquals {
			continue
		}
		operand, err := ParseVersion(strings.TrimSuffix(c.Version, ".*"))
		if err == nil && operand.IsPreRelease() {
			return true
		}
	}
	return false
}

//nolint:gocyclo // one branch per operator
func (c Clause) accepts(v Version) bool {
	if c.Operator == OpArbitraryEquals {
		return strings.EqualFold(c.Version, v.String())
	}
	if c.IsWildcard() {
		prefix, err := ParseVersion(strings.TrimSuffix(c.Version, ".*"))
		if err != nil {
			return false
		}
		matched := matchesPrefix(v, prefix)
		if c.Operator == OpNotEqual {
			return !matched
		}
		return matched
	}
	operand, err := ParseVersion(c.Version)
	if err != nil {
		return false
	}
	candidate := v
	if !operand.HasLocal() {
		candidate = v.Public()
	}
	switch c.Operator {
	case OpEqual:
		return candidate.Equal(operand)
	case OpNotEqual:
		return !candidate.Equal(operand)
	case OpLessOrEqual:
		return candidate.Compare(operand) <= 0
	case OpGreaterOrEqual:
		return candidate.Compare(operand) >= 0
	case OpLess:
		if candidate.Compare(operand) >= 0 {
			return false
		}
		// <3.0 must not admit 3.0rc1
		return operand.IsPreRelease() || !candidate.IsPreRelease() ||
			compareRelease(candidate.release, operand.release) != 0
	case OpGreater:
		if v.Public().Compare(operand) <= 0 {
			return false
		}
		// >1.0 must not admit 1.0.post1 or 1.0+local
		sameRelease := compareRelease(v.release, operand.release) == 0 && v.epoch == operand.epoch
		if sameRelease && v.hasPost && !operand.hasPost && v.preL == "" {
			return false
		}
		return !(v.HasLocal() && v.Public().Equal(operand))
	case OpCompatible:
		if candidate.Compare(operand) < 0 {
			return false
		}
		prefix := Version{epoch: operand.epoch, release: operand.release[:len(operand.release)-1]}
		return matchesPrefix(candidate, prefix)
	default:
		return false
	}
}

// matchesPrefix implements "==X.Y.*": the candidate's release, zero padded,
// starts with the prefix release.
func matchesPrefix(v, prefix Version) bool {
	if v.epoch != prefix.epoch {
		return false
	}
	for i, seg := range prefix.release {
		if v.segment(i) != seg {
			return false
		}
	}
	return true
}
