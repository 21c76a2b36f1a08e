package entities

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

var (
	errMissingRef   = errors.New("missing @ref")
	errMissingOwner = errors.New("expected owner/repo")
)

// ActionReference is a parsed workflow `uses:` value
// "owner/repo[/path]@[prefix/]tag". Prefix keeps any branch-style path
// before the tag, including its trailing slash.
type ActionReference struct {
	Owner     string
	Repo      string
	Path      string
	RefPrefix string
	Tag       string
}

// ParseActionReference splits a `uses:` value. The tag is not validated.
func ParseActionReference(uses string) (ActionReference, error) {
	target, ref, ok := strings.Cut(strings.TrimSpace(uses), "@")
	if !ok || ref == "" {
		return ActionReference{}, &ParseError{Source: "uses", Input: uses, Err: errMissingRef}
	}
	segments := strings.Split(target, "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" { //nolint:mnd // owner + repo
		return ActionReference{}, &ParseError{Source: "uses", Input: uses, Err: errMissingOwner}
	}

	reference := ActionReference{
		Owner: segments[0],
		Repo:  segments[1],
		Path:  strings.Join(segments[2:], "/"),
		Tag:   ref,
	}
	if idx := strings.LastIndex(ref, "/"); idx >= 0 {
		reference.RefPrefix, reference.Tag = ref[:idx+1], ref[idx+1:]
	}
	return reference, nil
}

// Target is "owner/repo[/path]".
func (r ActionReference) Target() string {
	if r.Path == "" {
		return r.Owner + "/" + r.Repo
	}
	return r.Owner + "/" + r.Repo + "/" + r.Path
}

func (r ActionReference) String() string {
	return r.Target() + "@" + r.RefPrefix + r.Tag
}

// WithTag returns the reference pinned to another tag, keeping path and prefix.
func (r ActionReference) WithTag(tag string) ActionReference {
	r.Tag = tag
	return r
}

// MajorTag renders [v]MAJOR of a release version.
func MajorTag(latest Version, withV bool) string {
	major := semver.Major(semverOf(latest))
	if major == "" {
		major = fmt.Sprintf("v%d", latest.Major())
	}
	return applyV(major, withV)
}

// FullTag renders [v]MAJOR.MINOR.PATCH of a release version.
func FullTag(latest Version, withV bool) string {
	canonical := semver.Canonical(semverOf(latest))
	if canonical == "" || semver.Prerelease(canonical) != "" {
		canonical = fmt.Sprintf("v%d.%d.%d", latest.Major(), latest.Minor(), latest.Micro())
	}
	return applyV(canonical, withV)
}

func applyV(semverText string, withV bool) string {
	if withV {
		return semverText
	}
	return strings.TrimPrefix(semverText, "v")
}

func semverOf(v Version) string {
	return "v" + strings.TrimPrefix(strings.TrimPrefix(v.String(), "v"), "V")
}
