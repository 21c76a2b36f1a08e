package entities

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Dependency is one tracked external dependency. The set of implementations is
// closed: RegistryDependency and ReleaseDependency.
type Dependency interface {
	// Name is the identity used by lookups. It never changes after construction.
	Name() string
	Specifier() Specifier
	Category() Category

	// Fetch queries the dependency's remote source and stores the latest version.
	// A failed fetch leaves any previously fetched metadata untouched.
	Fetch(ctx context.Context, sources Sources) error

	// LatestVersion fails with a PreconditionError until Fetch succeeded once.
	LatestVersion() (Version, error)
	IsSpecifierLatest() (bool, error)
	NeedsUpdate() (bool, error)

	DisplayLabel() string
	// ShortIdentifier is used for branch naming.
	ShortIdentifier() string
	String() string

	sealed()
}

var errNoSource = errors.New("no remote source configured")

type dependencyBase struct {
	name      string
	specifier Specifier
	category  Category
	latest    *Version
}

func (it *dependencyBase) Name() string         { return it.name }
func (it *dependencyBase) Specifier() Specifier { return it.specifier }
func (it *dependencyBase) Category() Category   { return it.category }
func (it *dependencyBase) DisplayLabel() string { return it.category.Label() }
func (it *dependencyBase) sealed()              {}

func (it *dependencyBase) String() string {
	return fmt.Sprintf("%s%s %s", it.name, it.specifier.String(), it.category.Label())
}

func (it *dependencyBase) LatestVersion() (Version, error) {
	if it.latest == nil {
		return Version{}, &PreconditionError{Dependency: it.name, Operation: "reading the latest version"}
	}
	return *it.latest, nil
}

func (it *dependencyBase) IsSpecifierLatest() (bool, error) {
	latest, err := it.LatestVersion()
	if err != nil {
		return false, err
	}
	return it.specifier.IsExactMatch(latest), nil
}

func (it *dependencyBase) NeedsUpdate() (bool, error) {
	latest, err := it.LatestVersion()
	if err != nil {
		return false, err
	}
	return it.specifier.NeedsUpdate(latest), nil
}

// store parses a fetched version string and records it.
func (it *dependencyBase) store(raw string, fetchErr error) error {
	if fetchErr != nil {
		if errors.Is(fetchErr, ErrFetch) {
			return fetchErr
		}
		return &FetchError{Dependency: it.name, Err: fetchErr}
	}
	latest, err := ParseVersion(raw)
	if err != nil {
		return &FetchError{Dependency: it.name, Err: err}
	}
	it.latest = &latest
	return nil
}

// DependencyOrigin tells where a registry dependency was declared.
type DependencyOrigin string

const (
	OriginManifest    DependencyOrigin = "manifest"
	OriginWorkflowEnv DependencyOrigin = "workflow-env"
)

// ToolPinGroup is the group holding the uv version pinned in CI workflows.
const ToolPinGroup = "uv"

// RegistryDependency is a package resolved against the package index.
type RegistryDependency struct {
	dependencyBase
	extras []string
	origin DependencyOrigin
}

// NewRegistryDependency builds a dependency from a parsed manifest requirement.
func NewRegistryDependency(req Requirement, category Category) *RegistryDependency {
	return &RegistryDependency{
		dependencyBase: dependencyBase{
			name:      CanonicalizeName(req.Name),
			specifier: req.Specifier,
			category:  category,
		},
		extras: append([]string(nil), req.Extras...),
		origin: OriginManifest,
	}
}

// NewToolPinDependency builds the dependency for a tool version pinned in a
// workflow environment variable, e.g. UV_VERSION.
func NewToolPinDependency(name, version string) (*RegistryDependency, error) {
	if _, err := ParseVersion(version); err != nil {
		return nil, &ParseError{Source: "env." + strings.ToUpper(name) + "_VERSION", Input: version, Err: err}
	}
	return &RegistryDependency{
		dependencyBase: dependencyBase{
			name:      CanonicalizeName(name),
			specifier: NewSpecifier(Clause{Operator: OpEqual, Version: version}),
			category:  GroupCategory(ToolPinGroup),
		},
		origin: OriginWorkflowEnv,
	}, nil
}

func (it *RegistryDependency) Extras() []string         { return append([]string(nil), it.extras...) }
func (it *RegistryDependency) Origin() DependencyOrigin { return it.origin }
func (it *RegistryDependency) ShortIdentifier() string  { return it.name }

// PackagePlusExtras renders "name[extra1,extra2]".
func (it *RegistryDependency) PackagePlusExtras() string {
	if len(it.extras) == 0 {
		return it.name
	}
	return it.name + "[" + strings.Join(it.extras, ",") + "]"
}

func (it *RegistryDependency) Fetch(ctx context.Context, sources Sources) error {
	if sources.Registry == nil {
		return &FetchError{Dependency: it.name, Err: errNoSource}
	}
	return it.store(sources.Registry.LatestVersion(ctx, it.name))
}

// ReleaseDependency is a GitHub Action step or a pre-commit hook, resolved
// against the latest release of its repository.
type ReleaseDependency struct {
	dependencyBase
	ref     ActionReference
	hasV    bool
	uses    string
	repoURL string
}

// NewActionDependency parses a workflow `uses:` value "owner/repo[/path]@[prefix/]tag".
// The pinned tag must be a version; branches and commit SHAs fail with a ParseError.
func NewActionDependency(uses string) (*ReleaseDependency, error) {
	ref, err := ParseActionReference(uses)
	if err != nil {
		return nil, err
	}
	pinned, err := ParseVersion(ref.Tag)
	if err != nil {
		return nil, &ParseError{Source: "uses", Input: uses, Err: err}
	}

	constraint := fmt.Sprintf("%d.*", pinned.Major())
	if len(pinned.release) > 1 {
		constraint = fmt.Sprintf("%d.%d.*", pinned.Major(), pinned.Minor())
	}

	return &ReleaseDependency{
		dependencyBase: dependencyBase{
			name:      ref.Target(),
			specifier: NewSpecifier(Clause{Operator: OpEqual, Version: constraint}),
			category:  GitHubActionCategory(),
		},
		ref:  ref,
		hasV: hasVPrefix(ref.Tag),
		uses: uses,
	}, nil
}

// NewPreCommitDependency builds a hook dependency from a GitHub repository URL
// and its pinned revision.
func NewPreCommitDependency(repoURL, rev string) (*ReleaseDependency, error) {
	owner, repo, err := ParseGitHubURL(repoURL)
	if err != nil {
		return nil, &ParseError{Source: "repo", Input: repoURL, Err: err}
	}
	if _, err = ParseVersion(rev); err != nil {
		return nil, &ParseError{Source: "rev", Input: rev, Err: err}
	}

	return &ReleaseDependency{
		dependencyBase: dependencyBase{
			name:      owner + "/" + repo,
			specifier: NewSpecifier(Clause{Operator: OpEqual, Version: rev}),
			category:  PreCommitCategory(),
		},
		ref:     ActionReference{Owner: owner, Repo: repo, Tag: rev},
		hasV:    hasVPrefix(rev),
		repoURL: repoURL,
	}, nil
}

func hasVPrefix(tag string) bool {
	return strings.HasPrefix(tag, "v") || strings.HasPrefix(tag, "V")
}

func (it *ReleaseDependency) Owner() string     { return it.ref.Owner }
func (it *ReleaseDependency) Repo() string      { return it.ref.Repo }
func (it *ReleaseDependency) Path() string      { return it.ref.Path }
func (it *ReleaseDependency) RefPrefix() string { return it.ref.RefPrefix }
func (it *ReleaseDependency) PinnedTag() string { return it.ref.Tag }
func (it *ReleaseDependency) HasV() bool        { return it.hasV }

// FullRef is the original `uses:` value, empty for pre-commit hooks.
func (it *ReleaseDependency) FullRef() string { return it.uses }

// RepoURL is the original hook repository URL, empty for actions.
func (it *ReleaseDependency) RepoURL() string { return it.repoURL }

func (it *ReleaseDependency) ShortIdentifier() string { return it.ref.Repo }

// MatchesRepo compares owner/repo case-insensitively, as GitHub does.
func (it *ReleaseDependency) MatchesRepo(owner, repo string) bool {
	return strings.EqualFold(it.ref.Owner, owner) && strings.EqualFold(it.ref.Repo, repo)
}

func (it *ReleaseDependency) Fetch(ctx context.Context, sources Sources) error {
	if sources.Releases == nil {
		return &FetchError{Dependency: it.name, Err: errNoSource}
	}
	return it.store(sources.Releases.LatestRelease(ctx, it.ref.Owner, it.ref.Repo))
}

// UsesFor renders the `uses:` value pinned to the major version of latest.
func (it *ReleaseDependency) UsesFor(latest Version) string {
	return it.ref.WithTag(MajorTag(latest, it.hasV)).String()
}

// RevFor renders the hook revision for latest, following the pinned "v" convention.
func (it *ReleaseDependency) RevFor(latest Version) string {
	return FullTag(latest, it.hasV)
}
