package entities

import "fmt"

// CategoryKind is the structural origin of a dependency declaration.
type CategoryKind string

const (
	CategoryBase         CategoryKind = "base"
	CategoryOptional     CategoryKind = "optional"
	CategoryGroup        CategoryKind = "group"
	CategoryGitHubAction CategoryKind = "github-action"
	CategoryPreCommit    CategoryKind = "pre-commit"
)

// Category places a dependency in its manifest section. Name is the extra or
// group name and is empty for the other kinds.
type Category struct {
	Kind CategoryKind
	Name string
}

func BaseCategory() Category { return Category{Kind: CategoryBase} }

func OptionalCategory(extra string) Category { return Category{Kind: CategoryOptional, Name: extra} }

func GroupCategory(group string) Category { return Category{Kind: CategoryGroup, Name: group} }

func GitHubActionCategory() Category { return Category{Kind: CategoryGitHubAction} }

func PreCommitCategory() Category { return Category{Kind: CategoryPreCommit} }

// Label is the short tag printed next to a dependency.
func (c Category) Label() string {
	switch c.Kind {
	case CategoryBase:
		return "(base)"
	case CategoryOptional, CategoryGroup:
		return "(" + c.Name + ")"
	case CategoryGitHubAction:
		return "(gha)"
	case CategoryPreCommit:
		return "(pre-commit)"
	default:
		return "(" + string(c.Kind) + ")"
	}
}

// IsRegistry reports whether dependencies of this category resolve against the package index.
func (c Category) IsRegistry() bool {
	return c.Kind == CategoryBase || c.Kind == CategoryOptional || c.Kind == CategoryGroup
}

func (c Category) String() string {
	if c.Name == "" {
		return string(c.Kind)
	}
	return fmt.Sprintf("%s(%s)", c.Kind, c.Name)
}
