package manifest

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	logger "github.com/sirupsen/logrus"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
)

// PyprojectMutator rewrites one requirement string of pyproject.toml.
type PyprojectMutator struct{}

func NewPyprojectMutator() repositories.MutatorRepository {
	return &PyprojectMutator{}
}

func (it *PyprojectMutator) Name() string { return "pyproject" }

func (it *PyprojectMutator) Supports(dep entities.Dependency) bool {
	registry, ok := dep.(*entities.RegistryDependency)
	return ok && registry.Origin() == entities.OriginManifest
}

// arrayPath is the dotted path of the array declaring a category.
func arrayPath(category entities.Category) []string {
	switch category.Kind {
	case entities.CategoryOptional:
		return []string{"project", "optional-dependencies", category.Name}
	case entities.CategoryGroup:
		return []string{"dependency-groups", category.Name}
	default:
		return []string{"project", "dependencies"}
	}
}

// Apply rebuilds the matching requirement with the original extras, marker,
// and first operator, and replaces only that string literal.
func (it *PyprojectMutator) Apply(
	project *entities.Project,
	dep entities.Dependency,
	newVersion string,
) ([]string, error) {
	path := project.Layout().Manifest
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	strs, err := scanArrayStrings(string(content))
	if err != nil {
		return nil, &entities.ParseError{Source: path, Input: "TOML document", Err: err}
	}

	target := arrayPath(dep.Category())
	for _, literal := range findArrayStrings(strs, target...) {
		req, parseErr := entities.ParseRequirement(literal.Value)
		if parseErr != nil || req.CanonicalName() != dep.Name() {
			continue
		}

		updated := encodeTOMLString(req.WithVersion(newVersion).String(), literal.Quote)
		rewritten := string(content[:literal.Start]) + updated + string(content[literal.End:])
		if rewritten == string(content) {
			logger.Infof("[pyproject] %s already pinned to %s", dep.Name(), newVersion)
			return nil, nil
		}

		var check map[string]any
		if _, decodeErr := toml.Decode(rewritten, &check); decodeErr != nil {
			return nil, fmt.Errorf("rewritten %q is not valid TOML: %w", path, decodeErr)
		}
		if writeErr := writeFileAtomic(path, []byte(rewritten)); writeErr != nil {
			return nil, writeErr
		}
		logger.Infof("[pyproject] Updated %s to %s in %s", dep.Name(), newVersion, path)
		return []string{path}, nil
	}

	return nil, &entities.NotFoundError{
		Name:  dep.Name(),
		Scope: fmt.Sprintf("%s [%s]", path, dep.Category()),
	}
}
