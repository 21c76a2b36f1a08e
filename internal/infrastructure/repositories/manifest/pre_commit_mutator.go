package manifest

import (
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
)

var errMissingRev = errors.New("pre-commit repository has no rev")

// PreCommitMutator rewrites the rev of a hook repository in .pre-commit-config.yaml.
type PreCommitMutator struct{}

func NewPreCommitMutator() repositories.MutatorRepository {
	return &PreCommitMutator{}
}

func (it *PreCommitMutator) Name() string { return "pre-commit" }

func (it *PreCommitMutator) Supports(dep entities.Dependency) bool {
	_, ok := dep.(*entities.ReleaseDependency)
	return ok && dep.Category().Kind == entities.CategoryPreCommit
}

// Apply sets the rev of the first repository entry matching the hook to the
// full tag of newVersion, keeping the pinned "v" convention.
func (it *PreCommitMutator) Apply(
	project *entities.Project,
	dep entities.Dependency,
	newVersion string,
) ([]string, error) {
	hook := dep.(*entities.ReleaseDependency)
	latest, err := entities.ParseVersion(newVersion)
	if err != nil {
		return nil, err
	}

	path := project.Layout().PreCommitConfig
	doc, err := readYAMLDocument(path)
	if err != nil {
		return nil, err
	}

	repos := mappingValue(doc.body(), "repos")
	var rev *yaml.Node
	if repos != nil && repos.Kind == yaml.SequenceNode {
		for _, entry := range repos.Content {
			repo := mappingValue(entry, "repo")
			if repo == nil {
				continue
			}
			owner, name, urlErr := entities.ParseGitHubURL(repo.Value)
			if urlErr != nil || !hook.MatchesRepo(owner, name) {
				continue
			}
			rev = mappingValue(entry, "rev")
			if rev == nil {
				return nil, fmt.Errorf("%s:%d: %w", path, repo.Line, errMissingRev)
			}
			break
		}
	}
	if rev == nil {
		return nil, &entities.NotFoundError{Name: dep.Name(), Scope: path}
	}

	content, err := doc.rewrite(map[*yaml.Node]string{rev: hook.RevFor(latest)})
	if err != nil {
		return nil, err
	}
	if string(content) == string(doc.content) {
		return nil, nil
	}
	if err = writeFileAtomic(path, content); err != nil {
		return nil, err
	}
	logger.Infof("[pre-commit] Updated %s to %s in %s", dep.Name(), hook.RevFor(latest), path)
	return []string{path}, nil
}
