package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
)

const toolPinVariable = "UV_VERSION"

var errUnsupportedEntry = errors.New("dependency group entries must be strings or include-group tables")

type pyproject struct {
	Project struct {
		Name                 string              `toml:"name"`
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	DependencyGroups map[string][]any `toml:"dependency-groups"`
}

type preCommitConfig struct {
	Repos []struct {
		Repo string `yaml:"repo"`
		Rev  string `yaml:"rev"`
	} `yaml:"repos"`
}

// ProjectRepository reads a Python project from its manifest, CI workflows,
// and pre-commit configuration.
type ProjectRepository struct{}

// NewProjectRepository creates the on-disk project loader.
func NewProjectRepository() repositories.ProjectRepository {
	return &ProjectRepository{}
}

// Load builds the project. Dependencies are appended in a fixed order: base,
// optional (per extra), groups, workflow env pins, actions, pre-commit hooks.
func (it *ProjectRepository) Load(layout entities.ProjectLayout) (*entities.Project, error) {
	content, err := os.ReadFile(layout.Manifest)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &entities.ConfigNotFoundError{Path: layout.Manifest}
		}
		return nil, fmt.Errorf("failed to read %q: %w", layout.Manifest, err)
	}

	var manifest pyproject
	meta, err := toml.Decode(string(content), &manifest)
	if err != nil {
		return nil, &entities.ParseError{Source: layout.Manifest, Input: "TOML document", Err: err}
	}

	dependencies, err := manifestDependencies(layout.Manifest, &manifest, meta)
	if err != nil {
		return nil, err
	}

	workflowDeps, err := workflowDependencies(layout.WorkflowsDir)
	if err != nil {
		return nil, err
	}
	dependencies = append(dependencies, workflowDeps...)

	hookDeps, err := preCommitDependencies(layout.PreCommitConfig)
	if err != nil {
		return nil, err
	}
	dependencies = append(dependencies, hookDeps...)

	name := manifest.Project.Name
	if name == "" {
		name = filepath.Base(layout.RootDir)
	}
	logger.Debugf("[manifest] Loaded %d dependencies for %q", len(dependencies), name)
	return entities.NewProject(name, layout, dependencies), nil
}

func manifestDependencies(path string, manifest *pyproject, meta toml.MetaData) ([]entities.Dependency, error) {
	var dependencies []entities.Dependency
	add := func(raw string, category entities.Category) error {
		req, err := entities.ParseRequirement(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		dependencies = append(dependencies, entities.NewRegistryDependency(req, category))
		return nil
	}

	for _, raw := range manifest.Project.Dependencies {
		if err := add(raw, entities.BaseCategory()); err != nil {
			return nil, err
		}
	}

	for _, extra := range orderedNames(meta, manifest.Project.OptionalDependencies, "project", "optional-dependencies") {
		for _, raw := range manifest.Project.OptionalDependencies[extra] {
			if err := add(raw, entities.OptionalCategory(extra)); err != nil {
				return nil, err
			}
		}
	}

	for _, group := range orderedNames(meta, manifest.DependencyGroups, "dependency-groups") {
		for _, entry := range manifest.DependencyGroups[group] {
			switch value := entry.(type) {
			case string:
				if err := add(value, entities.GroupCategory(group)); err != nil {
					return nil, err
				}
			case map[string]any:
				logger.Debugf("[manifest] Skipping %v in dependency group %q", value, group)
			default:
				return nil, &entities.ParseError{Source: path, Input: fmt.Sprint(entry), Err: errUnsupportedEntry}
			}
		}
	}
	return dependencies, nil
}

// orderedNames returns the keys of table in the order the document declares
// them. Keys the metadata cannot place are appended sorted.
func orderedNames[V any](meta toml.MetaData, table map[string]V, prefix ...string) []string {
	seen := map[string]bool{}
	var names []string
	for _, key := range meta.Keys() {
		if len(key) != len(prefix)+1 {
			continue
		}
		matches := true
		for i, part := range prefix {
			if key[i] != part {
				matches = false
				break
			}
		}
		name := key[len(prefix)]
		if _, ok := table[name]; matches && ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	var rest []string
	for name := range table {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// workflowFiles lists the *.yml and *.yaml files directly inside dir, sorted.
func workflowFiles(dir string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %q: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yml" && ext != ".yaml") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func isRemoteAction(uses string) bool {
	return !strings.HasPrefix(uses, "./") && !strings.HasPrefix(uses, "docker://")
}

func workflowDependencies(dir string) ([]entities.Dependency, error) {
	files, err := workflowFiles(dir)
	if err != nil {
		return nil, err
	}

	var pins, actions []entities.Dependency
	seenPins := map[string]bool{}
	seenUses := map[string]bool{}
	for _, file := range files {
		doc, readErr := readYAMLDocument(file)
		if readErr != nil {
			return nil, readErr
		}

		if node := doc.topLevelEnv(toolPinVariable); node != nil && !seenPins[node.Value] {
			seenPins[node.Value] = true
			pin, pinErr := entities.NewToolPinDependency(entities.ToolPinGroup, node.Value)
			if pinErr != nil {
				return nil, fmt.Errorf("%s: %w", file, pinErr)
			}
			pins = append(pins, pin)
		}

		var walkErr error
		walkKey(doc.root, "uses", func(value *yaml.Node) {
			uses := value.Value
			if walkErr != nil || seenUses[uses] || !isRemoteAction(uses) {
				return
			}
			seenUses[uses] = true
			action, actionErr := entities.NewActionDependency(uses)
			if actionErr != nil {
				walkErr = fmt.Errorf("%s:%d: %w", file, value.Line, actionErr)
				return
			}
			actions = append(actions, action)
		})
		if walkErr != nil {
			return nil, walkErr
		}
	}
	return append(pins, actions...), nil
}

func preCommitDependencies(path string) ([]entities.Dependency, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	var config preCommitConfig
	if err = yaml.Unmarshal(content, &config); err != nil {
		return nil, &entities.ParseError{Source: path, Input: "YAML document", Err: err}
	}

	var dependencies []entities.Dependency
	for _, repo := range config.Repos {
		if repo.Repo == "local" || repo.Repo == "meta" {
			continue
		}
		if _, _, urlErr := entities.ParseGitHubURL(repo.Repo); urlErr != nil {
			logger.Debugf("[manifest] Skipping pre-commit repository %q: %v", repo.Repo, urlErr)
			continue
		}
		hook, hookErr := entities.NewPreCommitDependency(repo.Repo, repo.Rev)
		if hookErr != nil {
			return nil, fmt.Errorf("%s: %w", path, hookErr)
		}
		dependencies = append(dependencies, hook)
	}
	return dependencies, nil
}
