package manifest

import (
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
)

// ActionMutator rewrites the `uses:` references of a GitHub Action in every workflow.
type ActionMutator struct{}

func NewActionMutator() repositories.MutatorRepository {
	return &ActionMutator{}
}

func (it *ActionMutator) Name() string { return "workflow" }

func (it *ActionMutator) Supports(dep entities.Dependency) bool {
	_, ok := dep.(*entities.ReleaseDependency)
	return ok && dep.Category().Kind == entities.CategoryGitHubAction
}

// Apply pins every reference to the same owner/repo to [v]MAJOR of newVersion.
// Each reference keeps its own path and branch-style prefix.
func (it *ActionMutator) Apply(
	project *entities.Project,
	dep entities.Dependency,
	newVersion string,
) ([]string, error) {
	action := dep.(*entities.ReleaseDependency)
	latest, err := entities.ParseVersion(newVersion)
	if err != nil {
		return nil, err
	}
	tag := entities.MajorTag(latest, action.HasV())

	matched := false
	changed, err := rewriteWorkflows(project.Layout().WorkflowsDir, func(doc *yamlDocument) map[*yaml.Node]string {
		values := map[*yaml.Node]string{}
		walkKey(doc.root, "uses", func(node *yaml.Node) {
			ref, refErr := entities.ParseActionReference(node.Value)
			if refErr != nil || !isRemoteAction(node.Value) || !action.MatchesRepo(ref.Owner, ref.Repo) {
				return
			}
			matched = true
			values[node] = ref.WithTag(tag).String()
		})
		return values
	})
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, &entities.NotFoundError{Name: dep.Name(), Scope: project.Layout().WorkflowsDir}
	}
	if len(changed) > 0 {
		logger.Infof("[workflow] Pinned %s as %s", dep.Name(), action.UsesFor(latest))
	}
	return changed, nil
}

// ToolPinMutator rewrites env.UV_VERSION in every workflow.
type ToolPinMutator struct{}

func NewToolPinMutator() repositories.MutatorRepository {
	return &ToolPinMutator{}
}

func (it *ToolPinMutator) Name() string { return "workflow-env" }

func (it *ToolPinMutator) Supports(dep entities.Dependency) bool {
	registry, ok := dep.(*entities.RegistryDependency)
	return ok && registry.Origin() == entities.OriginWorkflowEnv
}

// Apply writes newVersion verbatim into each top-level env.UV_VERSION.
func (it *ToolPinMutator) Apply(
	project *entities.Project,
	dep entities.Dependency,
	newVersion string,
) ([]string, error) {
	matched := false
	changed, err := rewriteWorkflows(project.Layout().WorkflowsDir, func(doc *yamlDocument) map[*yaml.Node]string {
		node := doc.topLevelEnv(toolPinVariable)
		if node == nil {
			return nil
		}
		matched = true
		return map[*yaml.Node]string{node: newVersion}
	})
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, &entities.NotFoundError{Name: "env." + toolPinVariable, Scope: project.Layout().WorkflowsDir}
	}
	return changed, nil
}

// rewriteWorkflows applies the edits chosen by pick to each workflow file and
// writes back only the files whose content changed.
func rewriteWorkflows(dir string, pick func(doc *yamlDocument) map[*yaml.Node]string) ([]string, error) {
	files, err := workflowFiles(dir)
	if err != nil {
		return nil, err
	}

	var changed []string
	for _, file := range files {
		doc, readErr := readYAMLDocument(file)
		if readErr != nil {
			return changed, readErr
		}
		values := pick(doc)
		if len(values) == 0 {
			continue
		}
		content, rewriteErr := doc.rewrite(values)
		if rewriteErr != nil {
			return changed, rewriteErr
		}
		if string(content) == string(doc.content) {
			continue
		}
		if writeErr := writeFileAtomic(file, content); writeErr != nil {
			return changed, writeErr
		}
		logger.Infof("[workflow] Updated %s", file)
		changed = append(changed, file)
	}
	return changed, nil
}
