package controllers

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

var (
	colorGreen = lipgloss.Color("35")  // up to date, specifiers
	colorRed   = lipgloss.Color("167") // needs update, errors
	colorDim   = lipgloss.Color("240") // borders, labels
)

var (
	styleTitle     = lipgloss.NewStyle().Bold(true)
	styleSpecifier = lipgloss.NewStyle().Foreground(colorGreen)
	styleOutdated  = lipgloss.NewStyle().Foreground(colorRed)
	styleLabel     = lipgloss.NewStyle().Foreground(colorDim)
	stylePanel     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

const (
	iconArrow = "→"
	iconError = "✗"
)

// panel renders a titled bordered box.
func panel(title, body string) string {
	return styleTitle.Render(title) + "\n" + stylePanel.Render(body)
}

// dependencyLine renders "name<specifier>", followed by the latest version
// once it is known.
func dependencyLine(dep entities.Dependency, withLatest bool) string {
	line := displayName(dep) + styleSpecifier.Render(dep.Specifier().String())
	if !withLatest {
		return line
	}
	latest, err := dep.LatestVersion()
	if err != nil {
		return line + " " + styleLabel.Render(iconArrow+" unknown")
	}
	needsUpdate, _ := dep.NeedsUpdate()
	style := styleSpecifier
	if needsUpdate {
		style = styleOutdated
	}
	return line + " " + styleLabel.Render(iconArrow) + " " + style.Render(latest.String())
}

// displayName shows the extras a package is installed with.
func displayName(dep entities.Dependency) string {
	if registry, ok := dep.(*entities.RegistryDependency); ok {
		return registry.PackagePlusExtras()
	}
	return dep.Name()
}

// sourceLine tells where a release dependency is pinned, empty for packages.
func sourceLine(dep entities.Dependency) string {
	release, ok := dep.(*entities.ReleaseDependency)
	switch {
	case !ok:
		return ""
	case release.FullRef() != "":
		return styleLabel.Render("uses: " + release.FullRef())
	case release.RepoURL() != "":
		return styleLabel.Render("repo: " + release.RepoURL())
	default:
		return ""
	}
}

func dependencyLines(deps []entities.Dependency, withLatest bool) string {
	lines := make([]string, 0, len(deps))
	for _, dep := range deps {
		lines = append(lines, dependencyLine(dep, withLatest))
	}
	return strings.Join(lines, "\n")
}

// writeProject prints the inventory grouped the way pyproject.toml declares it.
func writeProject(out io.Writer, project *entities.Project, withLatest bool) {
	_, _ = fmt.Fprintln(out, panel("Base Dependencies", dependencyLines(project.BaseDependencies(), withLatest)))

	writeNamed(out, "Optional Dependencies", project.OptionalDependencies(), withLatest)
	writeNamed(out, "Dependency Groups", project.GroupDependencies(), withLatest)

	if actions := project.GitHubActionDependencies(); len(actions) > 0 {
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, panel("GitHub Actions Dependencies", dependencyLines(actions, withLatest)))
	}
	if hooks := project.PreCommitDependencies(); len(hooks) > 0 {
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, panel("Pre-commit Dependencies", dependencyLines(hooks, withLatest)))
	}
}

func writeNamed(out io.Writer, title string, groups []entities.NamedDependencies, withLatest bool) {
	if len(groups) == 0 {
		return
	}
	panels := make([]string, 0, len(groups))
	for _, group := range groups {
		panels = append(panels, panel(group.Name, dependencyLines(group.Dependencies, withLatest)))
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, panel(title, strings.Join(panels, "\n")))
}

func writeFailures(out io.Writer, failures []entities.FetchFailure) {
	for _, failure := range failures {
		_, _ = fmt.Fprintf(out, "%s %s: %v\n", styleOutdated.Render(iconError), failure.Dependency.Name(), failure.Err)
	}
}
