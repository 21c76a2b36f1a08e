package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultHTTPTimeout bounds every remote request.
	DefaultHTTPTimeout = 10 * time.Second
	// TokenEnvVar supplies the GitHub token when none is configured.
	TokenEnvVar = "GH_PAT"

	defaultRegistryURL  = "https://pypi.org"
	defaultGitHubAPIURL = "https://api.github.com"
	defaultMaxRetries   = 3
)

// Settings is the tool configuration. Every field has a default, so a config
// file is optional.
type Settings struct {
	RegistryURL     string        `yaml:"registry_url"`
	GitHubAPIURL    string        `yaml:"github_api_url"`
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	MaxRetries      int           `yaml:"max_retries"`
	Concurrency     int           `yaml:"concurrency"`
	Token           string        `yaml:"token"` // inline, ${ENV_VAR}, or file path
	Manifest        string        `yaml:"manifest"`
	WorkflowsDir    string        `yaml:"workflows_dir"`
	PreCommitConfig string        `yaml:"pre_commit_config"`
	Remote          string        `yaml:"remote"`
	BaseBranch      string        `yaml:"base_branch"` // empty: the branch checked out when the update starts
	BranchPrefix    string        `yaml:"branch_prefix"`
	Changelog       string        `yaml:"changelog"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

var errNoSettingsFile = errors.New("settings file not found in default locations")

// DefaultSettings returns the settings used when no file overrides them.
func DefaultSettings() *Settings {
	return &Settings{
		RegistryURL:     defaultRegistryURL,
		GitHubAPIURL:    defaultGitHubAPIURL,
		HTTPTimeout:     DefaultHTTPTimeout,
		MaxRetries:      defaultMaxRetries,
		Concurrency:     DefaultConcurrency,
		Manifest:        "pyproject.toml",
		WorkflowsDir:    filepath.Join(".github", "workflows"),
		PreCommitConfig: ".pre-commit-config.yaml",
		Remote:          "origin",
		BranchPrefix:    "chore/upgrade-",
		Changelog:       "CHANGELOG.md",
	}
}

// NewSettings loads the settings file at path. An empty path searches the
// default locations and falls back to DefaultSettings when nothing is found.
func NewSettings(path string) (*Settings, error) {
	if path == "" {
		found, err := FindConfigFile()
		if err != nil {
			logger.Debugf("No settings file found, using defaults")
			settings := DefaultSettings()
			settings.Token = ResolveToken("")
			return settings, nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %q: %w", path, err)
	}

	settings := DefaultSettings()
	if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse settings file %q: %w", path, unmarshalErr)
	}
	settings.Token = ResolveToken(settings.Token)

	if validateErr := settings.Validate(); validateErr != nil {
		return nil, validateErr
	}
	logger.Debugf("Loaded settings from %q", path)
	return settings, nil
}

// FindConfigFile searches for a settings file in standard locations.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".upgrade-dependencies.yaml",
		".upgrade-dependencies.yml",
		"upgrade-dependencies.yaml",
		"upgrade-dependencies.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errNoSettingsFile
}

// ResolveToken expands ${VAR} references and, when the result is the path of
// an existing file, reads the token from it. An empty value falls back to GH_PAT.
func ResolveToken(raw string) string {
	if raw == "" {
		return os.Getenv(TokenEnvVar)
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if resolved == "" {
		return resolved
	}
	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Debugf("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// Validate checks the values a run cannot work without.
func (it *Settings) Validate() error {
	if it.RegistryURL == "" {
		return errors.New("registry_url is required")
	}
	if it.GitHubAPIURL == "" {
		return errors.New("github_api_url is required")
	}
	if it.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive, got %s", it.HTTPTimeout)
	}
	if it.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", it.MaxRetries)
	}
	if it.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", it.Concurrency)
	}
	if it.Manifest == "" {
		return errors.New("manifest is required")
	}
	return nil
}

// Layout resolves the project file locations below rootDir.
func (it *Settings) Layout(rootDir string) ProjectLayout {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(rootDir, p)
	}
	return ProjectLayout{
		RootDir:         rootDir,
		Manifest:        resolve(it.Manifest),
		WorkflowsDir:    resolve(it.WorkflowsDir),
		PreCommitConfig: resolve(it.PreCommitConfig),
	}
}
