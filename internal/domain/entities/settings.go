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
	// ModeLive talks to the real inference service, upstream hosts and the
	// code-review API.
	ModeLive = "live"
	// ModeFixture answers every oracle, analyzer and review question from
	// the fixture tables.
	ModeFixture = "fixture"

	ParserInference = "inference"
	ParserCompose   = "compose"

	defaultMainBranch      = "main"
	defaultManifest        = "docker-compose.yml"
	defaultReviewProvider  = "github"
	defaultAuthorName      = "imagebump"
	defaultAuthorEmail     = "imagebump@users.noreply.github.com"
	defaultInferenceURL    = "https://api.openai.com/v1/chat/completions"
	defaultInferenceModel  = "gpt-4o-mini"
	defaultInferenceWait   = 60 * time.Second
	defaultInferenceTokens = 256
	defaultInferenceRetry  = 3
	defaultUpstreamWait    = 15 * time.Second
	defaultRepositoryWait  = 2 * time.Minute
	defaultReviewWait      = 30 * time.Second
	defaultMetricsJob      = "imagebump"
)

// Settings is the whole configuration of a pass. It is built once at
// startup and handed to the components that need it.
type Settings struct {
	Mode       string             `yaml:"mode"`
	Repository RepositorySettings `yaml:"repository"`
	Review     ReviewSettings     `yaml:"review"`
	Inference  InferenceSettings  `yaml:"inference"`
	Upstream   UpstreamSettings   `yaml:"upstream"`
	Manifest   ManifestSettings   `yaml:"manifest"`
	Metrics    MetricsSettings    `yaml:"metrics"`
	Fixtures   *Fixtures          `yaml:"fixtures"`
}

// RepositorySettings describes the working copy the pass operates on.
type RepositorySettings struct {
	URL         string `yaml:"url"`
	Path        string `yaml:"path"`
	MainBranch  string `yaml:"main_branch"`
	Manifest    string `yaml:"manifest"`  // path of the manifest inside the working copy
	Token       string `yaml:"token"`     // Inline, ${ENV_VAR}, or file path
	Changelog   string `yaml:"changelog"` // optional Keep-a-Changelog file to update
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`

	// Timeout bounds each network round trip of the working copy (clone,
	// pull, remote listing, push).
	Timeout time.Duration `yaml:"timeout"`
}

// ReviewSettings describes where review requests are opened.
type ReviewSettings struct {
	Provider string `yaml:"provider"` // "github", "gitlab" or "fixture"
	Owner    string `yaml:"owner"`
	Name     string `yaml:"name"`
	Reviewer string `yaml:"reviewer"`
	Token    string `yaml:"token"`
	BaseURL  string `yaml:"base_url"` // self-hosted instances only

	// Timeout bounds each call to the code-review API.
	Timeout time.Duration `yaml:"timeout"`
}

// InferenceSettings configures the natural-language inference service.
type InferenceSettings struct {
	Endpoint   string        `yaml:"endpoint"`
	Model      string        `yaml:"model"`
	Token      string        `yaml:"token"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	MaxTokens  int           `yaml:"max_tokens"`
}

// UpstreamSettings configures the release lookups against upstream hosts.
type UpstreamSettings struct {
	Token   string        `yaml:"token"` // optional, raises the GitHub API rate limit
	Timeout time.Duration `yaml:"timeout"`
}

// ManifestSettings selects how pinned versions are read from the manifest.
type ManifestSettings struct {
	Parser string `yaml:"parser"` // "inference" or "compose"
}

// MetricsSettings configures the optional Pushgateway export.
type MetricsSettings struct {
	Pushgateway string `yaml:"pushgateway"`
	Job         string `yaml:"job"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a configuration file, expanding environment
// variables in secrets, applying defaults and validating the result.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	return ParseSettings(data)
}

// ParseSettings builds Settings from raw YAML.
func ParseSettings(data []byte) (*Settings, error) {
	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Repository.Token = resolveToken(settings.Repository.Token)
	settings.Review.Token = resolveToken(settings.Review.Token)
	settings.Inference.Token = resolveToken(settings.Inference.Token)
	settings.Upstream.Token = resolveToken(settings.Upstream.Token)

	applyDefaults(&settings)

	if validateErr := validate(&settings); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	locations := []string{".", ".config", "configs"}
	if homeDir, err := os.UserHomeDir(); err == nil && homeDir != "" {
		locations = append(locations, homeDir, filepath.Join(homeDir, ".config"))
	}

	patterns := []string{
		".imagebump.yaml",
		".imagebump.yml",
		"imagebump.yaml",
		"imagebump.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// IsFixture reports whether the pass runs against the fixture tables.
func (s *Settings) IsFixture() bool {
	return s.Mode == ModeFixture
}

// ReviewTarget is the repository review requests are opened against.
func (s *Settings) ReviewTarget() Repository {
	return Repository{
		ID:            s.Review.Owner + "/" + s.Review.Name,
		Name:          s.Review.Name,
		Organization:  s.Review.Owner,
		DefaultBranch: s.Repository.MainBranch,
		RemoteURL:     s.Repository.URL,
		ProviderName:  s.Review.Provider,
	}
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from it.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if info, statErr := os.Stat(resolved); statErr == nil && !info.IsDir() {
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

func applyDefaults(s *Settings) {
	if s.Mode == "" {
		s.Mode = ModeLive
	}
	if s.Repository.MainBranch == "" {
		s.Repository.MainBranch = defaultMainBranch
	}
	if s.Repository.Manifest == "" {
		s.Repository.Manifest = defaultManifest
	}
	if s.Repository.AuthorName == "" {
		s.Repository.AuthorName = defaultAuthorName
	}
	if s.Repository.AuthorEmail == "" {
		s.Repository.AuthorEmail = defaultAuthorEmail
	}
	if s.Repository.Timeout == 0 {
		s.Repository.Timeout = defaultRepositoryWait
	}
	if s.Review.Provider == "" {
		s.Review.Provider = defaultReviewProvider
	}
	if s.Review.Timeout == 0 {
		s.Review.Timeout = defaultReviewWait
	}
	if s.IsFixture() {
		s.Review.Provider = ModeFixture
		if s.Fixtures == nil {
			s.Fixtures = DefaultFixtures()
		}
	}
	if s.Inference.Endpoint == "" {
		s.Inference.Endpoint = defaultInferenceURL
	}
	if s.Inference.Model == "" {
		s.Inference.Model = defaultInferenceModel
	}
	if s.Inference.Timeout == 0 {
		s.Inference.Timeout = defaultInferenceWait
	}
	if s.Inference.MaxRetries == 0 {
		s.Inference.MaxRetries = defaultInferenceRetry
	}
	if s.Inference.MaxTokens == 0 {
		s.Inference.MaxTokens = defaultInferenceTokens
	}
	if s.Upstream.Timeout == 0 {
		s.Upstream.Timeout = defaultUpstreamWait
	}
	if s.Manifest.Parser == "" {
		s.Manifest.Parser = ParserInference
	}
	if s.Metrics.Job == "" {
		s.Metrics.Job = defaultMetricsJob
	}
}

// validate checks for required configuration values.
func validate(s *Settings) error {
	if s.Mode != ModeLive && s.Mode != ModeFixture {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeLive, ModeFixture, s.Mode)
	}
	if s.Repository.URL == "" {
		return errors.New("repository.url is required")
	}
	if s.Repository.Path == "" {
		return errors.New("repository.path is required")
	}
	if s.Manifest.Parser != ParserInference && s.Manifest.Parser != ParserCompose {
		return fmt.Errorf("manifest.parser must be %q or %q, got %q",
			ParserInference, ParserCompose, s.Manifest.Parser)
	}

	if s.IsFixture() {
		return nil
	}

	if s.Review.Owner == "" || s.Review.Name == "" {
		return errors.New("review.owner and review.name are required in live mode")
	}
	if s.Review.Token == "" {
		return errors.New(
			"review.token is required in live mode (set inline, via ${ENV_VAR}, or as file path)",
		)
	}
	if s.Inference.Token == "" {
		return errors.New(
			"inference.token is required in live mode (set inline, via ${ENV_VAR}, or as file path)",
		)
	}

	return nil
}
