package repositories

import (
	"fmt"
	"sort"

	domainRepos "github.com/rios0rios0/imagebump/internal/domain/repositories"
)

// ManifestParserFactory creates a ManifestAnalyzerRepository. Parsers that do
// not need the inference collaborator ignore it.
type ManifestParserFactory func(inference domainRepos.InferenceRepository) domainRepos.ManifestAnalyzerRepository

// ManifestParserRegistry manages the ways pinned versions can be read.
type ManifestParserRegistry struct {
	parsers map[string]ManifestParserFactory
}

// NewManifestParserRegistry creates an empty parser registry.
func NewManifestParserRegistry() *ManifestParserRegistry {
	return &ManifestParserRegistry{
		parsers: make(map[string]ManifestParserFactory),
	}
}

// Register adds a parser factory under its name (e.g. "compose").
func (r *ManifestParserRegistry) Register(name string, factory ManifestParserFactory) {
	r.parsers[name] = factory
}

// Get returns the parser registered under name.
func (r *ManifestParserRegistry) Get(
	name string,
	inference domainRepos.InferenceRepository,
) (domainRepos.ManifestAnalyzerRepository, error) {
	factory, ok := r.parsers[name]
	if !ok {
		return nil, fmt.Errorf("unknown manifest parser: %q (known: %v)", name, r.Names())
	}
	return factory(inference), nil
}

// Names returns the sorted list of registered parser names.
func (r *ManifestParserRegistry) Names() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
