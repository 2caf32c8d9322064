package repositories

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	domainRepos "github.com/rios0rios0/imagebump/internal/domain/repositories"
)

// ReviewProviderFactory creates a ReviewRequestRepository from the review settings.
type ReviewProviderFactory func(settings entities.ReviewSettings) domainRepos.ReviewRequestRepository

// ReviewProviderRegistry manages all registered code-review hosts.
type ReviewProviderRegistry struct {
	providers map[string]ReviewProviderFactory
}

// NewReviewProviderRegistry creates an empty provider registry.
func NewReviewProviderRegistry() *ReviewProviderRegistry {
	return &ReviewProviderRegistry{
		providers: make(map[string]ReviewProviderFactory),
	}
}

// Register adds a provider factory under the given name (e.g. "github").
func (r *ReviewProviderRegistry) Register(name string, factory ReviewProviderFactory) {
	r.providers[name] = factory
}

// Get returns a configured provider instance for the given name.
func (r *ReviewProviderRegistry) Get(
	name string,
	settings entities.ReviewSettings,
) (domainRepos.ReviewRequestRepository, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown review provider: %q (known: %v)", name, r.Names())
	}
	return factory(settings), nil
}

// Names returns the sorted list of registered provider names.
func (r *ReviewProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
