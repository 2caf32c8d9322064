package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	domainRepos "github.com/rios0rios0/imagebump/internal/domain/repositories"
	fxRepo "github.com/rios0rios0/imagebump/internal/infrastructure/repositories/fixture"
	ghRepo "github.com/rios0rios0/imagebump/internal/infrastructure/repositories/github"
	glRepo "github.com/rios0rios0/imagebump/internal/infrastructure/repositories/gitlab"
	"github.com/rios0rios0/imagebump/internal/infrastructure/repositories/manifest"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register review provider registry with all provider factories
	if err := container.Provide(func() *ReviewProviderRegistry {
		reg := NewReviewProviderRegistry()
		reg.Register("github", ghRepo.NewGitHubReviewRequestRepository)
		reg.Register("gitlab", glRepo.NewGitLabReviewRequestRepository)

		// fixture requests outlive a pass, like hosted ones do
		var fixtureRequests domainRepos.ReviewRequestRepository
		reg.Register(entities.ModeFixture, func(settings entities.ReviewSettings) domainRepos.ReviewRequestRepository {
			if fixtureRequests == nil {
				fixtureRequests = fxRepo.NewFixtureReviewRequestRepository(settings)
			}
			return fixtureRequests
		})
		return reg
	}); err != nil {
		return err
	}

	// Register manifest parser registry
	if err := container.Provide(func() *ManifestParserRegistry {
		reg := NewManifestParserRegistry()
		reg.Register(entities.ParserInference, func(
			inference domainRepos.InferenceRepository,
		) domainRepos.ManifestAnalyzerRepository {
			return manifest.NewInferenceManifestAnalyzerRepository(inference)
		})
		reg.Register(entities.ParserCompose, func(
			domainRepos.InferenceRepository,
		) domainRepos.ManifestAnalyzerRepository {
			return manifest.NewComposeManifestAnalyzerRepository()
		})
		return reg
	}); err != nil {
		return err
	}

	if err := container.Provide(NewToolchainBuilder); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *ToolchainBuilder) domainRepos.ToolchainFactory {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
