package repositories

import (
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	domainRepos "github.com/rios0rios0/imagebump/internal/domain/repositories"
	"github.com/rios0rios0/imagebump/internal/infrastructure/repositories/inference"
	"github.com/rios0rios0/imagebump/internal/infrastructure/repositories/manifest"
	"github.com/rios0rios0/imagebump/internal/infrastructure/repositories/metrics"
	"github.com/rios0rios0/imagebump/internal/infrastructure/repositories/oracle"
	"github.com/rios0rios0/imagebump/internal/infrastructure/repositories/workingcopy"
)

// ToolchainBuilder assembles the collaborators of a pass. The live or
// fixture variant of every collaborator is picked here, once.
type ToolchainBuilder struct {
	reviewers *ReviewProviderRegistry
	parsers   *ManifestParserRegistry
}

var _ domainRepos.ToolchainFactory = (*ToolchainBuilder)(nil)

// NewToolchainBuilder creates a builder over the given registries.
func NewToolchainBuilder(reviewers *ReviewProviderRegistry, parsers *ManifestParserRegistry) *ToolchainBuilder {
	return &ToolchainBuilder{reviewers: reviewers, parsers: parsers}
}

// Build creates a fresh toolchain; memoized answers never outlive a pass.
func (b *ToolchainBuilder) Build(settings *entities.Settings) (*domainRepos.Toolchain, error) {
	review, err := b.reviewers.Get(settings.Review.Provider, settings.Review)
	if err != nil {
		return nil, err
	}

	toolchain := &domainRepos.Toolchain{
		WorkingCopy: workingcopy.NewGitWorkingCopyRepository(settings.Repository, settings.Review.Provider),
		Review:      review,
		Metrics:     newMetrics(settings.Metrics),
	}

	if settings.IsFixture() {
		logger.Info("Running against the fixture tables")
		toolchain.Inference = inference.NewFixtureInferenceRepository()
		toolchain.Oracle = oracle.NewFixtureVersionOracleRepository(settings.Fixtures)
		toolchain.Analyzer = manifest.NewFixtureManifestAnalyzerRepository(settings.Fixtures)
		if settings.Manifest.Parser == entities.ParserCompose {
			toolchain.Analyzer = manifest.NewComposeManifestAnalyzerRepository()
		}
		return toolchain, nil
	}

	toolchain.Inference = inference.NewOpenAIInferenceRepository(settings.Inference)
	toolchain.Oracle = oracle.NewLiveVersionOracleRepository(toolchain.Inference, settings.Upstream)
	if toolchain.Analyzer, err = b.parsers.Get(settings.Manifest.Parser, toolchain.Inference); err != nil {
		return nil, err
	}
	return toolchain, nil
}

func newMetrics(settings entities.MetricsSettings) domainRepos.MetricsRepository {
	if settings.Pushgateway == "" {
		return metrics.NoopMetricsRepository{}
	}
	return metrics.NewPushgatewayMetricsRepository(settings)
}
