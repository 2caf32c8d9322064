//go:build unit

package commands_test

import (
	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
	"github.com/rios0rios0/imagebump/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/imagebump/test/infrastructure/repositorydoubles"
)

const (
	manifestPath = "docker-compose.yml"

	clusterManifest = `services:
  a:
    image: image-a:1.0.0
    restart: unless-stopped
  b:
    image: image-b:2.0.0
  c:
    image: image-c:2.5.0
`
)

// harness wires the doubles of one pass together.
type harness struct {
	workingCopy *doubles.SpyWorkingCopyRepository
	oracle      *doubles.StubVersionOracleRepository
	analyzer    *doubles.StubManifestAnalyzerRepository
	review      *doubles.SpyReviewRequestRepository
	inference   *doubles.StubInferenceRepository
	metrics     *doubles.SpyMetricsRepository
	factory     *doubles.StubToolchainFactory
	settings    *entities.Settings
}

func newHarness() *harness {
	h := &harness{
		workingCopy: doubles.NewSpyWorkingCopyRepository(map[string]string{manifestPath: clusterManifest}),
		oracle: &doubles.StubVersionOracleRepository{
			Latest: map[string]string{
				"image-a": "1.2.0",
				"image-b": "2.0.0",
				"image-c": entities.SameVersionSentinel,
			},
		},
		analyzer: &doubles.StubManifestAnalyzerRepository{
			Versions: map[string]string{
				"image-a": "1.0.0",
				"image-b": "2.0.0",
				"image-c": "2.5.0",
			},
		},
		review:    doubles.NewSpyReviewRequestRepository(),
		inference: &doubles.StubInferenceRepository{},
		metrics:   &doubles.SpyMetricsRepository{},
		settings:  entitybuilders.NewSettingsBuilder().WithManifest(manifestPath).BuildSettings(),
	}
	h.factory = &doubles.StubToolchainFactory{
		Toolchain: &repositories.Toolchain{
			WorkingCopy: h.workingCopy,
			Analyzer:    h.analyzer,
			Oracle:      h.oracle,
			Review:      h.review,
			Inference:   h.inference,
			Metrics:     h.metrics,
		},
	}
	return h
}

func outcomeOf(report *entities.PassReport, image string) entities.ImageOutcome {
	for _, outcome := range report.Outcomes {
		if outcome.Image.Name == image {
			return outcome
		}
	}
	return entities.ImageOutcome{}
}
