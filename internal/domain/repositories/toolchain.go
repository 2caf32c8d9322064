package repositories

import "github.com/rios0rios0/imagebump/internal/domain/entities"

// Toolchain is the set of collaborators one pass works with. Live and
// fixture variants are chosen once, when the toolchain is built.
type Toolchain struct {
	WorkingCopy WorkingCopyRepository
	Analyzer    ManifestAnalyzerRepository
	Oracle      VersionOracleRepository
	Review      ReviewRequestRepository
	Inference   InferenceRepository
	Metrics     MetricsRepository
}

// ToolchainFactory builds the toolchain described by the settings.
type ToolchainFactory interface {
	Build(settings *entities.Settings) (*Toolchain, error)
}
