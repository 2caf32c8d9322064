//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/imagebump/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// TrackedImageBuilder helps create tracked images with a fluent interface.
type TrackedImageBuilder struct {
	*testkit.BaseBuilder
	name    string
	current string
	latest  string
	state   entities.ImageState
}

// NewTrackedImageBuilder creates a builder with sensible defaults.
func NewTrackedImageBuilder() *TrackedImageBuilder {
	b := &TrackedImageBuilder{BaseBuilder: testkit.NewBaseBuilder()}
	b.Reset()
	return b
}

// WithName sets the image name.
func (b *TrackedImageBuilder) WithName(name string) *TrackedImageBuilder {
	b.name = name
	return b
}

// WithCurrentVersion sets the pinned version.
func (b *TrackedImageBuilder) WithCurrentVersion(version string) *TrackedImageBuilder {
	b.current = version
	return b
}

// WithLatestVersion sets the resolved latest version.
func (b *TrackedImageBuilder) WithLatestVersion(version string) *TrackedImageBuilder {
	b.latest = version
	return b
}

// WithState sets the image state.
func (b *TrackedImageBuilder) WithState(state entities.ImageState) *TrackedImageBuilder {
	b.state = state
	return b
}

// Build creates the image (satisfies testkit.Builder interface).
func (b *TrackedImageBuilder) Build() interface{} {
	return b.BuildTrackedImage()
}

// BuildTrackedImage creates the image with a concrete return type.
func (b *TrackedImageBuilder) BuildTrackedImage() entities.TrackedImage {
	return entities.TrackedImage{
		Name:           b.name,
		CurrentVersion: b.current,
		UpstreamURL:    "https://github.com/" + b.name,
		LatestVersion:  b.latest,
		State:          b.state,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *TrackedImageBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "image-a"
	b.current = "1.0.0"
	b.latest = "1.2.0"
	b.state = entities.StateVersionResolved
	return b
}

// Clone creates a deep copy of the TrackedImageBuilder.
func (b *TrackedImageBuilder) Clone() testkit.Builder {
	return &TrackedImageBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		current:     b.current,
		latest:      b.latest,
		state:       b.state,
	}
}
