//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/imagebump/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// SettingsBuilder helps create pass settings with a fluent interface.
type SettingsBuilder struct {
	*testkit.BaseBuilder
	mode      string
	manifest  string
	changelog string
	reviewer  string
	owner     string
	name      string
}

// NewSettingsBuilder creates a builder for live settings with sensible defaults.
func NewSettingsBuilder() *SettingsBuilder {
	b := &SettingsBuilder{BaseBuilder: testkit.NewBaseBuilder()}
	b.Reset()
	return b
}

// WithMode sets the pass mode ("live" or "fixture").
func (b *SettingsBuilder) WithMode(mode string) *SettingsBuilder {
	b.mode = mode
	return b
}

// WithManifest sets the manifest path inside the working copy.
func (b *SettingsBuilder) WithManifest(path string) *SettingsBuilder {
	b.manifest = path
	return b
}

// WithChangelog sets the changelog path inside the working copy.
func (b *SettingsBuilder) WithChangelog(path string) *SettingsBuilder {
	b.changelog = path
	return b
}

// WithReviewer sets the reviewer requested on new requests.
func (b *SettingsBuilder) WithReviewer(reviewer string) *SettingsBuilder {
	b.reviewer = reviewer
	return b
}

// Build creates the settings (satisfies testkit.Builder interface).
func (b *SettingsBuilder) Build() interface{} {
	return b.BuildSettings()
}

// BuildSettings creates the settings with a concrete return type.
func (b *SettingsBuilder) BuildSettings() *entities.Settings {
	return &entities.Settings{
		Mode: b.mode,
		Repository: entities.RepositorySettings{
			URL:         "https://github.com/" + b.owner + "/" + b.name + ".git",
			Path:        "/tmp/" + b.name,
			MainBranch:  "main",
			Manifest:    b.manifest,
			Changelog:   b.changelog,
			AuthorName:  "imagebump",
			AuthorEmail: "imagebump@example.com",
		},
		Review: entities.ReviewSettings{
			Provider: "github",
			Owner:    b.owner,
			Name:     b.name,
			Reviewer: b.reviewer,
			Token:    "review-token",
		},
		Manifest: entities.ManifestSettings{Parser: entities.ParserInference},
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *SettingsBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.mode = entities.ModeLive
	b.manifest = "docker-compose.yml"
	b.changelog = ""
	b.reviewer = ""
	b.owner = "test-org"
	b.name = "cluster"
	return b
}

// Clone creates a deep copy of the SettingsBuilder.
func (b *SettingsBuilder) Clone() testkit.Builder {
	return &SettingsBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		mode:        b.mode,
		manifest:    b.manifest,
		changelog:   b.changelog,
		reviewer:    b.reviewer,
		owner:       b.owner,
		name:        b.name,
	}
}
