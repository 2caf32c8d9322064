package manifest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/infrastructure/repositories/manifest"
)

func TestFixtureManifestAnalyzerRepository(t *testing.T) {
	t.Parallel()

	t.Run("should return a copy of the fixture versions", func(t *testing.T) {
		t.Parallel()

		// given
		fixtures := entities.DefaultFixtures()
		analyzer := manifest.NewFixtureManifestAnalyzerRepository(fixtures)

		// when
		versions, err := analyzer.CurrentVersions(context.Background(), "")
		versions["obolnetwork/charon"] = "changed"

		// then
		require.NoError(t, err)
		assert.Equal(t, "v0.15.0", fixtures.Images["obolnetwork/charon"])
	})

	t.Run("should return the fixture line", func(t *testing.T) {
		t.Parallel()

		// given
		analyzer := manifest.NewFixtureManifestAnalyzerRepository(entities.DefaultFixtures())

		// when
		edit, err := analyzer.ReplacementLine(context.Background(), "", entities.TrackedImage{Name: "sigp/lighthouse"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "    image: sigp/lighthouse:${LIGHTHOUSE_VERSION:-v4.1.0}", edit.Render())
	})

	t.Run("should fail for an image without fixture line", func(t *testing.T) {
		t.Parallel()

		// given
		analyzer := manifest.NewFixtureManifestAnalyzerRepository(entities.DefaultFixtures())

		// when
		_, err := analyzer.ReplacementLine(context.Background(), "", entities.TrackedImage{Name: "unknown/image"})

		// then
		require.ErrorIs(t, err, entities.ErrMalformedResponse)
	})
}
