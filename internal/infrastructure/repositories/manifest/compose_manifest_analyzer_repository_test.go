package manifest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/infrastructure/repositories/manifest"
)

const clusterManifest = `version: "3.8"

services:
  charon:
    image: obolnetwork/charon:${CHARON_VERSION:-v0.15.0}
    environment:
      CHARON_LOG_LEVEL: info
  lighthouse:
    image: sigp/lighthouse:${LIGHTHOUSE_VERSION:-v4.0.2-rc.0}
  teku:
    image: consensys/teku:23.3.1
  registry-app:
    image: localhost:5000/team/app:1.0.0@sha256:abcdef
  unpinned:
    image: busybox
  from-env:
    image: org/tool:${TOOL_VERSION}
  built:
    build: .
`

func TestComposeManifestAnalyzerRepositoryCurrentVersions(t *testing.T) {
	t.Parallel()

	t.Run("should read tags and defaulted interpolations", func(t *testing.T) {
		t.Parallel()

		// given
		analyzer := manifest.NewComposeManifestAnalyzerRepository()

		// when
		versions, err := analyzer.CurrentVersions(context.Background(), clusterManifest)

		// then
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"obolnetwork/charon":      "v0.15.0",
			"sigp/lighthouse":         "v4.0.2-rc.0",
			"consensys/teku":          "23.3.1",
			"localhost:5000/team/app": "1.0.0",
		}, versions)
	})

	t.Run("should fail without a services mapping", func(t *testing.T) {
		t.Parallel()

		// given
		analyzer := manifest.NewComposeManifestAnalyzerRepository()

		// when
		_, err := analyzer.CurrentVersions(context.Background(), "version: \"3\"\n")

		// then
		require.Error(t, err)
	})

	t.Run("should fail for invalid YAML", func(t *testing.T) {
		t.Parallel()

		// given
		analyzer := manifest.NewComposeManifestAnalyzerRepository()

		// when
		_, err := analyzer.CurrentVersions(context.Background(), "services: [\n")

		// then
		require.Error(t, err)
	})
}

func TestComposeManifestAnalyzerRepositoryReplacementLine(t *testing.T) {
	t.Parallel()

	t.Run("should rewrite only the version of the declaring line", func(t *testing.T) {
		t.Parallel()

		// given
		analyzer := manifest.NewComposeManifestAnalyzerRepository()
		image := entities.TrackedImage{Name: "obolnetwork/charon", CurrentVersion: "v0.15.0", LatestVersion: "v0.16.0"}

		// when
		edit, err := analyzer.ReplacementLine(context.Background(), clusterManifest, image)

		// then
		require.NoError(t, err)
		assert.Equal(t, "4", edit.Indentation)
		assert.Equal(t, "image: obolnetwork/charon:${CHARON_VERSION:-v0.16.0}", edit.UpdatedLine)
	})

	t.Run("should produce a line the editor accepts", func(t *testing.T) {
		t.Parallel()

		// given
		analyzer := manifest.NewComposeManifestAnalyzerRepository()
		image := entities.TrackedImage{Name: "consensys/teku", CurrentVersion: "23.3.1", LatestVersion: "23.4.0"}

		// when
		edit, err := analyzer.ReplacementLine(context.Background(), clusterManifest, image)
		require.NoError(t, err)
		result, changed := entities.ApplyVersionBump(clusterManifest, image.Name, image.CurrentVersion, edit.Render())

		// then
		assert.True(t, changed)
		assert.Contains(t, result, "    image: consensys/teku:23.4.0\n")
	})

	t.Run("should fail when no line declares the image", func(t *testing.T) {
		t.Parallel()

		// given
		analyzer := manifest.NewComposeManifestAnalyzerRepository()
		image := entities.TrackedImage{Name: "grafana/grafana", CurrentVersion: "9.3.2", LatestVersion: "9.5.1"}

		// when
		_, err := analyzer.ReplacementLine(context.Background(), clusterManifest, image)

		// then
		require.ErrorIs(t, err, entities.ErrManifestMatch)
	})
}
