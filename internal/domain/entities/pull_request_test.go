package entities_test

import (
	"testing"

	gitforgeEntities "github.com/rios0rios0/gitforge/pkg/global/domain/entities"
	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
)

func TestGitforgeTypes(t *testing.T) {
	t.Parallel()

	t.Run("should hand review requests to gitforge unchanged", func(t *testing.T) {
		t.Parallel()

		// given
		forged := gitforgeEntities.PullRequest{ID: 7, Title: "chore(deps): bump app", Status: "open"}

		// when
		var request entities.PullRequest = forged

		// then
		assert.Equal(t, forged, request)
	})

	t.Run("should address the review target as a gitforge repository", func(t *testing.T) {
		t.Parallel()

		// given
		forged := gitforgeEntities.Repository{Organization: "org", Name: "infra", ProviderName: "github"}

		// when
		var target entities.Repository = forged

		// then
		assert.Equal(t, "org", target.Organization)
		assert.Equal(t, "infra", target.Name)
	})
}
