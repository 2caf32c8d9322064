package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	ghRepo "github.com/rios0rios0/imagebump/internal/infrastructure/repositories/github"
)

var target = entities.Repository{Organization: "org", Name: "infra"} //nolint:gochecknoglobals // shared fixture

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func newPublisher(url string) *ghRepo.GitHubReviewRequestRepository {
	return ghRepo.NewGitHubReviewRequestRepository(entities.ReviewSettings{
		Token:   "token",
		BaseURL: url + "/",
	}).(*ghRepo.GitHubReviewRequestRepository)
}

func TestGitHubReviewRequestRepositoryFindExisting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		expected bool
	}{
		{name: "should find nothing without pull requests", body: `[]`, expected: false},
		{name: "should be blocked by an open pull request", body: `[{"number":1,"state":"open"}]`, expected: true},
		{
			name:     "should be blocked by a merged pull request",
			body:     `[{"number":1,"state":"closed","merged_at":"2024-01-01T00:00:00Z"}]`,
			expected: true,
		},
		{name: "should ignore a pull request closed without merge", body: `[{"number":1,"state":"closed"}]`, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			var query map[string][]string
			server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v3/repos/org/infra/pulls", r.URL.Path)
				query = r.URL.Query()
				_, _ = w.Write([]byte(tt.body))
			})
			publisher := newPublisher(server.URL)

			// when
			exists, err := publisher.FindExisting(context.Background(), target, "update-org/app-1.1.0")

			// then
			require.NoError(t, err)
			assert.Equal(t, tt.expected, exists)
			assert.Equal(t, []string{"all"}, query["state"])
			assert.Equal(t, []string{"org:update-org/app-1.1.0"}, query["head"])
		})
	}

	t.Run("should propagate an API failure", func(t *testing.T) {
		t.Parallel()

		// given
		server := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		publisher := newPublisher(server.URL)

		// when
		_, err := publisher.FindExisting(context.Background(), target, "update-org/app-1.1.0")

		// then
		require.Error(t, err)
	})
}

func TestGitHubReviewRequestRepositoryCreate(t *testing.T) {
	t.Parallel()

	t.Run("should open a pull request from the update branch", func(t *testing.T) {
		t.Parallel()

		// given
		var received map[string]interface{}
		server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			_ = json.NewDecoder(r.Body).Decode(&received)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"number":42,"title":"Update org/app to 1.1.0","html_url":"https://github.com/org/infra/pull/42","state":"open"}`))
		})
		publisher := newPublisher(server.URL)

		// when
		pr, err := publisher.Create(context.Background(), target, entities.PullRequestInput{
			SourceBranch: "refs/heads/update-org/app-1.1.0",
			TargetBranch: "main",
			Title:        "Update org/app to 1.1.0",
			Description:  "body",
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, 42, pr.ID)
		assert.Equal(t, "https://github.com/org/infra/pull/42", pr.URL)
		assert.Equal(t, "update-org/app-1.1.0", received["head"])
		assert.Equal(t, "main", received["base"])
		assert.Equal(t, "body", received["body"])
	})

	t.Run("should fail as a publish error when rejected", func(t *testing.T) {
		t.Parallel()

		// given
		server := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"Validation Failed"}`))
		})
		publisher := newPublisher(server.URL)

		// when
		_, err := publisher.Create(context.Background(), target, entities.PullRequestInput{SourceBranch: "b", TargetBranch: "main"})

		// then
		require.ErrorIs(t, err, entities.ErrPublish)
	})
}

func TestGitHubReviewRequestRepositoryAssignReviewer(t *testing.T) {
	t.Parallel()

	t.Run("should request a review from the reviewer", func(t *testing.T) {
		t.Parallel()

		// given
		var received map[string][]string
		server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v3/repos/org/infra/pulls/42/requested_reviewers", r.URL.Path)
			_ = json.NewDecoder(r.Body).Decode(&received)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"number":42}`))
		})
		publisher := newPublisher(server.URL)

		// when
		err := publisher.AssignReviewer(context.Background(), target, &entities.PullRequest{ID: 42}, "octocat")

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"octocat"}, received["reviewers"])
	})

	t.Run("should fail as a reviewer error when rejected", func(t *testing.T) {
		t.Parallel()

		// given
		server := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"Reviews may only be requested from collaborators."}`))
		})
		publisher := newPublisher(server.URL)

		// when
		err := publisher.AssignReviewer(context.Background(), target, &entities.PullRequest{ID: 42}, "stranger")

		// then
		require.ErrorIs(t, err, entities.ErrReviewerAssign)
	})
}
