//go:build unit

package oracle //nolint:testpackage // tests unexported fields

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	doubles "github.com/rios0rios0/imagebump/test/infrastructure/repositorydoubles"
)

func newTestOracle(inference *doubles.StubInferenceRepository) *LiveVersionOracleRepository {
	return NewLiveVersionOracleRepository(inference, entities.UpstreamSettings{Timeout: 5 * time.Second})
}

func TestLiveVersionOracleRepositoryResolveUpstreamRepository(t *testing.T) {
	t.Parallel()

	t.Run("should normalize the answered repository URL", func(t *testing.T) {
		t.Parallel()

		// given
		inference := &doubles.StubInferenceRepository{Default: " https://github.com/prometheus/prometheus.git/\n"}
		oracle := newTestOracle(inference)

		// when
		upstream, err := oracle.ResolveUpstreamRepository(context.Background(), "prom/prometheus")

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://github.com/prometheus/prometheus", upstream)
		assert.Contains(t, inference.Prompts[0], "prom/prometheus")
	})

	t.Run("should ask only once per image", func(t *testing.T) {
		t.Parallel()

		// given
		inference := &doubles.StubInferenceRepository{Default: "https://github.com/sigp/lighthouse"}
		oracle := newTestOracle(inference)

		// when
		_, _ = oracle.ResolveUpstreamRepository(context.Background(), "sigp/lighthouse")
		_, err := oracle.ResolveUpstreamRepository(context.Background(), "sigp/lighthouse")

		// then
		require.NoError(t, err)
		assert.Len(t, inference.Prompts, 1)
	})

	tests := []struct {
		name   string
		answer string
	}{
		{name: "should fail for an empty answer", answer: "   "},
		{name: "should fail for prose", answer: "The repository is https://github.com/org/app"},
		{name: "should fail for a bare name", answer: "org/app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			oracle := newTestOracle(&doubles.StubInferenceRepository{Default: tt.answer})

			// when
			_, err := oracle.ResolveUpstreamRepository(context.Background(), "org/app")

			// then
			require.ErrorIs(t, err, entities.ErrResolution)
		})
	}

	t.Run("should wrap a collaborator failure as a resolution error", func(t *testing.T) {
		t.Parallel()

		// given
		oracle := newTestOracle(&doubles.StubInferenceRepository{Err: errors.New("timeout")})

		// when
		_, err := oracle.ResolveUpstreamRepository(context.Background(), "org/app")

		// then
		require.ErrorIs(t, err, entities.ErrResolution)
	})
}

func TestLiveVersionOracleRepositoryResolveLatestVersion(t *testing.T) {
	t.Parallel()

	t.Run("should compare the redirect target with the current version", func(t *testing.T) {
		t.Parallel()

		// given
		var requested string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requested = r.URL.Path
			w.Header().Set("Location", "https://github.com/org/app/releases/tag/v1.2.0")
			w.WriteHeader(http.StatusFound)
		}))
		defer server.Close()

		inference := &doubles.StubInferenceRepository{
			Answers: map[string]string{
				"Docker Hub image": server.URL + "/org/app",
				"Which version":    "1.2.0",
			},
		}
		oracle := newTestOracle(inference)

		// when
		latest, err := oracle.ResolveLatestVersion(context.Background(), "org/app", "1.0.0")

		// then
		require.NoError(t, err)
		assert.Equal(t, "1.2.0", latest)
		assert.Equal(t, "/org/app/releases/latest", requested)
		require.Len(t, inference.Prompts, 2)
		assert.Contains(t, inference.Prompts[1], "releases/tag/v1.2.0")
		assert.Contains(t, inference.Prompts[1], "1.0.0")
	})

	t.Run("should return the sentinel verbatim", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Location", "https://github.com/org/app/releases/tag/v2.0.0")
			w.WriteHeader(http.StatusFound)
		}))
		defer server.Close()

		oracle := newTestOracle(&doubles.StubInferenceRepository{
			Answers: map[string]string{"Docker Hub image": server.URL, "Which version": "SAME"},
		})

		// when
		latest, err := oracle.ResolveLatestVersion(context.Background(), "org/app", "2.0.0")

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.SameVersionSentinel, latest)
	})

	t.Run("should fail as unreachable when the endpoint does not redirect", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		inference := &doubles.StubInferenceRepository{Answers: map[string]string{"Docker Hub image": server.URL}}
		oracle := newTestOracle(inference)

		// when
		_, err := oracle.ResolveLatestVersion(context.Background(), "org/app", "1.0.0")

		// then
		require.ErrorIs(t, err, entities.ErrUpstreamUnreachable)
		assert.Len(t, inference.Prompts, 1)
	})

	t.Run("should fail as unreachable without a Location header", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		oracle := newTestOracle(&doubles.StubInferenceRepository{Answers: map[string]string{"Docker Hub image": server.URL}})

		// when
		_, err := oracle.ResolveLatestVersion(context.Background(), "org/app", "1.0.0")

		// then
		require.ErrorIs(t, err, entities.ErrUpstreamUnreachable)
	})

	t.Run("should fail as a resolution error for an empty comparison", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Location", "https://github.com/org/app/releases/tag/v1.1.0")
			w.WriteHeader(http.StatusFound)
		}))
		defer server.Close()

		oracle := newTestOracle(&doubles.StubInferenceRepository{
			Answers: map[string]string{"Docker Hub image": server.URL, "Which version": ""},
		})

		// when
		_, err := oracle.ResolveLatestVersion(context.Background(), "org/app", "1.0.0")

		// then
		require.ErrorIs(t, err, entities.ErrResolution)
	})
}

func TestLiveVersionOracleRepositoryReleaseNotes(t *testing.T) {
	t.Parallel()

	t.Run("should fall back to the tag with the v prefix", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/repos/consensys/teku/releases/tags/v23.4.0" {
				_, _ = w.Write([]byte(`{"tag_name":"v23.4.0","body":"* faster sync"}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		}))
		defer server.Close()

		oracle := newTestOracle(&doubles.StubInferenceRepository{})
		oracle.github.BaseURL, _ = url.Parse(server.URL + "/")

		// when
		notes, err := oracle.ReleaseNotes(context.Background(), "https://github.com/consensys/teku", "23.4.0")

		// then
		require.NoError(t, err)
		assert.Equal(t, "* faster sync", notes)
	})

	t.Run("should return empty notes when no release exists", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		}))
		defer server.Close()

		oracle := newTestOracle(&doubles.StubInferenceRepository{})
		oracle.github.BaseURL, _ = url.Parse(server.URL + "/")

		// when
		notes, err := oracle.ReleaseNotes(context.Background(), "https://github.com/org/app", "1.2.0")

		// then
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("should skip hosts other than GitHub", func(t *testing.T) {
		t.Parallel()

		// given
		oracle := newTestOracle(&doubles.StubInferenceRepository{})

		// when
		notes, err := oracle.ReleaseNotes(context.Background(), "https://gitlab.com/org/app", "1.2.0")

		// then
		require.NoError(t, err)
		assert.Empty(t, notes)
	})
}

func TestIsRedirectClass(t *testing.T) {
	t.Parallel()

	t.Run("should accept 2xx and 3xx and reject the rest", func(t *testing.T) {
		t.Parallel()

		// then
		assert.True(t, isRedirectClass(http.StatusOK))
		assert.True(t, isRedirectClass(http.StatusFound))
		assert.True(t, isRedirectClass(http.StatusMovedPermanently))
		assert.False(t, isRedirectClass(http.StatusNotFound))
		assert.False(t, isRedirectClass(http.StatusInternalServerError))
	})
}
