package metrics_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/infrastructure/repositories/metrics"
)

func TestPushgatewayMetricsRepositoryRecord(t *testing.T) {
	t.Parallel()

	report := &entities.PassReport{}
	report.Add(entities.ImageOutcome{
		Image:   entities.TrackedImage{Name: "a", State: entities.StateRequestPublished},
		Request: &entities.PullRequest{ID: 1},
	})
	report.Add(entities.ImageOutcome{Image: entities.TrackedImage{Name: "b", State: entities.StateUpToDate}})

	t.Run("should push the pass gauges under the job", func(t *testing.T) {
		t.Parallel()

		// given
		var method, path string
		var body []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method, path = r.Method, r.URL.Path
			body, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()
		repo := metrics.NewPushgatewayMetricsRepository(entities.MetricsSettings{Pushgateway: server.URL, Job: "imagebump"})

		// when
		err := repo.Record(context.Background(), report)

		// then
		require.NoError(t, err)
		assert.Equal(t, http.MethodPut, method)
		assert.Equal(t, "/metrics/job/imagebump", path)
		assert.True(t, bytes.Contains(body, []byte("imagebump_images")))
		assert.True(t, bytes.Contains(body, []byte("imagebump_requests_published")))
	})

	t.Run("should fail when the gateway rejects the push", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()
		repo := metrics.NewPushgatewayMetricsRepository(entities.MetricsSettings{Pushgateway: server.URL, Job: "imagebump"})

		// when
		err := repo.Record(context.Background(), report)

		// then
		require.Error(t, err)
	})
}
