package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

const (
	metricNamespace = "imagebump"

	imagesMetricName   = "images"
	requestsMetricName = "requests_published"
	failuresMetricName = "failures"
	lastPassMetricName = "last_pass_timestamp_seconds"
	stateLabel         = "state"
)

// PushgatewayMetricsRepository pushes the outcome of a pass to a Prometheus
// Pushgateway. A pass is a short-lived job, so it cannot be scraped.
type PushgatewayMetricsRepository struct {
	url string
	job string
}

var _ repositories.MetricsRepository = (*PushgatewayMetricsRepository)(nil)

func NewPushgatewayMetricsRepository(settings entities.MetricsSettings) *PushgatewayMetricsRepository {
	return &PushgatewayMetricsRepository{url: settings.Pushgateway, job: settings.Job}
}

func (it *PushgatewayMetricsRepository) Record(ctx context.Context, report *entities.PassReport) error {
	images := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Name:      imagesMetricName,
			Help:      "count of tracked images per final state in the last pass",
		},
		[]string{stateLabel},
	)
	requests := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      requestsMetricName,
		Help:      "count of review requests opened in the last pass",
	})
	failures := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      failuresMetricName,
		Help:      "count of images that failed in the last pass",
	})
	lastPass := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      lastPassMetricName,
		Help:      "unix time the last pass finished",
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(images, requests, failures, lastPass)

	for state, count := range report.CountByState() {
		images.WithLabelValues(string(state)).Set(float64(count))
	}
	requests.Set(float64(len(report.Published())))
	failures.Set(float64(report.Failures()))
	lastPass.SetToCurrentTime()

	if err := push.New(it.url, it.job).Gatherer(registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", it.url, err)
	}
	logger.Debugf("[metrics] Pushed pass metrics to %s", it.url)
	return nil
}

// NoopMetricsRepository is used when no Pushgateway is configured.
type NoopMetricsRepository struct{}

var _ repositories.MetricsRepository = NoopMetricsRepository{}

func (NoopMetricsRepository) Record(context.Context, *entities.PassReport) error { return nil }
