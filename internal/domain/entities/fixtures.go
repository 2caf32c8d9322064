package entities

// Fixtures replaces every collaborator answer with a fixed table so that a
// pass is repeatable without network access.
type Fixtures struct {
	Images       map[string]string   `yaml:"images"`        // image -> pinned version
	Upstreams    map[string]string   `yaml:"upstreams"`     // image -> upstream repository URL
	Latest       map[string]string   `yaml:"latest"`        // image -> latest version or SAME
	Lines        map[string]LineEdit `yaml:"lines"`         // image -> replacement line
	ReleaseNotes map[string]string   `yaml:"release_notes"` // image -> release notes text
}

// DefaultFixtures describes the charon distributed validator cluster, the
// manifest imagebump was first written for.
func DefaultFixtures() *Fixtures {
	return &Fixtures{
		Images: map[string]string{
			"obolnetwork/charon":       "v0.15.0",
			"sigp/lighthouse":          "v4.0.2-rc.0",
			"consensys/teku":           "23.3.1",
			"prom/prometheus":          "v2.41.0",
			"grafana/grafana":          "9.3.2",
			"prom/node-exporter":       "v1.5.0",
			"jaegertracing/all-in-one": "1.41.0",
		},
		Upstreams: map[string]string{
			"obolnetwork/charon":       "https://github.com/obolnetwork/charon",
			"sigp/lighthouse":          "https://github.com/sigp/lighthouse",
			"consensys/teku":           "https://github.com/consensys/teku",
			"prom/prometheus":          "https://github.com/prometheus/prometheus",
			"grafana/grafana":          "https://github.com/grafana/grafana",
			"prom/node-exporter":       "https://github.com/prometheus/node_exporter",
			"jaegertracing/all-in-one": "https://github.com/jaegertracing/jaeger",
		},
		Latest: map[string]string{
			"obolnetwork/charon":       SameVersionSentinel,
			"sigp/lighthouse":          "v4.1.0",
			"consensys/teku":           "23.4.0",
			"prom/prometheus":          "v2.43.0",
			"grafana/grafana":          "9.5.1",
			"prom/node-exporter":       SameVersionSentinel,
			"jaegertracing/all-in-one": "1.44.0",
		},
		Lines: map[string]LineEdit{
			"obolnetwork/charon": {
				Indentation: "2", UpdatedLine: "image: obolnetwork/charon:${CHARON_VERSION:-v0.15.0}",
			},
			"sigp/lighthouse": {
				Indentation: "4", UpdatedLine: "image: sigp/lighthouse:${LIGHTHOUSE_VERSION:-v4.1.0}",
			},
			"consensys/teku": {
				Indentation: "4", UpdatedLine: "image: consensys/teku:${TEKU_VERSION:-23.4.0}",
			},
			"prom/prometheus": {
				Indentation: "4", UpdatedLine: "image: prom/prometheus:${PROMETHEUS_VERSION:-v2.43.0}",
			},
			"grafana/grafana": {
				Indentation: "4", UpdatedLine: "image: grafana/grafana:${GRAFANA_VERSION:-9.5.1}",
			},
			"prom/node-exporter": {
				Indentation: "4", UpdatedLine: "image: prom/node-exporter:${NODE_EXPORTER_VERSION:-v1.5.0}",
			},
			"jaegertracing/all-in-one": {
				Indentation: "4", UpdatedLine: "image: jaegertracing/all-in-one:${JAEGAR_VERSION:-1.44.0}",
			},
		},
		ReleaseNotes: map[string]string{},
	}
}
