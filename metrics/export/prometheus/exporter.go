package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	goThrottle "github.com/KarimL92/goThrottle"
)

type metricsSource interface {
	MetricsSnapshot() goThrottle.MetricsSnapshot
}

// PrometheusExporter renders goThrottle metrics in Prometheus text exposition format.
//
//	Docs: docs/metrics.md
type PrometheusExporter struct {
	source metricsSource
}

// NewPrometheusExporter creates a Prometheus exporter that reads from the given [goThrottle.Engine].
//
//	Docs: docs/metrics.md
func NewPrometheusExporter(engine *goThrottle.Engine) *PrometheusExporter {
	return &PrometheusExporter{source: engine}
}

// NewPrometheusExporterFromSource creates a Prometheus exporter from a custom
// metrics source.
//
//	Docs: docs/metrics.md
func NewPrometheusExporterFromSource(source metricsSource) *PrometheusExporter {
	return &PrometheusExporter{source: source}
}

// Handler returns an http.Handler that serves Prometheus metrics.
//
//	Docs: docs/metrics.md
func (p *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render writes the current metrics in Prometheus text exposition format.
// Counters that never fired are omitted; an idle engine renders empty output.
func (p *PrometheusExporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	snapshot := p.source.MetricsSnapshot()
	if len(snapshot.Counters) == 0 {
		return ""
	}

	var b strings.Builder
	for id := goThrottle.MetricID(0); id < goThrottle.MetricCount; id++ {
		value, ok := snapshot.Counters[id]
		if !ok {
			continue
		}

		name := id.Name()
		b.WriteString("# HELP " + name + " " + id.Help() + "\n")
		b.WriteString("# TYPE " + name + " counter\n")
		b.WriteString(name + " " + strconv.FormatUint(value, 10) + "\n")
	}
	return b.String()
}
