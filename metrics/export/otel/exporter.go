package otel

import (
	"context"
	"errors"
	"fmt"

	goThrottle "github.com/KarimL92/goThrottle"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() goThrottle.MetricsSnapshot
}

// OTelExporter registers one observable counter per engine metric and reports
// snapshot values on every collection cycle.
type OTelExporter struct {
	source       metricsSource
	registration metric.Registration
	counters     [goThrottle.MetricCount]metric.Int64ObservableCounter
}

// NewOTelExporter creates an exporter that reads from the given [goThrottle.Engine].
func NewOTelExporter(meter metric.Meter, engine *goThrottle.Engine) (*OTelExporter, error) {
	return NewOTelExporterFromSource(meter, engine)
}

// NewOTelExporterFromSource creates an exporter from a custom metrics source.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &OTelExporter{source: source}

	observables := make([]metric.Observable, 0, goThrottle.MetricCount)
	for id := goThrottle.MetricID(0); id < goThrottle.MetricCount; id++ {
		ins, err := meter.Int64ObservableCounter(id.Name(), metric.WithDescription(id.Help()))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", id.Name(), err)
		}
		exporter.counters[id] = ins
		observables = append(observables, ins)
	}

	registration, err := meter.RegisterCallback(exporter.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	exporter.registration = registration

	return exporter, nil
}

func (e *OTelExporter) observe(_ context.Context, observer metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()
	for id := goThrottle.MetricID(0); id < goThrottle.MetricCount; id++ {
		observer.ObserveInt64(e.counters[id], int64(snapshot.Counters[id]))
	}
	return nil
}

// Close unregisters the collection callback.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
