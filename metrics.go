package kafka

import (
	"fmt"
	"strings"

	metrics "github.com/rcrowley/go-metrics"
)

// cleanupRegistry wraps a metrics.Registry so every name it registers can be
// torn down in one call; Producer/Consumer/Client each keep one of these and
// call UnregisterAll from their Close path so repeated NewProducer/NewConsumer
// calls against a shared MetricRegistry don't leak histograms.
type cleanupRegistry struct {
	metrics.Registry
	names []string
}

func newCleanupRegistry(parent metrics.Registry) metrics.Registry {
	if parent == nil {
		parent = metrics.NewRegistry()
	}
	return &cleanupRegistry{Registry: parent}
}

func (r *cleanupRegistry) Register(name string, metric interface{}) error {
	r.names = append(r.names, name)
	return r.Registry.Register(name, metric)
}

func (r *cleanupRegistry) GetOrRegister(name string, metric interface{}) interface{} {
	r.names = append(r.names, name)
	return r.Registry.GetOrRegister(name, metric)
}

func (r *cleanupRegistry) UnregisterAll() {
	for _, name := range r.names {
		r.Registry.Unregister(name)
	}
	r.names = nil
}

func getOrRegisterHistogram(name string, r metrics.Registry) metrics.Histogram {
	return r.GetOrRegister(name, func() metrics.Histogram {
		return metrics.NewHistogram(metrics.NewExpDecaySample(1028, 0.015))
	}).(metrics.Histogram)
}

func getOrRegisterMeter(name string, r metrics.Registry) metrics.Meter {
	return r.GetOrRegister(name, metrics.NewMeter).(metrics.Meter)
}

func getOrRegisterCounter(name string, r metrics.Registry) metrics.Counter {
	return r.GetOrRegister(name, metrics.NewCounter).(metrics.Counter)
}

// getMetricNameForBroker namespaces a metric to a specific broker id, the
// way sarama reports per-connection throughput/error rates, e.g.
// "incoming-byte-rate-for-broker-1001" alongside the aggregate
// "incoming-byte-rate".
func getMetricNameForBroker(name string, b *Broker) string {
	return fmt.Sprintf("%s-for-broker-%d", name, b.ID())
}

// getMetricNameForTopic namespaces a metric to a topic, with '.' and '\'
// substituted since graphite (a common metrics.Registry sink) treats both as
// path separators.
func getMetricNameForTopic(name string, topic string) string {
	return fmt.Sprintf("%s-for-topic-%s", name, strings.ReplaceAll(strings.ReplaceAll(topic, ".", "_"), "\\", "_"))
}
