package models

import "fmt"

// Metric identifies one of the health measurements a subject submits.
type Metric int

// Metrics in submission order. The order is part of the ledger format: the
// i-th handle of a HealthRecord always belongs to Metric(i).
const (
	MetricHeight Metric = iota
	MetricWeight
	MetricSystolic
	MetricDiastolic
	MetricHDL
	MetricLDL
	MetricTriglycerides
	MetricTotalCholesterol
	MetricBloodSugar
	MetricPulse
	MetricAge
	MetricGender

	MetricCount = 12
)

var metricNames = [MetricCount]string{
	"height",
	"weight",
	"systolic",
	"diastolic",
	"hdl",
	"ldl",
	"triglycerides",
	"totalCholesterol",
	"bloodSugar",
	"pulse",
	"age",
	"gender",
}

// AllMetrics returns every metric in submission order.
func AllMetrics() []Metric {
	metrics := make([]Metric, MetricCount)
	for i := range metrics {
		metrics[i] = Metric(i)
	}
	return metrics
}

func (m Metric) String() string {
	if m < 0 || int(m) >= MetricCount {
		return fmt.Sprintf("metric(%d)", int(m))
	}
	return metricNames[m]
}

// ParseMetric maps a metric name to its Metric.
func ParseMetric(name string) (Metric, error) {
	for i, n := range metricNames {
		if n == name {
			return Metric(i), nil
		}
	}
	return 0, fmt.Errorf("unknown metric: %s", name)
}

// MetricHandles holds one handle per metric, indexed by Metric.
type MetricHandles [MetricCount]Handle

// Get returns the handle stored for m.
func (mh MetricHandles) Get(m Metric) Handle {
	return mh[m]
}

// Complete reports whether every metric has a handle.
func (mh MetricHandles) Complete() bool {
	for _, h := range mh {
		if h.IsZero() {
			return false
		}
	}
	return true
}
