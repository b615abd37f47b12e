package vscale

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const (
	metricsNamespace = "vscale"
	metricsSubsystem = "api"

	labelMethod = "method"
	labelStatus = "status"
)

var (
	requestsMetric = prometheus.BuildFQName(metricsNamespace, metricsSubsystem, "requests_total")
	durationMetric = prometheus.BuildFQName(metricsNamespace, metricsSubsystem, "request_duration_seconds")
)

// Metrics holds the Prometheus collectors for API traffic.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the API collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "requests_total",
				Help:      "Total number of Vscale API requests",
			},
			[]string{labelMethod, labelStatus},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "request_duration_seconds",
				Help:      "Vscale API request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{labelMethod},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Duration)
	}
	return m
}

func (m *Metrics) observe(method, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, status).Inc()
	m.Duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// MethodSummary is the API traffic of one HTTP method.
type MethodSummary struct {
	Method   string
	Requests int
	Statuses map[string]int
	Mean     time.Duration
}

// Summarize reads the API collectors back from g, one entry per method
// ordered by method name.
func Summarize(g prometheus.Gatherer) ([]MethodSummary, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("vscale: failed to gather metrics: %w", err)
	}

	byMethod := map[string]*MethodSummary{}
	entry := func(method string) *MethodSummary {
		s, ok := byMethod[method]
		if !ok {
			s = &MethodSummary{Method: method, Statuses: map[string]int{}}
			byMethod[method] = s
		}
		return s
	}

	for _, mf := range families {
		switch mf.GetName() {
		case requestsMetric:
			for _, m := range mf.GetMetric() {
				n := int(m.GetCounter().GetValue())
				s := entry(labelValue(m, labelMethod))
				s.Requests += n
				s.Statuses[labelValue(m, labelStatus)] += n
			}
		case durationMetric:
			for _, m := range mf.GetMetric() {
				h := m.GetHistogram()
				if h.GetSampleCount() == 0 {
					continue
				}
				mean := h.GetSampleSum() / float64(h.GetSampleCount())
				entry(labelValue(m, labelMethod)).Mean = time.Duration(mean * float64(time.Second))
			}
		}
	}

	out := make([]MethodSummary, 0, len(byMethod))
	for _, s := range byMethod {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b MethodSummary) int { return strings.Compare(a.Method, b.Method) })
	return out, nil
}

// WriteSummary prints one line per HTTP method with its request count,
// status breakdown and mean latency. Nothing is written when no request
// was made.
func WriteSummary(w io.Writer, g prometheus.Gatherer) error {
	summaries, err := Summarize(g)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		statuses := make([]string, 0, len(s.Statuses))
		for status := range s.Statuses {
			statuses = append(statuses, status)
		}
		slices.Sort(statuses)
		parts := make([]string, len(statuses))
		for i, status := range statuses {
			parts[i] = fmt.Sprintf("%s:%d", status, s.Statuses[status])
		}
		fmt.Fprintf(w, "api %-6s requests=%d statuses=%s mean=%s\n",
			s.Method, s.Requests, strings.Join(parts, ","), s.Mean.Round(time.Millisecond))
	}
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
