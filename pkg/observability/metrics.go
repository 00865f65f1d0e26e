package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the graph library
type Metrics struct {
	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestErrors   *prometheus.CounterVec

	// Build metrics
	BuildsTotal      *prometheus.CounterVec
	BuildDuration    *prometheus.HistogramVec
	BuildEdgesTotal  prometheus.Counter
	NNDescentIterations prometheus.Histogram
	WorkerFailures   prometheus.Counter

	// Graph metrics
	GraphSize    *prometheus.GaugeVec
	GraphDegree  *prometheus.GaugeVec

	// Search metrics
	SearchLatency        prometheus.Histogram
	SearchSimilarityComputations prometheus.Histogram
	SearchRestarts       prometheus.Histogram
	SearchResultSize     prometheus.Histogram

	// Maintenance metrics
	NodesAdded   prometheus.Counter
	NodesRemoved prometheus.Counter

	// System metrics
	GoroutinesCount prometheus.Gauge
	MemoryUsage     prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kgraph_requests_total",
				Help: "Total number of requests by method and status",
			},
			[]string{"method", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kgraph_request_duration_seconds",
				Help:    "Request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method"},
		),
		RequestErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kgraph_request_errors_total",
				Help: "Total number of request errors by method and error type",
			},
			[]string{"method", "error_type"},
		),

		BuildsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kgraph_builds_total",
				Help: "Total number of graph builds by strategy and status",
			},
			[]string{"strategy", "status"},
		),
		BuildDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kgraph_build_duration_seconds",
				Help:    "Graph build duration in seconds by strategy",
				Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"strategy"},
		),
		BuildEdgesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "kgraph_build_edges_total",
				Help: "Total number of neighbor edges created across all builds",
			},
		),
		NNDescentIterations: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kgraph_nndescent_iterations",
				Help:    "Number of local-join iterations NN-Descent ran before converging",
				Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200},
			},
		),
		WorkerFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "kgraph_worker_failures_total",
				Help: "Total number of recovered worker failures during parallel builds",
			},
		),

		GraphSize: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "kgraph_graph_size",
				Help: "Number of nodes in the graph, by graph name",
			},
			[]string{"graph"},
		),
		GraphDegree: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "kgraph_graph_average_degree",
				Help: "Average neighbor list size, by graph name",
			},
			[]string{"graph"},
		),

		SearchLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kgraph_search_latency_seconds",
				Help:    "Search latency in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		SearchSimilarityComputations: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kgraph_search_similarity_computations",
				Help:    "Similarity function calls performed per search",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
		),
		SearchRestarts: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kgraph_search_restarts",
				Help:    "Random restarts used per GNNS search",
				Buckets: []float64{0, 1, 2, 3, 5, 10},
			},
		),
		SearchResultSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kgraph_search_result_size",
				Help:    "Number of results returned by search",
				Buckets: []float64{1, 5, 10, 20, 50, 100},
			},
		),

		NodesAdded: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "kgraph_nodes_added_total",
				Help: "Total number of nodes added via FastAdd",
			},
		),
		NodesRemoved: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "kgraph_nodes_removed_total",
				Help: "Total number of nodes removed via FastRemove or SlidingWindow eviction",
			},
		),

		GoroutinesCount: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "kgraph_goroutines",
				Help: "Current number of goroutines",
			},
		),
		MemoryUsage: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "kgraph_memory_bytes",
				Help: "Memory usage in bytes",
			},
		),
	}

	return m
}

// RecordRequest records a request with duration and status
func (m *Metrics) RecordRequest(method, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, status).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordError records an error
func (m *Metrics) RecordError(method, errorType string) {
	m.RequestErrors.WithLabelValues(method, errorType).Inc()
}

// RecordBuild records a completed graph build
func (m *Metrics) RecordBuild(strategy, status string, duration time.Duration, edges int) {
	m.BuildsTotal.WithLabelValues(strategy, status).Inc()
	m.BuildDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	m.BuildEdgesTotal.Add(float64(edges))
}

// RecordNNDescentConvergence records how many iterations NN-Descent needed
func (m *Metrics) RecordNNDescentConvergence(iterations int) {
	m.NNDescentIterations.Observe(float64(iterations))
}

// RecordWorkerFailure records a recovered worker panic during a parallel build
func (m *Metrics) RecordWorkerFailure() {
	m.WorkerFailures.Inc()
}

// UpdateGraphSize updates the node-count gauge for a named graph
func (m *Metrics) UpdateGraphSize(graphName string, size int) {
	m.GraphSize.WithLabelValues(graphName).Set(float64(size))
}

// UpdateGraphDegree updates the average-degree gauge for a named graph
func (m *Metrics) UpdateGraphDegree(graphName string, degree float64) {
	m.GraphDegree.WithLabelValues(graphName).Set(degree)
}

// RecordSearch records a completed search: its latency, the number of
// similarity computations it performed, the restarts used, and the
// result count returned.
func (m *Metrics) RecordSearch(duration time.Duration, computations, restarts, resultSize int) {
	m.SearchLatency.Observe(duration.Seconds())
	m.SearchSimilarityComputations.Observe(float64(computations))
	m.SearchRestarts.Observe(float64(restarts))
	m.SearchResultSize.Observe(float64(resultSize))
}

// RecordNodeAdded records a FastAdd
func (m *Metrics) RecordNodeAdded() {
	m.NodesAdded.Inc()
}

// RecordNodeRemoved records a FastRemove or sliding-window eviction
func (m *Metrics) RecordNodeRemoved(count int) {
	m.NodesRemoved.Add(float64(count))
}

// UpdateGoroutineCount updates goroutine count
func (m *Metrics) UpdateGoroutineCount(count int) {
	m.GoroutinesCount.Set(float64(count))
}

// UpdateMemoryUsage updates memory usage
func (m *Metrics) UpdateMemoryUsage(bytes uint64) {
	m.MemoryUsage.Set(float64(bytes))
}
