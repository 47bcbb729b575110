package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects and aggregates metrics for planning operations.
type Metrics struct {
	mu sync.Mutex

	// Counters
	requestTotal    atomic.Int64
	requestFailed   atomic.Int64
	ordersProcessed atomic.Int64

	// Operation-specific metrics
	operationMetrics map[string]*OperationMetrics

	// Duration histogram data (simplified for internal use)
	durations    []time.Duration
	maxDurations int
}

// OperationMetrics represents metrics for a specific operation.
type OperationMetrics struct {
	executionCount atomic.Int64
	totalDuration  atomic.Int64 // milliseconds
	errorCount     atomic.Int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics(maxDurations int) *Metrics {
	if maxDurations <= 0 {
		maxDurations = 1000
	}
	return &Metrics{
		operationMetrics: make(map[string]*OperationMetrics),
		durations:        make([]time.Duration, 0, maxDurations),
		maxDurations:     maxDurations,
	}
}

// Global metrics instance.
var globalMetrics = NewMetrics(1000)

// GlobalMetrics returns the global metrics instance.
func GlobalMetrics() *Metrics {
	return globalMetrics
}

// RecordRequest records a request.
func (m *Metrics) RecordRequest(operation string) {
	m.requestTotal.Add(1)
	m.getOperationMetrics(operation).executionCount.Add(1)
}

// RecordFailure records a failed request.
func (m *Metrics) RecordFailure(operation string) {
	m.requestFailed.Add(1)
	m.getOperationMetrics(operation).errorCount.Add(1)
}

// RecordDuration records a request duration.
func (m *Metrics) RecordDuration(operation string, duration time.Duration) {
	m.mu.Lock()
	if len(m.durations) >= m.maxDurations {
		m.durations = m.durations[1:]
	}
	m.durations = append(m.durations, duration)
	m.mu.Unlock()

	m.getOperationMetrics(operation).totalDuration.Add(duration.Milliseconds())
}

// RecordOrdersProcessed records how many orders an operation touched.
func (m *Metrics) RecordOrdersProcessed(count int) {
	m.ordersProcessed.Add(int64(count))
}

// GetRequestTotal returns the total number of requests.
func (m *Metrics) GetRequestTotal() int64 {
	return m.requestTotal.Load()
}

// GetRequestFailed returns the total number of failed requests.
func (m *Metrics) GetRequestFailed() int64 {
	return m.requestFailed.Load()
}

// GetOrdersProcessed returns the total number of orders processed.
func (m *Metrics) GetOrdersProcessed() int64 {
	return m.ordersProcessed.Load()
}

// GetOperationMetrics returns metrics for a specific operation.
func (m *Metrics) GetOperationMetrics(operation string) *OperationMetrics {
	return m.getOperationMetrics(operation)
}

func (m *Metrics) getOperationMetrics(operation string) *OperationMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	om, ok := m.operationMetrics[operation]
	if !ok {
		om = &OperationMetrics{}
		m.operationMetrics[operation] = om
	}
	return om
}

// GetAverageDuration returns the average duration in milliseconds for an
// operation.
func (m *Metrics) GetAverageDuration(operation string) int64 {
	om := m.GetOperationMetrics(operation)
	count := om.executionCount.Load()
	if count == 0 {
		return 0
	}
	return om.totalDuration.Load() / count
}

// GetAllOperations returns all operations that have been recorded.
func (m *Metrics) GetAllOperations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	operations := make([]string, 0, len(m.operationMetrics))
	for operation := range m.operationMetrics {
		operations = append(operations, operation)
	}
	return operations
}

// Reset resets all metrics (useful for testing).
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)
	m.ordersProcessed.Store(0)

	m.mu.Lock()
	m.operationMetrics = make(map[string]*OperationMetrics)
	m.durations = make([]time.Duration, 0, m.maxDurations)
	m.mu.Unlock()
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	operationSnapshots := make(map[string]*OperationMetricsSnapshot, len(m.operationMetrics))
	for operation, om := range m.operationMetrics {
		count := om.executionCount.Load()
		var avg int64
		if count > 0 {
			avg = om.totalDuration.Load() / count
		}
		operationSnapshots[operation] = &OperationMetricsSnapshot{
			ExecutionCount:  count,
			TotalDuration:   om.totalDuration.Load(),
			ErrorCount:      om.errorCount.Load(),
			AverageDuration: avg,
		}
	}

	return &MetricsSnapshot{
		RequestTotal:     m.requestTotal.Load(),
		RequestFailed:    m.requestFailed.Load(),
		OrdersProcessed:  m.ordersProcessed.Load(),
		OperationMetrics: operationSnapshots,
		DurationCount:    len(m.durations),
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	RequestTotal     int64
	RequestFailed    int64
	OrdersProcessed  int64
	OperationMetrics map[string]*OperationMetricsSnapshot
	DurationCount    int
}

// OperationMetricsSnapshot represents metrics for a specific operation.
type OperationMetricsSnapshot struct {
	ExecutionCount  int64
	TotalDuration   int64
	ErrorCount      int64
	AverageDuration int64
}

// SuccessRate returns the success rate as a percentage (0-100).
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal) * 100.0
}
