package bench

import (
	"math"
	"sort"
	"sync"
	"time"
)

// LatencyMetrics holds detailed latency statistics
type LatencyMetrics struct {
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
	Mean  time.Duration `json:"mean"`
	P50   time.Duration `json:"p50"`
	P90   time.Duration `json:"p90"`
	P95   time.Duration `json:"p95"`
	P99   time.Duration `json:"p99"`
	Count int           `json:"count"`
}

// Report holds the results of one scenario against one backend
type Report struct {
	Scenario          string         `json:"scenario"`
	Backend           string         `json:"backend"`
	Endpoint          string         `json:"endpoint"`
	Latency           LatencyMetrics `json:"latency"`
	ServerTimeMean    time.Duration  `json:"server_time_mean"` // mean of the reported executionTime
	RequestsPerSecond float64        `json:"requests_per_second"`
	TotalRequests     int            `json:"total_requests"`
	ErrorCount        int            `json:"error_count"`
	SuccessRate       float64        `json:"success_rate"`
	LastTotal         int64          `json:"last_total"`
	Duration          time.Duration  `json:"duration"`
}

// Collector gathers timing data from concurrent workers.
type Collector struct {
	mu          sync.Mutex
	latencies   []time.Duration
	serverTimes []time.Duration
	errors      int
	total       int
	lastTotal   int64
	startTime   time.Time
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// RecordSuccess records a completed request with its client-side latency,
// the server-reported execution time and the reported result total.
func (c *Collector) RecordSuccess(latency, serverTime time.Duration, total int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latencies = append(c.latencies, latency)
	c.serverTimes = append(c.serverTimes, serverTime)
	c.lastTotal = total
	c.total++
}

// RecordError records a failed request
func (c *Collector) RecordError() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errors++
	c.total++
}

// Report calculates all metrics from the collected data
func (c *Collector) Report(scenario, backend, endpoint string) *Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := time.Since(c.startTime)
	r := &Report{
		Scenario:      scenario,
		Backend:       backend,
		Endpoint:      endpoint,
		Latency:       calculateLatency(c.latencies),
		TotalRequests: c.total,
		ErrorCount:    c.errors,
		LastTotal:     c.lastTotal,
		Duration:      elapsed,
	}

	if len(c.serverTimes) > 0 {
		var sum time.Duration
		for _, d := range c.serverTimes {
			sum += d
		}
		r.ServerTimeMean = sum / time.Duration(len(c.serverTimes))
	}
	if elapsed > 0 {
		r.RequestsPerSecond = float64(len(c.latencies)) / elapsed.Seconds()
	}
	if c.total > 0 {
		r.SuccessRate = float64(c.total-c.errors) / float64(c.total) * 100
	}

	return r
}

func calculateLatency(latencies []time.Duration) LatencyMetrics {
	if len(latencies) == 0 {
		return LatencyMetrics{}
	}

	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, l := range sorted {
		total += l
	}

	return LatencyMetrics{
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Mean:  total / time.Duration(len(sorted)),
		P50:   percentile(sorted, 0.50),
		P90:   percentile(sorted, 0.90),
		P95:   percentile(sorted, 0.95),
		P99:   percentile(sorted, 0.99),
		Count: len(sorted),
	}
}

// percentile calculates the percentile value from a sorted slice
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}

	index := p * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	// Linear interpolation
	weight := index - float64(lower)
	return sorted[lower] + time.Duration(weight*float64(sorted[upper]-sorted[lower]))
}
