package services

import (
	"log"
	"math"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/mem"

	"memwatch/internal/models"
)

// maxMonitorReadings bounds the live reading window used for trend and
// leak-probability estimation.
const maxMonitorReadings = 60

// MonitorState is the live monitor's externally visible state: the
// most recent reading plus the derived analysis context.
type MonitorState struct {
	Reading models.MemoryReading   `json:"reading"`
	Context models.AnalysisContext `json:"context"`
}

// LiveMonitor samples memory state at a fixed cadence and maintains a
// rolling analysis context (trend, leak probability, severity). It is
// the production ReadingSource for the snapshot store; the diagnostic
// engine consumes its output verbatim and never recomputes it.
type LiveMonitor struct {
	mu       sync.RWMutex
	readings []models.MemoryReading
	context  models.AnalysisContext
	enabled  bool
	running  bool
	cancel   chan struct{}

	// Optional gauges registered by the embedding application. nil
	// gauges are reported as absent, never zeroed.
	domNodesGauge       func() uint64
	eventListenersGauge func() uint64
}

var liveMonitor = &LiveMonitor{
	readings: []models.MemoryReading{},
	context:  models.AnalysisContext{Trend: models.TrendStable, Severity: models.SeverityNormal},
	enabled:  true,
}

// GetLiveMonitor returns the package-level monitor.
func GetLiveMonitor() *LiveMonitor {
	return liveMonitor
}

// NewLiveMonitor builds a standalone monitor, used by tests.
func NewLiveMonitor() *LiveMonitor {
	return &LiveMonitor{
		readings: []models.MemoryReading{},
		context:  models.AnalysisContext{Trend: models.TrendStable, Severity: models.SeverityNormal},
		enabled:  true,
	}
}

// StartLiveMonitor begins periodic sampling on the package-level
// monitor. Repeated calls are no-ops while running.
func StartLiveMonitor(interval time.Duration) {
	liveMonitor.Start(interval)
}

// StopLiveMonitor halts sampling.
func StopLiveMonitor() {
	liveMonitor.Stop()
}

// Start begins the sampling loop.
func (m *LiveMonitor) Start(interval time.Duration) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	cancel := make(chan struct{})
	m.cancel = cancel
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		m.sample()
		for {
			select {
			case <-cancel:
				return
			case <-ticker.C:
				m.sample()
			}
		}
	}()

	log.Printf("[MONITOR] Live monitor started (interval: %v)", interval)
}

// Stop halts the sampling loop.
func (m *LiveMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	close(m.cancel)
	m.cancel = nil
	log.Printf("[MONITOR] Live monitor stopped")
}

// SetEnabled flips the external "should the monitor run at all" flag
// consulted by the scheduler gate.
func (m *LiveMonitor) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// Enabled reports the monitor gate.
func (m *LiveMonitor) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// RegisterGauges installs the optional host gauges. Either may be nil.
func (m *LiveMonitor) RegisterGauges(domNodes, eventListeners func() uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.domNodesGauge = domNodes
	m.eventListenersGauge = eventListeners
}

// Read returns a fresh measurement. Implements ReadingSource.
func (m *LiveMonitor) Read() (models.MemoryReading, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	reading := models.MemoryReading{
		Timestamp: time.Now(),
		HeapUsed:  ms.HeapAlloc,
		HeapTotal: ms.HeapSys,
		HeapLimit: heapLimit(),
	}

	m.mu.RLock()
	domGauge := m.domNodesGauge
	listenerGauge := m.eventListenersGauge
	m.mu.RUnlock()

	if domGauge != nil {
		v := domGauge()
		reading.DOMNodes = &v
	}
	if listenerGauge != nil {
		v := listenerGauge()
		reading.EventListeners = &v
	}

	return reading, nil
}

// Context returns a copy of the current analysis context. Implements
// ReadingSource.
func (m *LiveMonitor) Context() *models.AnalysisContext {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ctx := m.context
	return &ctx
}

// State returns the latest reading together with the analysis context.
func (m *LiveMonitor) State() MonitorState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state := MonitorState{Context: m.context}
	if len(m.readings) > 0 {
		state.Reading = m.readings[len(m.readings)-1]
	}
	return state
}

// History returns a copy of the rolling reading window.
func (m *LiveMonitor) History() []models.MemoryReading {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.MemoryReading, len(m.readings))
	copy(out, m.readings)
	return out
}

// sample measures outside the lock, then appends and refreshes the
// derived context under it.
func (m *LiveMonitor) sample() {
	reading, err := m.Read()
	if err != nil {
		log.Printf("[MONITOR] Sample failed: %v", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.readings = append(m.readings, reading)
	if len(m.readings) > maxMonitorReadings {
		m.readings = m.readings[1:]
	}
	m.context = deriveContext(m.readings)
}

// Observe feeds an externally supplied reading into the window. Used
// by hosts that bring their own instrumentation instead of the sampler.
func (m *LiveMonitor) Observe(reading models.MemoryReading) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.readings = append(m.readings, reading)
	if len(m.readings) > maxMonitorReadings {
		m.readings = m.readings[1:]
	}
	m.context = deriveContext(m.readings)
}

// deriveContext computes trend, leak probability and severity over the
// reading window. Probability is a coarse heuristic: snapshots record
// it verbatim and the classifier averages it for its confidence.
func deriveContext(readings []models.MemoryReading) models.AnalysisContext {
	ctx := models.AnalysisContext{
		Trend:    models.TrendStable,
		Severity: models.SeverityNormal,
	}
	if len(readings) == 0 {
		return ctx
	}

	last := readings[len(readings)-1]
	if last.HeapLimit > 0 {
		ctx.UsagePercentage = float64(last.HeapUsed) / float64(last.HeapLimit) * 100
	}

	switch {
	case ctx.UsagePercentage > 90:
		ctx.Severity = models.SeverityCritical
	case ctx.UsagePercentage > 70:
		ctx.Severity = models.SeverityWarning
	}

	if len(readings) < 2 {
		return ctx
	}

	first := readings[0]
	if first.HeapUsed > 0 {
		growthPct := (float64(last.HeapUsed) - float64(first.HeapUsed)) / float64(first.HeapUsed) * 100
		switch {
		case growthPct > 2:
			ctx.Trend = models.TrendIncreasing
		case growthPct < -2:
			ctx.Trend = models.TrendDecreasing
		}
		if growthPct > 0 {
			ctx.LeakProbability = math.Min(100, growthPct*5)
		}
	}

	return ctx
}

// heapLimit resolves the effective heap ceiling: GOMEMLIMIT when set,
// otherwise total system memory.
func heapLimit() uint64 {
	limit := debug.SetMemoryLimit(-1)
	if limit > 0 && limit < math.MaxInt64 {
		return uint64(limit)
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Printf("[MONITOR] Could not read system memory: %v", err)
		return 0
	}
	return vm.Total
}
