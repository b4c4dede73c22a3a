package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes Prometheus instruments for the payroll engine.
type Metrics struct {
	registry          *prometheus.Registry
	summaryDuration   prometheus.Histogram
	summaryEmployees  prometheus.Counter
	skippedDeductions prometheus.Counter
	batchApplies      *prometheus.CounterVec
	batchRecords      *prometheus.CounterVec
	payrollRuns       *prometheus.CounterVec
	cycleSnapshots    prometheus.Counter
	auditEntries      *prometheus.CounterVec
}

// New registers the payroll collectors on a dedicated registry together with
// the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		summaryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "payroll_summary_duration_seconds",
			Help:    "Time spent aggregating a period summary.",
			Buckets: prometheus.DefBuckets,
		}),
		summaryEmployees: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "payroll_summary_employees_total",
			Help: "Employee rows produced by period summaries.",
		}),
		skippedDeductions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "payroll_deductions_skipped_total",
			Help: "Malformed deductions that contributed zero to a summary.",
		}),
		batchApplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payroll_batch_apply_total",
			Help: "Compensation batch applies by type and outcome.",
		}, []string{"type", "status"}),
		batchRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payroll_batch_records_total",
			Help: "Records inserted by compensation batch applies.",
		}, []string{"type"}),
		payrollRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payroll_runs_total",
			Help: "Payroll period runs by outcome.",
		}, []string{"status"}),
		cycleSnapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "payroll_cycle_snapshots_total",
			Help: "Payroll cycle snapshots written.",
		}),
		auditEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payroll_audit_entries_total",
			Help: "Audit entries dispatched by outcome.",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		m.summaryDuration,
		m.summaryEmployees,
		m.skippedDeductions,
		m.batchApplies,
		m.batchRecords,
		m.payrollRuns,
		m.cycleSnapshots,
		m.auditEntries,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveSummary(started time.Time, employees int) {
	if m == nil {
		return
	}
	m.summaryDuration.Observe(time.Since(started).Seconds())
	m.summaryEmployees.Add(float64(employees))
}

func (m *Metrics) IncSkippedDeduction() {
	if m == nil {
		return
	}
	m.skippedDeductions.Inc()
}

func (m *Metrics) ObserveBatchApply(compType, status string, records int) {
	if m == nil {
		return
	}
	m.batchApplies.WithLabelValues(compType, status).Inc()
	if records > 0 {
		m.batchRecords.WithLabelValues(compType).Add(float64(records))
	}
}

func (m *Metrics) ObservePayrollRun(status string, snapshots int) {
	if m == nil {
		return
	}
	m.payrollRuns.WithLabelValues(status).Inc()
	if snapshots > 0 {
		m.cycleSnapshots.Add(float64(snapshots))
	}
}

func (m *Metrics) ObserveAudit(status string, entries int) {
	if m == nil {
		return
	}
	m.auditEntries.WithLabelValues(status).Add(float64(entries))
}
