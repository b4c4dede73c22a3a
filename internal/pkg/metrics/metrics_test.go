package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveBatchApply("Bonus", "success", 3)
	m.ObserveBatchApply("Bonus", "failure", 0)
	m.ObservePayrollRun("success", 5)
	m.IncSkippedDeduction()
	m.ObserveAudit("dropped", 2)
	m.ObserveSummary(time.Now(), 4)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.batchApplies.WithLabelValues("Bonus", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.batchApplies.WithLabelValues("Bonus", "failure")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.batchRecords.WithLabelValues("Bonus")))
	assert.Equal(t, float64(5), testutil.ToFloat64(m.cycleSnapshots))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.skippedDeductions))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.auditEntries.WithLabelValues("dropped")))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.summaryEmployees))
}

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncSkippedDeduction()
		m.ObserveBatchApply("Allowance", "success", 1)
		m.ObservePayrollRun("failure", 0)
		m.ObserveAudit("success", 1)
		m.ObserveSummary(time.Now(), 1)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObservePayrollRun("success", 2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "payroll_cycle_snapshots_total 2")
}
