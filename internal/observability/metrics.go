package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	httpErrorsTotal        *prometheus.CounterVec
	gradeSheetsSavedTotal  *prometheus.CounterVec
	gradeRowsSavedTotal    *prometheus.CounterVec
	attendanceSavedTotal   prometheus.Counter
	reportsExportedTotal   *prometheus.CounterVec
	dashboardCacheLookups  *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siakad_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "siakad_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siakad_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		gradeSheetsSavedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siakad_grade_sheets_saved_total",
			Help: "Grade sheets replaced, by kind.",
		}, []string{"kind"})

		gradeRowsSavedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siakad_grade_rows_saved_total",
			Help: "Grade rows written, by kind and predicate.",
		}, []string{"kind", "predicate"})

		attendanceSavedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "siakad_attendance_sheets_saved_total",
			Help: "Attendance sheets replaced.",
		})

		reportsExportedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siakad_reports_exported_total",
			Help: "Reports exported, by kind and format.",
		}, []string{"kind", "format"})

		dashboardCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siakad_dashboard_cache_lookups_total",
			Help: "Dashboard cache lookups, by result.",
		}, []string{"result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			gradeSheetsSavedTotal,
			gradeRowsSavedTotal,
			attendanceSavedTotal,
			reportsExportedTotal,
			dashboardCacheLookups,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the error response counter.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// GradeSheetsSaved exposes the grade sheet counter.
func GradeSheetsSaved() *prometheus.CounterVec {
	RegisterMetrics()
	return gradeSheetsSavedTotal
}

// GradeRowsSaved exposes the grade row counter.
func GradeRowsSaved() *prometheus.CounterVec {
	RegisterMetrics()
	return gradeRowsSavedTotal
}

// AttendanceSheetsSaved exposes the attendance sheet counter.
func AttendanceSheetsSaved() prometheus.Counter {
	RegisterMetrics()
	return attendanceSavedTotal
}

// ReportsExported exposes the export counter.
func ReportsExported() *prometheus.CounterVec {
	RegisterMetrics()
	return reportsExportedTotal
}

// DashboardCacheLookups exposes the dashboard cache hit/miss counter.
func DashboardCacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardCacheLookups
}
