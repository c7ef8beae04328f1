package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus observability primitives for the pricing service.
type Metrics struct {
	apiRequests        *prometheus.CounterVec
	apiDuration        *prometheus.HistogramVec
	shippingEstimates  *prometheus.CounterVec
	invoiceTotals      prometheus.Counter
	pdfRenders         *prometheus.CounterVec
	importBatches      *prometheus.CounterVec
	importRows         prometheus.Counter
	retrainJobs        *prometheus.CounterVec
	competitorLookups  *prometheus.CounterVec
	competitorDuration *prometheus.HistogramVec
}

// NewMetrics registers and returns Prometheus metrics for telemetry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry registers the metrics on a caller-supplied
// registerer. Tests pass a fresh registry to avoid collisions.
func NewMetricsWithRegistry(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	apiRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartpricing_api_requests_total",
		Help: "Counts API requests by method, route, and status.",
	}, []string{"method", "route", "status"})

	apiDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "smartpricing_api_duration_seconds",
		Help:    "API request latency per method/route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	shippingEstimates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartpricing_shipping_estimates_total",
		Help: "Shipping estimates computed, by service level.",
	}, []string{"service_level"})

	invoiceTotals := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "smartpricing_invoice_totals_total",
		Help: "Invoice totals computations.",
	})

	pdfRenders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartpricing_invoice_pdf_renders_total",
		Help: "Invoice PDF render outcomes.",
	}, []string{"status"})

	importBatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartpricing_import_batches_total",
		Help: "CSV import batch outcomes.",
	}, []string{"status"})

	importRows := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "smartpricing_import_rows_total",
		Help: "Rows accepted across import batches.",
	})

	retrainJobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartpricing_retrain_jobs_total",
		Help: "Retrain job transitions by status.",
	}, []string{"status"})

	competitorLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartpricing_competitor_lookups_total",
		Help: "Competitor offer lookups by source and outcome.",
	}, []string{"source", "status"})

	competitorDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "smartpricing_competitor_lookup_duration_seconds",
		Help:    "Competitor provider roundtrip latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	registerer.MustRegister(
		apiRequests,
		apiDuration,
		shippingEstimates,
		invoiceTotals,
		pdfRenders,
		importBatches,
		importRows,
		retrainJobs,
		competitorLookups,
		competitorDuration,
	)

	return &Metrics{
		apiRequests:        apiRequests,
		apiDuration:        apiDuration,
		shippingEstimates:  shippingEstimates,
		invoiceTotals:      invoiceTotals,
		pdfRenders:         pdfRenders,
		importBatches:      importBatches,
		importRows:         importRows,
		retrainJobs:        retrainJobs,
		competitorLookups:  competitorLookups,
		competitorDuration: competitorDuration,
	}
}

// ObserveAPIRequest records one request and its latency.
func (m *Metrics) ObserveAPIRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.apiDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordShippingEstimate counts a computed estimate.
func (m *Metrics) RecordShippingEstimate(serviceLevel string) {
	if m == nil {
		return
	}
	m.shippingEstimates.WithLabelValues(serviceLevel).Inc()
}

// RecordInvoiceTotals counts a totals computation.
func (m *Metrics) RecordInvoiceTotals() {
	if m == nil {
		return
	}
	m.invoiceTotals.Inc()
}

// RecordPDFRender counts a PDF render outcome.
func (m *Metrics) RecordPDFRender(status string) {
	if m == nil {
		return
	}
	m.pdfRenders.WithLabelValues(status).Inc()
}

// RecordImportBatch counts an import batch and its accepted rows.
func (m *Metrics) RecordImportBatch(status string, rows int) {
	if m == nil {
		return
	}
	m.importBatches.WithLabelValues(status).Inc()
	if rows > 0 {
		m.importRows.Add(float64(rows))
	}
}

// RecordRetrainJob counts a retrain job transition.
func (m *Metrics) RecordRetrainJob(status string) {
	if m == nil {
		return
	}
	m.retrainJobs.WithLabelValues(status).Inc()
}

// ObserveCompetitorLookup records a provider roundtrip.
func (m *Metrics) ObserveCompetitorLookup(source, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.competitorLookups.WithLabelValues(source, status).Inc()
	m.competitorDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}
