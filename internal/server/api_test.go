package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	importerdomain "github.com/labsupply/smartpricing/internal/importer/domain"
	invoicedomain "github.com/labsupply/smartpricing/internal/invoice/domain"
	recdomain "github.com/labsupply/smartpricing/internal/recommendation/domain"
	shippingdomain "github.com/labsupply/smartpricing/internal/shipping/domain"
	"github.com/labsupply/smartpricing/pkg/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

type fakeInvoiceService struct {
	totals    *invoicedomain.Totals
	totalsErr error
	pdf       []byte
	pdfName   string
	pdfErr    error
}

func (f *fakeInvoiceService) ComputeTotals(ctx context.Context, inv invoicedomain.Invoice) (*invoicedomain.Totals, error) {
	_ = ctx
	_ = inv
	if f.totalsErr != nil {
		return nil, f.totalsErr
	}
	return f.totals, nil
}

func (f *fakeInvoiceService) GeneratePDF(ctx context.Context, inv invoicedomain.Invoice) ([]byte, string, error) {
	_ = ctx
	_ = inv
	if f.pdfErr != nil {
		return nil, "", f.pdfErr
	}
	return f.pdf, f.pdfName, nil
}

type fakeShippingService struct {
	estimate *shippingdomain.Estimate
	err      error
	lastReq  shippingdomain.EstimateRequest
}

func (f *fakeShippingService) Estimate(ctx context.Context, req shippingdomain.EstimateRequest) (*shippingdomain.Estimate, error) {
	_ = ctx
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.estimate, nil
}

type fakeImporterService struct {
	upload    *importerdomain.UploadResult
	uploadErr error
	retrain   *importerdomain.RetrainResult
}

func (f *fakeImporterService) CheckHeaders(headers []string) importerdomain.HeaderCheck {
	_ = headers
	return importerdomain.HeaderCheck{}
}

func (f *fakeImporterService) Upload(ctx context.Context, req importerdomain.UploadRequest) (*importerdomain.UploadResult, error) {
	_ = ctx
	_ = req
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.upload, nil
}

func (f *fakeImporterService) Retrain(ctx context.Context, req importerdomain.RetrainRequest) (*importerdomain.RetrainResult, error) {
	_ = ctx
	_ = req
	return f.retrain, nil
}

func (f *fakeImporterService) Template() string {
	return strings.Join(importerdomain.RequiredHeaders, ",")
}

type fakeRecommendationService struct {
	recs        []recdomain.Recommendation
	trackResult *recdomain.Recommendation
	trackErr    error
	pricing     *recdomain.InvoicePricing
	offers      *recdomain.CompetitorOffers
	lastQuery   string
	lastMax     int
}

func (f *fakeRecommendationService) List(ctx context.Context) ([]recdomain.Recommendation, error) {
	_ = ctx
	return f.recs, nil
}

func (f *fakeRecommendationService) Track(ctx context.Context, req recdomain.TrackRequest) (*recdomain.Recommendation, error) {
	_ = ctx
	_ = req
	if f.trackErr != nil {
		return nil, f.trackErr
	}
	return f.trackResult, nil
}

func (f *fakeRecommendationService) PriceInvoice(ctx context.Context, inv invoicedomain.Invoice) (*recdomain.InvoicePricing, error) {
	_ = ctx
	_ = inv
	return f.pricing, nil
}

func (f *fakeRecommendationService) Competitors(ctx context.Context, query string, maxResults int) (*recdomain.CompetitorOffers, error) {
	_ = ctx
	f.lastQuery = query
	f.lastMax = maxResults
	return f.offers, nil
}

func newTestServer(srv *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	srv.engine = router
	srv.registerAPIRoutes()
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestEstimateShippingHandler(t *testing.T) {
	shippingSvc := &fakeShippingService{
		estimate: &shippingdomain.Estimate{
			EstimatedCost: decimal.RequireFromString("12.88"),
			Breakdown: shippingdomain.Breakdown{
				BaseShipping:  decimal.RequireFromString("11.5"),
				FuelSurcharge: decimal.RequireFromString("1.38"),
				HandlingFee:   decimal.Zero,
			},
			Provider: "internal-rate-table",
		},
	}
	router := newTestServer(&Server{shippingSvc: shippingSvc})

	resp := doJSON(router, http.MethodPost, "/api/shipping/estimate",
		`{"origin_country":"US","destination_country":"US","weight_kg":2,"num_boxes":1,"service_level":"ground"}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body estimateResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.EstimatedCost != 12.88 {
		t.Fatalf("expected estimated_cost 12.88, got %v", body.EstimatedCost)
	}
	if body.Breakdown.BaseShipping != 11.5 || body.Breakdown.FuelSurcharge != 1.38 {
		t.Fatalf("unexpected breakdown: %+v", body.Breakdown)
	}
	if shippingSvc.lastReq.WeightKG != 2 {
		t.Fatalf("expected weight 2, got %v", shippingSvc.lastReq.WeightKG)
	}
}

func TestEstimateShippingHandlerNormalizesMetricLabel(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := telemetry.NewMetricsWithRegistry(registry)

	shippingSvc := &fakeShippingService{
		estimate: &shippingdomain.Estimate{Provider: "internal-rate-table"},
	}
	router := newTestServer(&Server{shippingSvc: shippingSvc, metrics: metrics})

	resp := doJSON(router, http.MethodPost, "/api/shipping/estimate",
		`{"origin_country":"US","destination_country":"US","weight_kg":2,"num_boxes":1,"service_level":"  Ground  "}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "smartpricing_shipping_estimates_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() != "service_level" {
					continue
				}
				if label.GetValue() != "ground" {
					t.Fatalf("expected canonical label ground, got %q", label.GetValue())
				}
				return
			}
		}
	}
	t.Fatal("shipping estimate counter was not recorded")
}

func TestEstimateShippingHandlerValidationError(t *testing.T) {
	shippingSvc := &fakeShippingService{err: shippingdomain.ErrInvalidServiceLevel}
	router := newTestServer(&Server{shippingSvc: shippingSvc})

	resp := doJSON(router, http.MethodPost, "/api/shipping/estimate",
		`{"origin_country":"US","destination_country":"US","service_level":"overnight"}`)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Type != "validation_error" {
		t.Fatalf("expected validation_error, got %q", body.Error.Type)
	}
	if len(body.Error.Errors) != 1 || body.Error.Errors[0].Code != "invalid_service_level" {
		t.Fatalf("unexpected error details: %+v", body.Error.Errors)
	}
	if body.Error.Errors[0].Field != "service_level" {
		t.Fatalf("expected field service_level, got %q", body.Error.Errors[0].Field)
	}
}

func TestComputeInvoiceTotalsHandler(t *testing.T) {
	invoiceSvc := &fakeInvoiceService{
		totals: &invoicedomain.Totals{
			ItemsSubtotal: decimal.RequireFromString("370.00"),
			FeesTotal:     decimal.RequireFromString("40.00"),
			GrandTotal:    decimal.RequireFromString("410.00"),
		},
	}
	router := newTestServer(&Server{invoiceSvc: invoiceSvc})

	resp := doJSON(router, http.MethodPost, "/api/invoices/totals",
		`{"number":"INV-1001","items":[{"sku":"PCR-100","quantity":2,"unit_price":"185.00"}]}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body totalsResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.ItemsSubtotal != 370 || body.FeesTotal != 40 || body.GrandTotal != 410 {
		t.Fatalf("unexpected totals: %+v", body)
	}
}

func TestComputeInvoiceTotalsHandlerNoItems(t *testing.T) {
	invoiceSvc := &fakeInvoiceService{totalsErr: invoicedomain.ErrNoLineItems}
	router := newTestServer(&Server{invoiceSvc: invoiceSvc})

	resp := doJSON(router, http.MethodPost, "/api/invoices/totals", `{"number":"INV-1001","items":[]}`)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Error.Errors) != 1 || body.Error.Errors[0].Code != "no_line_items" {
		t.Fatalf("unexpected error details: %+v", body.Error.Errors)
	}
	if body.Error.Errors[0].Field != "items" {
		t.Fatalf("expected field items, got %q", body.Error.Errors[0].Field)
	}
}

func TestComputeInvoiceTotalsHandlerMalformedJSON(t *testing.T) {
	router := newTestServer(&Server{invoiceSvc: &fakeInvoiceService{}})

	resp := doJSON(router, http.MethodPost, "/api/invoices/totals", `{`)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestRenderInvoicePDFHandler(t *testing.T) {
	invoiceSvc := &fakeInvoiceService{
		pdf:     []byte("%PDF-1.7"),
		pdfName: "INV-1001.pdf",
	}
	router := newTestServer(&Server{invoiceSvc: invoiceSvc})

	resp := doJSON(router, http.MethodPost, "/api/invoices/pdf",
		`{"number":"INV-1001","items":[{"sku":"PCR-100","quantity":2,"unit_price":"185.00"}]}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", ct)
	}
	if cd := resp.Header().Get("Content-Disposition"); !strings.Contains(cd, "INV-1001.pdf") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	if !bytes.Equal(resp.Body.Bytes(), []byte("%PDF-1.7")) {
		t.Fatal("unexpected pdf body")
	}
}

func TestUploadTrainingDataHandler(t *testing.T) {
	importerSvc := &fakeImporterService{
		upload: &importerdomain.UploadResult{
			BatchID: "42",
			Message: "Data received",
			NumRows: 2,
			Preview: []importerdomain.Record{},
		},
	}
	router := newTestServer(&Server{importerSvc: importerSvc})

	resp := doJSON(router, http.MethodPost, "/api/pricing/upload",
		`{"fileName":"orders.csv","rows":[{"order_id":"1"},{"order_id":"2"}]}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "Data received") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestUploadTrainingDataHandlerMissingHeaders(t *testing.T) {
	importerSvc := &fakeImporterService{
		uploadErr: &importerdomain.MissingHeadersError{
			MissingHeaders: []string{"quantity", "price"},
		},
	}
	router := newTestServer(&Server{importerSvc: importerSvc})

	resp := doJSON(router, http.MethodPost, "/api/pricing/upload",
		`{"fileName":"orders.csv","rows":[{"order_id":"1"}]}`)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Type != "validation_error" {
		t.Fatalf("expected validation_error, got %q", body.Error.Type)
	}
	if len(body.Error.Errors) != 2 {
		t.Fatalf("expected one entry per missing header, got %+v", body.Error.Errors)
	}
	if body.Error.Errors[0].Field != "quantity" || body.Error.Errors[0].Code != "missing_header" {
		t.Fatalf("unexpected first entry: %+v", body.Error.Errors[0])
	}
}

func TestStartRetrainHandler(t *testing.T) {
	importerSvc := &fakeImporterService{
		retrain: &importerdomain.RetrainResult{
			JobID:   "abc123def456",
			Message: "Retraining started. This may take several minutes.",
		},
	}
	router := newTestServer(&Server{importerSvc: importerSvc})

	resp := doJSON(router, http.MethodPost, "/api/pricing/retrain", `{"fileName":"orders.csv","numRows":120}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var body importerdomain.RetrainResult
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.JobID != "abc123def456" {
		t.Fatalf("unexpected job id %q", body.JobID)
	}
}

func TestDownloadTemplateHandler(t *testing.T) {
	router := newTestServer(&Server{importerSvc: &fakeImporterService{}})

	req := httptest.NewRequest(http.MethodGet, "/api/pricing/template", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("expected text/csv, got %q", ct)
	}
	if cd := resp.Header().Get("Content-Disposition"); !strings.Contains(cd, "pricing_template.csv") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	want := strings.Join(importerdomain.RequiredHeaders, ",") + "\n"
	if resp.Body.String() != want {
		t.Fatalf("unexpected template body %q", resp.Body.String())
	}
}

func TestListRecommendationsHandler(t *testing.T) {
	recSvc := &fakeRecommendationService{
		recs: []recdomain.Recommendation{
			{SKU: "PCR-100", CurrentPrice: 185, RecommendedPrice: 199.8, LiftPct: 8},
		},
	}
	router := newTestServer(&Server{recommendationSvc: recSvc})

	req := httptest.NewRequest(http.MethodGet, "/api/pricing/recommendations", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	// the table consumes a bare top-level array
	var body []recdomain.Recommendation
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response as array: %v (body %s)", err, resp.Body.String())
	}
	if len(body) != 1 {
		t.Fatalf("expected one recommendation, got %d", len(body))
	}
	if body[0].SKU != "PCR-100" || body[0].CurrentPrice != 185 || body[0].RecommendedPrice != 199.8 || body[0].LiftPct != 8 {
		t.Fatalf("unexpected recommendation %+v", body[0])
	}
}

func TestListRecommendationsHandlerEmpty(t *testing.T) {
	router := newTestServer(&Server{recommendationSvc: &fakeRecommendationService{}})

	req := httptest.NewRequest(http.MethodGet, "/api/pricing/recommendations", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if strings.TrimSpace(resp.Body.String()) != "[]" {
		t.Fatalf("expected empty array body, got %q", resp.Body.String())
	}
}

func TestTrackProductHandler(t *testing.T) {
	recSvc := &fakeRecommendationService{
		trackResult: &recdomain.Recommendation{SKU: "PCR-100", CurrentPrice: 185},
	}
	router := newTestServer(&Server{recommendationSvc: recSvc})

	resp := doJSON(router, http.MethodPost, "/api/pricing/recommendations", `{"sku":"PCR-100","currentPrice":185}`)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
}

func TestTrackProductHandlerDuplicate(t *testing.T) {
	recSvc := &fakeRecommendationService{trackErr: recdomain.ErrDuplicateSKU}
	router := newTestServer(&Server{recommendationSvc: recSvc})

	resp := doJSON(router, http.MethodPost, "/api/pricing/recommendations", `{"sku":"PCR-100","currentPrice":185}`)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestLookupCompetitorsHandler(t *testing.T) {
	recSvc := &fakeRecommendationService{
		offers: &recdomain.CompetitorOffers{Query: "PCR-100", Offers: []recdomain.OfferView{}},
	}
	router := newTestServer(&Server{recommendationSvc: recSvc})

	req := httptest.NewRequest(http.MethodGet, "/api/pricing/competitors?q=PCR-100", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if recSvc.lastQuery != "PCR-100" {
		t.Fatalf("expected query PCR-100, got %q", recSvc.lastQuery)
	}
	if recSvc.lastMax != defaultMaxOffers {
		t.Fatalf("expected default max_results %d, got %d", defaultMaxOffers, recSvc.lastMax)
	}
}

func TestLookupCompetitorsHandlerMissingQuery(t *testing.T) {
	router := newTestServer(&Server{recommendationSvc: &fakeRecommendationService{}})

	req := httptest.NewRequest(http.MethodGet, "/api/pricing/competitors", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestPriceInvoiceHandler(t *testing.T) {
	recSvc := &fakeRecommendationService{
		pricing: &recdomain.InvoicePricing{
			Recommendations: []recdomain.ItemRecommendation{{SKU: "PCR-100"}},
			Provider:        "internal-heuristic",
		},
	}
	router := newTestServer(&Server{recommendationSvc: recSvc})

	resp := doJSON(router, http.MethodPost, "/api/pricing/invoice",
		`{"items":[{"sku":"PCR-100","quantity":1,"unit_price":"185.00"}]}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "internal-heuristic") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}
