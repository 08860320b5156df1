package api

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	models "DemandCast/internal/domain/models"
	"DemandCast/internal/service/cache"
	"DemandCast/internal/services/features"
	"DemandCast/internal/usecase"
	xlogger "DemandCast/pkg/logger"
)

type fixedPredictor struct {
	out float64
}

func (p fixedPredictor) Predict(context.Context, []float64) (float64, error) { return p.out, nil }

func (p fixedPredictor) Schema() []string {
	return []string{
		features.FeatLag1, features.FeatLag7, features.FeatLag28,
		features.FeatRollMean7, features.FeatRollMean14, features.FeatRollMean28,
		features.FeatRollStd7, features.FeatRollStd14, features.FeatRollStd28,
		features.FeatEWM, features.FeatPricePct7, features.FeatRatio28,
		features.FeatDay, features.FeatMonth, features.FeatDayOfWeek,
		features.FeatIsWeekend, features.FeatWeekOfYear,
	}
}

type testMetrics struct{}

func (testMetrics) RecordIngest(string, string)    {}
func (testMetrics) RecordError(string)             {}
func (testMetrics) RecordForecast(string, float64) {}
func (testMetrics) RecordLatency(string, float64)  {}

func newTestHandler(t *testing.T) (*ForecastEchoHandler, *echo.Echo) {
	t.Helper()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recs := make([]models.SalesRecord, 40)
	for i := range recs {
		recs[i] = models.SalesRecord{
			Date:      start.AddDate(0, 0, i),
			Category:  "Beverages",
			Quantity:  float64(10 + i%5),
			UnitPrice: 1.5,
		}
	}
	snap := models.NewHistorySnapshot(recs)

	log, err := xlogger.New(&xlogger.Config{Level: "disabled", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	forecaster := usecase.NewForecaster(snap, features.NewBuilder(60), fixedPredictor{out: math.Log1p(20)}, nil, testMetrics{})

	h := NewForecastEchoHandler(log, forecaster)
	h.SetCache(cache.NewTTLCache(), time.Minute)
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestPredictEndpoint(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/predict",
		`{"product_category": "Beverages", "date": "2024-02-15", "n_days": 3}`)

	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusOK {
		t.Fatalf("status = %d (%s)", env.Status, rec.Body.String())
	}
	var fc models.Forecast
	if err := json.Unmarshal(env.Data, &fc); err != nil {
		t.Fatalf("decode forecast: %v", err)
	}
	if fc.Category != "Beverages" || len(fc.Predictions) != 3 {
		t.Fatalf("forecast = %+v", fc)
	}
	if fc.Predictions[0].Date != "2024-02-15" {
		t.Fatalf("first date = %s", fc.Predictions[0].Date)
	}
	if fc.Predictions[0].PredictedQuantity != 20 {
		t.Fatalf("quantity = %v, want 20", fc.Predictions[0].PredictedQuantity)
	}
}

func TestPredictDefaultsToOneDay(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/predict",
		`{"product_category": "Beverages", "date": "2024-02-15"}`)

	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusOK {
		t.Fatalf("status = %d (%s)", env.Status, rec.Body.String())
	}
	var fc models.Forecast
	if err := json.Unmarshal(env.Data, &fc); err != nil {
		t.Fatalf("decode forecast: %v", err)
	}
	if fc.NDays != 1 || len(fc.Predictions) != 1 {
		t.Fatalf("forecast = %+v", fc)
	}
}

func TestPredictUnknownCategory(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/predict",
		`{"product_category": "Garden", "date": "2024-02-15"}`)

	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", env.Status)
	}
	if !strings.Contains(rec.Body.String(), "valid_categories") {
		t.Fatalf("body lacks valid category list: %s", rec.Body.String())
	}
}

func TestPredictInvalidDate(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/predict",
		`{"product_category": "Beverages", "date": "15-02-2024"}`)

	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", env.Status)
	}
}

func TestPredictDateTooEarly(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/predict",
		`{"product_category": "Beverages", "date": "2023-12-01"}`)

	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", env.Status)
	}
}

func TestPredictMissingFields(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/predict", `{"n_days": 2}`)
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", env.Status)
	}
}

func TestInfoEndpoint(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodGet, "/api/info", "")
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusOK {
		t.Fatalf("status = %d", env.Status)
	}
	var info models.DatasetInfo
	if err := json.Unmarshal(env.Data, &info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if info.MinDate != "2024-01-01" || info.MaxDate != "2024-02-09" {
		t.Fatalf("range = %s .. %s", info.MinDate, info.MaxDate)
	}
	if len(info.Categories) != 1 || info.Categories[0] != "Beverages" {
		t.Fatalf("categories = %v", info.Categories)
	}
}

func TestHealthEndpoint(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodGet, "/healthz", "")
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusOK {
		t.Fatalf("status = %d", env.Status)
	}
}

func TestJobEndpointsDisabled(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/api/forecast/jobs",
		`{"product_category": "Beverages", "date": "2024-02-15"}`)
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", env.Status)
	}
}
