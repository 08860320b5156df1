package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	models "DemandCast/internal/domain/models"
	icache "DemandCast/internal/service/cache"
	"DemandCast/internal/service/metrics"
	"DemandCast/internal/service/ratelimit"
	"DemandCast/internal/services/features"
	"DemandCast/internal/usecase"
	xhttp "DemandCast/pkg/http"
	xlogger "DemandCast/pkg/logger"
	"DemandCast/pkg/util"
)

// ForecastEchoHandler exposes the forecasting API over Echo.
type ForecastEchoHandler struct {
	logger     *xlogger.Logger
	forecaster *usecase.Forecaster
	jobs       *usecase.ForecastJobService
	cache      icache.BytesCache
	cacheTTL   time.Duration
	rl         *ratelimit.Limiter
	healthFn   func(context.Context) error
}

func NewForecastEchoHandler(logger *xlogger.Logger, forecaster *usecase.Forecaster) *ForecastEchoHandler {
	metrics.Register()
	return &ForecastEchoHandler{
		logger:     logger,
		forecaster: forecaster,
		rl:         ratelimit.New(),
	}
}

// SetCache enables response caching for identical predict requests.
func (h *ForecastEchoHandler) SetCache(c icache.BytesCache, ttl time.Duration) {
	h.cache = c
	h.cacheTTL = ttl
}

// SetJobs enables the async forecast job endpoints.
func (h *ForecastEchoHandler) SetJobs(jobs *usecase.ForecastJobService) { h.jobs = jobs }

// SetHealthCheck adds a dependency probe to the health endpoint.
func (h *ForecastEchoHandler) SetHealthCheck(fn func(context.Context) error) { h.healthFn = fn }

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/predict", h.Predict)
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/info", h.Info)
	g.POST("/forecast/jobs", h.SubmitJob)
	g.GET("/forecast/jobs/:id", h.JobStatus)
}

func (h *ForecastEchoHandler) Predict(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.ForecastLatency.WithLabelValues("predict").Observe(time.Since(start).Seconds())
	}()

	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.ForecastErrors.WithLabelValues("predict").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":predict", 10, 5) {
		return xhttp.TooManyRequestsResponse(c, "rate limited")
	}

	date, category, appErr := h.validatePredictInput(req.Category, req.Date)
	if appErr != nil {
		metrics.ForecastErrors.WithLabelValues("predict").Inc()
		return xhttp.AppErrorResponse(c, appErr)
	}

	ctx := c.Request().Context()
	cacheKey := predictCacheKey(category, req.Date, req.NDays)
	if h.cache != nil {
		if b, ok, _ := h.cache.GetBytes(ctx, cacheKey); ok {
			metrics.CacheHits.WithLabelValues("hit").Inc()
			var fc models.Forecast
			if err := json.Unmarshal(b, &fc); err == nil {
				return xhttp.SuccessResponse(c, &fc)
			}
		}
		metrics.CacheHits.WithLabelValues("miss").Inc()
	}

	fc, err := h.forecaster.Predict(ctx, category, date, req.NDays)
	if err != nil {
		metrics.ForecastErrors.WithLabelValues("predict").Inc()
		return h.mapEngineError(c, err)
	}

	if h.cache != nil {
		if b, err := json.Marshal(fc); err == nil {
			_ = h.cache.SetBytes(ctx, cacheKey, b, h.cacheTTL)
		}
	}
	return xhttp.SuccessResponse(c, fc)
}

func (h *ForecastEchoHandler) Info(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.forecaster.Info())
}

func (h *ForecastEchoHandler) Health(c echo.Context) error {
	if h.healthFn != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.healthFn(ctx); err != nil {
			h.logger.Warn("health check failed", xlogger.Error(err))
			return xhttp.DataResponse(c, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *ForecastEchoHandler) SubmitJob(c echo.Context) error {
	if h.jobs == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("forecast jobs are disabled"))
	}

	req := &models.ForecastJobRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	_, category, appErr := h.validatePredictInput(req.Category, req.Date)
	if appErr != nil {
		return xhttp.AppErrorResponse(c, appErr)
	}

	id, err := h.jobs.Submit(c.Request().Context(), category, req.Date, req.NDays)
	if err != nil {
		h.logger.Error("submit forecast job", xlogger.Error(err))
		metrics.ForecastErrors.WithLabelValues("jobs").Inc()
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not enqueue job"))
	}
	return xhttp.AcceptedResponse(c, map[string]string{"id": id, "status": "queued"})
}

func (h *ForecastEchoHandler) JobStatus(c echo.Context) error {
	if h.jobs == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("forecast jobs are disabled"))
	}

	id := c.Param("id")
	st, ok, err := h.jobs.Status(c.Request().Context(), id)
	if err != nil {
		h.logger.Error("read job status", xlogger.String("id", id), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(fmt.Sprintf("job %q not found", id)))
	}
	return xhttp.SuccessResponse(c, st)
}

// validatePredictInput parses the date and checks the category against the
// loaded dataset. Unknown categories report the valid list so clients can
// self-correct.
func (h *ForecastEchoHandler) validatePredictInput(category, date string) (time.Time, string, *xhttp.AppError) {
	d, ok := util.ParseDay(date)
	if !ok {
		return time.Time{}, "", xhttp.BadRequestErrorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	category = strings.TrimSpace(category)
	snap := h.forecaster.Snapshot()
	if !snap.HasCategory(category) {
		return time.Time{}, "", xhttp.BadRequestErrorf("unknown product_category %q", category).
			WithParam("valid_categories", snap.Categories())
	}
	return d, category, nil
}

func (h *ForecastEchoHandler) mapEngineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, features.ErrNoHistory), errors.Is(err, features.ErrDateTooEarly):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Error("forecast timed out", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	default:
		h.logger.Error("forecast usecase error", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
}

func predictCacheKey(category, date string, nDays int) string {
	return fmt.Sprintf("predict:%s:%s:%d", category, date, nDays)
}

var _ xhttp.Handler = (*ForecastEchoHandler)(nil)
