package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"DemandCast/internal/domain/models"
	"DemandCast/internal/service/cache"
	"DemandCast/pkg/queue"
	"DemandCast/pkg/util"
)

const forecastJobType = "forecast"

type forecastJobPayload struct {
	ID       string `json:"id"`
	Category string `json:"product_category"`
	Date     string `json:"date"`
	NDays    int    `json:"n_days"`
}

// Enqueuer is the subset of the queue API the job service depends on.
type Enqueuer interface {
	Enqueue(ctx context.Context, id, msgType string, payload interface{}) error
}

// ForecastJobService runs forecasts asynchronously. Submitted jobs go onto
// the queue; results live in the cache under the job ID until the result
// TTL expires.
type ForecastJobService struct {
	forecaster *Forecaster
	queue      Enqueuer
	store      cache.BytesCache
	resultTTL  time.Duration
}

func NewForecastJobService(forecaster *Forecaster, q Enqueuer, store cache.BytesCache, resultTTL time.Duration) *ForecastJobService {
	if resultTTL <= 0 {
		resultTTL = time.Hour
	}
	return &ForecastJobService{
		forecaster: forecaster,
		queue:      q,
		store:      store,
		resultTTL:  resultTTL,
	}
}

// Submit validates nothing beyond queueability; input validation happened at
// the HTTP layer. Returns the job ID for status polling.
func (s *ForecastJobService) Submit(ctx context.Context, category, date string, nDays int) (string, error) {
	id := uuid.NewString()
	payload := forecastJobPayload{ID: id, Category: category, Date: date, NDays: nDays}

	if err := s.writeStatus(ctx, models.ForecastJobStatus{
		ID:        id,
		Status:    "queued",
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return "", fmt.Errorf("record job status: %w", err)
	}
	if err := s.queue.Enqueue(ctx, id, forecastJobType, payload); err != nil {
		return "", fmt.Errorf("enqueue forecast job: %w", err)
	}
	return id, nil
}

// Status returns the job status, or ok=false when the ID is unknown or the
// result has expired.
func (s *ForecastJobService) Status(ctx context.Context, id string) (*models.ForecastJobStatus, bool, error) {
	b, ok, err := s.store.GetBytes(ctx, jobKey(id))
	if err != nil || !ok {
		return nil, false, err
	}
	var st models.ForecastJobStatus
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, false, fmt.Errorf("decode job status: %w", err)
	}
	return &st, true, nil
}

// Type implements queue.Job.
func (s *ForecastJobService) Type() string { return forecastJobType }

// Handle implements queue.Job: it runs the forecast and stores the outcome.
func (s *ForecastJobService) Handle(ctx context.Context, payload []byte) error {
	var p forecastJobPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode forecast job payload: %w", err)
	}

	start, ok := util.ParseDay(p.Date)
	if !ok {
		// Unparseable dates cannot succeed on retry.
		return s.writeStatus(ctx, models.ForecastJobStatus{
			ID:        p.ID,
			Status:    "failed",
			Error:     fmt.Sprintf("invalid date %q", p.Date),
			CreatedAt: time.Now().UTC(),
		})
	}

	fc, err := s.forecaster.Predict(ctx, p.Category, start, p.NDays)
	if err != nil {
		return s.writeStatus(ctx, models.ForecastJobStatus{
			ID:        p.ID,
			Status:    "failed",
			Error:     err.Error(),
			CreatedAt: time.Now().UTC(),
		})
	}
	return s.writeStatus(ctx, models.ForecastJobStatus{
		ID:        p.ID,
		Status:    "done",
		Forecast:  fc,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *ForecastJobService) writeStatus(ctx context.Context, st models.ForecastJobStatus) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode job status: %w", err)
	}
	return s.store.SetBytes(ctx, jobKey(st.ID), b, s.resultTTL)
}

func jobKey(id string) string { return "demandcast:job:" + id }

var _ queue.Job = (*ForecastJobService)(nil)
