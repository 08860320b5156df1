package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"DemandCast/internal/domain/models"
	domrepo "DemandCast/internal/domain/repository"
	"DemandCast/internal/services/features"
	"DemandCast/internal/services/model"
	"DemandCast/pkg/util"
)

// Forecaster produces multi-day demand forecasts. The model predicts in
// log1p space; predictions are mapped back with expm1 and rounded to two
// decimals.
type Forecaster struct {
	snapshot  *models.HistorySnapshot
	builder   *features.Builder
	predictor model.Predictor
	publisher domrepo.Publisher
	metrics   domrepo.Metrics
}

func NewForecaster(
	snapshot *models.HistorySnapshot,
	builder *features.Builder,
	predictor model.Predictor,
	publisher domrepo.Publisher,
	metrics domrepo.Metrics,
) *Forecaster {
	return &Forecaster{
		snapshot:  snapshot,
		builder:   builder,
		predictor: predictor,
		publisher: publisher,
		metrics:   metrics,
	}
}

// Snapshot exposes the dataset view for callers that validate input against
// it.
func (f *Forecaster) Snapshot() *models.HistorySnapshot { return f.snapshot }

// Predict forecasts nDays consecutive days starting at start. Each day is
// an independent feature-build and model call over the shared snapshot.
func (f *Forecaster) Predict(ctx context.Context, category string, start time.Time, nDays int) (*models.Forecast, error) {
	if nDays <= 0 {
		nDays = 1
	}
	start = util.Day(start)

	began := time.Now()
	preds := make([]models.Prediction, 0, nDays)
	for i := 0; i < nDays; i++ {
		date := util.AddDays(start, i)

		fv, err := f.builder.Build(f.snapshot, category, date)
		if err != nil {
			f.metrics.RecordError("build_features")
			return nil, err
		}
		vec, err := model.Vectorize(fv, f.predictor.Schema())
		if err != nil {
			f.metrics.RecordError("schema_mismatch")
			return nil, err
		}
		raw, err := f.predictor.Predict(ctx, vec)
		if err != nil {
			f.metrics.RecordError("predict")
			return nil, fmt.Errorf("predict %s %s: %w", category, util.FormatDay(date), err)
		}

		qty := roundTo2(math.Expm1(raw))
		preds = append(preds, models.Prediction{
			Date:              util.FormatDay(date),
			PredictedQuantity: qty,
		})
		f.metrics.RecordForecast(category, qty)

		if f.publisher != nil {
			ev := models.PredictionEvent{
				Category:          category,
				Date:              util.FormatDay(date),
				PredictedQuantity: qty,
				GeneratedAt:       time.Now().UTC(),
			}
			if err := f.publisher.PublishPrediction(ctx, ev); err != nil {
				// Publishing is best effort; the forecast itself succeeded.
				f.metrics.RecordError("publish_prediction")
			}
		}
	}
	f.metrics.RecordLatency("forecast", time.Since(began).Seconds())

	return &models.Forecast{
		Category:    category,
		StartDate:   util.FormatDay(start),
		NDays:       nDays,
		Predictions: preds,
	}, nil
}

// Info summarizes the loaded dataset.
func (f *Forecaster) Info() models.DatasetInfo {
	return models.DatasetInfo{
		MinDate:    util.FormatDay(f.snapshot.MinDate()),
		MaxDate:    util.FormatDay(f.snapshot.MaxDate()),
		Categories: f.snapshot.Categories(),
	}
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
