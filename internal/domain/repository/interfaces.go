package repository

import (
	"context"

	"DemandCast/internal/domain/models"
)

// HistoryStore loads the full historical dataset at startup.
type HistoryStore interface {
	LoadAll(ctx context.Context) ([]models.SalesRecord, error)
}

// SalesStorage persists ingested sales records.
type SalesStorage interface {
	Store(ctx context.Context, r *models.SalesRecord) error
	StoreBatch(ctx context.Context, records []*models.SalesRecord) error
	Health(ctx context.Context) error
	Close() error
}

// Publisher emits prediction events to downstream consumers.
type Publisher interface {
	PublishPrediction(ctx context.Context, ev models.PredictionEvent) error
	Close() error
}

type Metrics interface {
	RecordIngest(backend, category string)
	RecordError(kind string)
	RecordForecast(category string, quantity float64)
	RecordLatency(op string, seconds float64)
}
