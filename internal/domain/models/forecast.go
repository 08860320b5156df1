package models

import "time"

// Prediction is the forecast for a single day.
type Prediction struct {
	Date              string  `json:"date"`
	PredictedQuantity float64 `json:"predicted_quantity"`
}

// Forecast is the result of a multi-day prediction request.
type Forecast struct {
	Category    string       `json:"product_category"`
	StartDate   string       `json:"start_date"`
	NDays       int          `json:"n_days"`
	Predictions []Prediction `json:"predictions"`
}

// DatasetInfo describes the loaded historical dataset.
type DatasetInfo struct {
	MinDate    string   `json:"min_date"`
	MaxDate    string   `json:"max_date"`
	Categories []string `json:"categories"`
}

// PredictionEvent is published to the predictions topic after a forecast.
type PredictionEvent struct {
	Category          string    `json:"category"`
	Date              string    `json:"date"`
	PredictedQuantity float64   `json:"predicted_quantity"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// SalesEvent is the ingestion message consumed from the sales topic.
type SalesEvent struct {
	Category  string  `json:"category"`
	Date      string  `json:"date"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// ForecastJobStatus captures the lifecycle of an async forecast job.
type ForecastJobStatus struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"` // queued, done, failed
	Forecast  *Forecast `json:"forecast,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
