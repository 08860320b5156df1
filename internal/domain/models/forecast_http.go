package models

// Requests for forecast HTTP endpoints. Defined in domain for consistency and reuse.

type PredictRequest struct {
	Category string `json:"product_category" validate:"required"`
	Date     string `json:"date" validate:"required"`
	NDays    int    `json:"n_days" default:"1" validate:"gte=1,lte=365"`
}

type ForecastJobRequest struct {
	Category string `json:"product_category" validate:"required"`
	Date     string `json:"date" validate:"required"`
	NDays    int    `json:"n_days" default:"1" validate:"gte=1,lte=365"`
}
