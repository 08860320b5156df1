package models

import "time"

// SalesRecord is one day of observed sales for a product category.
// Date is a calendar day at midnight UTC.
type SalesRecord struct {
	Date      time.Time `json:"date"`
	Category  string    `json:"category"`
	Quantity  float64   `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}

// FeatureVector maps feature names to values for model input.
type FeatureVector map[string]float64
