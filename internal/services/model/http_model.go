package model

import (
	"context"
	"fmt"
	"time"

	pkgHttp "DemandCast/pkg/http"
)

// HTTPModel scores feature vectors against a remote model server. The
// server receives the ordered feature values and replies with the raw
// log-space prediction.
type HTTPModel struct {
	client *pkgHttp.Client
	url    string
	schema []string
}

type scoreRequest struct {
	Features []float64 `json:"features"`
}

type scoreResponse struct {
	Prediction float64 `json:"prediction"`
}

// NewHTTPModel builds a remote-scorer client. schema is supplied locally so
// the feature order is fixed at startup rather than negotiated per call.
func NewHTTPModel(url string, schema []string, timeout time.Duration) *HTTPModel {
	return &HTTPModel{
		client: pkgHttp.NewClient(pkgHttp.WithTimeout(timeout)),
		url:    url,
		schema: schema,
	}
}

func (m *HTTPModel) Predict(ctx context.Context, features []float64) (float64, error) {
	if len(features) != len(m.schema) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.schema), len(features))
	}

	var resp scoreResponse
	err := m.client.SendAndParse(ctx, &pkgHttp.RequestOptions{
		Method: pkgHttp.MethodPost,
		URL:    m.url,
		Body:   scoreRequest{Features: features},
	}, &resp)
	if err != nil {
		return 0, fmt.Errorf("remote scorer: %w", err)
	}
	return resp.Prediction, nil
}

func (m *HTTPModel) Schema() []string { return m.schema }
