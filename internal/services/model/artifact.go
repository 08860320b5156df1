package model

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// artifactFile is the on-disk layout of an exported linear model.
type artifactFile struct {
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

// ArtifactModel is a linear model loaded from a JSON export. Scoring is a
// dot product with the coefficient vector plus the intercept, in the same
// log1p space the model was trained in.
type ArtifactModel struct {
	schema    []string
	weights   []float64
	intercept float64
}

// NewArtifactModel loads the JSON artifact at path and aligns its
// coefficients to schema order. Every schema feature must have a
// coefficient.
func NewArtifactModel(path string, schema []string) (*ArtifactModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var af artifactFile
	if err := json.Unmarshal(raw, &af); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}

	weights := make([]float64, len(schema))
	for i, name := range schema {
		w, ok := af.Coefficients[name]
		if !ok {
			return nil, fmt.Errorf("model artifact has no coefficient for %q", name)
		}
		weights[i] = w
	}

	return &ArtifactModel{
		schema:    schema,
		weights:   weights,
		intercept: af.Intercept,
	}, nil
}

func (m *ArtifactModel) Predict(_ context.Context, features []float64) (float64, error) {
	if len(features) != len(m.weights) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.weights), len(features))
	}
	y := m.intercept
	for i, x := range features {
		y += m.weights[i] * x
	}
	return y, nil
}

func (m *ArtifactModel) Schema() []string { return m.schema }
