package model

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"DemandCast/internal/domain/models"
)

// Predictor scores one feature vector. Predictions are in log1p space; the
// caller applies the inverse transform.
type Predictor interface {
	// Predict returns the model output for features ordered per Schema.
	Predict(ctx context.Context, features []float64) (float64, error)
	// Schema returns the feature names in the order the model expects.
	Schema() []string
}

// ErrSchemaMismatch wraps a missing feature name in Vectorize.
type ErrSchemaMismatch struct {
	Feature string
}

func (e *ErrSchemaMismatch) Error() string {
	return fmt.Sprintf("feature %q required by model schema is missing", e.Feature)
}

// Vectorize projects a feature vector onto the model's schema order. Every
// schema name must be present in the vector.
func Vectorize(fv models.FeatureVector, schema []string) ([]float64, error) {
	out := make([]float64, len(schema))
	for i, name := range schema {
		v, ok := fv[name]
		if !ok {
			return nil, &ErrSchemaMismatch{Feature: name}
		}
		out[i] = v
	}
	return out, nil
}

// LoadSchema reads a feature-name list from a text file, one name per line.
// Blank lines are skipped; names keep their internal spaces.
func LoadSchema(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("schema file %s is empty", path)
	}
	return names, nil
}
