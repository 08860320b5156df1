package model

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"DemandCast/internal/domain/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadSchema(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "features.txt", "Quantity_lag_1\nprice pct change 7d\n\nday\n")

	schema, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}
	want := []string{"Quantity_lag_1", "price pct change 7d", "day"}
	if len(schema) != len(want) {
		t.Fatalf("len = %d, want %d", len(schema), len(want))
	}
	for i := range want {
		if schema[i] != want[i] {
			t.Fatalf("schema[%d] = %q, want %q", i, schema[i], want[i])
		}
	}
}

func TestLoadSchemaEmpty(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "features.txt", "\n\n")
	if _, err := LoadSchema(path); err == nil {
		t.Fatal("expected error for empty schema")
	}
}

func TestVectorize(t *testing.T) {
	fv := models.FeatureVector{"a": 1, "b": 2, "c": 3}

	vec, err := Vectorize(fv, []string{"c", "a"})
	if err != nil {
		t.Fatalf("Vectorize: %v", err)
	}
	if vec[0] != 3 || vec[1] != 1 {
		t.Fatalf("vec = %v", vec)
	}

	_, err = Vectorize(fv, []string{"a", "missing"})
	var mismatch *ErrSchemaMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want schema mismatch", err)
	}
	if mismatch.Feature != "missing" {
		t.Fatalf("feature = %q", mismatch.Feature)
	}
}

func TestArtifactModelPredict(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "model.json",
		`{"intercept": 0.5, "coefficients": {"a": 2.0, "b": -1.0}}`)

	m, err := NewArtifactModel(path, []string{"a", "b"})
	if err != nil {
		t.Fatalf("NewArtifactModel: %v", err)
	}

	got, err := m.Predict(context.Background(), []float64{3, 4})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if want := 0.5 + 2*3 - 4; math.Abs(got-want) > 1e-12 {
		t.Fatalf("Predict = %v, want %v", got, want)
	}

	if _, err := m.Predict(context.Background(), []float64{1}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestArtifactModelMissingCoefficient(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "model.json", `{"intercept": 0, "coefficients": {"a": 1}}`)
	if _, err := NewArtifactModel(path, []string{"a", "b"}); err == nil {
		t.Fatal("expected missing coefficient error")
	}
}
