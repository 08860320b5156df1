package usecase

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"DemandCast/internal/service/cache"
	"DemandCast/internal/services/features"
)

type fakeQueue struct {
	enqueued []string
}

func (q *fakeQueue) Enqueue(_ context.Context, _, _ string, payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	q.enqueued = append(q.enqueued, string(b))
	return nil
}

func newJobService(t *testing.T) (*ForecastJobService, *fakeQueue) {
	t.Helper()
	pred := &stubPredictor{schema: fullSchema(), out: math.Log1p(5)}
	f := NewForecaster(testSnapshot(), features.NewBuilder(60), pred, nil, nopMetrics{})
	q := &fakeQueue{}
	return NewForecastJobService(f, q, cache.NewTTLCache(), time.Hour), q
}

func TestForecastJobLifecycle(t *testing.T) {
	svc, q := newJobService(t)
	ctx := context.Background()

	id, err := svc.Submit(ctx, "Beverages", "2024-02-01", 2)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if id == "" {
		t.Fatal("empty job id")
	}
	if len(q.enqueued) != 1 {
		t.Fatalf("enqueued %d messages, want 1", len(q.enqueued))
	}

	st, ok, err := svc.Status(ctx, id)
	if err != nil || !ok {
		t.Fatalf("Status: ok=%v err=%v", ok, err)
	}
	if st.Status != "queued" {
		t.Fatalf("status = %q, want queued", st.Status)
	}

	// Run the job the way a queue worker would.
	if err := svc.Handle(ctx, []byte(q.enqueued[0])); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	st, ok, err = svc.Status(ctx, id)
	if err != nil || !ok {
		t.Fatalf("Status after run: ok=%v err=%v", ok, err)
	}
	if st.Status != "done" {
		t.Fatalf("status = %q (error %q), want done", st.Status, st.Error)
	}
	if st.Forecast == nil || len(st.Forecast.Predictions) != 2 {
		t.Fatalf("forecast = %+v", st.Forecast)
	}
}

func TestForecastJobFailure(t *testing.T) {
	svc, q := newJobService(t)
	ctx := context.Background()

	id, err := svc.Submit(ctx, "Garden", "2024-02-01", 1)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := svc.Handle(ctx, []byte(q.enqueued[0])); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	st, ok, err := svc.Status(ctx, id)
	if err != nil || !ok {
		t.Fatalf("Status: ok=%v err=%v", ok, err)
	}
	if st.Status != "failed" || st.Error == "" {
		t.Fatalf("status = %+v, want failed with error", st)
	}
}

func TestForecastJobUnknownID(t *testing.T) {
	svc, _ := newJobService(t)
	_, ok, err := svc.Status(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if ok {
		t.Fatal("expected unknown id")
	}
}
