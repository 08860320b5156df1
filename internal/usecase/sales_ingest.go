package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"DemandCast/internal/domain/models"
	domrepo "DemandCast/internal/domain/repository"
	pkgkafka "DemandCast/pkg/kafka"
	"DemandCast/pkg/util"
)

// SalesIngestHandler consumes sales events from Kafka and writes them to
// storage. Ingested rows become visible to forecasts after the next process
// restart; the in-memory snapshot stays immutable for its lifetime.
type SalesIngestHandler struct {
	topic   string
	storage domrepo.SalesStorage
	metrics domrepo.Metrics
}

func NewSalesIngestHandler(topic string, storage domrepo.SalesStorage, metrics domrepo.Metrics) *SalesIngestHandler {
	return &SalesIngestHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *SalesIngestHandler) Topic() string { return h.topic }

func (h *SalesIngestHandler) Handle(ctx context.Context, b []byte) error {
	var ev models.SalesEvent
	if err := json.Unmarshal(b, &ev); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	date, ok := util.ParseDay(ev.Date)
	if !ok {
		h.metrics.RecordError("consumer_bad_date")
		return fmt.Errorf("sales event has invalid date %q", ev.Date)
	}
	if ev.Category == "" {
		h.metrics.RecordError("consumer_bad_category")
		return fmt.Errorf("sales event has empty category")
	}

	start := time.Now()
	err := h.storage.Store(ctx, &models.SalesRecord{
		Date:      date,
		Category:  ev.Category,
		Quantity:  ev.Quantity,
		UnitPrice: ev.UnitPrice,
	})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordIngest("clickhouse", ev.Category)
	return nil
}

var _ pkgkafka.MessageHandler = (*SalesIngestHandler)(nil)
