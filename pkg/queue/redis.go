package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	applogger "DemandCast/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Message is the envelope stored on the Redis list.
type Message struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Retries  int             `json:"retries"`
	Enqueued time.Time       `json:"enqueued"`
}

// Config holds queue tuning parameters.
type Config struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// RedisQueue is a Redis-list backed job queue with a worker pool.
type RedisQueue struct {
	l         *applogger.Logger
	cfg       Config
	client    *redis.Client
	jobs      map[string]Job
	keyPrefix string
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// Option configures RedisQueue.
type Option func(*RedisQueue)

// WithKeyPrefix overrides the Redis key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(q *RedisQueue) {
		q.keyPrefix = prefix
	}
}

// New creates a queue bound to the given Redis client.
func New(l *applogger.Logger, cfg Config, client *redis.Client, opts ...Option) *RedisQueue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}
	q := &RedisQueue{
		l:         l,
		cfg:       cfg,
		client:    client,
		jobs:      make(map[string]Job),
		keyPrefix: "demandcast:queue",
		stopChan:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// RegisterJob registers a handler for a message type.
func (q *RedisQueue) RegisterJob(job Job) {
	q.jobs[job.Type()] = job
}

// Enqueue pushes a message onto the queue.
func (q *RedisQueue) Enqueue(ctx context.Context, id, msgType string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	msg := Message{
		ID:       id,
		Type:     msgType,
		Payload:  raw,
		Enqueued: time.Now().UTC(),
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := q.client.LPush(ctx, q.queueKey(), b).Err(); err != nil {
		return fmt.Errorf("lpush: %w", err)
	}
	return nil
}

// Start launches the worker pool.
func (q *RedisQueue) Start() error {
	if len(q.jobs) == 0 {
		return errors.New("no jobs registered")
	}
	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
	q.l.Info("queue: workers started", applogger.Int("workers", q.cfg.Workers))
	return nil
}

// Stop drains the workers.
func (q *RedisQueue) Stop(ctx context.Context) error {
	var err error
	q.stopOnce.Do(func() {
		close(q.stopChan)
		done := make(chan struct{})
		go func() {
			q.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			err = fmt.Errorf("timeout waiting for queue workers: %w", ctx.Err())
		}
	})
	return err
}

func (q *RedisQueue) worker(id int) {
	defer q.wg.Done()
	for {
		select {
		case <-q.stopChan:
			return
		default:
			q.processNext()
		}
	}
}

func (q *RedisQueue) processNext() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	res, err := q.client.BRPop(ctx, 2*time.Second, q.queueKey()).Result()
	cancel()
	if err != nil {
		if !errors.Is(err, redis.Nil) && !errors.Is(err, context.DeadlineExceeded) {
			q.l.Warn("queue: brpop error", applogger.Error(err))
		}
		return
	}
	// BRPop returns [key, value]
	if len(res) != 2 {
		return
	}

	var msg Message
	if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
		q.l.Error("queue: malformed message dropped", applogger.Error(err))
		return
	}

	job, ok := q.jobs[msg.Type]
	if !ok {
		q.l.Warn("queue: no job for message type", applogger.String("type", msg.Type))
		q.moveToDeadLetter(msg)
		return
	}

	hctx, hcancel := context.WithTimeout(context.Background(), time.Minute)
	err = job.Handle(hctx, msg.Payload)
	hcancel()
	if err == nil {
		return
	}

	q.l.Warn("queue: job failed",
		applogger.String("id", msg.ID),
		applogger.String("type", msg.Type),
		applogger.Int("retries", msg.Retries),
		applogger.Error(err),
	)
	if msg.Retries >= q.cfg.MaxRetries {
		q.moveToDeadLetter(msg)
		return
	}
	msg.Retries++
	q.requeueLater(msg)
}

// requeueLater pushes the message back after the retry delay without blocking a worker.
func (q *RedisQueue) requeueLater(msg Message) {
	go func() {
		select {
		case <-time.After(q.cfg.RetryDelay):
		case <-q.stopChan:
		}
		b, err := json.Marshal(msg)
		if err != nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := q.client.LPush(ctx, q.queueKey(), b).Err(); err != nil {
			q.l.Error("queue: requeue failed", applogger.String("id", msg.ID), applogger.Error(err))
		}
	}()
}

func (q *RedisQueue) moveToDeadLetter(msg Message) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := q.client.LPush(ctx, q.deadLetterKey(), b).Err(); err != nil {
		q.l.Error("queue: dead-letter push failed", applogger.String("id", msg.ID), applogger.Error(err))
	}
}

func (q *RedisQueue) queueKey() string {
	return q.keyPrefix + ":pending"
}

func (q *RedisQueue) deadLetterKey() string {
	return q.keyPrefix + ":dead"
}
