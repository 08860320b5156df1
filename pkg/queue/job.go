package queue

import "context"

// Job handles queued messages of a single type.
type Job interface {
	Type() string
	Handle(ctx context.Context, payload []byte) error
}
