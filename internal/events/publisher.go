package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Publisher enqueues lifecycle events onto the bus. It is used by the
// backfill tool and by tests; the live queue publishes the same shapes.
type Publisher struct {
	client *asynq.Client
	queue  string
}

// NewPublisher creates a publisher bound to one queue. An empty queue name
// falls back to "default".
func NewPublisher(redisOpt asynq.RedisClientOpt, queue string) *Publisher {
	if queue == "" {
		queue = "default"
	}
	return &Publisher{client: asynq.NewClient(redisOpt), queue: queue}
}

// Publish enqueues one event. The task ID is derived from the event identity
// so replaying the same event (a backfill re-run) dedupes instead of
// double-delivering; messages without a run identity get a random ID.
func (p *Publisher) Publish(ctx context.Context, kind Kind, msg Message, options ...asynq.Option) (*asynq.TaskInfo, error) {
	if p.client == nil {
		return nil, fmt.Errorf("nil asynq client")
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	if msg.Payload.Status.TaskID != "" {
		id = fmt.Sprintf("%s/%d/%s", msg.Payload.Status.TaskID, msg.Payload.RunID, kind)
	}
	t := asynq.NewTask(kind.TaskType(), b)
	options = append(options, asynq.Queue(p.queue), asynq.TaskID(id))
	return p.client.EnqueueContext(ctx, t, options...)
}

func (p *Publisher) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
