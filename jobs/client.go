package jobs

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
)

// Enqueuer is the asynq client surface used by Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client submits datasheet tasks from the web process.
type Client struct {
	client Enqueuer
}

// NewClient constructs a Client backed by asynq.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueGenerateAll queues a regeneration of every datasheet.
func (c *Client) EnqueueGenerateAll(ctx context.Context) (string, error) {
	return c.enqueue(ctx, NewGenerateAllTask())
}

// EnqueueGenerate queues a regeneration of one datasheet.
func (c *Client) EnqueueGenerate(ctx context.Context, productCode string) (string, error) {
	task, err := NewGenerateTask(productCode)
	if err != nil {
		return "", err
	}
	return c.enqueue(ctx, task)
}

// enqueue returns the task id. A task already pending under its uniqueness
// lock counts as accepted and yields an empty id.
func (c *Client) enqueue(ctx context.Context, task *asynq.Task) (string, error) {
	info, err := c.client.EnqueueContext(ctx, task)
	switch {
	case errors.Is(err, asynq.ErrDuplicateTask):
		return "", nil
	case err != nil:
		return "", err
	default:
		return info.ID, nil
	}
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
