package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"library-backend/internal/shared"
)

// Enqueuer is what the services see: fire-and-forget task submission.
type Enqueuer interface {
	EnqueueOTPEmail(ctx context.Context, p shared.SendOTPEmailPayload) error
	EnqueueResetPasswordEmail(ctx context.Context, p shared.SendResetPasswordEmailPayload) error
}

// Client wraps asynq.Client.
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr string) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
	}
}

func (c *Client) EnqueueOTPEmail(ctx context.Context, p shared.SendOTPEmailPayload) error {
	return c.enqueue(ctx, shared.TypeSendOTPEmail, p, shared.QueueCritical)
}

func (c *Client) EnqueueResetPasswordEmail(ctx context.Context, p shared.SendResetPasswordEmailPayload) error {
	return c.enqueue(ctx, shared.TypeSendResetPasswordEmail, p, shared.QueueCritical)
}

func (c *Client) enqueue(ctx context.Context, taskType string, payload interface{}, queue string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", taskType, err)
	}

	_, err = c.client.EnqueueContext(ctx, asynq.NewTask(taskType, data),
		asynq.Queue(queue),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
