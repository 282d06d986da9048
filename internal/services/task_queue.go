package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/campushive/backend/internal/config"
	"github.com/campushive/backend/pkg/logger"
	"github.com/hibiken/asynq"
)

const (
	TaskTypeNotify = "notification:deliver"
	notifyQueue    = "notifications"
)

// NotificationTask asks for one notification to be stored for UserID.
type NotificationTask struct {
	UserID     uint                   `json:"user_id" binding:"required"`
	Type       string                 `json:"type" binding:"required"`
	Data       map[string]interface{} `json:"data,omitempty"`
	TargetLink string                 `json:"target_link" binding:"required"`
}

// TaskProcessor handles a dequeued task.
type TaskProcessor func(context.Context, *NotificationTask) error

// TaskQueue hands notification tasks to a processor, either inline or
// through Redis.
type TaskQueue interface {
	Enqueue(ctx context.Context, task *NotificationTask) error
	IsAsync() bool
	Close() error
}

// NewTaskQueue returns an asynq-backed queue when Redis is enabled and
// reachable, and a SyncQueue calling processor otherwise.
func NewTaskQueue(cfg *config.RedisConfig, processor TaskProcessor) TaskQueue {
	if cfg.Enabled {
		queue, err := NewAsyncQueue(cfg)
		if err == nil {
			logger.Info().Str("addr", cfg.Addr).Msg("async notification queue initialized")
			return queue
		}
		logger.Warn().Err(err).Msg("redis unavailable, falling back to sync notification queue")
	}
	logger.Info().Msg("sync notification queue initialized")
	return NewSyncQueue(processor)
}

func redisOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// AsyncQueue implements TaskQueue using asynq.
type AsyncQueue struct {
	client *asynq.Client
}

func NewAsyncQueue(cfg *config.RedisConfig) (*AsyncQueue, error) {
	opt := redisOpt(cfg)

	inspector := asynq.NewInspector(opt)
	defer inspector.Close()
	if _, err := inspector.Queues(); err != nil {
		return nil, err
	}

	return &AsyncQueue{client: asynq.NewClient(opt)}, nil
}

func (q *AsyncQueue) Enqueue(ctx context.Context, task *NotificationTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	info, err := q.client.EnqueueContext(ctx, asynq.NewTask(TaskTypeNotify, payload),
		asynq.Queue(notifyQueue),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return err
	}

	logger.Debug().Str("task_id", info.ID).Uint("user_id", task.UserID).Str("type", task.Type).Msg("notification enqueued")
	return nil
}

func (q *AsyncQueue) IsAsync() bool { return true }

func (q *AsyncQueue) Close() error {
	return q.client.Close()
}

// SyncQueue runs the processor inline on the caller's goroutine.
type SyncQueue struct {
	processor TaskProcessor
}

func NewSyncQueue(processor TaskProcessor) *SyncQueue {
	return &SyncQueue{processor: processor}
}

func (q *SyncQueue) Enqueue(ctx context.Context, task *NotificationTask) error {
	if q.processor == nil {
		logger.Warn().Str("type", task.Type).Msg("no notification processor set, task dropped")
		return nil
	}
	return q.processor(ctx, task)
}

func (q *SyncQueue) IsAsync() bool { return false }

func (q *SyncQueue) Close() error { return nil }
