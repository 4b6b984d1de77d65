package worker

import (
	"context"
	"errors"

	"github.com/futbolprime-next/internal/logger"
	"github.com/futbolprime-next/internal/queue"
	"github.com/futbolprime-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	dispatcher service.OrderPlacedDispatcher
}

// NewConsumer 创建消费者，dispatcher 为 nil 时使用日志通知
func NewConsumer(dispatcher service.OrderPlacedDispatcher) *Consumer {
	if dispatcher == nil {
		dispatcher = service.NewLogDispatcher(logger.Named("worker"))
	}
	return &Consumer{dispatcher: dispatcher}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCheckoutOrderPlaced, c.handleOrderPlaced)
}

func (c *Consumer) handleOrderPlaced(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_placed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderPlacedPayload(task)
	if err != nil {
		logger.Warnw("worker_order_placed_unmarshal_failed", "error", err)
		return errors.Join(err, asynq.SkipRetry)
	}
	if payload.OrderID <= 0 {
		logger.Debugw("worker_order_placed_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if err := c.dispatcher.DispatchOrderPlaced(ctx, payload); err != nil {
		logger.Warnw("worker_order_placed_dispatch_failed",
			"order_id", payload.OrderID,
			"order_no", payload.OrderNo,
			"user_id", payload.UserID,
			"error", err,
		)
		return err
	}
	return nil
}
