package service

import (
	"context"

	"github.com/futbolprime-next/internal/logger"
	"github.com/futbolprime-next/internal/queue"

	"go.uber.org/zap"
)

// OrderNotifier 下单成功通知（尽力而为）
type OrderNotifier interface {
	NotifyOrderPlaced(ctx context.Context, payload queue.OrderPlacedPayload) error
}

// OrderPlacedDispatcher 实际发送通知的一方，由 worker 或内联调用
type OrderPlacedDispatcher interface {
	DispatchOrderPlaced(ctx context.Context, payload queue.OrderPlacedPayload) error
}

// LogDispatcher 以结构化日志形式发送通知
type LogDispatcher struct {
	log *zap.SugaredLogger
}

// NewLogDispatcher 创建日志通知器
func NewLogDispatcher(log *zap.SugaredLogger) *LogDispatcher {
	if log == nil {
		log = logger.Named("notification")
	}
	return &LogDispatcher{log: log}
}

// DispatchOrderPlaced 记录下单成功通知
func (d *LogDispatcher) DispatchOrderPlaced(_ context.Context, payload queue.OrderPlacedPayload) error {
	d.log.Infow("order_placed_notification",
		"order_id", payload.OrderID,
		"order_no", payload.OrderNo,
		"user_id", payload.UserID,
		"total", payload.Total,
		"item_count", payload.ItemCount,
	)
	return nil
}

// QueueNotifier 队列启用时入队，否则内联分发
type QueueNotifier struct {
	queue  *queue.Client
	inline OrderPlacedDispatcher
	log    *zap.SugaredLogger
}

// NewQueueNotifier 创建通知器
func NewQueueNotifier(client *queue.Client, inline OrderPlacedDispatcher, log *zap.SugaredLogger) *QueueNotifier {
	if log == nil {
		log = logger.Named("notification")
	}
	if inline == nil {
		inline = NewLogDispatcher(log)
	}
	return &QueueNotifier{queue: client, inline: inline, log: log}
}

// NotifyOrderPlaced 推送下单成功通知
func (n *QueueNotifier) NotifyOrderPlaced(ctx context.Context, payload queue.OrderPlacedPayload) error {
	if n.queue.Enabled() {
		if err := n.queue.EnqueueOrderPlaced(ctx, payload); err != nil {
			n.log.Warnw("order_placed_enqueue_failed", "order_id", payload.OrderID, "error", err)
			return err
		}
		return nil
	}
	return n.inline.DispatchOrderPlaced(ctx, payload)
}
