package queue

import (
	"encoding/json"

	"github.com/futbolprime-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCheckoutOrderPlaced 下单成功通知任务
	TaskCheckoutOrderPlaced = constants.TaskCheckoutOrderPlaced
)

// OrderPlacedPayload 下单成功通知载荷
type OrderPlacedPayload struct {
	OrderID   int64  `json:"order_id"`
	OrderNo   string `json:"order_no,omitempty"`
	UserID    int64  `json:"user_id"`
	Total     int64  `json:"total"` // 最小货币单位
	ItemCount int    `json:"item_count"`
}

// NewOrderPlacedTask 创建下单成功通知任务
func NewOrderPlacedTask(payload OrderPlacedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCheckoutOrderPlaced, body), nil
}

// ParseOrderPlacedPayload 解析下单成功通知载荷
func ParseOrderPlacedPayload(task *asynq.Task) (OrderPlacedPayload, error) {
	var payload OrderPlacedPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
