package service

import (
	"context"
	"fmt"

	"github.com/futbolprime-next/internal/domain"
)

// CartCommand 展示层发往 CartStore 的显式命令
type CartCommand interface {
	CommandName() string
}

// AddItem 加购命令，Quantity 为 0 时按 1 处理
type AddItem struct {
	UserID    int64
	ProductID int64
	Quantity  int
}

// UpdateQuantity 改数量命令
type UpdateQuantity struct {
	Line     domain.LineRef
	Quantity int
}

// StepQuantity 增减数量命令（+1/-1 按钮）
type StepQuantity struct {
	Line  domain.LineRef
	Delta int
}

// RemoveItem 移除命令
type RemoveItem struct {
	UserID    int64
	Cart      domain.CartRef
	ProductID int64
}

// ClearCart 清空命令
type ClearCart struct {
	Cart domain.CartRef
}

// LoadCart 加载命令
type LoadCart struct {
	UserID int64
}

func (AddItem) CommandName() string        { return "add_item" }
func (UpdateQuantity) CommandName() string { return "update_quantity" }
func (StepQuantity) CommandName() string   { return "step_quantity" }
func (RemoveItem) CommandName() string     { return "remove_item" }
func (ClearCart) CommandName() string      { return "clear_cart" }
func (LoadCart) CommandName() string       { return "load_cart" }

// Dispatch 执行命令，返回类型化结果
func (s *CartStore) Dispatch(ctx context.Context, cmd CartCommand) error {
	switch c := cmd.(type) {
	case AddItem:
		return s.Add(ctx, c.UserID, c.ProductID, c.Quantity)
	case UpdateQuantity:
		return s.UpdateQuantity(ctx, c.Line, c.Quantity)
	case StepQuantity:
		return s.Step(ctx, c.Line, c.Delta)
	case RemoveItem:
		return s.Remove(ctx, c.UserID, c.Cart, c.ProductID)
	case ClearCart:
		return s.Clear(ctx, c.Cart)
	case LoadCart:
		return s.Load(ctx, c.UserID)
	case nil:
		return s.fail(&Error{Kind: KindInvalidState, Op: "cart.dispatch", Message: "command is nil", Err: ErrInvalidState})
	default:
		return s.fail(&Error{Kind: KindInvalidState, Op: "cart.dispatch", Message: fmt.Sprintf("unsupported command %s", cmd.CommandName()), Err: ErrInvalidState})
	}
}
