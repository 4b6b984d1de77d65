package backend

import (
	"strings"

	"github.com/futbolprime-next/internal/constants"
	"github.com/futbolprime-next/internal/models"
	"github.com/futbolprime-next/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItemInput 下单商品行
type OrderItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CreateOrderInput 下单参数
type CreateOrderInput struct {
	UserID          uint             `json:"user_id"`
	CartID          uint             `json:"cart_id"`
	Items           []OrderItemInput `json:"items"`
	FullName        string           `json:"full_name"`
	Email           string           `json:"email"`
	ShippingAddress string           `json:"shipping_address"`
	PaymentMethod   string           `json:"payment_method"`
	CardLast4       string           `json:"card_last4"`
	IdempotencyKey  string           `json:"-"`
}

// OrderService 订单服务
type OrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	currency string
}

// NewOrderService 创建订单服务
func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, currency string) *OrderService {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "CLP"
	}
	return &OrderService{orders: orders, products: products, currency: currency}
}

// Create 创建订单，相同幂等键重复提交时返回已有订单
func (s *OrderService) Create(input CreateOrderInput) (*models.Order, bool, error) {
	if err := validateOrderInput(&input); err != nil {
		return nil, false, err
	}
	if input.IdempotencyKey != "" {
		existing, err := s.orders.GetByIdempotencyKey(input.UserID, input.IdempotencyKey)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, true, nil
		}
	}

	var created *models.Order
	err := s.orders.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orders.WithTx(tx)
		productRepo := s.products.WithTx(tx)

		ids := make([]uint, 0, len(input.Items))
		for _, item := range input.Items {
			ids = append(ids, item.ProductID)
		}
		products, err := productRepo.ListByIDs(ids)
		if err != nil {
			return err
		}
		productMap := make(map[uint]models.Product, len(products))
		for _, product := range products {
			productMap[product.ID] = product
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(input.Items))
		for _, line := range input.Items {
			product, ok := productMap[line.ProductID]
			if !ok || !product.IsActive {
				return ErrProductNotFound
			}
			affected, err := productRepo.DecrementStock(product.ID, line.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrInsufficientStock
			}
			lineTotal := product.Price.Mul(line.Quantity)
			total = total.Add(lineTotal.Decimal)
			items = append(items, models.OrderItem{
				ProductID:  product.ID,
				SKU:        product.SKU,
				Name:       product.Name,
				UnitPrice:  product.Price,
				Quantity:   line.Quantity,
				TotalPrice: lineTotal,
			})
		}

		order := &models.Order{
			OrderNo:         generateOrderNo(),
			UserID:          input.UserID,
			CartID:          input.CartID,
			IdempotencyKey:  input.IdempotencyKey,
			Status:          constants.OrderStatusCreated,
			Currency:        s.currency,
			TotalAmount:     models.NewMoneyFromDecimal(total),
			FullName:        input.FullName,
			Email:           input.Email,
			ShippingAddress: input.ShippingAddress,
			PaymentMethod:   input.PaymentMethod,
			CardLast4:       input.CardLast4,
		}
		if err := orderRepo.Create(order, items); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return created, false, nil
}

// Get 订单详情
func (s *OrderService) Get(id uint) (*models.Order, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListByUser 用户订单列表
func (s *OrderService) ListByUser(userID uint) ([]models.Order, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	orders, err := s.orders.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func validateOrderInput(input *CreateOrderInput) error {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.ShippingAddress = strings.TrimSpace(input.ShippingAddress)
	input.PaymentMethod = strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	input.IdempotencyKey = strings.TrimSpace(input.IdempotencyKey)
	if input.PaymentMethod == "" {
		input.PaymentMethod = constants.PaymentMethodCard
	}
	if input.UserID == 0 || input.FullName == "" || input.Email == "" || input.ShippingAddress == "" {
		return ErrInvalidInput
	}
	if len(input.Items) == 0 {
		return ErrEmptyOrder
	}
	merged := make([]OrderItemInput, 0, len(input.Items))
	index := make(map[uint]int, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return ErrInvalidInput
		}
		if pos, ok := index[item.ProductID]; ok {
			merged[pos].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	input.Items = merged
	return nil
}

func generateOrderNo() string {
	return "FP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
}
