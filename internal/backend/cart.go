package backend

import (
	"errors"

	"github.com/futbolprime-next/internal/models"
	"github.com/futbolprime-next/internal/repository"

	"gorm.io/gorm"
)

// AddCartItemInput 加购参数
type AddCartItemInput struct {
	UserID    uint
	ProductID uint
	Quantity  int
}

// CartService 购物车服务
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(carts repository.CartRepository, products repository.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// GetByUser 获取用户购物车，首次访问时创建
func (s *CartService) GetByUser(userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	created, err := s.carts.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}
	cart, err := s.carts.GetByID(created.ID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

// Owner 返回购物车所属用户
func (s *CartService) Owner(cartID uint) (uint, error) {
	cart, err := s.carts.GetByID(cartID)
	if err != nil {
		return 0, err
	}
	if cart == nil {
		return 0, ErrCartNotFound
	}
	return cart.UserID, nil
}

// ItemOwner 返回购物车项所属用户
func (s *CartService) ItemOwner(itemID uint) (uint, error) {
	item, err := s.carts.GetItem(itemID)
	if err != nil {
		return 0, err
	}
	if item == nil {
		return 0, ErrCartItemNotFound
	}
	return s.Owner(item.CartID)
}

// AddItem 加购，同一商品合并数量
func (s *CartService) AddItem(input AddCartItemInput) (*models.CartItem, error) {
	if input.UserID == 0 || input.ProductID == 0 {
		return nil, ErrInvalidInput
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	var result *models.CartItem
	err := s.carts.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.carts.WithTx(tx)
		productRepo := s.products.WithTx(tx)

		product, err := productRepo.GetByID(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil || !product.IsActive {
			return ErrProductNotFound
		}
		cart, err := cartRepo.GetOrCreateByUser(input.UserID)
		if err != nil {
			return err
		}
		existing, err := cartRepo.GetItemByProduct(cart.ID, product.ID)
		if err != nil {
			return err
		}
		quantity := input.Quantity
		if existing != nil {
			quantity += existing.Quantity
		}
		if quantity > product.Stock {
			return ErrInsufficientStock
		}
		if existing != nil {
			if err := cartRepo.UpdateItemQuantity(existing.ID, quantity); err != nil {
				return err
			}
			existing.Quantity = quantity
			existing.Product = product
			result = existing
			return nil
		}
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  quantity,
		}
		if err := cartRepo.CreateItem(item); err != nil {
			return err
		}
		item.Product = product
		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateItem 修改购物车项数量
func (s *CartService) UpdateItem(itemID uint, quantity int) (*models.CartItem, error) {
	if itemID == 0 || quantity < 1 {
		return nil, ErrInvalidInput
	}
	item, err := s.carts.GetItem(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	if item.Product == nil {
		return nil, ErrProductNotFound
	}
	if quantity > item.Product.Stock {
		return nil, ErrInsufficientStock
	}
	if err := s.carts.UpdateItemQuantity(item.ID, quantity); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	return item, nil
}

// RemoveProduct 删除购物车中的商品
func (s *CartService) RemoveProduct(cartID, productID uint) error {
	if cartID == 0 || productID == 0 {
		return ErrInvalidInput
	}
	affected, err := s.carts.DeleteByCartAndProduct(cartID, productID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// Empty 清空购物车
func (s *CartService) Empty(cartID uint) error {
	if cartID == 0 {
		return ErrInvalidInput
	}
	cart, err := s.carts.GetByID(cartID)
	if err != nil {
		return err
	}
	if cart == nil {
		return ErrCartNotFound
	}
	return s.carts.ClearByCart(cartID)
}

// IsNotFound 是否为资源不存在类错误
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCartNotFound) ||
		errors.Is(err, ErrCartItemNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}
