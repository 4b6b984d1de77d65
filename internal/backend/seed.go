package backend

import (
	"strings"

	"github.com/futbolprime-next/internal/constants"
	"github.com/futbolprime-next/internal/models"
	"github.com/futbolprime-next/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// SeedResult 初始化数据结果
type SeedResult struct {
	Products    int
	UserCreated bool
}

// DefaultCatalog 默认商品目录
func DefaultCatalog() []models.Product {
	return []models.Product{
		{
			SKU: "SKU001", Name: "Balón Adidas Pro", Brand: "Adidas", Type: "balon",
			Description: "Balón profesional con alta durabilidad y control de vuelo.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(45990)),
			Size:        "5", Color: "Blanco", Stock: 10, IsActive: true, SortOrder: 30,
		},
		{
			SKU: "SKU002", Name: "Camiseta AC Milan", Brand: "Puma", Type: "camiseta",
			Description: "Camiseta oficial del AC Milan con tejido transpirable.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(77990)),
			Size:        "M", Color: "Roja y Negra", Stock: 15, IsActive: true, SortOrder: 20,
		},
		{
			SKU: "SKU003", Name: "Zapatillas Hombre Fútbol", Brand: "Nike", Type: "botin",
			Description: "Zapatillas con tracción avanzada y amortiguación ligera.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(89990)),
			Size:        "42", Color: "Rosa", Stock: 8, IsActive: true, SortOrder: 10,
		},
	}
}

// Seed 写入默认商品与演示用户，可重复执行
func Seed(products repository.ProductRepository, users repository.UserRepository, email, password string) (SeedResult, error) {
	result := SeedResult{}
	for _, item := range DefaultCatalog() {
		product := item
		if err := products.Upsert(&product); err != nil {
			return result, err
		}
		result.Products++
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return result, nil
	}
	if len(password) < constants.PasswordMinLength {
		return result, ErrInvalidInput
	}
	existing, err := users.GetByEmail(email)
	if err != nil {
		return result, err
	}
	if existing != nil {
		return result, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return result, err
	}
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Cliente FutbolPrime",
		Role:         constants.UserRoleCustomer,
		Status:       "active",
	}
	if err := users.Create(user); err != nil {
		return result, err
	}
	result.UserCreated = true
	return result, nil
}
