package checkout

import (
	"context"
	"time"

	"github.com/chococraft/chococraft/internal/domain"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ProductRepository is the catalog surface the checkout core depends on.
type ProductRepository interface {
	// GetByID retrieves a product by id
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// Available returns the current stock of a product
	Available(ctx context.Context, id int64) (int, error)

	// DecrementStock applies "stock = stock - qty where stock >= qty" and
	// reports whether the guard matched
	DecrementStock(ctx context.Context, id int64, qty int) (bool, error)

	// RestoreStock re-increments stock by qty
	RestoreStock(ctx context.Context, id int64, qty int) error
}

// CartRepository is the cart surface the checkout core depends on.
type CartRepository interface {
	// ListByUser returns all cart rows for a user
	ListByUser(ctx context.Context, userID int64) ([]*domain.CartItem, error)

	// DeleteByUser removes all cart rows for a user
	DeleteByUser(ctx context.Context, userID int64) error

	// ReplaceAll deletes the user's cart rows and inserts items atomically
	ReplaceAll(ctx context.Context, userID int64, items []*domain.CartItem) error
}

// OrderRepository handles order persistence.
type OrderRepository interface {
	// Create inserts an order together with its line items
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order with its items
	GetByID(ctx context.Context, id int64) (*domain.Order, error)

	// ListByUser returns a user's orders with items, newest first
	ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error)

	// UpdateStatus sets the status of an order
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// TokenRepository handles checkout idempotency tokens.
type TokenRepository interface {
	// Create inserts a token row; the unique (user_id, token) index
	// rejects a second insert for the same attempt
	Create(ctx context.Context, token *domain.CheckoutToken) error

	// GetByUserToken retrieves a token row, nil when absent
	GetByUserToken(ctx context.Context, userID int64, token string) (*domain.CheckoutToken, error)

	// DeleteExpired removes tokens past their expiry
	DeleteExpired(ctx context.Context) (int64, error)
}

// GormProductRepository is the GORM implementation of ProductRepository.
type GormProductRepository struct {
	DB *gorm.DB
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProductRepository) Available(ctx context.Context, id int64) (int, error) {
	var p domain.Product
	if err := r.DB.WithContext(ctx).Select("stock").First(&p, id).Error; err != nil {
		return 0, err
	}
	return p.Stock, nil
}

func (r *GormProductRepository) DecrementStock(ctx context.Context, id int64, qty int) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "decrement stock")
	}
	return res.RowsAffected > 0, nil
}

func (r *GormProductRepository) RestoreStock(ctx context.Context, id int64, qty int) error {
	err := r.DB.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
	return errors.Wrap(err, "restore stock")
}

// GormCartRepository is the GORM implementation of CartRepository.
type GormCartRepository struct {
	DB *gorm.DB
}

func (r *GormCartRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.CartItem, error) {
	var items []*domain.CartItem
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *GormCartRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.CartItem{}).Error
}

func (r *GormCartRepository) ReplaceAll(ctx context.Context, userID int64, items []*domain.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

// GormOrderRepository is the GORM implementation of OrderRepository.
type GormOrderRepository struct {
	DB *gorm.DB
}

func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := r.DB.WithContext(ctx).Preload("Items").First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormOrderRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.DB.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// GormTokenRepository is the GORM implementation of TokenRepository.
type GormTokenRepository struct {
	DB *gorm.DB
}

func (r *GormTokenRepository) Create(ctx context.Context, token *domain.CheckoutToken) error {
	return r.DB.WithContext(ctx).Create(token).Error
}

func (r *GormTokenRepository) GetByUserToken(ctx context.Context, userID int64, token string) (*domain.CheckoutToken, error) {
	var t domain.CheckoutToken
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&domain.CheckoutToken{})
	return res.RowsAffected, res.Error
}
