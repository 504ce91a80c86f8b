// Package checkout implements the order placement core: server-side
// pricing, atomic stock reservation, order persistence, cart clearing
// and the order status state machine.
package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/chococraft/chococraft/internal/domain"
	"github.com/chococraft/chococraft/pkg/common"
	"github.com/chococraft/chococraft/pkg/metrics"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultTokenTTL bounds how long a checkout idempotency token is
// honoured before the cleanup job may remove it.
const DefaultTokenTTL = 24 * time.Hour

var errDuplicateToken = errors.New("checkout token already committed")

var paymentMethods = map[string]bool{
	domain.PaymentCashOnDelivery: true,
	domain.PaymentCard:           true,
	domain.PaymentUPI:            true,
}

// Line is one requested (product, quantity) pair.
type Line struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Shipping is the address snapshot captured on the order.
type Shipping struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

// PlaceOrderInput carries one checkout attempt. AuthUserID is the
// identity decoded from the bearer token; UserID is the order owner the
// client named. The two must match.
type PlaceOrderInput struct {
	AuthUserID    int64
	UserID        int64
	Items         []Line
	Shipping      Shipping
	PaymentMethod string
	Token         string // optional client idempotency token
}

// Receipt is the client-visible result of a successful checkout.
type Receipt struct {
	OrderID int64   `json:"order_id,string"`
	Total   float64 `json:"total"`
	Status  string  `json:"status"`
}

// Service coordinates the multi-entity checkout mutation. All stock
// decrements, the order insert and the cart clear happen inside one
// database transaction.
type Service struct {
	db       *gorm.DB
	products ProductRepository
	carts    CartRepository
	orders   OrderRepository
	tokens   TokenRepository
	tokenTTL time.Duration
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		db:       db,
		products: &GormProductRepository{DB: db},
		carts:    &GormCartRepository{DB: db},
		orders:   &GormOrderRepository{DB: db},
		tokens:   &GormTokenRepository{DB: db},
		tokenTTL: DefaultTokenTTL,
	}
}

// Products exposes the catalog repository bound to the service DB.
func (s *Service) Products() ProductRepository { return s.products }

// Carts exposes the cart repository bound to the service DB.
func (s *Service) Carts() CartRepository { return s.carts }

// Orders exposes the order repository bound to the service DB.
func (s *Service) Orders() OrderRepository { return s.orders }

// Tokens exposes the idempotency token repository bound to the service DB.
func (s *Service) Tokens() TokenRepository { return s.tokens }

func (in *PlaceOrderInput) validate() error {
	if len(in.Items) == 0 {
		return &ValidationError{Field: "items", Message: "at least one item is required"}
	}
	for _, line := range in.Items {
		if line.Quantity < 1 {
			return &ValidationError{Field: "items.quantity", Message: "quantity must be >= 1"}
		}
	}
	ship := []struct {
		field string
		value string
	}{
		{"shipping.name", in.Shipping.Name},
		{"shipping.address", in.Shipping.Address},
		{"shipping.city", in.Shipping.City},
		{"shipping.state", in.Shipping.State},
		{"shipping.zip", in.Shipping.Zip},
	}
	for _, f := range ship {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Message: "required"}
		}
	}
	if !paymentMethods[in.PaymentMethod] {
		return &ValidationError{Field: "payment_method", Message: "unsupported payment method"}
	}
	return nil
}

// PlaceOrder verifies availability, commits a stock reservation, persists
// the order and clears the user's cart atomically. Any precondition
// failure leaves stock, orders and cart untouched.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*Receipt, error) {
	if in.AuthUserID != in.UserID {
		return nil, &PermissionDeniedError{Message: "order user does not match authenticated user"}
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	// Replayed attempt: hand back the stored receipt without touching stock.
	if in.Token != "" {
		if receipt, err := s.replayedReceipt(ctx, in.UserID, in.Token); err != nil {
			return nil, err
		} else if receipt != nil {
			return receipt, nil
		}
	}

	var receipt *Receipt
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := &GormProductRepository{DB: tx}
		orders := &GormOrderRepository{DB: tx}
		carts := &GormCartRepository{DB: tx}
		tokens := &GormTokenRepository{DB: tx}

		order := &domain.Order{
			ID:            common.UUIDint64(),
			UserID:        in.UserID,
			Status:        domain.OrderStatusPending,
			PaymentMethod: in.PaymentMethod,
			ShipName:      strings.TrimSpace(in.Shipping.Name),
			ShipAddress:   strings.TrimSpace(in.Shipping.Address),
			ShipCity:      strings.TrimSpace(in.Shipping.City),
			ShipState:     strings.TrimSpace(in.Shipping.State),
			ShipZip:       strings.TrimSpace(in.Shipping.Zip),
		}

		// Price every line from the live product row, then reserve stock
		// with a guarded decrement. A guard miss aborts the whole
		// transaction, rolling back every decrement already applied.
		var total float64
		for _, line := range in.Items {
			p, err := products.GetByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Entity: "product", ID: line.ProductID}
				}
				return errors.Wrap(err, "fetch product")
			}

			reserved, err := products.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !reserved {
				avail, aErr := products.Available(ctx, line.ProductID)
				if aErr != nil {
					avail = p.Stock
				}
				return &InsufficientStockError{
					ProductID: line.ProductID,
					Available: avail,
					Requested: line.Quantity,
				}
			}

			subtotal := p.Price * float64(line.Quantity)
			total += subtotal
			order.Items = append(order.Items, domain.OrderItem{
				ProductID:    p.ID,
				ProductName:  p.Name,
				ProductImage: p.Image,
				UnitPrice:    p.Price,
				Quantity:     line.Quantity,
				Subtotal:     subtotal,
			})
		}

		order.TotalAmount = total
		if err := orders.Create(ctx, order); err != nil {
			return errors.Wrap(err, "create order")
		}

		if err := carts.DeleteByUser(ctx, in.UserID); err != nil {
			return errors.Wrap(err, "clear cart")
		}

		receipt = &Receipt{OrderID: order.ID, Total: total, Status: order.Status}

		if in.Token != "" {
			snapshot, _ := jsoniter.MarshalToString(receipt)
			token := &domain.CheckoutToken{
				UserID:    in.UserID,
				Token:     in.Token,
				OrderID:   order.ID,
				Receipt:   snapshot,
				ExpiresAt: time.Now().Add(s.tokenTTL),
			}
			if err := tokens.Create(ctx, token); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// A concurrent attempt with the same token committed
					// first. Roll everything back and serve its receipt.
					return errDuplicateToken
				}
				return errors.Wrap(err, "create checkout token")
			}
		}
		return nil
	})

	if txErr != nil {
		if errors.Is(txErr, errDuplicateToken) {
			replay, err := s.replayedReceipt(ctx, in.UserID, in.Token)
			if err != nil {
				return nil, err
			}
			if replay == nil {
				return nil, errors.New("checkout token taken but no receipt stored")
			}
			return replay, nil
		}
		var stockErr *InsufficientStockError
		if errors.As(txErr, &stockErr) {
			metrics.IncrCounter(metrics.MetricOrdersRejectedStock, 1)
		}
		return nil, txErr
	}

	metrics.IncrCounter(metrics.MetricOrdersPlaced, 1)
	zap.L().Info("order placed",
		zap.Int64("user_id", in.UserID),
		zap.Int64("order_id", receipt.OrderID),
		zap.Float64("total", receipt.Total),
		zap.Int("lines", len(in.Items)),
	)
	return receipt, nil
}

// replayedReceipt returns the receipt stored for (userID, token), or nil
// when the token has not been used yet.
func (s *Service) replayedReceipt(ctx context.Context, userID int64, token string) (*Receipt, error) {
	row, err := s.tokens.GetByUserToken(ctx, userID, token)
	if err != nil {
		return nil, errors.Wrap(err, "lookup checkout token")
	}
	if row == nil {
		return nil, nil
	}
	var receipt Receipt
	if err := jsoniter.UnmarshalFromString(row.Receipt, &receipt); err != nil {
		// Snapshot unreadable; rebuild from the order row.
		order, oErr := s.orders.GetByID(ctx, row.OrderID)
		if oErr != nil {
			return nil, errors.Wrap(oErr, "rebuild receipt")
		}
		receipt = Receipt{OrderID: order.ID, Total: order.TotalAmount, Status: order.Status}
	}
	zap.L().Info("checkout replay detected",
		zap.Int64("user_id", userID),
		zap.Int64("order_id", receipt.OrderID),
	)
	return &receipt, nil
}

// TransitionStatus moves an order along the status graph and notifies the
// order owner. Illegal edges fail with InvalidTransitionError.
func (s *Service) TransitionStatus(ctx context.Context, orderID int64, next string) (*domain.Order, error) {
	if !ValidStatus(next) {
		return nil, &InvalidTransitionError{From: "", To: next}
	}

	var updated *domain.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := &GormOrderRepository{DB: tx}
		order, err := orders.GetByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "order", ID: orderID}
			}
			return errors.Wrap(err, "fetch order")
		}
		if !CanTransition(order.Status, next) {
			return &InvalidTransitionError{From: order.Status, To: next}
		}
		if err := orders.UpdateStatus(ctx, orderID, next); err != nil {
			return errors.Wrap(err, "update order status")
		}

		notice := &domain.Notification{
			UserID: order.UserID,
			Title:  "Order update",
			Body:   "Your order is now " + next,
		}
		if err := tx.Create(notice).Error; err != nil {
			return errors.Wrap(err, "create notification")
		}

		order.Status = next
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("order status changed",
		zap.Int64("order_id", orderID),
		zap.String("status", next),
	)
	return updated, nil
}

// ReplaceCart replaces a user's entire cart with items. Every product
// must exist or nothing is applied. Stock is not checked here; checkout
// is the sole enforcement point.
func (s *Service) ReplaceCart(ctx context.Context, userID int64, items []Line) error {
	rows := make([]*domain.CartItem, 0, len(items))
	for _, line := range items {
		if line.Quantity < 1 {
			return &ValidationError{Field: "items.quantity", Message: "quantity must be >= 1"}
		}
		if _, err := s.products.GetByID(ctx, line.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "product", ID: line.ProductID}
			}
			return errors.Wrap(err, "fetch product")
		}
		rows = append(rows, &domain.CartItem{
			UserID:    userID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	return s.carts.ReplaceAll(ctx, userID, rows)
}
