package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/chococraft/chococraft/internal/checkout"
	"github.com/chococraft/chococraft/internal/domain"
	"github.com/chococraft/chococraft/internal/webserver"
	"github.com/labstack/echo/v4"
)

// orderPayload mirrors the SPA checkout body. Client-supplied price and
// total fields are accepted for wire compatibility but never trusted;
// the checkout core recomputes everything from the catalog.
type orderPayload struct {
	UserID int64 `json:"user_id,string"`
	Items  []struct {
		ProductID int64   `json:"product_id"`
		Quantity  int     `json:"quantity"`
		Price     float64 `json:"price"` // ignored
	} `json:"items"`
	Total            float64           `json:"total"` // ignored
	Shipping         checkout.Shipping `json:"shipping"`
	PaymentMethod    string            `json:"payment_method"`
	IdempotencyToken string            `json:"idempotency_token"`
}

type statusPayload struct {
	Status string `json:"status" validate:"required"`
}

func registerOrderRoutes() {
	webserver.ApiPOST("/orders", placeOrder)
	webserver.ApiGET("/orders", listAllOrders, webserver.RequireAdmin)
	webserver.ApiGET("/orders/:userId", listUserOrders)
	webserver.ApiPUT("/orders/:orderId/status", updateOrderStatus, webserver.RequireAdmin)
}

func placeOrder(c echo.Context) error {
	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", nil)
	}

	input := checkout.PlaceOrderInput{
		AuthUserID:    webserver.CurrentUserID(c),
		UserID:        payload.UserID,
		Shipping:      payload.Shipping,
		PaymentMethod: strings.TrimSpace(payload.PaymentMethod),
		Token:         strings.TrimSpace(payload.IdempotencyToken),
	}
	for _, item := range payload.Items {
		input.Items = append(input.Items, checkout.Line{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	receipt, err := checkoutSvc.PlaceOrder(c.Request().Context(), input)
	if err != nil {
		return failCheckout(c, err)
	}
	return created(c, receipt)
}

func listAllOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Order{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	var orders []domain.Order
	if err := db.Preload("Items").Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, orders, total, page, pageSize)
}

func listUserOrders(c echo.Context) error {
	uid, err := parseIDParam(c, "userId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	if uid != webserver.CurrentUserID(c) && !webserver.IsAdmin(c) {
		return fail(c, http.StatusForbidden, "PERMISSION_DENIED", "Not allowed to view these orders", nil)
	}

	orders, err := checkoutSvc.Orders().ListByUser(c.Request().Context(), uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return ok(c, orders)
}

func updateOrderStatus(c echo.Context) error {
	orderID, err := parseIDParam(c, "orderId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	var payload statusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	order, err := checkoutSvc.TransitionStatus(c.Request().Context(), orderID, strings.TrimSpace(payload.Status))
	if err != nil {
		return failCheckout(c, err)
	}
	adminLog(c, "order.status", fmt.Sprintf("order %d -> %s", orderID, order.Status))
	return ok(c, order)
}
