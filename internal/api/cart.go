package api

import (
	"net/http"

	"github.com/chococraft/chococraft/internal/checkout"
	"github.com/chococraft/chococraft/internal/domain"
	"github.com/chococraft/chococraft/internal/webserver"
	"github.com/labstack/echo/v4"
)

type cartPayload struct {
	Items []checkout.Line `json:"items" validate:"required"`
}

// cartRow is a cart item joined with live product fields for display.
type cartRow struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
	Quantity  int     `json:"quantity"`
}

func registerCartRoutes() {
	webserver.ApiGET("/cart", getCart)
	webserver.ApiPUT("/cart", saveCart)
	webserver.ApiDELETE("/cart", clearCart)
}

func getCart(c echo.Context) error {
	uid := webserver.CurrentUserID(c)

	var rows []cartRow
	err := GetDB(c).Model(&domain.CartItem{}).
		Select("cart_items.product_id, products.name, products.image, products.price, products.stock, cart_items.quantity").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", uid).
		Order("cart_items.id ASC").
		Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query cart", err.Error())
	}
	return ok(c, rows)
}

// saveCart replaces the user's entire cart. Partial application never
// happens: an unknown product rejects the whole payload.
func saveCart(c echo.Context) error {
	var payload cartPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart", nil)
	}

	uid := webserver.CurrentUserID(c)
	if err := checkoutSvc.ReplaceCart(c.Request().Context(), uid, payload.Items); err != nil {
		return failCheckout(c, err)
	}
	return ok(c, map[string]interface{}{"items": len(payload.Items)})
}

func clearCart(c echo.Context) error {
	uid := webserver.CurrentUserID(c)
	if err := GetDB(c).Where("user_id = ?", uid).Delete(&domain.CartItem{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to clear cart", err.Error())
	}
	return ok(c, map[string]interface{}{"cleared": true})
}
