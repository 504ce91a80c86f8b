package api

import (
	"errors"
	"net/http"

	"github.com/chococraft/chococraft/internal/domain"
	"github.com/chococraft/chococraft/internal/webserver"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type favoritePayload struct {
	ProductID int64 `json:"product_id" validate:"required"`
}

type favoriteRow struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
}

func registerFavoriteRoutes() {
	webserver.ApiGET("/favorites", listFavorites)
	webserver.ApiPOST("/favorites", addFavorite)
	webserver.ApiDELETE("/favorites/:productId", removeFavorite)
}

func listFavorites(c echo.Context) error {
	uid := webserver.CurrentUserID(c)

	var rows []favoriteRow
	err := GetDB(c).Model(&domain.Favorite{}).
		Select("favorites.product_id, products.name, products.image, products.price").
		Joins("JOIN products ON products.id = favorites.product_id").
		Where("favorites.user_id = ?", uid).
		Order("favorites.id DESC").
		Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query favorites", err.Error())
	}
	return ok(c, rows)
}

func addFavorite(c echo.Context) error {
	var payload favoritePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse favorite", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	uid := webserver.CurrentUserID(c)

	var p domain.Product
	if err := GetDB(c).First(&p, payload.ProductID).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var exists int64
	GetDB(c).Model(&domain.Favorite{}).
		Where("user_id = ? AND product_id = ?", uid, payload.ProductID).
		Count(&exists)
	if exists > 0 {
		return fail(c, http.StatusConflict, "ALREADY_EXISTS", "Product already in favorites", nil)
	}

	fav := domain.Favorite{UserID: uid, ProductID: payload.ProductID}
	if err := GetDB(c).Create(&fav).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to add favorite", err.Error())
	}
	return created(c, fav)
}

func removeFavorite(c echo.Context) error {
	pid, err := parseIDParam(c, "productId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	uid := webserver.CurrentUserID(c)
	if err := GetDB(c).Where("user_id = ? AND product_id = ?", uid, pid).
		Delete(&domain.Favorite{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to remove favorite", err.Error())
	}
	return ok(c, map[string]interface{}{"product_id": pid})
}
