// Package api contains the REST handlers for the storefront and the
// admin back-office.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/chococraft/chococraft/config"
	"github.com/chococraft/chococraft/internal/checkout"
	"github.com/chococraft/chococraft/internal/domain"
	"github.com/chococraft/chococraft/internal/webserver"
	"github.com/chococraft/chococraft/pkg/common"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	appConfig   *config.AppConfig
	checkoutSvc *checkout.Service
)

// RegisterRoutes wires every resource handler into the web server.
func RegisterRoutes(cfg *config.AppConfig, svc *checkout.Service) {
	appConfig = cfg
	checkoutSvc = svc
	registerAuthRoutes()
	registerProductRoutes()
	registerCategoryRoutes()
	registerCartRoutes()
	registerFavoriteRoutes()
	registerOrderRoutes()
	registerNotificationRoutes()
	registerContentRoutes()
}

// GetDB returns the gorm handle injected by the web server.
func GetDB(c echo.Context) *gorm.DB {
	db, _ := c.Get("db").(*gorm.DB)
	return db.WithContext(c.Request().Context())
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": "OK",
		"data": data,
	})
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"code": "OK",
		"data": data,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	body := map[string]interface{}{
		"code":    code,
		"message": message,
	}
	if detail != nil {
		body["detail"] = detail
	}
	return c.JSON(status, body)
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":      "OK",
		"data":      rows,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func handleValidationError(c echo.Context, err error) error {
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", err.Error())
}

// failCheckout converts a checkout core error into the HTTP taxonomy:
// validation/stock/transition 400, permission 403, not-found 404,
// everything else 500.
func failCheckout(c echo.Context, err error) error {
	var (
		vErr *checkout.ValidationError
		nErr *checkout.NotFoundError
		sErr *checkout.InsufficientStockError
		pErr *checkout.PermissionDeniedError
		tErr *checkout.InvalidTransitionError
	)
	switch {
	case errors.As(err, &vErr):
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", vErr.Error(),
			map[string]interface{}{"field": vErr.Field})
	case errors.As(err, &nErr):
		return fail(c, http.StatusNotFound, "NOT_FOUND", nErr.Error(),
			map[string]interface{}{"entity": nErr.Entity, "id": nErr.ID})
	case errors.As(err, &sErr):
		return fail(c, http.StatusBadRequest, "INSUFFICIENT_STOCK", sErr.Error(),
			map[string]interface{}{
				"product_id": sErr.ProductID,
				"available":  sErr.Available,
				"requested":  sErr.Requested,
			})
	case errors.As(err, &pErr):
		return fail(c, http.StatusForbidden, "PERMISSION_DENIED", pErr.Error(), nil)
	case errors.As(err, &tErr):
		return fail(c, http.StatusBadRequest, "INVALID_TRANSITION", tErr.Error(),
			map[string]interface{}{"from": tErr.From, "to": tErr.To})
	default:
		zap.L().Error("request failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// adminLog records a back-office mutation for audit.
func adminLog(c echo.Context, action, detail string) {
	entry := domain.AdminLog{
		ID:       common.UUIDint64(),
		Username: webserver.CurrentUsername(c),
		Ip:       c.RealIP(),
		Action:   action,
		Detail:   detail,
		OptTime:  time.Now(),
	}
	if err := GetDB(c).Create(&entry).Error; err != nil {
		zap.L().Warn("failed to write admin log", zap.Error(err))
	}
}
