package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chococraft/chococraft/internal/domain"
	"github.com/chococraft/chococraft/internal/webserver"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type productPayload struct {
	Name          string   `json:"name" validate:"required,min=1,max=200"`
	Description   string   `json:"description" validate:"omitempty,max=2048"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	OriginalPrice *float64 `json:"original_price" validate:"omitempty,gt=0"`
	Stock         *int     `json:"stock" validate:"required,gte=0"`
	CategoryID    *int64   `json:"category_id"`
	Image         string   `json:"image" validate:"omitempty,max=1024"`
	Visible       *bool    `json:"visible"`
}

// registerProductRoutes registers public catalog reads and admin CRUD.
func registerProductRoutes() {
	webserver.PubGET("/products", listProducts)
	webserver.PubGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct, webserver.RequireAdmin)
	webserver.ApiPUT("/products/:id", updateProduct, webserver.RequireAdmin)
	webserver.ApiDELETE("/products/:id", deleteProduct, webserver.RequireAdmin)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	q := strings.TrimSpace(c.QueryParam("q"))
	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	// whitelist sort columns to avoid SQL injection
	allowed := map[string]string{
		"id":         "id",
		"name":       "name",
		"price":      "price",
		"created_at": "created_at",
	}
	sortCol, okCol := allowed[sortField]
	if !okCol || sortCol == "" {
		sortCol = "id"
	}

	db := GetDB(c).Model(&domain.Product{}).Where("visible = ?", true)
	if q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("name ILIKE ?", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}
	if cid, err := strconv.ParseInt(c.QueryParam("category"), 10, 64); err == nil && cid > 0 {
		db = db.Where("category_id = ?", cid)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := db.Order(sortCol + " " + order).Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, p)
}

func validateProductPayload(payload *productPayload) (string, bool) {
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return "Name is required", false
	}
	if payload.OriginalPrice != nil && payload.Price > *payload.OriginalPrice {
		return "Price must not exceed original price", false
	}
	return "", true
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if msg, valid := validateProductPayload(&payload); !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	visible := true
	if payload.Visible != nil {
		visible = *payload.Visible
	}
	now := time.Now()
	p := domain.Product{
		Name:          payload.Name,
		Description:   payload.Description,
		Price:         payload.Price,
		OriginalPrice: payload.OriginalPrice,
		Stock:         *payload.Stock,
		CategoryID:    payload.CategoryID,
		Image:         strings.TrimSpace(payload.Image),
		Visible:       visible,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	adminLog(c, "product.create", fmt.Sprintf("product %d (%s)", p.ID, p.Name))
	return created(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if msg, valid := validateProductPayload(&payload); !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	p.Name = payload.Name
	p.Description = payload.Description
	p.Price = payload.Price
	p.OriginalPrice = payload.OriginalPrice
	p.Stock = *payload.Stock
	p.CategoryID = payload.CategoryID
	p.Image = strings.TrimSpace(payload.Image)
	if payload.Visible != nil {
		p.Visible = *payload.Visible
	}
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	adminLog(c, "product.update", fmt.Sprintf("product %d (%s)", p.ID, p.Name))
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	// Orders keep price snapshots, but the reference itself must stay
	// resolvable for order history views.
	var refs int64
	GetDB(c).Model(&domain.OrderItem{}).Where("product_id = ?", id).Count(&refs)
	if refs > 0 {
		return fail(c, http.StatusConflict, "PRODUCT_IN_USE", "Product is referenced by orders and cannot be deleted",
			map[string]interface{}{"order_items": refs})
	}

	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	adminLog(c, "product.delete", fmt.Sprintf("product %d", id))
	return ok(c, map[string]interface{}{"id": id})
}
