package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chococraft/chococraft/internal/domain"
	"github.com/chococraft/chococraft/internal/webserver"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type categoryPayload struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Image   string `json:"image" validate:"omitempty,max=1024"`
	Sort    int    `json:"sort"`
	Visible *bool  `json:"visible"`
}

func registerCategoryRoutes() {
	webserver.PubGET("/categories", listCategories)
	webserver.ApiPOST("/categories", createCategory, webserver.RequireAdmin)
	webserver.ApiPUT("/categories/:id", updateCategory, webserver.RequireAdmin)
	webserver.ApiDELETE("/categories/:id", deleteCategory, webserver.RequireAdmin)

	webserver.PubGET("/special-categories", listSpecialCategories)
	webserver.ApiPOST("/special-categories", createSpecialCategory, webserver.RequireAdmin)
	webserver.ApiPUT("/special-categories/:id", updateSpecialCategory, webserver.RequireAdmin)
	webserver.ApiDELETE("/special-categories/:id", deleteSpecialCategory, webserver.RequireAdmin)
}

func listCategories(c echo.Context) error {
	var rows []domain.Category
	if err := GetDB(c).Where("visible = ?", true).Order("sort ASC, id ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return ok(c, rows)
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	visible := true
	if payload.Visible != nil {
		visible = *payload.Visible
	}
	cat := domain.Category{
		Name:      strings.TrimSpace(payload.Name),
		Image:     strings.TrimSpace(payload.Image),
		Sort:      payload.Sort,
		Visible:   visible,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&cat).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create category", err.Error())
	}
	adminLog(c, "category.create", fmt.Sprintf("category %d (%s)", cat.ID, cat.Name))
	return created(c, cat)
}

func updateCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var cat domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&cat).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}

	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	cat.Name = strings.TrimSpace(payload.Name)
	cat.Image = strings.TrimSpace(payload.Image)
	cat.Sort = payload.Sort
	if payload.Visible != nil {
		cat.Visible = *payload.Visible
	}
	cat.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&cat).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update category", err.Error())
	}
	adminLog(c, "category.update", fmt.Sprintf("category %d (%s)", cat.ID, cat.Name))
	return ok(c, cat)
}

func deleteCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}

	// Products keep their rows; the category reference is detached.
	if err := GetDB(c).Model(&domain.Product{}).Where("category_id = ?", id).
		Update("category_id", nil).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to detach products", err.Error())
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Category{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete category", err.Error())
	}
	adminLog(c, "category.delete", fmt.Sprintf("category %d", id))
	return ok(c, map[string]interface{}{"id": id})
}

func listSpecialCategories(c echo.Context) error {
	var rows []domain.SpecialCategory
	if err := GetDB(c).Where("visible = ?", true).Order("sort ASC, id ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query special categories", err.Error())
	}
	return ok(c, rows)
}

func createSpecialCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse special category", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	visible := true
	if payload.Visible != nil {
		visible = *payload.Visible
	}
	sc := domain.SpecialCategory{
		Name:      strings.TrimSpace(payload.Name),
		Image:     strings.TrimSpace(payload.Image),
		Sort:      payload.Sort,
		Visible:   visible,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&sc).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create special category", err.Error())
	}
	adminLog(c, "special_category.create", fmt.Sprintf("special category %d (%s)", sc.ID, sc.Name))
	return created(c, sc)
}

func updateSpecialCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid special category ID", nil)
	}
	var sc domain.SpecialCategory
	if err := GetDB(c).Where("id = ?", id).First(&sc).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Special category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query special category", err.Error())
	}

	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse special category", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	sc.Name = strings.TrimSpace(payload.Name)
	sc.Image = strings.TrimSpace(payload.Image)
	sc.Sort = payload.Sort
	if payload.Visible != nil {
		sc.Visible = *payload.Visible
	}
	sc.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&sc).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update special category", err.Error())
	}
	adminLog(c, "special_category.update", fmt.Sprintf("special category %d (%s)", sc.ID, sc.Name))
	return ok(c, sc)
}

func deleteSpecialCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid special category ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.SpecialCategory{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete special category", err.Error())
	}
	adminLog(c, "special_category.delete", fmt.Sprintf("special category %d", id))
	return ok(c, map[string]interface{}{"id": id})
}
