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

type bannerPayload struct {
	Title   string `json:"title" validate:"omitempty,max=200"`
	Image   string `json:"image" validate:"required,max=1024"`
	Link    string `json:"link" validate:"omitempty,max=1024"`
	Sort    int    `json:"sort"`
	Visible *bool  `json:"visible"`
}

type updatePayload struct {
	Title   string `json:"title" validate:"required,max=200"`
	Body    string `json:"body" validate:"required,max=4096"`
	Visible *bool  `json:"visible"`
}

type contactMessagePayload struct {
	Name    string `json:"name" validate:"required,max=128"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=4096"`
}

func registerContentRoutes() {
	webserver.PubGET("/banners", listBanners)
	webserver.ApiPOST("/banners", createBanner, webserver.RequireAdmin)
	webserver.ApiPUT("/banners/:id", updateBanner, webserver.RequireAdmin)
	webserver.ApiDELETE("/banners/:id", deleteBanner, webserver.RequireAdmin)

	webserver.PubGET("/updates", listUpdates)
	webserver.ApiPOST("/updates", createUpdate, webserver.RequireAdmin)
	webserver.ApiDELETE("/updates/:id", deleteUpdate, webserver.RequireAdmin)

	webserver.PubGET("/about", getAboutUs)
	webserver.ApiPUT("/about", saveAboutUs, webserver.RequireAdmin)

	webserver.PubGET("/contact-info", getContactInfo)
	webserver.ApiPUT("/contact-info", saveContactInfo, webserver.RequireAdmin)

	webserver.PubPOST("/contact-messages", createContactMessage)
	webserver.ApiGET("/contact-messages", listContactMessages, webserver.RequireAdmin)
	webserver.ApiDELETE("/contact-messages/:id", deleteContactMessage, webserver.RequireAdmin)
}

func listBanners(c echo.Context) error {
	var rows []domain.Banner
	if err := GetDB(c).Where("visible = ?", true).Order("sort ASC, id ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query banners", err.Error())
	}
	return ok(c, rows)
}

func createBanner(c echo.Context) error {
	var payload bannerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse banner", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	visible := true
	if payload.Visible != nil {
		visible = *payload.Visible
	}
	b := domain.Banner{
		Title:     strings.TrimSpace(payload.Title),
		Image:     strings.TrimSpace(payload.Image),
		Link:      strings.TrimSpace(payload.Link),
		Sort:      payload.Sort,
		Visible:   visible,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&b).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create banner", err.Error())
	}
	adminLog(c, "banner.create", fmt.Sprintf("banner %d", b.ID))
	return created(c, b)
}

func updateBanner(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid banner ID", nil)
	}
	var b domain.Banner
	if err := GetDB(c).Where("id = ?", id).First(&b).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Banner not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query banner", err.Error())
	}

	var payload bannerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse banner", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	b.Title = strings.TrimSpace(payload.Title)
	b.Image = strings.TrimSpace(payload.Image)
	b.Link = strings.TrimSpace(payload.Link)
	b.Sort = payload.Sort
	if payload.Visible != nil {
		b.Visible = *payload.Visible
	}
	b.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&b).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update banner", err.Error())
	}
	adminLog(c, "banner.update", fmt.Sprintf("banner %d", b.ID))
	return ok(c, b)
}

func deleteBanner(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid banner ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Banner{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete banner", err.Error())
	}
	adminLog(c, "banner.delete", fmt.Sprintf("banner %d", id))
	return ok(c, map[string]interface{}{"id": id})
}

func listUpdates(c echo.Context) error {
	var rows []domain.Update
	if err := GetDB(c).Where("visible = ?", true).Order("created_at DESC").Limit(50).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query updates", err.Error())
	}
	return ok(c, rows)
}

func createUpdate(c echo.Context) error {
	var payload updatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse update", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	visible := true
	if payload.Visible != nil {
		visible = *payload.Visible
	}
	u := domain.Update{
		Title:     strings.TrimSpace(payload.Title),
		Body:      payload.Body,
		Visible:   visible,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&u).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create update", err.Error())
	}
	adminLog(c, "update.create", fmt.Sprintf("update %d", u.ID))
	return created(c, u)
}

func deleteUpdate(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid update ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Update{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete update", err.Error())
	}
	adminLog(c, "update.delete", fmt.Sprintf("update %d", id))
	return ok(c, map[string]interface{}{"id": id})
}

func getAboutUs(c echo.Context) error {
	var about domain.AboutUs
	err := GetDB(c).Order("id ASC").First(&about).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ok(c, domain.AboutUs{})
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query about page", err.Error())
	}
	return ok(c, about)
}

// saveAboutUs upserts the single about-us row.
func saveAboutUs(c echo.Context) error {
	var payload struct {
		Body string `json:"body" validate:"required,max=8192"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse about page", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var about domain.AboutUs
	err := GetDB(c).Order("id ASC").First(&about).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		about = domain.AboutUs{Body: payload.Body, UpdatedAt: time.Now()}
		if err := GetDB(c).Create(&about).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save about page", err.Error())
		}
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query about page", err.Error())
	} else {
		about.Body = payload.Body
		about.UpdatedAt = time.Now()
		if err := GetDB(c).Save(&about).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save about page", err.Error())
		}
	}
	adminLog(c, "about.save", "about page updated")
	return ok(c, about)
}

func getContactInfo(c echo.Context) error {
	var info domain.ContactInfo
	err := GetDB(c).Order("id ASC").First(&info).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ok(c, domain.ContactInfo{})
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query contact info", err.Error())
	}
	return ok(c, info)
}

func saveContactInfo(c echo.Context) error {
	var payload struct {
		Email   string `json:"email" validate:"omitempty,email"`
		Phone   string `json:"phone" validate:"omitempty,max=32"`
		Address string `json:"address" validate:"omitempty,max=512"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse contact info", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var info domain.ContactInfo
	err := GetDB(c).Order("id ASC").First(&info).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		info = domain.ContactInfo{
			Email:     strings.TrimSpace(payload.Email),
			Phone:     strings.TrimSpace(payload.Phone),
			Address:   strings.TrimSpace(payload.Address),
			UpdatedAt: time.Now(),
		}
		if err := GetDB(c).Create(&info).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save contact info", err.Error())
		}
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query contact info", err.Error())
	} else {
		info.Email = strings.TrimSpace(payload.Email)
		info.Phone = strings.TrimSpace(payload.Phone)
		info.Address = strings.TrimSpace(payload.Address)
		info.UpdatedAt = time.Now()
		if err := GetDB(c).Save(&info).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save contact info", err.Error())
		}
	}
	adminLog(c, "contact_info.save", "contact info updated")
	return ok(c, info)
}

func createContactMessage(c echo.Context) error {
	var payload contactMessagePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse message", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	msg := domain.ContactMessage{
		Name:      strings.TrimSpace(payload.Name),
		Email:     strings.TrimSpace(payload.Email),
		Message:   payload.Message,
		CreatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&msg).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save message", err.Error())
	}
	return created(c, map[string]interface{}{"id": msg.ID})
}

func listContactMessages(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.ContactMessage{})
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query messages", err.Error())
	}

	var rows []domain.ContactMessage
	if err := db.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query messages", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func deleteContactMessage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid message ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.ContactMessage{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete message", err.Error())
	}
	adminLog(c, "contact_message.delete", fmt.Sprintf("message %d", id))
	return ok(c, map[string]interface{}{"id": id})
}
