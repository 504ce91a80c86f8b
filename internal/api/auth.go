package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/chococraft/chococraft/internal/domain"
	"github.com/chococraft/chococraft/internal/webserver"
	"github.com/chococraft/chococraft/pkg/common"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type signupPayload struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func registerAuthRoutes() {
	webserver.PubPOST("/auth/signup", signup)
	webserver.PubPOST("/auth/login", login)
}

func signup(c echo.Context) error {
	var payload signupPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse signup parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	payload.Username = strings.TrimSpace(payload.Username)

	var exists int64
	GetDB(c).Model(&domain.User{}).Where("username = ?", payload.Username).Count(&exists)
	if exists > 0 {
		return fail(c, http.StatusConflict, "USER_EXISTS", "Username already taken", nil)
	}

	hash, err := common.HashPassword(payload.Password)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to hash password", nil)
	}

	user := domain.User{
		ID:        common.UUIDint64(),
		Username:  payload.Username,
		Password:  hash,
		Email:     strings.TrimSpace(payload.Email),
		IsAdmin:   false,
		Status:    common.ENABLED,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&user).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create user", err.Error())
	}

	return created(c, map[string]interface{}{"id": user.ID, "username": user.Username})
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var user domain.User
	err := GetDB(c).Where("username = ?", strings.TrimSpace(payload.Username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !common.CheckPassword(user.Password, payload.Password)) {
		return fail(c, http.StatusUnauthorized, "AUTH_FAILED", "Invalid username or password", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query user", err.Error())
	}
	if user.Status != common.ENABLED {
		return fail(c, http.StatusForbidden, "USER_DISABLED", "Account disabled", nil)
	}

	token, err := webserver.SignToken(appConfig, user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to sign token", nil)
	}

	GetDB(c).Model(&domain.User{}).Where("id = ?", user.ID).Update("last_login", time.Now())

	return ok(c, map[string]interface{}{
		"token":    token,
		"id":       user.ID,
		"username": user.Username,
		"is_admin": user.IsAdmin,
	})
}
