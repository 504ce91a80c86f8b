package api

import (
	"net/http"

	"github.com/chococraft/chococraft/internal/domain"
	"github.com/chococraft/chococraft/internal/webserver"
	"github.com/labstack/echo/v4"
)

func registerNotificationRoutes() {
	webserver.ApiGET("/notifications", listNotifications)
	webserver.ApiPUT("/notifications/:id/read", markNotificationRead)
}

func listNotifications(c echo.Context) error {
	uid := webserver.CurrentUserID(c)

	var rows []domain.Notification
	if err := GetDB(c).Where("user_id = ?", uid).
		Order("created_at DESC").Limit(100).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query notifications", err.Error())
	}
	return ok(c, rows)
}

func markNotificationRead(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid notification ID", nil)
	}
	uid := webserver.CurrentUserID(c)

	res := GetDB(c).Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, uid).
		Update("read", true)
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update notification", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Notification not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id, "read": true})
}
