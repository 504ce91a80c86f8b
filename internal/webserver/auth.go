package webserver

import (
	"net/http"
	"time"

	"github.com/chococraft/chococraft/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// TokenClaims is the principal carried by a bearer token.
type TokenClaims struct {
	UID      int64  `json:"uid,string"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

// SignToken issues a signed HS256 token for a user principal.
func SignToken(cfg *config.AppConfig, uid int64, username string, admin bool) (string, error) {
	expire := time.Duration(cfg.Web.JwtExpireHours)
	if expire <= 0 {
		expire = 24
	}
	claims := &TokenClaims{
		UID:      uid,
		Username: username,
		Admin:    admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    cfg.System.Appid,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Web.JwtSecret))
}

func tokenClaims(c echo.Context) *TokenClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

// CurrentUserID returns the authenticated user id, 0 when absent.
func CurrentUserID(c echo.Context) int64 {
	if claims := tokenClaims(c); claims != nil {
		return claims.UID
	}
	return 0
}

// CurrentUsername returns the authenticated username.
func CurrentUsername(c echo.Context) string {
	if claims := tokenClaims(c); claims != nil {
		return claims.Username
	}
	return ""
}

// IsAdmin reports whether the authenticated principal carries the admin flag.
func IsAdmin(c echo.Context) bool {
	if claims := tokenClaims(c); claims != nil {
		return claims.Admin
	}
	return false
}

// RequireAdmin rejects non-admin principals with 403.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsAdmin(c) {
			return c.JSON(http.StatusForbidden, map[string]interface{}{
				"code":    "FORBIDDEN",
				"message": "Administrator privileges required",
			})
		}
		return next(c)
	}
}
