// Package webserver bootstraps the Echo HTTP server, the JWT middleware
// and the route registration helpers used by the api package.
package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chococraft/chococraft/config"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type WebServer struct {
	cfg  *config.AppConfig
	db   *gorm.DB
	root *echo.Echo
	pub  *echo.Group // open endpoints under /api
	api  *echo.Group // JWT protected endpoints under /api
}

var server *WebServer

type webValidator struct {
	validate *validator.Validate
}

func (v *webValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Init builds the global web server instance.
func Init(cfg *config.AppConfig, db *gorm.DB) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &webValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(injectDB(db))
	e.Use(requestTimeout(time.Duration(cfg.Web.RequestTimeout) * time.Second))
	e.Use(requestLogger())

	pub := e.Group("/api")
	api := e.Group("/api")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.Web.JwtSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(TokenClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"code":    "UNAUTHORIZED",
				"message": "Missing or invalid token",
			})
		},
	}))

	server = &WebServer{cfg: cfg, db: db, root: e, pub: pub, api: api}
	return server
}

// Instance returns the global web server.
func Instance() *WebServer {
	return server
}

// Echo exposes the underlying echo instance (handler tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// Listen starts serving and blocks until the listener fails.
func (s *WebServer) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	zap.L().Info("web server listening", zap.String("addr", addr))
	return s.root.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *WebServer) Shutdown(ctx context.Context) error {
	return s.root.Shutdown(ctx)
}

// injectDB makes the gorm handle available to handlers via the context.
func injectDB(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("db", db)
			return next(c)
		}
	}
}

// requestTimeout bounds every request with a server-side deadline.
func requestTimeout(d time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if d <= 0 {
				return next(c)
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), d)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Status >= http.StatusInternalServerError {
				zap.L().Error("request",
					zap.String("method", v.Method),
					zap.String("uri", v.URI),
					zap.Int("status", v.Status),
					zap.Error(v.Error),
				)
			} else {
				zap.L().Debug("request",
					zap.String("method", v.Method),
					zap.String("uri", v.URI),
					zap.Int("status", v.Status),
				)
			}
			return nil
		},
	})
}

// PubGET registers an unauthenticated GET endpoint under /api.
func PubGET(path string, h echo.HandlerFunc) {
	server.pub.GET(path, h)
}

// PubPOST registers an unauthenticated POST endpoint under /api.
func PubPOST(path string, h echo.HandlerFunc) {
	server.pub.POST(path, h)
}

// ApiGET registers a token-protected GET endpoint under /api.
func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.GET(path, h, m...)
}

// ApiPOST registers a token-protected POST endpoint under /api.
func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.POST(path, h, m...)
}

// ApiPUT registers a token-protected PUT endpoint under /api.
func ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.PUT(path, h, m...)
}

// ApiDELETE registers a token-protected DELETE endpoint under /api.
func ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.DELETE(path, h, m...)
}
