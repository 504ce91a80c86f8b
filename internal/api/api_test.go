package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/chococraft/chococraft/config"
	"github.com/chococraft/chococraft/internal/checkout"
	"github.com/chococraft/chococraft/internal/domain"
	"github.com/chococraft/chococraft/internal/webserver"
	"github.com/chococraft/chococraft/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testCfg *config.AppConfig
	testDB  *gorm.DB
	testSrv *webserver.WebServer
)

func TestMain(m *testing.M) {
	testCfg = config.DefaultAppConfig

	db, err := gorm.Open(sqlite.Open("file:apitest?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(domain.Tables...); err != nil {
		panic(err)
	}
	testDB = db

	testSrv = webserver.Init(testCfg, testDB)
	RegisterRoutes(testCfg, checkout.NewService(testDB))

	os.Exit(m.Run())
}

func signToken(t *testing.T, uid int64, username string, admin bool) string {
	t.Helper()
	token, err := webserver.SignToken(testCfg, uid, username, admin)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echoContentType, echoJSONType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	testSrv.Echo().ServeHTTP(rec, req)
	return rec
}

const (
	echoContentType = "Content-Type"
	echoJSONType    = "application/json"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func createTestProduct(t *testing.T, id int64, price float64, stock int, visible bool) {
	t.Helper()
	require.NoError(t, testDB.Create(&domain.Product{
		ID:      id,
		Name:    fmt.Sprintf("truffle-%d", id),
		Price:   price,
		Stock:   stock,
		Image:   fmt.Sprintf("/img/%d.png", id),
		Visible: visible,
	}).Error)
}

func orderBody(userID, productID int64, qty int) map[string]interface{} {
	return map[string]interface{}{
		"user_id": fmt.Sprintf("%d", userID),
		"items": []map[string]interface{}{
			{"product_id": productID, "quantity": qty, "price": 1}, // client price is ignored
		},
		"shipping": map[string]string{
			"name":    "Asha Rao",
			"address": "12 Cocoa Lane",
			"city":    "Pune",
			"state":   "MH",
			"zip":     "411001",
		},
		"payment_method": "cod",
	}
}

func TestPlaceOrderRequiresToken(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/api/orders", "", orderBody(1, 1, 1))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeBody(t, rec)["code"])
}

func TestPlaceOrderUserMismatch(t *testing.T) {
	createTestProduct(t, 2001, 100, 5, true)
	token := signToken(t, 301, "asha", false)

	rec := doRequest(t, http.MethodPost, "/api/orders", token, orderBody(999, 2001, 1))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "PERMISSION_DENIED", decodeBody(t, rec)["code"])
}

func TestPlaceOrderHappyPath(t *testing.T) {
	createTestProduct(t, 2002, 150, 5, true)
	token := signToken(t, 302, "asha", false)

	rec := doRequest(t, http.MethodPost, "/api/orders", token, orderBody(302, 2002, 2))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(300), data["total"])
	assert.Equal(t, domain.OrderStatusPending, data["status"])

	var p domain.Product
	require.NoError(t, testDB.First(&p, 2002).Error)
	assert.Equal(t, 3, p.Stock)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	createTestProduct(t, 2003, 50, 1, true)
	token := signToken(t, 303, "asha", false)

	rec := doRequest(t, http.MethodPost, "/api/orders", token, orderBody(303, 2003, 4))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	detail := body["detail"].(map[string]interface{})
	assert.Equal(t, float64(1), detail["available"])
	assert.Equal(t, float64(4), detail["requested"])
}

func TestListAllOrdersAdminOnly(t *testing.T) {
	user := signToken(t, 304, "asha", false)
	rec := doRequest(t, http.MethodGet, "/api/orders", user, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := signToken(t, 1, "admin", true)
	rec = doRequest(t, http.MethodGet, "/api/orders", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListUserOrdersOwnership(t *testing.T) {
	owner := signToken(t, 305, "asha", false)
	other := signToken(t, 306, "ravi", false)
	admin := signToken(t, 1, "admin", true)

	rec := doRequest(t, http.MethodGet, "/api/orders/305", other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, http.MethodGet, "/api/orders/305", owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, http.MethodGet, "/api/orders/305", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	createTestProduct(t, 2004, 80, 5, true)
	user := signToken(t, 307, "asha", false)
	admin := signToken(t, 1, "admin", true)

	rec := doRequest(t, http.MethodPost, "/api/orders", user, orderBody(307, 2004, 1))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	orderID := decodeBody(t, rec)["data"].(map[string]interface{})["order_id"].(string)

	// non-admin cannot change status
	rec = doRequest(t, http.MethodPut, "/api/orders/"+orderID+"/status", user,
		map[string]string{"status": domain.OrderStatusProcessing})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// legal hop
	rec = doRequest(t, http.MethodPut, "/api/orders/"+orderID+"/status", admin,
		map[string]string{"status": domain.OrderStatusProcessing})
	assert.Equal(t, http.StatusOK, rec.Code)

	// illegal hop
	rec = doRequest(t, http.MethodPut, "/api/orders/"+orderID+"/status", admin,
		map[string]string{"status": domain.OrderStatusDelivered})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_TRANSITION", decodeBody(t, rec)["code"])
}

func TestCartSaveAndGet(t *testing.T) {
	createTestProduct(t, 2005, 30, 10, true)
	token := signToken(t, 308, "asha", false)

	rec := doRequest(t, http.MethodPut, "/api/cart", token, map[string]interface{}{
		"items": []map[string]interface{}{{"product_id": 2005, "quantity": 3}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decodeBody(t, rec)["data"].([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, float64(3), row["quantity"])
	assert.Equal(t, float64(30), row["price"])
}

func TestCartSaveUnknownProduct(t *testing.T) {
	token := signToken(t, 309, "asha", false)
	rec := doRequest(t, http.MethodPut, "/api/cart", token, map[string]interface{}{
		"items": []map[string]interface{}{{"product_id": 999999, "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody(t, rec)["code"])
}

func TestFavoritesFlow(t *testing.T) {
	createTestProduct(t, 2006, 45, 5, true)
	token := signToken(t, 310, "asha", false)

	rec := doRequest(t, http.MethodPost, "/api/favorites", token, map[string]interface{}{"product_id": 2006})
	assert.Equal(t, http.StatusCreated, rec.Code)

	// duplicate add conflicts
	rec = doRequest(t, http.MethodPost, "/api/favorites", token, map[string]interface{}{"product_id": 2006})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_EXISTS", decodeBody(t, rec)["code"])

	// unknown product
	rec = doRequest(t, http.MethodPost, "/api/favorites", token, map[string]interface{}{"product_id": 999999})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, http.MethodGet, "/api/favorites", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody(t, rec)["data"].([]interface{}), 1)

	rec = doRequest(t, http.MethodDelete, "/api/favorites/2006", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, http.MethodGet, "/api/favorites", token, nil)
	assert.Empty(t, decodeBody(t, rec)["data"])
}

func TestPublicProductsHideInvisible(t *testing.T) {
	createTestProduct(t, 2007, 60, 5, true)
	createTestProduct(t, 2008, 60, 5, false)

	rec := doRequest(t, http.MethodGet, "/api/products?q=truffle-200&pageSize=100", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	seen := map[float64]bool{}
	for _, raw := range decodeBody(t, rec)["data"].([]interface{}) {
		p := raw.(map[string]interface{})
		seen[p["id"].(float64)] = true
	}
	assert.True(t, seen[2007])
	assert.False(t, seen[2008], "hidden products must not appear in the public catalog")

	// the hidden flag must survive the insert, not be flipped by a column default
	var hidden domain.Product
	require.NoError(t, testDB.First(&hidden, 2008).Error)
	assert.False(t, hidden.Visible)

	// direct fetch still resolves the hidden product for admin tooling
	rec = doRequest(t, http.MethodGet, "/api/products/2008", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProductAdminCRUD(t *testing.T) {
	admin := signToken(t, 1, "admin", true)
	user := signToken(t, 311, "asha", false)

	payload := map[string]interface{}{
		"name":  "Dark Hazelnut Slab",
		"price": 240.0,
		"stock": 12,
	}

	rec := doRequest(t, http.MethodPost, "/api/products", user, payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, http.MethodPost, "/api/products", admin, payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decodeBody(t, rec)["data"].(map[string]interface{})["id"].(float64)

	// discounted price above original price is rejected
	bad := map[string]interface{}{
		"name": "Dark Hazelnut Slab", "price": 300.0, "original_price": 240.0, "stock": 12,
	}
	rec = doRequest(t, http.MethodPut, fmt.Sprintf("/api/products/%.0f", id), admin, bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, http.MethodDelete, fmt.Sprintf("/api/products/%.0f", id), admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, http.MethodGet, fmt.Sprintf("/api/products/%.0f", id), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductDeleteBlockedWhenOrdered(t *testing.T) {
	createTestProduct(t, 2009, 90, 5, true)
	user := signToken(t, 312, "asha", false)
	admin := signToken(t, 1, "admin", true)

	rec := doRequest(t, http.MethodPost, "/api/orders", user, orderBody(312, 2009, 1))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, http.MethodDelete, "/api/products/2009", admin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "PRODUCT_IN_USE", decodeBody(t, rec)["code"])
}

func TestSignupAndLogin(t *testing.T) {
	creds := map[string]string{"username": "meera", "password": "secret123"}

	rec := doRequest(t, http.MethodPost, "/api/auth/signup", "", creds)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, http.MethodPost, "/api/auth/signup", "", creds)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "USER_EXISTS", decodeBody(t, rec)["code"])

	rec = doRequest(t, http.MethodPost, "/api/auth/login", "", creds)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, false, data["is_admin"])

	rec = doRequest(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "meera", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_FAILED", decodeBody(t, rec)["code"])
}

func TestLoginDisabledUser(t *testing.T) {
	hash, err := common.HashPassword("secret123")
	require.NoError(t, err)
	require.NoError(t, testDB.Create(&domain.User{
		ID:       common.UUIDint64(),
		Username: "blocked",
		Password: hash,
		Status:   common.DISABLED,
	}).Error)

	rec := doRequest(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "blocked", "password": "secret123"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "USER_DISABLED", decodeBody(t, rec)["code"])
}

func TestNotificationsAfterStatusChange(t *testing.T) {
	createTestProduct(t, 2010, 70, 5, true)
	user := signToken(t, 313, "asha", false)
	admin := signToken(t, 1, "admin", true)

	rec := doRequest(t, http.MethodPost, "/api/orders", user, orderBody(313, 2010, 1))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	orderID := decodeBody(t, rec)["data"].(map[string]interface{})["order_id"].(string)

	rec = doRequest(t, http.MethodPut, "/api/orders/"+orderID+"/status", admin,
		map[string]string{"status": domain.OrderStatusProcessing})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, http.MethodGet, "/api/notifications", user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decodeBody(t, rec)["data"].([]interface{})
	require.NotEmpty(t, rows)
	first := rows[0].(map[string]interface{})
	assert.Contains(t, first["body"], domain.OrderStatusProcessing)

	// mark it read
	id := first["id"].(float64)
	rec = doRequest(t, http.MethodPut, fmt.Sprintf("/api/notifications/%.0f/read", id), user, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
