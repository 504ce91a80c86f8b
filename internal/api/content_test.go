package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/chococraft/chococraft/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCRUDAndDetach(t *testing.T) {
	admin := signToken(t, 1, "admin", true)

	rec := doRequest(t, http.MethodPost, "/api/categories", admin,
		map[string]interface{}{"name": "Pralines", "sort": 1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	catID := int64(decodeBody(t, rec)["data"].(map[string]interface{})["id"].(float64))

	// attach a product to the category
	pid := int64(3001)
	require.NoError(t, testDB.Create(&domain.Product{
		ID: pid, Name: "praline-box", Price: 99, Stock: 5, Visible: true, CategoryID: &catID,
	}).Error)

	rec = doRequest(t, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, http.MethodDelete, fmt.Sprintf("/api/categories/%d", catID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// the product survives the category deletion with the reference cleared
	var p domain.Product
	require.NoError(t, testDB.First(&p, pid).Error)
	assert.Nil(t, p.CategoryID)
}

func TestCategoryValidation(t *testing.T) {
	admin := signToken(t, 1, "admin", true)
	rec := doRequest(t, http.MethodPost, "/api/categories", admin, map[string]interface{}{"sort": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeBody(t, rec)["code"])
}

func TestBannersVisibility(t *testing.T) {
	admin := signToken(t, 1, "admin", true)

	rec := doRequest(t, http.MethodPost, "/api/banners", admin,
		map[string]interface{}{"title": "Diwali Sale", "image": "/img/diwali.png", "sort": 1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	hidden := false
	rec = doRequest(t, http.MethodPost, "/api/banners", admin,
		map[string]interface{}{"title": "Draft", "image": "/img/draft.png", "visible": hidden})
	require.Equal(t, http.StatusCreated, rec.Code)
	draftID := decodeBody(t, rec)["data"].(map[string]interface{})["id"].(float64)

	// visible=false must reach the row as stored, not be flipped by a column default
	var draft domain.Banner
	require.NoError(t, testDB.First(&draft, int64(draftID)).Error)
	assert.False(t, draft.Visible)

	rec = doRequest(t, http.MethodGet, "/api/banners", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, raw := range decodeBody(t, rec)["data"].([]interface{}) {
		b := raw.(map[string]interface{})
		assert.NotEqual(t, draftID, b["id"], "hidden banner leaked into the public list")
	}
}

func TestAboutUsUpsert(t *testing.T) {
	admin := signToken(t, 1, "admin", true)

	// empty until first save
	rec := doRequest(t, http.MethodGet, "/api/about", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, http.MethodPut, "/api/about", admin, map[string]string{"body": "Handmade since 2012."})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, http.MethodPut, "/api/about", admin, map[string]string{"body": "Handmade since 2011."})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, http.MethodGet, "/api/about", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "Handmade since 2011.", data["body"])

	// still a single row after two saves
	var n int64
	require.NoError(t, testDB.Model(&domain.AboutUs{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestContactMessages(t *testing.T) {
	admin := signToken(t, 1, "admin", true)
	user := signToken(t, 320, "asha", false)

	// anyone may write in
	rec := doRequest(t, http.MethodPost, "/api/contact-messages", "", map[string]string{
		"name": "Ravi", "email": "ravi@example.com", "message": "Do you ship to Goa?",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, http.MethodPost, "/api/contact-messages", "", map[string]string{
		"name": "Ravi", "email": "not-an-email", "message": "hello",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// only admins may read the inbox
	rec = doRequest(t, http.MethodGet, "/api/contact-messages", user, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, http.MethodGet, "/api/contact-messages", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, decodeBody(t, rec)["data"])
}

func TestAdminMutationsAreLogged(t *testing.T) {
	admin := signToken(t, 1, "admin", true)

	var before int64
	require.NoError(t, testDB.Model(&domain.AdminLog{}).Count(&before).Error)

	rec := doRequest(t, http.MethodPost, "/api/updates", admin,
		map[string]string{"title": "New batch", "body": "Fresh single-origin bars are in."})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var after int64
	require.NoError(t, testDB.Model(&domain.AdminLog{}).Count(&after).Error)
	assert.Equal(t, before+1, after)

	var entry domain.AdminLog
	require.NoError(t, testDB.Order("opt_time DESC").First(&entry).Error)
	assert.Equal(t, "update.create", entry.Action)
	assert.Equal(t, "admin", entry.Username)
}
