package app

import (
	"testing"
	"time"

	"github.com/chococraft/chococraft/config"
	"github.com/chococraft/chococraft/internal/domain"
	"github.com/chococraft/chococraft/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) *Application {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	a := NewApplication(config.DefaultAppConfig)
	a.OverrideDB(db)
	require.NoError(t, a.MigrateDB(false))
	return a
}

func TestProviders(t *testing.T) {
	a := newTestApp(t)

	var ctx AppContext = a
	assert.NotNil(t, ctx.DB())
	assert.Same(t, config.DefaultAppConfig, ctx.Config())
	assert.NotNil(t, ctx.Checkout())
}

func TestSeedDefaults(t *testing.T) {
	a := newTestApp(t)

	a.checkSuper()
	a.checkCatalog()
	a.checkContactInfo()

	var admin domain.User
	require.NoError(t, a.DB().Where("username = ?", "admin").First(&admin).Error)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, common.ENABLED, admin.Status)

	var products, categories, info int64
	require.NoError(t, a.DB().Model(&domain.Product{}).Count(&products).Error)
	require.NoError(t, a.DB().Model(&domain.Category{}).Count(&categories).Error)
	require.NoError(t, a.DB().Model(&domain.ContactInfo{}).Count(&info).Error)
	assert.EqualValues(t, 4, products)
	assert.EqualValues(t, 3, categories)
	assert.EqualValues(t, 1, info)

	// seeding again must not duplicate rows
	a.checkSuper()
	a.checkCatalog()
	a.checkContactInfo()
	require.NoError(t, a.DB().Model(&domain.Product{}).Count(&products).Error)
	assert.EqualValues(t, 4, products)
}

func TestCheckSuperRepairsDemotedAdmin(t *testing.T) {
	a := newTestApp(t)
	a.checkSuper()

	require.NoError(t, a.DB().Model(&domain.User{}).Where("username = ?", "admin").
		Updates(map[string]interface{}{"is_admin": false, "status": common.DISABLED}).Error)

	a.checkSuper()

	var admin domain.User
	require.NoError(t, a.DB().Where("username = ?", "admin").First(&admin).Error)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, common.ENABLED, admin.Status)
}

func TestClearExpireData(t *testing.T) {
	a := newTestApp(t)
	now := time.Now()

	require.NoError(t, a.DB().Create(&domain.AdminLog{
		ID: common.UUIDint64(), Username: "admin", Action: "product.create",
		OptTime: now.Add(-366 * 24 * time.Hour),
	}).Error)
	require.NoError(t, a.DB().Create(&domain.AdminLog{
		ID: common.UUIDint64(), Username: "admin", Action: "product.update", OptTime: now,
	}).Error)
	require.NoError(t, a.DB().Create(&domain.Notification{
		UserID: 7, Title: "Order update", Body: "old", Read: true,
		CreatedAt: now.Add(-91 * 24 * time.Hour),
	}).Error)
	require.NoError(t, a.DB().Create(&domain.CheckoutToken{
		UserID: 7, Token: "stale", OrderID: 1, ExpiresAt: now.Add(-time.Hour),
	}).Error)

	a.SchedClearExpireData()

	var logs, notices, tokens int64
	require.NoError(t, a.DB().Model(&domain.AdminLog{}).Count(&logs).Error)
	require.NoError(t, a.DB().Model(&domain.Notification{}).Count(&notices).Error)
	require.NoError(t, a.DB().Model(&domain.CheckoutToken{}).Count(&tokens).Error)
	assert.EqualValues(t, 1, logs)
	assert.EqualValues(t, 0, notices)
	assert.EqualValues(t, 0, tokens)
}
