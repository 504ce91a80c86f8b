package app

import (
	"errors"
	"strings"
	"time"

	"github.com/chococraft/chococraft/internal/domain"
	"github.com/chococraft/chococraft/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "chococraft"

	hashedPassword, err := common.HashPassword(defaultPassword)
	if err != nil {
		zap.L().Error("failed to hash default admin password", zap.Error(err))
		return
	}

	var admin domain.User
	err = a.gormDB.Where("username = ?", superUsername).First(&admin).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.User{
			ID:        common.UUIDint64(),
			Username:  superUsername,
			Password:  hashedPassword,
			Email:     common.NA,
			IsAdmin:   true,
			Status:    common.ENABLED,
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query admin account", zap.Error(err))
		return
	}

	resetAdmin := !admin.IsAdmin
	resetStatus := !strings.EqualFold(admin.Status, common.ENABLED)
	if !resetAdmin && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetAdmin {
		updates["is_admin"] = true
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}

	if err := a.gormDB.Model(&domain.User{}).Where("id = ?", admin.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default admin account",
		zap.String("username", superUsername),
		zap.Bool("adminReset", resetAdmin),
		zap.Bool("statusEnabled", resetStatus))
}

// checkCatalog seeds a starter catalog so a fresh install is browsable.
func (a *Application) checkCatalog() {
	defaultCategories := []domain.Category{
		{Name: "Dark Chocolate", Sort: 1, Visible: true},
		{Name: "Milk Chocolate", Sort: 2, Visible: true},
		{Name: "Gift Boxes", Sort: 3, Visible: true},
	}

	for i := range defaultCategories {
		cat := &defaultCategories[i]
		var count int64
		a.gormDB.Model(&domain.Category{}).Where("name = ?", cat.Name).Count(&count)
		if count == 0 {
			cat.CreatedAt = time.Now()
			cat.UpdatedAt = time.Now()
			if err := a.gormDB.Create(cat).Error; err != nil {
				zap.L().Error("failed to create default category", zap.String("name", cat.Name), zap.Error(err))
			} else {
				zap.L().Info("initialized default category", zap.String("name", cat.Name))
			}
		}
	}

	price := func(v float64) *float64 { return &v }
	defaultProducts := []domain.Product{
		{Name: "70% Dark Bar", Price: 4.5, Stock: 100, Visible: true},
		{Name: "Sea Salt Dark Bar", Price: 5.0, OriginalPrice: price(6.0), Stock: 80, Visible: true},
		{Name: "Hazelnut Milk Bar", Price: 4.0, Stock: 120, Visible: true},
		{Name: "Assorted Truffle Box", Price: 18.0, OriginalPrice: price(22.0), Stock: 40, Visible: true},
	}

	for i := range defaultProducts {
		p := &defaultProducts[i]
		var count int64
		a.gormDB.Model(&domain.Product{}).Where("name = ?", p.Name).Count(&count)
		if count == 0 {
			p.CreatedAt = time.Now()
			p.UpdatedAt = time.Now()
			if err := a.gormDB.Create(p).Error; err != nil {
				zap.L().Error("failed to create default product", zap.String("name", p.Name), zap.Error(err))
			} else {
				zap.L().Info("initialized default product", zap.String("name", p.Name))
			}
		}
	}
}

// checkContactInfo makes sure the contact-info singleton exists.
func (a *Application) checkContactInfo() {
	var count int64
	a.gormDB.Model(&domain.ContactInfo{}).Count(&count)
	if count == 0 {
		if err := a.gormDB.Create(&domain.ContactInfo{
			Email:     common.NA,
			UpdatedAt: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create contact info", zap.Error(err))
		}
	}
}
