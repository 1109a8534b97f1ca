package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/maplemart/storefront/models"
)

// newTestDB opens a fresh in-memory database per test. MaxOpenConns is pinned to
// one because every new in-memory connection would otherwise be an empty database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Customer{},
		&models.Product{},
		&models.Promotion{},
		&models.Voucher{},
		&models.Order{},
		&models.OrderItem{},
		&models.UserPromotion{},
		&models.CheckInHistory{},
		&models.RewardHistory{},
		&models.PageView{},
	))
	return db
}

func createCustomer(t *testing.T, db *gorm.DB, username string, points int) *models.Customer {
	t.Helper()
	c := &models.Customer{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Points:       points,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func createProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:     name,
		Slug:     name,
		Price:    price,
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func createPromotion(t *testing.T, db *gorm.DB, name string, percent float64, userMax int, from, to time.Time) *models.Promotion {
	t.Helper()
	p := &models.Promotion{
		Name:                name,
		DiscountPercent:     percent,
		StartDate:           from,
		EndDate:             to,
		IsActive:            true,
		DefaultUserMaxUsage: userMax,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func createVoucher(t *testing.T, db *gorm.DB, v models.Voucher) *models.Voucher {
	t.Helper()
	require.NoError(t, db.Create(&v).Error)
	return &v
}

func floatPtr(f float64) *float64    { return &f }
func timePtr(ts time.Time) *time.Time { return &ts }
