package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/maplemart/storefront/models"
)

// ReportService answers the admin dashboard's aggregate queries. These are plain
// projections over orders and the ledger, not business rules.
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a new service instance.
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// RevenueReport summarizes a date window.
type RevenueReport struct {
	From          time.Time    `json:"from"`
	To            time.Time    `json:"to"`
	OrderCount    int64        `json:"order_count"`
	GrossRevenue  float64      `json:"gross_revenue"`
	TotalDiscount float64      `json:"total_discount"`
	NetRevenue    float64      `json:"net_revenue"`
	Daily         []DailyPoint `json:"daily"`
}

// DailyPoint is one day in the revenue series.
type DailyPoint struct {
	Day        string  `json:"day"`
	OrderCount int64   `json:"order_count"`
	Net        float64 `json:"net"`
}

// Revenue aggregates non-cancelled orders created inside [from, to).
func (s *ReportService) Revenue(from, to time.Time) (*RevenueReport, error) {
	report := &RevenueReport{From: from, To: to}

	base := s.db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ? AND status <> ?", from, to, models.OrderStatusCancelled)

	if err := base.Session(&gorm.Session{}).Count(&report.OrderCount).Error; err != nil {
		return nil, err
	}

	type sums struct {
		Gross    float64
		Discount float64
		Net      float64
	}
	var totals sums
	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(subtotal),0) AS gross, COALESCE(SUM(total_discount),0) AS discount, COALESCE(SUM(total),0) AS net").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	report.GrossRevenue = totals.Gross
	report.TotalDiscount = totals.Discount
	report.NetRevenue = totals.Net

	// DATE() exists on both MySQL and SQLite, which keeps this testable.
	if err := base.Session(&gorm.Session{}).
		Select("DATE(created_at) AS day, COUNT(*) AS order_count, COALESCE(SUM(total),0) AS net").
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&report.Daily).Error; err != nil {
		return nil, err
	}
	return report, nil
}

// TopProduct is one row of the best-sellers list.
type TopProduct struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitsSold   int64   `json:"units_sold"`
	Revenue     float64 `json:"revenue"`
}

// TopProducts ranks products by units sold in the window.
func (s *ReportService) TopProducts(from, to time.Time, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []TopProduct
	err := s.db.Model(&models.OrderItem{}).
		Select("order_items.product_id, order_items.product_name, SUM(order_items.quantity) AS units_sold, SUM(order_items.unit_price * order_items.quantity) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ? AND orders.status <> ?", from, to, models.OrderStatusCancelled).
		Group("order_items.product_id, order_items.product_name").
		Order("units_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Overview is the dashboard headline card.
type Overview struct {
	CustomerCount  int64 `json:"customer_count"`
	OrderCount     int64 `json:"order_count"`
	ProductCount   int64 `json:"product_count"`
	PendingRewards int64 `json:"pending_rewards"`
	CheckInsToday  int64 `json:"check_ins_today"`
}

// Counts gathers the headline numbers. Each count falls back to zero on error so
// one failing table does not blank the whole dashboard.
func (s *ReportService) Counts(today time.Time) *Overview {
	o := &Overview{}
	if err := s.db.Model(&models.Customer{}).Count(&o.CustomerCount).Error; err != nil {
		o.CustomerCount = 0
	}
	if err := s.db.Model(&models.Order{}).Count(&o.OrderCount).Error; err != nil {
		o.OrderCount = 0
	}
	if err := s.db.Model(&models.Product{}).Count(&o.ProductCount).Error; err != nil {
		o.ProductCount = 0
	}
	if err := s.db.Model(&models.RewardHistory{}).Where("is_confirmed = ?", false).Count(&o.PendingRewards).Error; err != nil {
		o.PendingRewards = 0
	}
	if err := s.db.Model(&models.CheckInHistory{}).
		Where("check_in_day = ?", today.Format(models.DayFormat)).
		Count(&o.CheckInsToday).Error; err != nil {
		o.CheckInsToday = 0
	}
	return o
}
