package controllers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"gorm.io/gorm"

	"github.com/maplemart/storefront/models"
	"github.com/maplemart/storefront/services"
	"github.com/maplemart/storefront/utils"
)

// DashboardController serves the admin dashboard aggregates and host health.
type DashboardController struct {
	db      *gorm.DB
	reports *services.ReportService
}

// NewDashboardController creates a new controller instance.
func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{db: db, reports: services.NewReportService(db)}
}

// parseDateRange reads from/to query params as 2006-01-02, defaulting to the
// last 30 days. The upper bound is exclusive.
func parseDateRange(ctx *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := ctx.Query("from"); raw != "" {
		t, err := time.ParseInLocation(models.DayFormat, raw, time.Local)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40025, "invalid from date, want YYYY-MM-DD")
			return from, to, false
		}
		from = t
	}
	if raw := ctx.Query("to"); raw != "" {
		t, err := time.ParseInLocation(models.DayFormat, raw, time.Local)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40026, "invalid to date, want YYYY-MM-DD")
			return from, to, false
		}
		to = t.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		utils.Error(ctx, http.StatusBadRequest, 40027, "from must be before to")
		return from, to, false
	}
	return from, to, true
}

// Overview returns the headline counters.
func (d *DashboardController) Overview(ctx *gin.Context) {
	utils.Success(ctx, d.reports.Counts(time.Now()))
}

// Revenue returns the revenue report for a date window.
func (d *DashboardController) Revenue(ctx *gin.Context) {
	from, to, ok := parseDateRange(ctx)
	if !ok {
		return
	}
	report, err := d.reports.Revenue(from, to)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to build revenue report")
		return
	}
	utils.Success(ctx, report)
}

// TopProducts returns the best sellers for a date window.
func (d *DashboardController) TopProducts(ctx *gin.Context) {
	from, to, ok := parseDateRange(ctx)
	if !ok {
		return
	}
	limit := 10
	if raw := ctx.Query("limit"); raw != "" {
		if n, err := parsePositiveInt(raw); err == nil {
			limit = n
		}
	}
	rows, err := d.reports.TopProducts(from, to, limit)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50075, "failed to rank products")
		return
	}
	utils.Success(ctx, gin.H{"items": rows})
}

// Traffic returns page view counters for a date window, busiest paths first.
func (d *DashboardController) Traffic(ctx *gin.Context) {
	from, to, ok := parseDateRange(ctx)
	if !ok {
		return
	}
	var rows []models.PageView
	err := d.db.
		Where("date >= ? AND date < ?", from.Format(models.DayFormat), to.Format(models.DayFormat)).
		Order("count DESC").
		Limit(100).
		Find(&rows).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50076, "failed to load traffic")
		return
	}
	utils.Success(ctx, gin.H{"items": rows})
}

// SystemStatus reports host resource usage for the operations card.
func (d *DashboardController) SystemStatus(ctx *gin.Context) {
	status := gin.H{
		"go_version":   runtime.Version(),
		"goroutines":   runtime.NumGoroutine(),
		"num_cpu":      runtime.NumCPU(),
		"collected_at": time.Now().Format(time.RFC3339),
	}

	if percents, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(percents) > 0 {
		status["cpu_percent"] = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status["mem_total"] = vm.Total
		status["mem_used"] = vm.Used
		status["mem_percent"] = vm.UsedPercent
	}
	if avg, err := load.Avg(); err == nil {
		status["load_1"] = avg.Load1
		status["load_5"] = avg.Load5
		status["load_15"] = avg.Load15
	}
	if uptime, err := host.Uptime(); err == nil {
		status["host_uptime_sec"] = uptime
	}

	utils.Success(ctx, status)
}
