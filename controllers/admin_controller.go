package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/maplemart/storefront/models"
	"github.com/maplemart/storefront/services"
	"github.com/maplemart/storefront/utils"
)

// AdminController manages the catalog, promotions, vouchers and reward
// fulfilment. All endpoints require the admin role.
type AdminController struct {
	db      *gorm.DB
	loyalty *services.LoyaltyService
}

// NewAdminController creates a new controller instance.
func NewAdminController(db *gorm.DB, loyalty *services.LoyaltyService) *AdminController {
	return &AdminController{db: db, loyalty: loyalty}
}

// ---- products ----

type productRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Slug        string  `json:"slug" binding:"required,min=1,max=255"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
	ImageURL    string  `json:"image_url"`
	IsActive    *bool   `json:"is_active"`
}

// CreateProduct adds a catalog item. The description is treated as UGC HTML and
// sanitized before storage.
func (a *AdminController) CreateProduct(ctx *gin.Context) {
	var req productRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	product := models.Product{
		Name:        strings.TrimSpace(req.Name),
		Slug:        strings.TrimSpace(req.Slug),
		Description: utils.Sanitize(req.Description),
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := a.db.Create(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40902, "slug already in use")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to create product")
		return
	}

	utils.InvalidateByPrefix("cache:products:list:")
	utils.Success(ctx, gin.H{"product": product})
}

// UpdateProduct edits a catalog item.
func (a *AdminController) UpdateProduct(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var product models.Product
	if err := a.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "product not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load product")
		return
	}

	var req productRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	product.Name = strings.TrimSpace(req.Name)
	product.Slug = strings.TrimSpace(req.Slug)
	product.Description = utils.Sanitize(req.Description)
	product.Category = req.Category
	product.Price = req.Price
	product.Stock = req.Stock
	product.ImageURL = req.ImageURL
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := a.db.Save(&product).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to update product")
		return
	}

	utils.InvalidateByPrefix("cache:products:list:")
	utils.Success(ctx, gin.H{"product": product})
}

// DeleteProduct soft-deletes a catalog item.
func (a *AdminController) DeleteProduct(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	if err := a.db.Delete(&models.Product{}, id).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to delete product")
		return
	}
	utils.InvalidateByPrefix("cache:products:list:")
	utils.Success(ctx, gin.H{"message": "product deleted"})
}

// ---- promotions ----

type promotionRequest struct {
	Name                string    `json:"name" binding:"required,min=1,max=255"`
	DiscountPercent     float64   `json:"discount_percent" binding:"required,gt=0,lte=50"`
	StartDate           time.Time `json:"start_date" binding:"required"`
	EndDate             time.Time `json:"end_date" binding:"required"`
	IsActive            *bool     `json:"is_active"`
	DefaultUserMaxUsage int       `json:"default_user_max_usage" binding:"required,gte=1"`
}

// CreatePromotion adds a promotion. Window sanity (start before end) is checked
// here; the rule engine trusts stored promotions.
func (a *AdminController) CreatePromotion(ctx *gin.Context) {
	var req promotionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}
	if req.EndDate.Before(req.StartDate) {
		utils.Error(ctx, http.StatusBadRequest, 40022, "end_date must not be before start_date")
		return
	}

	promo := models.Promotion{
		Name:                strings.TrimSpace(req.Name),
		DiscountPercent:     req.DiscountPercent,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		IsActive:            true,
		DefaultUserMaxUsage: req.DefaultUserMaxUsage,
	}
	if req.IsActive != nil {
		promo.IsActive = *req.IsActive
	}

	if err := a.db.Create(&promo).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50064, "failed to create promotion")
		return
	}
	utils.Success(ctx, gin.H{"promotion": promo})
}

// UpdatePromotion edits a promotion.
func (a *AdminController) UpdatePromotion(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var promo models.Promotion
	if err := a.db.First(&promo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40450, "promotion not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50065, "failed to load promotion")
		return
	}

	var req promotionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}
	if req.EndDate.Before(req.StartDate) {
		utils.Error(ctx, http.StatusBadRequest, 40022, "end_date must not be before start_date")
		return
	}

	promo.Name = strings.TrimSpace(req.Name)
	promo.DiscountPercent = req.DiscountPercent
	promo.StartDate = req.StartDate
	promo.EndDate = req.EndDate
	promo.DefaultUserMaxUsage = req.DefaultUserMaxUsage
	if req.IsActive != nil {
		promo.IsActive = *req.IsActive
	}

	if err := a.db.Save(&promo).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50066, "failed to update promotion")
		return
	}
	utils.Success(ctx, gin.H{"promotion": promo})
}

// ListPromotions returns all promotions, newest window first.
func (a *AdminController) ListPromotions(ctx *gin.Context) {
	var promos []models.Promotion
	if err := a.db.Order("start_date DESC").Find(&promos).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50067, "failed to list promotions")
		return
	}
	utils.Success(ctx, gin.H{"items": promos})
}

// ---- vouchers ----

type voucherRequest struct {
	Code                string     `json:"code" binding:"required,min=1,max=64"`
	DiscountType        string     `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue       float64    `json:"discount_value" binding:"required,gt=0"`
	MinOrderValue       *float64   `json:"min_order_value"`
	MaxUsage            int        `json:"max_usage" binding:"required,gte=1"`
	DefaultUserMaxUsage int        `json:"default_user_max_usage" binding:"required,gte=1"`
	EndDate             *time.Time `json:"end_date"`
}

func (r *voucherRequest) validate() string {
	if r.DiscountType == models.DiscountTypePercentage && r.DiscountValue > 100 {
		return "percentage discount cannot exceed 100"
	}
	if r.MinOrderValue != nil && *r.MinOrderValue < 0 {
		return "min_order_value must not be negative"
	}
	return ""
}

// CreateVoucher adds a voucher. Codes are unique and matched case-sensitively.
func (a *AdminController) CreateVoucher(ctx *gin.Context) {
	var req voucherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid request payload")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.Error(ctx, http.StatusBadRequest, 40024, msg)
		return
	}

	voucher := models.Voucher{
		Code:                strings.TrimSpace(req.Code),
		DiscountType:        req.DiscountType,
		DiscountValue:       req.DiscountValue,
		MinOrderValue:       req.MinOrderValue,
		MaxUsage:            req.MaxUsage,
		DefaultUserMaxUsage: req.DefaultUserMaxUsage,
		EndDate:             req.EndDate,
	}
	if err := a.db.Create(&voucher).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40903, "voucher code already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50068, "failed to create voucher")
		return
	}
	utils.Success(ctx, gin.H{"voucher": voucher})
}

// ListVouchers returns all vouchers with usage counters.
func (a *AdminController) ListVouchers(ctx *gin.Context) {
	var vouchers []models.Voucher
	if err := a.db.Order("created_at DESC").Find(&vouchers).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50069, "failed to list vouchers")
		return
	}
	utils.Success(ctx, gin.H{"items": vouchers})
}

// ---- rewards ----

// ListPendingRewards returns unconfirmed redemptions awaiting fulfilment.
func (a *AdminController) ListPendingRewards(ctx *gin.Context) {
	var rewards []models.RewardHistory
	if err := a.db.Where("is_confirmed = ?", false).Order("redeemed_at ASC").Find(&rewards).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to list pending rewards")
		return
	}
	utils.Success(ctx, gin.H{"items": rewards})
}

// ConfirmReward marks one redemption fulfilled. Calling it again is rejected
// with 409 and changes nothing.
func (a *AdminController) ConfirmReward(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	if err := a.loyalty.Confirm(id, time.Now()); err != nil {
		serviceErrorResponse(ctx, err, 50071, "failed to confirm reward")
		return
	}
	utils.Success(ctx, gin.H{"message": "reward confirmed"})
}

// CustomerSummary exposes one customer's loyalty state to admins.
func (a *AdminController) CustomerSummary(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	summary, err := a.loyalty.Summary(id)
	if err != nil {
		serviceErrorResponse(ctx, err, 50072, "failed to load customer summary")
		return
	}
	utils.Success(ctx, summary)
}

// CustomerPromotionHistory exposes one customer's usage ledger to admins.
func (a *AdminController) CustomerPromotionHistory(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	rows, err := a.loyalty.PromotionHistory(id)
	if err != nil {
		serviceErrorResponse(ctx, err, 50073, "failed to load promotion history")
		return
	}
	utils.Success(ctx, gin.H{"items": rows})
}

func parseIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40019, "invalid id")
		return 0, false
	}
	return uint(id), true
}
