package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/maplemart/storefront/models"
	"github.com/maplemart/storefront/services"
	"github.com/maplemart/storefront/utils"
)

// CheckoutController exposes discount evaluation, quoting and the commit path.
type CheckoutController struct {
	db         *gorm.DB
	checkout   *services.CheckoutService
	promotions *services.PromotionService
	vouchers   *services.VoucherService
}

// NewCheckoutController creates a new controller instance.
func NewCheckoutController(db *gorm.DB, resolver services.DiscountResolver) *CheckoutController {
	return &CheckoutController{
		db:         db,
		checkout:   services.NewCheckoutService(db, resolver),
		promotions: services.NewPromotionService(db),
		vouchers:   services.NewVoucherService(db),
	}
}

// checkoutRequest carries either a cart token or explicit items plus the
// customer's chosen discounts.
type checkoutRequest struct {
	CartToken   string            `json:"cart_token"`
	Items       []models.CartItem `json:"items"`
	PromotionID *uint             `json:"promotion_id"`
	VoucherCode string            `json:"voucher_code"`
}

func (c *CheckoutController) resolveItems(ctx *gin.Context, req *checkoutRequest) ([]models.CartItem, bool) {
	if req.CartToken == "" {
		return req.Items, true
	}
	cart, err := utils.LoadCart(req.CartToken)
	if err != nil {
		if errors.Is(err, utils.ErrCartNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "cart not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to load cart")
		return nil, false
	}
	return cart.Items, true
}

// EvaluatePromotion reports promotion applicability for the caller.
func (c *CheckoutController) EvaluatePromotion(ctx *gin.Context) {
	customerID, ok := getCustomerID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	promotionID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40015, "invalid promotion id")
		return
	}

	result, err := c.promotions.Evaluate(customerID, uint(promotionID), time.Now())
	if err != nil {
		serviceErrorResponse(ctx, err, 50041, "failed to evaluate promotion")
		return
	}
	utils.Success(ctx, result)
}

// EvaluateVoucher reports voucher applicability and discount for a subtotal.
func (c *CheckoutController) EvaluateVoucher(ctx *gin.Context) {
	customerID, ok := getCustomerID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Code          string  `json:"code" binding:"required"`
		OrderSubtotal float64 `json:"order_subtotal"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40016, "invalid request payload")
		return
	}

	result, err := c.vouchers.Evaluate(customerID, req.Code, req.OrderSubtotal, time.Now())
	if err != nil {
		serviceErrorResponse(ctx, err, 50042, "failed to evaluate voucher")
		return
	}
	utils.Success(ctx, result)
}

// Quote prices the checkout without committing anything.
func (c *CheckoutController) Quote(ctx *gin.Context) {
	customerID, ok := getCustomerID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req checkoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40017, "invalid request payload")
		return
	}
	items, ok := c.resolveItems(ctx, &req)
	if !ok {
		return
	}

	quote, err := c.checkout.QuoteOrder(customerID, items, req.PromotionID, req.VoucherCode, time.Now())
	if err != nil {
		serviceErrorResponse(ctx, err, 50043, "failed to quote order")
		return
	}
	utils.Success(ctx, quote)
}

// Commit validates and persists the order. The cart, if one was used, is
// dropped only after the commit succeeded.
func (c *CheckoutController) Commit(ctx *gin.Context) {
	customerID, ok := getCustomerID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req checkoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40017, "invalid request payload")
		return
	}
	items, ok := c.resolveItems(ctx, &req)
	if !ok {
		return
	}

	order, err := c.checkout.CommitOrder(customerID, items, req.PromotionID, req.VoucherCode, time.Now())
	if err != nil {
		serviceErrorResponse(ctx, err, 50044, "failed to commit order")
		return
	}

	if req.CartToken != "" {
		if err := utils.DeleteCart(req.CartToken); err != nil {
			utils.Sugar.Warnf("failed to drop cart %s after checkout: %v", req.CartToken, err)
		}
	}

	utils.Success(ctx, gin.H{"order": order})
}

// ListMyOrders returns the caller's orders, newest first.
func (c *CheckoutController) ListMyOrders(ctx *gin.Context) {
	customerID, ok := getCustomerID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	var orders []models.Order
	var total int64
	query := c.db.Model(&models.Order{}).Where("customer_id = ?", customerID).Order("created_at DESC")
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to count orders")
		return
	}
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&orders).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to list orders")
		return
	}

	utils.Success(ctx, gin.H{
		"items": orders,
		"pagination": gin.H{
			"page":      page,
			"page_size": pageSize,
			"total":     total,
		},
	})
}

// GetOrder returns one of the caller's orders with its items.
func (c *CheckoutController) GetOrder(ctx *gin.Context) {
	customerID, ok := getCustomerID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var order models.Order
	if err := c.db.Where("order_number = ? AND customer_id = ?", ctx.Param("number"), customerID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40440, "order not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50047, "failed to load order")
		return
	}

	var lines []models.OrderItem
	if err := c.db.Where("order_id = ?", order.ID).Find(&lines).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50048, "failed to load order items")
		return
	}

	utils.Success(ctx, gin.H{"order": order, "items": lines})
}
