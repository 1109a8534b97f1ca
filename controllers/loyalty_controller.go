package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maplemart/storefront/services"
	"github.com/maplemart/storefront/utils"
)

// LoyaltyController handles daily check-ins and reward redemption.
type LoyaltyController struct {
	loyalty *services.LoyaltyService
}

// NewLoyaltyController creates a new controller instance.
func NewLoyaltyController(loyalty *services.LoyaltyService) *LoyaltyController {
	return &LoyaltyController{loyalty: loyalty}
}

// CheckIn records the customer's daily check-in and awards points.
func (l *LoyaltyController) CheckIn(ctx *gin.Context) {
	customerID, ok := getCustomerID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	result, err := l.loyalty.CheckIn(customerID, time.Now())
	if err != nil {
		serviceErrorResponse(ctx, err, 50051, "failed to record check-in")
		return
	}

	utils.Success(ctx, gin.H{
		"message":       "check-in successful",
		"points_earned": result.PointsEarned,
		"new_total":     result.NewTotal,
		"streak":        result.Streak,
	})
}

// Summary returns the caller's points, streak and recent ledger entries.
func (l *LoyaltyController) Summary(ctx *gin.Context) {
	customerID, ok := getCustomerID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	summary, err := l.loyalty.Summary(customerID)
	if err != nil {
		serviceErrorResponse(ctx, err, 50052, "failed to load summary")
		return
	}
	utils.Success(ctx, summary)
}

// Redeem exchanges points for a reward pending admin confirmation.
func (l *LoyaltyController) Redeem(ctx *gin.Context) {
	customerID, ok := getCustomerID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		RewardName string `json:"reward_name" binding:"required"`
		PointsCost int    `json:"points_cost" binding:"required,gt=0"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40018, "invalid request payload")
		return
	}

	reward, err := l.loyalty.Redeem(customerID, req.RewardName, req.PointsCost, time.Now())
	if err != nil {
		serviceErrorResponse(ctx, err, 50053, "failed to redeem reward")
		return
	}
	utils.Success(ctx, gin.H{"reward": reward})
}

// PromotionHistory lists the caller's discount usage ledger.
func (l *LoyaltyController) PromotionHistory(ctx *gin.Context) {
	customerID, ok := getCustomerID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	rows, err := l.loyalty.PromotionHistory(customerID)
	if err != nil {
		serviceErrorResponse(ctx, err, 50054, "failed to load promotion history")
		return
	}
	utils.Success(ctx, gin.H{"items": rows})
}
