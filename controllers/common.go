package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/maplemart/storefront/middleware"
	"github.com/maplemart/storefront/services"
	"github.com/maplemart/storefront/utils"
)

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 10
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

func getCustomerID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextCustomerIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

// serviceErrorResponse maps rule-engine errors onto HTTP status and the
// API's numeric reason codes. Unknown errors become a 500 with the fallback code.
func serviceErrorResponse(ctx *gin.Context, err error, fallbackCode int, fallbackMsg string) {
	switch {
	case services.IsValidation(err):
		utils.Error(ctx, http.StatusBadRequest, 40010, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, "not found")
	case errors.Is(err, services.ErrPromotionExpired):
		utils.Error(ctx, http.StatusBadRequest, 40030, "promotion expired")
	case errors.Is(err, services.ErrPromotionUserLimitReached):
		utils.Error(ctx, http.StatusBadRequest, 40031, "promotion user limit reached")
	case errors.Is(err, services.ErrVoucherExpired):
		utils.Error(ctx, http.StatusBadRequest, 40032, "voucher expired")
	case errors.Is(err, services.ErrVoucherGlobalLimitReached):
		utils.Error(ctx, http.StatusBadRequest, 40033, "voucher fully redeemed")
	case errors.Is(err, services.ErrVoucherUserLimitReached):
		utils.Error(ctx, http.StatusBadRequest, 40034, "voucher user limit reached")
	case errors.Is(err, services.ErrMinOrderValueNotMet):
		utils.Error(ctx, http.StatusBadRequest, 40035, "minimum order value not met")
	case errors.Is(err, services.ErrInsufficientStock):
		utils.Error(ctx, http.StatusBadRequest, 40036, "insufficient stock")
	case errors.Is(err, services.ErrAlreadyCheckedInToday):
		utils.Error(ctx, http.StatusBadRequest, 40037, "already checked in today")
	case errors.Is(err, services.ErrInsufficientPoints):
		utils.Error(ctx, http.StatusBadRequest, 40038, "insufficient points")
	case errors.Is(err, services.ErrAlreadyConfirmed):
		utils.Error(ctx, http.StatusConflict, 40910, "reward already confirmed")
	case errors.Is(err, services.ErrConcurrencyConflict):
		utils.Error(ctx, http.StatusConflict, 40911, "conflict, please retry")
	default:
		utils.Error(ctx, http.StatusInternalServerError, fallbackCode, fallbackMsg)
	}
}
