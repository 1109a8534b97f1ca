package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/maplemart/storefront/config"
	"github.com/maplemart/storefront/models"
	"github.com/maplemart/storefront/utils"
)

// CartController manages Redis-backed carts. Carts are anonymous value objects
// keyed by an opaque token; nothing here touches the customer session.
type CartController struct {
	db *gorm.DB
}

// NewCartController creates a new controller instance.
func NewCartController(db *gorm.DB) *CartController {
	return &CartController{db: db}
}

func cartTTL() time.Duration {
	return time.Duration(config.Get().CartTTLMinutes) * time.Minute
}

// CreateCart mints an empty cart and returns its token.
func (c *CartController) CreateCart(ctx *gin.Context) {
	cart := &models.Cart{Token: utils.NewCartToken()}
	if err := utils.SaveCart(cart, cartTTL()); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to create cart")
		return
	}
	utils.Success(ctx, gin.H{"cart": cart})
}

// GetCart returns the cart for a token.
func (c *CartController) GetCart(ctx *gin.Context) {
	cart, ok := c.loadCart(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, gin.H{"cart": cart})
}

// SetItem adds or updates one product line. Quantity zero removes the line.
func (c *CartController) SetItem(ctx *gin.Context) {
	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40013, "invalid request payload")
		return
	}
	if req.Quantity < 0 {
		utils.Error(ctx, http.StatusBadRequest, 40014, "quantity must not be negative")
		return
	}

	if req.Quantity > 0 {
		var product models.Product
		if err := c.db.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.Error(ctx, http.StatusNotFound, 40420, "product not found")
				return
			}
			utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load product")
			return
		}
	}

	cart, ok := c.loadCart(ctx)
	if !ok {
		return
	}

	cart.SetItem(req.ProductID, req.Quantity)
	if err := utils.SaveCart(cart, cartTTL()); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to save cart")
		return
	}
	utils.Success(ctx, gin.H{"cart": cart})
}

// RemoveItem deletes one product line.
func (c *CartController) RemoveItem(ctx *gin.Context) {
	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40013, "invalid request payload")
		return
	}

	cart, ok := c.loadCart(ctx)
	if !ok {
		return
	}

	cart.Remove(req.ProductID)
	if err := utils.SaveCart(cart, cartTTL()); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to save cart")
		return
	}
	utils.Success(ctx, gin.H{"cart": cart})
}

// ClearCart empties the cart but keeps the token alive.
func (c *CartController) ClearCart(ctx *gin.Context) {
	cart, ok := c.loadCart(ctx)
	if !ok {
		return
	}

	cart.Items = nil
	if err := utils.SaveCart(cart, cartTTL()); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to save cart")
		return
	}
	utils.Success(ctx, gin.H{"cart": cart})
}

func (c *CartController) loadCart(ctx *gin.Context) (*models.Cart, bool) {
	token := ctx.Param("token")
	cart, err := utils.LoadCart(token)
	if err != nil {
		if errors.Is(err, utils.ErrCartNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "cart not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to load cart")
		return nil, false
	}
	return cart, true
}
