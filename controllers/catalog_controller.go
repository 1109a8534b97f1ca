package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/maplemart/storefront/config"
	"github.com/maplemart/storefront/models"
	"github.com/maplemart/storefront/utils"
)

// CatalogController serves the public product catalog.
type CatalogController struct {
	db *gorm.DB
}

// NewCatalogController creates a new controller instance.
func NewCatalogController(db *gorm.DB) *CatalogController {
	return &CatalogController{db: db}
}

// ListProducts returns paginated active products. Listing responses without a
// search term are cached in Redis; search results are not, to avoid cache key
// explosion.
func (c *CatalogController) ListProducts(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := strings.TrimSpace(ctx.Query("search"))
	category := strings.TrimSpace(ctx.Query("category"))

	cacheKey := fmt.Sprintf("cache:products:list:cat=%s:page=%d:size=%d", category, page, pageSize)
	if search == "" {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(200, "application/json", b)
			return
		}
	}

	var products []models.Product
	var total int64

	query := c.db.Model(&models.Product{}).Where("is_active = ?", true).Order("created_at DESC")
	if search != "" {
		query = query.Where("name LIKE ? OR description LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to count products")
		return
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Find(&products).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list products")
		return
	}

	payload := gin.H{
		"items": products,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	}
	if search == "" {
		wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
		utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	}
	utils.Success(ctx, payload)
}

// Notice returns the site announcement banner. The HTML body is sanitized on
// the way out since it comes from operator-editable configuration.
func (c *CatalogController) Notice(ctx *gin.Context) {
	conf := config.Get()
	utils.Success(ctx, gin.H{
		"title": conf.NoticeTitle,
		"html":  utils.Sanitize(conf.NoticeHTML),
	})
}

// GetProduct returns one product by slug.
func (c *CatalogController) GetProduct(ctx *gin.Context) {
	slug := ctx.Param("slug")

	var product models.Product
	if err := c.db.Where("slug = ? AND is_active = ?", slug, true).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "product not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load product")
		return
	}

	utils.Success(ctx, gin.H{"product": product})
}
