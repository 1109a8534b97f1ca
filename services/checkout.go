package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/maplemart/storefront/models"
)

// CheckoutService turns cart contents into orders. Quote is a dry run; Commit
// re-validates everything inside one transaction so a discount that was valid at
// quote time but got consumed in between is rejected rather than over-applied.
type CheckoutService struct {
	db         *gorm.DB
	promotions *PromotionService
	vouchers   *VoucherService
	resolver   DiscountResolver
}

// NewCheckoutService creates a new service instance.
func NewCheckoutService(db *gorm.DB, resolver DiscountResolver) *CheckoutService {
	return &CheckoutService{
		db:         db,
		promotions: NewPromotionService(db),
		vouchers:   NewVoucherService(db),
		resolver:   resolver,
	}
}

// Quote is the priced preview of a checkout before commit.
type Quote struct {
	Items     []models.OrderItem    `json:"items"`
	Subtotal  float64               `json:"subtotal"`
	Promotion *PromotionEligibility `json:"promotion,omitempty"`
	Voucher   *VoucherEligibility   `json:"voucher,omitempty"`
	Breakdown DiscountBreakdown     `json:"breakdown"`
}

// QuoteOrder prices the cart and evaluates the selected discounts without
// writing anything. Inapplicable discounts are reported with their reason and a
// zero amount rather than failing the whole quote.
func (s *CheckoutService) QuoteOrder(customerID uint, items []models.CartItem, promotionID *uint, voucherCode string, asOf time.Time) (*Quote, error) {
	lines, subtotal, err := s.priceItems(s.db, items)
	if err != nil {
		return nil, err
	}

	quote := &Quote{Items: lines, Subtotal: subtotal}

	var promoDiscount, voucherDiscount float64
	if promotionID != nil {
		elig, err := s.promotions.Evaluate(customerID, *promotionID, asOf)
		if err != nil {
			return nil, err
		}
		quote.Promotion = elig
		promoDiscount = elig.Discount(subtotal)
	}
	if voucherCode != "" {
		elig, err := s.vouchers.Evaluate(customerID, voucherCode, subtotal, asOf)
		if err != nil {
			return nil, err
		}
		quote.Voucher = elig
		voucherDiscount = elig.DiscountAmount
	}

	quote.Breakdown = s.resolver.Resolve(subtotal, promoDiscount, voucherDiscount)
	return quote, nil
}

// CommitOrder re-validates eligibility and persists the order atomically. Either
// all of order, order items, usage-ledger rows, stock decrements and the voucher
// counter land, or none do. The voucher's global cap is consumed with a guarded
// UPDATE so two parallel checkouts can never push used_count past max_usage; the
// customer row is locked to serialize per-customer usage counting.
func (s *CheckoutService) CommitOrder(customerID uint, items []models.CartItem, promotionID *uint, voucherCode string, asOf time.Time) (*models.Order, error) {
	if len(items) == 0 {
		return nil, validationErr("items", "order must contain at least one item")
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, validationErr("items", fmt.Sprintf("invalid quantity for product %d", it.ProductID))
		}
	}

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := lockForUpdate(tx).First(&customer, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		lines, subtotal, err := s.priceItems(tx, items)
		if err != nil {
			return err
		}

		var promoDiscount, voucherDiscount float64
		var promotion *models.Promotion
		var voucher *models.Voucher

		if promotionID != nil {
			promotion, promoDiscount, err = s.consumePromotion(tx, customerID, *promotionID, subtotal, asOf)
			if err != nil {
				return err
			}
		}
		if voucherCode != "" {
			voucher, voucherDiscount, err = s.consumeVoucher(tx, customerID, voucherCode, subtotal, asOf)
			if err != nil {
				return err
			}
		}

		breakdown := s.resolver.Resolve(subtotal, promoDiscount, voucherDiscount)

		o := models.Order{
			OrderNumber:       uuid.NewString(),
			CustomerID:        customerID,
			Subtotal:          subtotal,
			PromotionDiscount: breakdown.PromotionDiscount,
			VoucherDiscount:   breakdown.VoucherDiscount,
			TotalDiscount:     breakdown.TotalDiscount,
			Total:             breakdown.FinalTotal,
			Status:            models.OrderStatusPending,
		}
		if promotion != nil {
			o.PromotionID = &promotion.ID
		}
		if voucher != nil {
			o.VoucherID = &voucher.ID
		}
		if err := tx.Create(&o).Error; err != nil {
			return err
		}

		for i := range lines {
			lines[i].OrderID = o.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
		if err := s.decrementStock(tx, items); err != nil {
			return err
		}

		if promotion != nil {
			row := models.UserPromotion{CustomerID: customerID, PromotionID: &promotion.ID, OrderID: o.ID, UsedDate: asOf}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		if voucher != nil {
			row := models.UserPromotion{CustomerID: customerID, VoucherID: &voucher.ID, OrderID: o.ID, UsedDate: asOf}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		order = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// priceItems loads the referenced products and snapshots order lines. Inactive
// or unknown products fail the whole order.
func (s *CheckoutService) priceItems(tx *gorm.DB, items []models.CartItem) ([]models.OrderItem, float64, error) {
	if len(items) == 0 {
		return nil, 0, validationErr("items", "order must contain at least one item")
	}

	lines := make([]models.OrderItem, 0, len(items))
	var subtotal float64
	for _, it := range items {
		var product models.Product
		if err := tx.First(&product, it.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, ErrNotFound
			}
			return nil, 0, err
		}
		if !product.IsActive {
			return nil, 0, validationErr("items", fmt.Sprintf("product %d is not available", product.ID))
		}
		lines = append(lines, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    it.Quantity,
		})
		subtotal += product.Price * float64(it.Quantity)
	}
	return lines, subtotal, nil
}

// decrementStock consumes inventory with guarded updates so concurrent orders
// cannot oversell a product.
func (s *CheckoutService) decrementStock(tx *gorm.DB, items []models.CartItem) error {
	for _, it := range items {
		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", it.ProductID, it.Quantity).
			Update("stock", gorm.Expr("stock - ?", it.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientStock
		}
	}
	return nil
}

// consumePromotion re-validates the promotion inside the commit transaction.
// The caller holds the customer row lock, so the usage count cannot move under us.
func (s *CheckoutService) consumePromotion(tx *gorm.DB, customerID, promotionID uint, subtotal float64, asOf time.Time) (*models.Promotion, float64, error) {
	var promo models.Promotion
	if err := tx.First(&promo, promotionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	if !promo.IsActive || !promo.InWindow(asOf) {
		return nil, 0, ErrPromotionExpired
	}

	var used int64
	if err := tx.Model(&models.UserPromotion{}).
		Where("customer_id = ? AND promotion_id = ?", customerID, promotionID).
		Count(&used).Error; err != nil {
		return nil, 0, err
	}
	if int(used) >= promo.DefaultUserMaxUsage {
		return nil, 0, ErrPromotionUserLimitReached
	}

	discount := subtotal * promo.DiscountPercent / 100
	if discount > subtotal {
		discount = subtotal
	}
	return &promo, discount, nil
}

// consumeVoucher re-validates the voucher and takes one use from the global
// counter. The guarded UPDATE is the serialization point for the max_usage
// invariant: of N concurrent commits only max_usage-used_count can succeed.
func (s *CheckoutService) consumeVoucher(tx *gorm.DB, customerID uint, code string, subtotal float64, asOf time.Time) (*models.Voucher, float64, error) {
	voucher, err := findVoucherByCode(tx, code)
	if err != nil {
		return nil, 0, err
	}
	if voucher.Expired(asOf) {
		return nil, 0, ErrVoucherExpired
	}
	if subtotal < voucher.MinOrder() {
		return nil, 0, ErrMinOrderValueNotMet
	}

	var used int64
	if err := tx.Model(&models.UserPromotion{}).
		Where("customer_id = ? AND voucher_id = ?", customerID, voucher.ID).
		Count(&used).Error; err != nil {
		return nil, 0, err
	}
	if int(used) >= voucher.DefaultUserMaxUsage {
		return nil, 0, ErrVoucherUserLimitReached
	}

	res := tx.Model(&models.Voucher{}).
		Where("id = ? AND used_count < max_usage", voucher.ID).
		Update("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return nil, 0, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, 0, ErrVoucherGlobalLimitReached
	}

	discount := VoucherDiscount(voucher, subtotal)
	return voucher, discount, nil
}

// lockForUpdate takes a row lock on dialects that support SELECT ... FOR UPDATE.
// SQLite serializes writers on its own and rejects the clause.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
