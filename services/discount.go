package services

// StackingMode decides how a promotion discount and a voucher discount combine
// when the customer selected both. The original storefront carried both IDs on an
// order without an arbitration rule; the mode makes that policy explicit and
// configurable.
type StackingMode string

const (
	// StackAdditive sums both discounts, clamped at the subtotal. Default.
	StackAdditive StackingMode = "additive"
	// StackBestOf applies only the larger of the two discounts.
	StackBestOf StackingMode = "best-of"
	// StackPromotionThenVoucher applies the promotion first, then caps the
	// voucher discount at whatever remains.
	StackPromotionThenVoucher StackingMode = "promotion-then-voucher"
)

// ParseStackingMode maps a config string onto a mode, falling back to additive.
func ParseStackingMode(s string) StackingMode {
	switch StackingMode(s) {
	case StackBestOf:
		return StackBestOf
	case StackPromotionThenVoucher:
		return StackPromotionThenVoucher
	default:
		return StackAdditive
	}
}

// DiscountResolver combines per-discount amounts into an order total.
type DiscountResolver struct {
	Mode StackingMode
}

// DiscountBreakdown is the resolved outcome. PromotionDiscount and
// VoucherDiscount are the amounts counted under the mode before the subtotal
// clamp is applied to the total.
type DiscountBreakdown struct {
	PromotionDiscount float64 `json:"promotion_discount"`
	VoucherDiscount   float64 `json:"voucher_discount"`
	TotalDiscount     float64 `json:"total_discount"`
	FinalTotal        float64 `json:"final_total"`
}

// Resolve combines the two discounts under the configured mode. The total
// discount never exceeds the subtotal and the final total never goes below zero.
func (r DiscountResolver) Resolve(subtotal, promotionDiscount, voucherDiscount float64) DiscountBreakdown {
	if promotionDiscount < 0 {
		promotionDiscount = 0
	}
	if voucherDiscount < 0 {
		voucherDiscount = 0
	}

	b := DiscountBreakdown{}
	switch r.Mode {
	case StackBestOf:
		if voucherDiscount > promotionDiscount {
			b.VoucherDiscount = voucherDiscount
		} else {
			b.PromotionDiscount = promotionDiscount
		}
	case StackPromotionThenVoucher:
		b.PromotionDiscount = promotionDiscount
		if remaining := subtotal - promotionDiscount; remaining > 0 {
			b.VoucherDiscount = voucherDiscount
			if b.VoucherDiscount > remaining {
				b.VoucherDiscount = remaining
			}
		}
	default: // StackAdditive
		b.PromotionDiscount = promotionDiscount
		b.VoucherDiscount = voucherDiscount
	}

	b.TotalDiscount = b.PromotionDiscount + b.VoucherDiscount
	if b.TotalDiscount > subtotal {
		b.TotalDiscount = subtotal
	}
	b.FinalTotal = subtotal - b.TotalDiscount
	if b.FinalTotal < 0 {
		b.FinalTotal = 0
	}
	return b
}
