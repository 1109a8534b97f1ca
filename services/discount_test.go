package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStackingMode(t *testing.T) {
	assert.Equal(t, StackAdditive, ParseStackingMode("additive"))
	assert.Equal(t, StackBestOf, ParseStackingMode("best-of"))
	assert.Equal(t, StackPromotionThenVoucher, ParseStackingMode("promotion-then-voucher"))
	assert.Equal(t, StackAdditive, ParseStackingMode(""))
	assert.Equal(t, StackAdditive, ParseStackingMode("bogus"))
}

func TestResolveAdditive(t *testing.T) {
	r := DiscountResolver{Mode: StackAdditive}

	b := r.Resolve(200, 20, 15)
	assert.Equal(t, 20.0, b.PromotionDiscount)
	assert.Equal(t, 15.0, b.VoucherDiscount)
	assert.Equal(t, 35.0, b.TotalDiscount)
	assert.Equal(t, 165.0, b.FinalTotal)
}

func TestResolveAdditiveClampsAtSubtotal(t *testing.T) {
	r := DiscountResolver{Mode: StackAdditive}

	b := r.Resolve(50, 40, 30)
	assert.Equal(t, 50.0, b.TotalDiscount)
	assert.Equal(t, 0.0, b.FinalTotal)
}

func TestResolveBestOf(t *testing.T) {
	r := DiscountResolver{Mode: StackBestOf}

	b := r.Resolve(200, 20, 35)
	assert.Equal(t, 0.0, b.PromotionDiscount)
	assert.Equal(t, 35.0, b.VoucherDiscount)
	assert.Equal(t, 35.0, b.TotalDiscount)
	assert.Equal(t, 165.0, b.FinalTotal)

	// ties go to the promotion
	b = r.Resolve(200, 20, 20)
	assert.Equal(t, 20.0, b.PromotionDiscount)
	assert.Equal(t, 0.0, b.VoucherDiscount)
}

func TestResolvePromotionThenVoucher(t *testing.T) {
	r := DiscountResolver{Mode: StackPromotionThenVoucher}

	// voucher capped at what the promotion left over
	b := r.Resolve(100, 80, 50)
	assert.Equal(t, 80.0, b.PromotionDiscount)
	assert.Equal(t, 20.0, b.VoucherDiscount)
	assert.Equal(t, 100.0, b.TotalDiscount)
	assert.Equal(t, 0.0, b.FinalTotal)

	// nothing left for the voucher
	b = r.Resolve(100, 100, 50)
	assert.Equal(t, 100.0, b.PromotionDiscount)
	assert.Equal(t, 0.0, b.VoucherDiscount)
}

func TestResolveNegativeInputsTreatedAsZero(t *testing.T) {
	r := DiscountResolver{Mode: StackAdditive}

	b := r.Resolve(100, -5, -10)
	assert.Equal(t, 0.0, b.TotalDiscount)
	assert.Equal(t, 100.0, b.FinalTotal)
}
