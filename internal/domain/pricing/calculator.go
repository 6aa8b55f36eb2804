// Package pricing computes estimate totals and keeps the rounding discount row
// consistent with the selected rounding tier.
package pricing

import (
	"math"
	"strconv"
	"strings"

	"pcshop_service/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// DefaultVatRate is used when VAT is included but no rate was provided.
const DefaultVatRate = 10

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// Calculate derives the estimate totals. A nil PaymentInfo is treated as a
// zeroed structure. Calculate has no side effects.
func Calculate(items []entities.LineItem, p *entities.PaymentInfo) entities.CalculatedValues {
	if p == nil {
		p = &entities.PaymentInfo{}
	}

	productTotal := ProductTotal(items)
	totalPurchase := productTotal + AdditionalCosts(p)
	if d := RoundingDivisor(p.RoundingType); d > 0 {
		totalPurchase = FloorTo(totalPurchase, d)
	}

	vat := VatAmount(totalPurchase, p)
	return entities.CalculatedValues{
		ProductTotal:  productTotal,
		TotalPurchase: totalPurchase,
		VatAmount:     vat,
		FinalPayment:  totalPurchase + vat,
	}
}

// MaxPrice is the largest magnitude ParsePrice accepts (15 digits).
const MaxPrice int64 = 999_999_999_999_999

// ProductTotal sums the parsed price of every line item. The sum saturates at
// the int64 bounds instead of wrapping.
func ProductTotal(items []entities.LineItem) int64 {
	var total int64
	for _, it := range items {
		total = addSaturated(total, ParsePrice(it.Price))
	}
	return total
}

func addSaturated(a, b int64) int64 {
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return math.MaxInt64
	case b < 0 && a < math.MinInt64-b:
		return math.MinInt64
	}
	return a + b
}

// AdditionalCosts is labor + tuning + setup + warranty - discount. The result
// is not clamped: a discount larger than the subtotal yields a negative value.
func AdditionalCosts(p *entities.PaymentInfo) int64 {
	if p == nil {
		return 0
	}
	return p.LaborCost + p.TuningCost + p.SetupCost + p.WarrantyFee - p.Discount
}

// SubtotalBeforeRounding is the purchase total before any rounding tier applies.
func SubtotalBeforeRounding(items []entities.LineItem, p *entities.PaymentInfo) int64 {
	return ProductTotal(items) + AdditionalCosts(p)
}

// EffectiveVatRate returns the percentage applied to the purchase total.
func EffectiveVatRate(p *entities.PaymentInfo) int {
	if p == nil || !p.IncludeVat {
		return 0
	}
	if p.VatRate == nil {
		return DefaultVatRate
	}
	return *p.VatRate
}

// VatAmount rounds totalPurchase*rate/100 half up (towards +inf on .5).
func VatAmount(totalPurchase int64, p *entities.PaymentInfo) int64 {
	rate := EffectiveVatRate(p)
	if rate == 0 {
		return 0
	}
	v := decimal.NewFromInt(totalPurchase).
		Mul(decimal.NewFromInt(int64(rate))).
		Div(hundred).
		Add(half).
		Floor()
	return v.IntPart()
}

// RoundingDivisor returns 100, 1000 or 10000 for a tier and 0 for none or an
// unknown value.
func RoundingDivisor(t entities.RoundingType) int64 {
	switch t {
	case entities.RoundingHundred:
		return 100
	case entities.RoundingThousand:
		return 1000
	case entities.RoundingTenThousand:
		return 10000
	}
	return 0
}

// FloorTo floors v to a multiple of d, rounding towards negative infinity.
func FloorTo(v, d int64) int64 {
	if d <= 0 {
		return v
	}
	q := v / d
	if v%d != 0 && v < 0 {
		q--
	}
	return q * d
}

// Remainder is v - FloorTo(v, d); always in [0, d).
func Remainder(v, d int64) int64 {
	return v - FloorTo(v, d)
}

// ParsePrice reads an operator-formatted amount such as "1,200,000원".
// Separators, blanks and a currency suffix are ignored; anything else that
// does not parse, or exceeds MaxPrice in magnitude, yields 0.
func ParsePrice(s string) int64 {
	s = strings.TrimSpace(s)
	for _, suffix := range []string{"원", "KRW", "krw", "₩"} {
		s = strings.TrimSuffix(s, suffix)
	}
	s = strings.TrimPrefix(s, "₩")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ',', ' ', '\t':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v > MaxPrice || v < -MaxPrice {
		return 0
	}
	return v
}

// FormatPrice renders v with thousands separators: 1234567 -> "1,234,567".
func FormatPrice(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	digits := strconv.FormatInt(v, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
