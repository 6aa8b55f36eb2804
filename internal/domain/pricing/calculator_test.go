package pricing

import (
	"math"
	"testing"

	"pcshop_service/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestCalculate_ConcreteScenario(t *testing.T) {
	items := []entities.LineItem{{Price: "1,200,000"}}
	p := &entities.PaymentInfo{LaborCost: 50000, IncludeVat: true, VatRate: intPtr(10)}

	got := Calculate(items, p)

	assert.Equal(t, entities.CalculatedValues{
		ProductTotal:  1200000,
		TotalPurchase: 1250000,
		VatAmount:     125000,
		FinalPayment:  1375000,
	}, got)
}

func TestCalculate_RoundingTiers(t *testing.T) {
	items := []entities.LineItem{{Price: "1,234,567"}}

	cases := []struct {
		tier entities.RoundingType
		want int64
	}{
		{entities.RoundingNone, 1234567},
		{entities.RoundingHundred, 1234500},
		{entities.RoundingThousand, 1234000},
		{entities.RoundingTenThousand, 1230000},
	}
	for _, tc := range cases {
		t.Run(string(tc.tier), func(t *testing.T) {
			got := Calculate(items, &entities.PaymentInfo{RoundingType: tc.tier})
			assert.Equal(t, tc.want, got.TotalPurchase)
			assert.Equal(t, tc.want, got.FinalPayment)
			if d := RoundingDivisor(tc.tier); d > 0 {
				assert.Zero(t, got.TotalPurchase%d)
				assert.LessOrEqual(t, got.TotalPurchase, int64(1234567))
			}
		})
	}
}

func TestCalculate_RoundingPropertyOverRange(t *testing.T) {
	tiers := []entities.RoundingType{entities.RoundingHundred, entities.RoundingThousand, entities.RoundingTenThousand}
	for _, tier := range tiers {
		d := RoundingDivisor(tier)
		for v := int64(-25013); v <= 25013; v += 797 {
			p := &entities.PaymentInfo{LaborCost: 0, RoundingType: tier}
			items := []entities.LineItem{{Price: FormatPrice(v)}}
			got := Calculate(items, p).TotalPurchase
			require.Zerof(t, Remainder(got, d), "tier %s value %d", tier, v)
			require.LessOrEqualf(t, got, v, "tier %s value %d", tier, v)
			require.Greaterf(t, got, v-d, "tier %s value %d", tier, v)
		}
	}
}

func TestCalculate_NoVatEqualsProductTotal(t *testing.T) {
	for _, price := range []int64{0, 1, 999, 1200000, 987654321} {
		got := Calculate([]entities.LineItem{{Price: FormatPrice(price)}}, &entities.PaymentInfo{})
		assert.Equal(t, price, got.FinalPayment)
		assert.Equal(t, price, got.ProductTotal)
	}
}

func TestCalculate_NilAndEmptyInputs(t *testing.T) {
	assert.Equal(t, entities.CalculatedValues{}, Calculate(nil, nil))
	assert.Equal(t, entities.CalculatedValues{}, Calculate([]entities.LineItem{}, &entities.PaymentInfo{}))
}

func TestCalculate_VatRate(t *testing.T) {
	items := []entities.LineItem{{Price: "10,005"}}

	t.Run("default rate when missing", func(t *testing.T) {
		got := Calculate(items, &entities.PaymentInfo{IncludeVat: true})
		// 1000.5 rounds half up
		assert.Equal(t, int64(1001), got.VatAmount)
	})

	t.Run("explicit zero is honoured", func(t *testing.T) {
		got := Calculate(items, &entities.PaymentInfo{IncludeVat: true, VatRate: intPtr(0)})
		assert.Zero(t, got.VatAmount)
		assert.Equal(t, int64(10005), got.FinalPayment)
	})

	t.Run("excluded vat ignores rate", func(t *testing.T) {
		got := Calculate(items, &entities.PaymentInfo{IncludeVat: false, VatRate: intPtr(10)})
		assert.Zero(t, got.VatAmount)
	})

	t.Run("negative total rounds half towards positive infinity", func(t *testing.T) {
		got := Calculate([]entities.LineItem{{Price: "-10,005"}}, &entities.PaymentInfo{IncludeVat: true})
		// -1000.5 -> -1000
		assert.Equal(t, int64(-1000), got.VatAmount)
	})
}

func TestCalculate_DiscountIsNotClamped(t *testing.T) {
	got := Calculate([]entities.LineItem{{Price: "10,000"}}, &entities.PaymentInfo{Discount: 15000, IncludeVat: true})
	assert.Equal(t, int64(-5000), got.TotalPurchase)
	assert.Equal(t, int64(-500), got.VatAmount)
	assert.Equal(t, int64(-5500), got.FinalPayment)
}

func TestCalculate_AdditionalCosts(t *testing.T) {
	p := &entities.PaymentInfo{
		LaborCost: 10000, TuningCost: 2000, SetupCost: 300, WarrantyFee: 40, Discount: 5,
		Deposit: 999999, ShippingCost: 888888,
	}
	got := Calculate(nil, p)
	assert.Equal(t, int64(12335), got.TotalPurchase)
}

func TestCalculate_Idempotent(t *testing.T) {
	items := []entities.LineItem{{Price: "123,456"}, {Price: "7,890원"}}
	p := &entities.PaymentInfo{LaborCost: 3333, IncludeVat: true, RoundingType: entities.RoundingThousand}
	first := Calculate(items, p)
	second := Calculate(items, p)
	assert.Equal(t, first, second)
	assert.Equal(t, "123,456", items[0].Price)
}

func TestParsePrice(t *testing.T) {
	cases := map[string]int64{
		"1,200,000":                 1200000,
		" 1,200,000원":               1200000,
		"₩5,000":                    5000,
		"3000KRW":                   3000,
		"-5,000":                    -5000,
		"":                          0,
		"abc":                       0,
		"12.5":                      0,
		"999,999,999,999,999":       999999999999999,
		"1,000,000,000,000,000":     0,
		"9,223,372,036,854,775,807": 0,
	}
	for in, want := range cases {
		assert.Equalf(t, want, ParsePrice(in), "input %q", in)
	}
}

func TestProductTotal_DoesNotWrap(t *testing.T) {
	repeat := func(price string, n int) []entities.LineItem {
		items := make([]entities.LineItem, n)
		for i := range items {
			items[i] = entities.LineItem{Price: price}
		}
		return items
	}
	largest := FormatPrice(MaxPrice)

	assert.Equal(t, MaxPrice+1, ProductTotal([]entities.LineItem{{Price: largest}, {Price: "1"}}))
	assert.Equal(t, int64(1), ProductTotal([]entities.LineItem{{Price: "9,223,372,036,854,775,807"}, {Price: "1"}}))
	assert.Equal(t, int64(math.MaxInt64), ProductTotal(repeat(largest, 10000)))
	assert.Equal(t, int64(math.MinInt64), ProductTotal(repeat("-"+largest, 10000)))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "0", FormatPrice(0))
	assert.Equal(t, "999", FormatPrice(999))
	assert.Equal(t, "1,000", FormatPrice(1000))
	assert.Equal(t, "1,234,567", FormatPrice(1234567))
	assert.Equal(t, "-45,000", FormatPrice(-45000))
}

func TestFloorToAndRemainder(t *testing.T) {
	assert.Equal(t, int64(1230000), FloorTo(1234567, 10000))
	assert.Equal(t, int64(4567), Remainder(1234567, 10000))
	assert.Equal(t, int64(-2000), FloorTo(-1234, 1000))
	assert.Equal(t, int64(766), Remainder(-1234, 1000))
	assert.Equal(t, int64(77), FloorTo(77, 0))
}
