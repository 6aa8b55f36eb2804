package pricing

import (
	"fmt"
	"strings"

	"pcshop_service/internal/domain/entities"
)

// RoundingMarker prefixes the service row that carries the rounding discount.
const RoundingMarker = "[절사할인]"

// IsRoundingItem reports whether a service row is the system-managed rounding row.
func IsRoundingItem(it entities.ServiceItem) bool {
	return strings.HasPrefix(strings.TrimSpace(it.ProductName), RoundingMarker)
}

// RoundingItem builds the rounding row for a tier and the amount cut off.
func RoundingItem(tier entities.RoundingType, remainder int64) entities.ServiceItem {
	return entities.ServiceItem{
		ProductName: RoundingLabel(tier, remainder),
		Quantity:    1,
	}
}

// RoundingLabel encodes the tier unit and the discount: "[절사할인] 1,000원 단위 -4,567원".
func RoundingLabel(tier entities.RoundingType, remainder int64) string {
	return fmt.Sprintf("%s %s원 단위 -%s원", RoundingMarker, FormatPrice(RoundingDivisor(tier)), FormatPrice(remainder))
}

func withoutRoundingItems(items []entities.ServiceItem) []entities.ServiceItem {
	out := make([]entities.ServiceItem, 0, len(items))
	for _, it := range items {
		if !IsRoundingItem(it) {
			out = append(out, it)
		}
	}
	return out
}

// Normalize reconciles a whole estimate before it is stored: stray or
// duplicated rounding rows are dropped, the row is rebuilt from the current
// remainder when a tier is selected and CalculatedValues is recomputed.
// An unknown tier is reset to none.
func Normalize(e *entities.Estimate) {
	if e.PaymentInfo == nil {
		e.PaymentInfo = &entities.PaymentInfo{}
	}
	if e.TableData == nil {
		e.TableData = []entities.LineItem{}
	}

	e.ServiceData = withoutRoundingItems(e.ServiceData)
	tier := e.PaymentInfo.RoundingType
	if d := RoundingDivisor(tier); d > 0 {
		if rem := Remainder(SubtotalBeforeRounding(e.TableData, e.PaymentInfo), d); rem > 0 {
			e.ServiceData = append(e.ServiceData, RoundingItem(tier, rem))
		}
	} else {
		e.PaymentInfo.RoundingType = entities.RoundingNone
	}

	e.CalculatedValues = Calculate(e.TableData, e.PaymentInfo)
}
