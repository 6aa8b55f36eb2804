package pricing

import (
	"errors"
	"fmt"
	"time"

	"pcshop_service/internal/domain/entities"
)

// ErrInvalidEdit is the parent of every edit validation error.
var ErrInvalidEdit = errors.New("invalid estimate edit")

var (
	ErrInvalidRoundingTier  = fmt.Errorf("%w: unknown rounding tier", ErrInvalidEdit)
	ErrUnknownPaymentField  = fmt.Errorf("%w: unknown payment field", ErrInvalidEdit)
	ErrNegativeAmount       = fmt.Errorf("%w: amount must not be negative", ErrInvalidEdit)
	ErrInvalidVatRate       = fmt.Errorf("%w: vat rate must be between 0 and 100", ErrInvalidEdit)
	ErrInvalidPaymentMethod = fmt.Errorf("%w: unknown payment method", ErrInvalidEdit)
	ErrInvalidReleaseDate   = fmt.Errorf("%w: release date must be YYYY-MM-DD", ErrInvalidEdit)
	ErrIndexOutOfRange      = fmt.Errorf("%w: row index out of range", ErrInvalidEdit)
	ErrSyntheticServiceItem = fmt.Errorf("%w: rounding row is managed by the system", ErrInvalidEdit)
	ErrUnknownCommand       = fmt.Errorf("%w: unknown command", ErrInvalidEdit)
	ErrMissingPayload       = fmt.Errorf("%w: command payload missing", ErrInvalidEdit)
)

// PaymentField names an amount of PaymentInfo an operator can edit.
type PaymentField string

const (
	FieldLaborCost    PaymentField = "labor_cost"
	FieldTuningCost   PaymentField = "tuning_cost"
	FieldSetupCost    PaymentField = "setup_cost"
	FieldWarrantyFee  PaymentField = "warranty_fee"
	FieldDiscount     PaymentField = "discount"
	FieldDeposit      PaymentField = "deposit"
	FieldShippingCost PaymentField = "shipping_cost"
)

// Contributing reports whether the field feeds the purchase total.
func (f PaymentField) Contributing() bool {
	switch f {
	case FieldLaborCost, FieldTuningCost, FieldSetupCost, FieldWarrantyFee, FieldDiscount:
		return true
	}
	return false
}

const NoticeRoundingCleared = "rounding_cleared"

// Notice is a user-visible message produced while applying edits.
type Notice struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RoundingState is RoundingActive(Tier, Remainder) when Tier is set and
// RoundingInactive otherwise.
type RoundingState struct {
	Tier      entities.RoundingType
	Remainder int64
}

func (s RoundingState) Active() bool {
	return s.Tier != entities.RoundingNone
}

// EditSession applies operator edits to an estimate.
//
// Edits are explicit intent events. Only an operator changing a contributing
// amount while a tier is active clears the rounding; recomputing totals never
// does, even though the rounding itself changes TotalPurchase.
type EditSession struct {
	est     *entities.Estimate
	state   RoundingState
	notices []Notice
}

// NewEditSession starts a session on e. The rounding state is derived from the
// stored tier and e is normalized.
func NewEditSession(e *entities.Estimate) *EditSession {
	Normalize(e)
	s := &EditSession{est: e}
	if d := RoundingDivisor(e.PaymentInfo.RoundingType); d > 0 {
		s.state = RoundingState{
			Tier:      e.PaymentInfo.RoundingType,
			Remainder: Remainder(SubtotalBeforeRounding(e.TableData, e.PaymentInfo), d),
		}
	}
	return s
}

func (s *EditSession) Estimate() *entities.Estimate { return s.est }

func (s *EditSession) State() RoundingState { return s.state }

func (s *EditSession) Notices() []Notice { return s.notices }

func (s *EditSession) recompute() {
	s.est.CalculatedValues = Calculate(s.est.TableData, s.est.PaymentInfo)
}

// invalidateRounding runs on operator edits of contributing amounts.
func (s *EditSession) invalidateRounding(reason string) {
	if !s.state.Active() {
		return
	}
	s.dropRounding()
	s.notices = append(s.notices, Notice{
		Code:    NoticeRoundingCleared,
		Message: fmt.Sprintf("rounding was cleared because %s changed", reason),
	})
}

func (s *EditSession) dropRounding() {
	s.est.ServiceData = withoutRoundingItems(s.est.ServiceData)
	s.est.PaymentInfo.RoundingType = entities.RoundingNone
	s.state = RoundingState{}
}

// SelectRounding activates tier. Selecting the active tier again toggles the
// rounding off; selecting none is the same as ClearRounding.
func (s *EditSession) SelectRounding(tier entities.RoundingType) error {
	defer s.recompute()
	if tier == entities.RoundingNone {
		s.dropRounding()
		return nil
	}
	d := RoundingDivisor(tier)
	if d == 0 {
		return ErrInvalidRoundingTier
	}
	if s.state.Active() && s.state.Tier == tier {
		s.dropRounding()
		return nil
	}

	s.est.ServiceData = withoutRoundingItems(s.est.ServiceData)
	rem := Remainder(SubtotalBeforeRounding(s.est.TableData, s.est.PaymentInfo), d)
	if rem > 0 {
		s.est.ServiceData = append(s.est.ServiceData, RoundingItem(tier, rem))
	}
	s.est.PaymentInfo.RoundingType = tier
	s.state = RoundingState{Tier: tier, Remainder: rem}
	return nil
}

// ClearRounding removes the rounding row and the tier unconditionally.
func (s *EditSession) ClearRounding() {
	defer s.recompute()
	s.dropRounding()
}

func (s *EditSession) SetPaymentAmount(field PaymentField, value int64) error {
	defer s.recompute()
	if value < 0 {
		return ErrNegativeAmount
	}
	p := s.est.PaymentInfo
	var target *int64
	switch field {
	case FieldLaborCost:
		target = &p.LaborCost
	case FieldTuningCost:
		target = &p.TuningCost
	case FieldSetupCost:
		target = &p.SetupCost
	case FieldWarrantyFee:
		target = &p.WarrantyFee
	case FieldDiscount:
		target = &p.Discount
	case FieldDeposit:
		target = &p.Deposit
	case FieldShippingCost:
		target = &p.ShippingCost
	default:
		return ErrUnknownPaymentField
	}
	old := *target
	*target = value
	if field.Contributing() && old != value {
		s.invalidateRounding(string(field))
	}
	return nil
}

func (s *EditSession) SetVat(include bool, rate *int) error {
	defer s.recompute()
	if rate != nil && (*rate < 0 || *rate > 100) {
		return ErrInvalidVatRate
	}
	s.est.PaymentInfo.IncludeVat = include
	if rate != nil {
		r := *rate
		s.est.PaymentInfo.VatRate = &r
	} else {
		s.est.PaymentInfo.VatRate = nil
	}
	return nil
}

func (s *EditSession) SetPaymentMethod(method entities.PaymentMethod, custom string) error {
	if !method.Valid() {
		return ErrInvalidPaymentMethod
	}
	s.est.PaymentInfo.PaymentMethod = method
	if method == entities.PaymentMethodCustom {
		s.est.PaymentInfo.CustomMethod = custom
	} else {
		s.est.PaymentInfo.CustomMethod = ""
	}
	return nil
}

func (s *EditSession) SetReleaseDate(date string) error {
	if date != "" {
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			return ErrInvalidReleaseDate
		}
	}
	s.est.PaymentInfo.ReleaseDate = date
	return nil
}

func (s *EditSession) AddLineItem(item entities.LineItem) {
	defer s.recompute()
	s.est.TableData = append(s.est.TableData, item)
	s.invalidateRounding("product list")
}

// UpdateLineItem replaces a row. It counts as a contributing edit only when
// the parsed price changes.
func (s *EditSession) UpdateLineItem(index int, item entities.LineItem) error {
	defer s.recompute()
	if index < 0 || index >= len(s.est.TableData) {
		return ErrIndexOutOfRange
	}
	priceChanged := ParsePrice(s.est.TableData[index].Price) != ParsePrice(item.Price)
	s.est.TableData[index] = item
	if priceChanged {
		s.invalidateRounding("product price")
	}
	return nil
}

func (s *EditSession) RemoveLineItem(index int) error {
	defer s.recompute()
	if index < 0 || index >= len(s.est.TableData) {
		return ErrIndexOutOfRange
	}
	s.est.TableData = append(s.est.TableData[:index], s.est.TableData[index+1:]...)
	s.invalidateRounding("product list")
	return nil
}

// ImportLineItems appends the rows parsed from pasted text. On a parse error
// nothing is added.
func (s *EditSession) ImportLineItems(text string) (int, error) {
	defer s.recompute()
	items, err := ParseBulkInput(text)
	if err != nil {
		return 0, err
	}
	s.est.TableData = append(s.est.TableData, items...)
	s.invalidateRounding("product list")
	return len(items), nil
}

func (s *EditSession) AddServiceItem(item entities.ServiceItem) error {
	if IsRoundingItem(item) {
		return ErrSyntheticServiceItem
	}
	// The rounding row stays last.
	n := len(s.est.ServiceData)
	if n > 0 && IsRoundingItem(s.est.ServiceData[n-1]) {
		last := s.est.ServiceData[n-1]
		s.est.ServiceData = append(s.est.ServiceData[:n-1], item, last)
		return nil
	}
	s.est.ServiceData = append(s.est.ServiceData, item)
	return nil
}

func (s *EditSession) UpdateServiceItem(index int, item entities.ServiceItem) error {
	if index < 0 || index >= len(s.est.ServiceData) {
		return ErrIndexOutOfRange
	}
	if IsRoundingItem(s.est.ServiceData[index]) || IsRoundingItem(item) {
		return ErrSyntheticServiceItem
	}
	s.est.ServiceData[index] = item
	return nil
}

func (s *EditSession) RemoveServiceItem(index int) error {
	if index < 0 || index >= len(s.est.ServiceData) {
		return ErrIndexOutOfRange
	}
	if IsRoundingItem(s.est.ServiceData[index]) {
		return ErrSyntheticServiceItem
	}
	s.est.ServiceData = append(s.est.ServiceData[:index], s.est.ServiceData[index+1:]...)
	return nil
}

func (s *EditSession) SetCustomerInfo(info entities.CustomerInfo) {
	s.est.CustomerInfo = info
}

func (s *EditSession) SetDescription(text string) {
	s.est.EstimateDescription = text
}

func (s *EditSession) SetNotes(text string) {
	s.est.Notes = text
}

func (s *EditSession) SetContractor(v bool) {
	s.est.IsContractor = v
}
