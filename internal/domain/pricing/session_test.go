package pricing

import (
	"testing"
	"time"

	"pcshop_service/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEstimate(prices ...string) *entities.Estimate {
	e := entities.NewEstimate("est-1", "admin-1", time.Now())
	for _, p := range prices {
		e.TableData = append(e.TableData, entities.LineItem{ProductName: "part", Quantity: 1, Price: p})
	}
	return &e
}

func roundingRows(e *entities.Estimate) []entities.ServiceItem {
	var out []entities.ServiceItem
	for _, it := range e.ServiceData {
		if IsRoundingItem(it) {
			out = append(out, it)
		}
	}
	return out
}

func TestEditSession_SelectRoundingAddsSyntheticRow(t *testing.T) {
	e := newEstimate("1,234,567")
	s := NewEditSession(e)

	require.NoError(t, s.SelectRounding(entities.RoundingTenThousand))

	rows := roundingRows(e)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Quantity)
	assert.Equal(t, "[절사할인] 10,000원 단위 -4,567원", rows[0].ProductName)
	assert.Equal(t, entities.RoundingTenThousand, e.PaymentInfo.RoundingType)
	assert.Equal(t, int64(1230000), e.CalculatedValues.TotalPurchase)
	assert.Equal(t, RoundingState{Tier: entities.RoundingTenThousand, Remainder: 4567}, s.State())
	assert.Empty(t, s.Notices())
}

func TestEditSession_SelectSameTierTogglesOff(t *testing.T) {
	e := newEstimate("1,234,567")
	s := NewEditSession(e)

	require.NoError(t, s.SelectRounding(entities.RoundingThousand))
	require.NoError(t, s.SelectRounding(entities.RoundingThousand))

	assert.Empty(t, roundingRows(e))
	assert.Equal(t, entities.RoundingNone, e.PaymentInfo.RoundingType)
	assert.False(t, s.State().Active())
	assert.Equal(t, int64(1234567), e.CalculatedValues.TotalPurchase)
}

func TestEditSession_SwitchTierReplacesRow(t *testing.T) {
	e := newEstimate("1,234,567")
	s := NewEditSession(e)

	require.NoError(t, s.SelectRounding(entities.RoundingHundred))
	require.NoError(t, s.SelectRounding(entities.RoundingTenThousand))

	rows := roundingRows(e)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].ProductName, "-4,567원")
	assert.Equal(t, int64(4567), s.State().Remainder)
}

func TestEditSession_ZeroRemainderKeepsTierWithoutRow(t *testing.T) {
	e := newEstimate("1,200,000")
	s := NewEditSession(e)
	require.NoError(t, s.SetPaymentAmount(FieldLaborCost, 50000))
	require.NoError(t, s.SetVat(true, intPtr(10)))

	require.NoError(t, s.SelectRounding(entities.RoundingThousand))

	assert.Empty(t, roundingRows(e))
	assert.Equal(t, entities.RoundingThousand, e.PaymentInfo.RoundingType)
	assert.True(t, s.State().Active())
	assert.Equal(t, int64(1250000), e.CalculatedValues.TotalPurchase)
	assert.Equal(t, int64(1375000), e.CalculatedValues.FinalPayment)
}

func TestEditSession_ClearRounding(t *testing.T) {
	e := newEstimate("1,234,567")
	s := NewEditSession(e)
	require.NoError(t, s.SelectRounding(entities.RoundingThousand))

	s.ClearRounding()

	assert.Empty(t, roundingRows(e))
	assert.Equal(t, entities.RoundingNone, e.PaymentInfo.RoundingType)
	assert.Empty(t, s.Notices())
}

func TestEditSession_ContributingEditClearsActiveRounding(t *testing.T) {
	e := newEstimate("1,234,567")
	s := NewEditSession(e)
	require.NoError(t, s.SelectRounding(entities.RoundingThousand))

	require.NoError(t, s.SetPaymentAmount(FieldLaborCost, 10000))

	assert.Empty(t, roundingRows(e))
	assert.Equal(t, entities.RoundingNone, e.PaymentInfo.RoundingType)
	require.Len(t, s.Notices(), 1)
	assert.Equal(t, NoticeRoundingCleared, s.Notices()[0].Code)
	assert.Equal(t, int64(1244567), e.CalculatedValues.TotalPurchase)
}

func TestEditSession_UnchangedContributingAmountKeepsRounding(t *testing.T) {
	e := newEstimate("1,234,567")
	e.PaymentInfo.LaborCost = 50000
	s := NewEditSession(e)
	require.NoError(t, s.SelectRounding(entities.RoundingThousand))

	require.NoError(t, s.SetPaymentAmount(FieldLaborCost, 50000))

	rows := roundingRows(e)
	require.Len(t, rows, 1)
	assert.Equal(t, "[절사할인] 1,000원 단위 -567원", rows[0].ProductName)
	assert.Equal(t, entities.RoundingThousand, e.PaymentInfo.RoundingType)
	assert.True(t, s.State().Active())
	assert.Empty(t, s.Notices())
	assert.Equal(t, int64(1284000), e.CalculatedValues.TotalPurchase)
}

func TestEditSession_ContributingEditWithoutRoundingLeavesServiceData(t *testing.T) {
	e := newEstimate("1,234,567")
	e.ServiceData = []entities.ServiceItem{{ProductName: "mouse pad", Quantity: 1}}
	s := NewEditSession(e)

	require.NoError(t, s.SetPaymentAmount(FieldLaborCost, 10000))

	assert.Equal(t, []entities.ServiceItem{{ProductName: "mouse pad", Quantity: 1}}, e.ServiceData)
	assert.Empty(t, s.Notices())
}

func TestEditSession_NonContributingEditsKeepRounding(t *testing.T) {
	e := newEstimate("1,234,567")
	s := NewEditSession(e)
	require.NoError(t, s.SelectRounding(entities.RoundingThousand))

	require.NoError(t, s.SetPaymentAmount(FieldDeposit, 100000))
	require.NoError(t, s.SetPaymentAmount(FieldShippingCost, 3000))
	require.NoError(t, s.SetVat(true, nil))
	require.NoError(t, s.SetPaymentMethod(entities.PaymentMethodCash, ""))
	require.NoError(t, s.SetReleaseDate("2026-10-20"))
	s.SetNotes("call before delivery")

	assert.Len(t, roundingRows(e), 1)
	assert.Equal(t, entities.RoundingThousand, e.PaymentInfo.RoundingType)
	assert.Empty(t, s.Notices())
	assert.Equal(t, int64(1234000), e.CalculatedValues.TotalPurchase)
	assert.Equal(t, int64(123400), e.CalculatedValues.VatAmount)
}

func TestEditSession_LineItemEdits(t *testing.T) {
	t.Run("add clears rounding", func(t *testing.T) {
		e := newEstimate("1,234,567")
		s := NewEditSession(e)
		require.NoError(t, s.SelectRounding(entities.RoundingThousand))

		s.AddLineItem(entities.LineItem{ProductName: "ssd", Price: "99,000"})

		assert.Empty(t, roundingRows(e))
		assert.Len(t, s.Notices(), 1)
		assert.Equal(t, int64(1333567), e.CalculatedValues.ProductTotal)
	})

	t.Run("update without price change keeps rounding", func(t *testing.T) {
		e := newEstimate("1,234,567")
		s := NewEditSession(e)
		require.NoError(t, s.SelectRounding(entities.RoundingThousand))

		require.NoError(t, s.UpdateLineItem(0, entities.LineItem{ProductName: "cpu", Price: "1234567", Remarks: "boxed"}))

		assert.Len(t, roundingRows(e), 1)
		assert.Empty(t, s.Notices())
	})

	t.Run("update with price change clears rounding", func(t *testing.T) {
		e := newEstimate("1,234,567")
		s := NewEditSession(e)
		require.NoError(t, s.SelectRounding(entities.RoundingThousand))

		require.NoError(t, s.UpdateLineItem(0, entities.LineItem{ProductName: "cpu", Price: "1,000,001"}))

		assert.Empty(t, roundingRows(e))
		assert.Len(t, s.Notices(), 1)
	})

	t.Run("remove out of range", func(t *testing.T) {
		s := NewEditSession(newEstimate("1,000"))
		assert.ErrorIs(t, s.RemoveLineItem(3), ErrIndexOutOfRange)
		assert.ErrorIs(t, s.RemoveLineItem(-1), ErrInvalidEdit)
	})

	t.Run("remove recomputes", func(t *testing.T) {
		e := newEstimate("1,000", "2,000")
		s := NewEditSession(e)
		require.NoError(t, s.RemoveLineItem(0))
		assert.Equal(t, int64(2000), e.CalculatedValues.ProductTotal)
	})
}

func TestEditSession_ImportLineItems(t *testing.T) {
	t.Run("block format", func(t *testing.T) {
		e := newEstimate()
		s := NewEditSession(e)
		n, err := s.ImportLineItems("CPU 인텔 i5-14400F\n정품\n1개\n250,000원\n[RAM] DDR5 16GB\n5600MHz\n2\n98,000원\n")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, int64(348000), e.CalculatedValues.ProductTotal)
	})

	t.Run("malformed adds nothing", func(t *testing.T) {
		e := newEstimate("1,000")
		s := NewEditSession(e)
		require.NoError(t, s.SelectRounding(entities.RoundingHundred))
		before := e.Clone()

		n, err := s.ImportLineItems("one\ntwo\nthree")
		assert.ErrorIs(t, err, ErrUnrecognizedBulkFormat)
		assert.Zero(t, n)
		assert.Equal(t, before.TableData, e.TableData)
		assert.Equal(t, entities.RoundingHundred, e.PaymentInfo.RoundingType)
	})
}

func TestEditSession_ServiceItems(t *testing.T) {
	e := newEstimate("1,234,567")
	s := NewEditSession(e)
	require.NoError(t, s.SelectRounding(entities.RoundingThousand))

	require.NoError(t, s.AddServiceItem(entities.ServiceItem{ProductName: "keyboard", Quantity: 1}))
	require.Len(t, e.ServiceData, 2)
	assert.Equal(t, "keyboard", e.ServiceData[0].ProductName)
	assert.True(t, IsRoundingItem(e.ServiceData[1]))

	assert.ErrorIs(t, s.AddServiceItem(entities.ServiceItem{ProductName: RoundingMarker + " fake"}), ErrSyntheticServiceItem)
	assert.ErrorIs(t, s.RemoveServiceItem(1), ErrSyntheticServiceItem)
	assert.ErrorIs(t, s.UpdateServiceItem(1, entities.ServiceItem{ProductName: "x"}), ErrSyntheticServiceItem)
	assert.ErrorIs(t, s.UpdateServiceItem(5, entities.ServiceItem{ProductName: "x"}), ErrIndexOutOfRange)

	require.NoError(t, s.UpdateServiceItem(0, entities.ServiceItem{ProductName: "mouse", Quantity: 2}))
	require.NoError(t, s.RemoveServiceItem(0))
	require.Len(t, e.ServiceData, 1)
	assert.True(t, IsRoundingItem(e.ServiceData[0]))
}

func TestEditSession_Validation(t *testing.T) {
	s := NewEditSession(newEstimate())
	assert.ErrorIs(t, s.SelectRounding("5down"), ErrInvalidRoundingTier)
	assert.ErrorIs(t, s.SetPaymentAmount(FieldLaborCost, -1), ErrNegativeAmount)
	assert.ErrorIs(t, s.SetPaymentAmount("tip", 1), ErrUnknownPaymentField)
	assert.ErrorIs(t, s.SetVat(true, intPtr(101)), ErrInvalidVatRate)
	assert.ErrorIs(t, s.SetPaymentMethod("bitcoin", ""), ErrInvalidPaymentMethod)
	assert.ErrorIs(t, s.SetReleaseDate("20/10/2026"), ErrInvalidReleaseDate)
}

func TestEditSession_ResumesActiveStateFromStoredEstimate(t *testing.T) {
	e := newEstimate("1,234,567")
	e.PaymentInfo.RoundingType = entities.RoundingThousand
	// stale rows from the client are dropped and rebuilt
	e.ServiceData = []entities.ServiceItem{
		{ProductName: RoundingMarker + " stale"},
		{ProductName: RoundingMarker + " duplicate"},
	}

	s := NewEditSession(e)

	assert.Equal(t, RoundingState{Tier: entities.RoundingThousand, Remainder: 567}, s.State())
	rows := roundingRows(e)
	require.Len(t, rows, 1)
	assert.Equal(t, "[절사할인] 1,000원 단위 -567원", rows[0].ProductName)

	require.NoError(t, s.SetPaymentAmount(FieldDiscount, 1))
	assert.Empty(t, roundingRows(e))
}

func TestEditSession_NilPaymentInfo(t *testing.T) {
	e := &entities.Estimate{ID: "est-1"}
	s := NewEditSession(e)
	require.NotNil(t, e.PaymentInfo)
	assert.False(t, s.State().Active())
	assert.Equal(t, entities.CalculatedValues{}, e.CalculatedValues)
}

func TestEditSession_Apply(t *testing.T) {
	e := newEstimate("1,234,567")
	s := NewEditSession(e)

	cmds := []Command{
		{Type: CmdSelectRounding, Tier: entities.RoundingTenThousand},
		{Type: CmdSetCustomerInfo, CustomerInfo: &entities.CustomerInfo{Name: "Kim"}},
		{Type: CmdSetDescription, Text: "gaming build"},
		{Type: CmdSetContractor, Flag: true},
		{Type: CmdAddServiceItem, ServiceItem: &entities.ServiceItem{ProductName: "mouse", Quantity: 1}},
	}
	for _, c := range cmds {
		require.NoError(t, s.Apply(c))
	}
	assert.Equal(t, "Kim", e.CustomerInfo.Name)
	assert.Equal(t, "gaming build", e.EstimateDescription)
	assert.True(t, e.IsContractor)
	assert.Len(t, roundingRows(e), 1)

	require.NoError(t, s.Apply(Command{Type: CmdSetPaymentAmount, Field: FieldTuningCost, Value: 5000}))
	assert.Empty(t, roundingRows(e))
	assert.Len(t, s.Notices(), 1)

	assert.ErrorIs(t, s.Apply(Command{Type: "explode"}), ErrUnknownCommand)
	assert.ErrorIs(t, s.Apply(Command{Type: CmdAddLineItem}), ErrMissingPayload)
	assert.ErrorIs(t, s.Apply(Command{Type: CmdUpdateServiceItem}), ErrMissingPayload)
}
