package entities

import "time"

// RoundingType selects the floor-rounding tier applied to the purchase total.
//
// The zero value means no rounding.
type RoundingType string

const (
	RoundingNone        RoundingType = ""
	RoundingHundred     RoundingType = "100down"
	RoundingThousand    RoundingType = "1000down"
	RoundingTenThousand RoundingType = "10000down"
)

func (r RoundingType) Valid() bool {
	switch r {
	case RoundingNone, RoundingHundred, RoundingThousand, RoundingTenThousand:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodCardDiscount PaymentMethod = "card_discount"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCustom       PaymentMethod = "custom"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case "", PaymentMethodCard, PaymentMethodCardDiscount, PaymentMethodCash, PaymentMethodCustom:
		return true
	}
	return false
}

// PresetValue is a free-form field whose value is either one of a small set of
// presets or a custom string typed by the operator. IsPreset is set by whoever
// renders the choice.
type PresetValue struct {
	Value    string `json:"value" dynamodbav:"value"`
	IsPreset bool   `json:"is_preset" dynamodbav:"is_preset"`
}

type CustomerInfo struct {
	Name         string      `json:"name" dynamodbav:"name"`
	Phone        string      `json:"phone" dynamodbav:"phone"`
	ContractType PresetValue `json:"contract_type" dynamodbav:"contract_type"`
	SaleType     PresetValue `json:"sale_type" dynamodbav:"sale_type"`
	PurchaseType PresetValue `json:"purchase_type" dynamodbav:"purchase_type"`
	Purpose      PresetValue `json:"purpose" dynamodbav:"purpose"`
	OS           PresetValue `json:"os" dynamodbav:"os"`
	Manager      PresetValue `json:"manager" dynamodbav:"manager"`
}

// LineItem is a priced product row. Price keeps the operator's formatting
// ("1,200,000"); it is parsed when totals are computed.
type LineItem struct {
	Category     string `json:"category" dynamodbav:"category"`
	ProductName  string `json:"product_name" dynamodbav:"product_name"`
	Quantity     int    `json:"quantity" dynamodbav:"quantity"`
	Price        string `json:"price" dynamodbav:"price"`
	ProductCode  string `json:"product_code" dynamodbav:"product_code"`
	Distributor  string `json:"distributor" dynamodbav:"distributor"`
	Manufacturer string `json:"manufacturer" dynamodbav:"manufacturer"`
	Remarks      string `json:"remarks" dynamodbav:"remarks"`
}

// ServiceItem is a free bundled row. Rows whose name starts with the rounding
// marker are maintained by the pricing package, never by the operator.
type ServiceItem struct {
	ProductName string `json:"product_name" dynamodbav:"product_name"`
	Quantity    int    `json:"quantity" dynamodbav:"quantity"`
	Remarks     string `json:"remarks" dynamodbav:"remarks"`
}

// PaymentInfo holds the payment terms of an estimate. Amounts are KRW.
//
// VatRate: nil means "not provided" (defaults to 10%), 0 is a real 0% rate.
type PaymentInfo struct {
	LaborCost     int64         `json:"labor_cost" dynamodbav:"labor_cost"`
	TuningCost    int64         `json:"tuning_cost" dynamodbav:"tuning_cost"`
	SetupCost     int64         `json:"setup_cost" dynamodbav:"setup_cost"`
	WarrantyFee   int64         `json:"warranty_fee" dynamodbav:"warranty_fee"`
	Discount      int64         `json:"discount" dynamodbav:"discount"`
	Deposit       int64         `json:"deposit" dynamodbav:"deposit"`
	ShippingCost  int64         `json:"shipping_cost" dynamodbav:"shipping_cost"`
	IncludeVat    bool          `json:"include_vat" dynamodbav:"include_vat"`
	VatRate       *int          `json:"vat_rate,omitempty" dynamodbav:"vat_rate,omitempty"`
	RoundingType  RoundingType  `json:"rounding_type" dynamodbav:"rounding_type"`
	PaymentMethod PaymentMethod `json:"payment_method" dynamodbav:"payment_method"`
	CustomMethod  string        `json:"custom_method,omitempty" dynamodbav:"custom_method,omitempty"`
	ReleaseDate   string        `json:"release_date,omitempty" dynamodbav:"release_date,omitempty"`
}

// CalculatedValues is a cache of pricing.Calculate over TableData and
// PaymentInfo. It is recomputed on every mutation and never trusted on input.
type CalculatedValues struct {
	ProductTotal  int64 `json:"product_total" dynamodbav:"product_total"`
	TotalPurchase int64 `json:"total_purchase" dynamodbav:"total_purchase"`
	VatAmount     int64 `json:"vat_amount" dynamodbav:"vat_amount"`
	FinalPayment  int64 `json:"final_payment" dynamodbav:"final_payment"`
}

// Estimate is the quote document (견적서) managed from the back-office.
//
// Storage model (DynamoDB): one item per estimate, PK id. Nested slices and
// structs are stored as DynamoDB lists/maps.
type Estimate struct {
	ID                  string           `json:"id"`
	CustomerInfo        CustomerInfo     `json:"customer_info"`
	TableData           []LineItem       `json:"table_data"`
	ServiceData         []ServiceItem    `json:"service_data"`
	PaymentInfo         *PaymentInfo     `json:"payment_info"`
	CalculatedValues    CalculatedValues `json:"calculated_values"`
	IsContractor        bool             `json:"is_contractor"`
	EstimateDescription string           `json:"estimate_description"`
	Notes               string           `json:"notes"`
	CreatedBy           string           `json:"created_by"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// NewEstimate returns an empty estimate with zeroed payment terms.
func NewEstimate(id, createdBy string, now time.Time) Estimate {
	return Estimate{
		ID:          id,
		TableData:   []LineItem{},
		ServiceData: []ServiceItem{},
		PaymentInfo: &PaymentInfo{},
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy so edit batches can be applied all-or-nothing.
func (e Estimate) Clone() Estimate {
	out := e
	out.TableData = append([]LineItem(nil), e.TableData...)
	out.ServiceData = append([]ServiceItem(nil), e.ServiceData...)
	if e.PaymentInfo != nil {
		p := *e.PaymentInfo
		if e.PaymentInfo.VatRate != nil {
			rate := *e.PaymentInfo.VatRate
			p.VatRate = &rate
		}
		out.PaymentInfo = &p
	}
	return out
}

// EstimateFilter narrows estimate listings.
type EstimateFilter struct {
	Query        string
	IsContractor *bool
}
