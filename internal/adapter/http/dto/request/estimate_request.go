package request

import (
	"errors"
	"strconv"
	"strings"

	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/domain/pricing"
)

var (
	ErrInvalidContractorFlag = errors.New("contractor must be true or false")
)

// PageQuery is embedded by every paged listing.
type PageQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// EstimateRequest is the back-office estimate document. CalculatedValues is
// never read from clients: it is recomputed on every save.
type EstimateRequest struct {
	CustomerInfo        entities.CustomerInfo  `json:"customer_info"`
	TableData           []entities.LineItem    `json:"table_data"`
	ServiceData         []entities.ServiceItem `json:"service_data"`
	PaymentInfo         *entities.PaymentInfo  `json:"payment_info"`
	IsContractor        bool                   `json:"is_contractor"`
	EstimateDescription string                 `json:"estimate_description"`
	Notes               string                 `json:"notes"`
}

// ToEstimate builds the entity for id. Missing collections become empty.
func (r EstimateRequest) ToEstimate(id string) entities.Estimate {
	e := entities.Estimate{
		ID:                  strings.TrimSpace(id),
		CustomerInfo:        r.CustomerInfo,
		TableData:           r.TableData,
		ServiceData:         r.ServiceData,
		PaymentInfo:         r.PaymentInfo,
		IsContractor:        r.IsContractor,
		EstimateDescription: r.EstimateDescription,
		Notes:               r.Notes,
	}
	if e.TableData == nil {
		e.TableData = []entities.LineItem{}
	}
	if e.ServiceData == nil {
		e.ServiceData = []entities.ServiceItem{}
	}
	if e.PaymentInfo == nil {
		e.PaymentInfo = &entities.PaymentInfo{}
	}
	return e
}

// EditBatchRequest is applied all-or-nothing, in order.
type EditBatchRequest struct {
	Commands []pricing.Command `json:"commands" binding:"required,dive"`
}

type BulkImportRequest struct {
	Text string `json:"text" binding:"required"`
}

type ListEstimatesQuery struct {
	Q          string `form:"q"`
	Contractor string `form:"contractor"`
	PageQuery
}

// Filter parses the contractor flag. An empty flag lists both kinds.
func (q ListEstimatesQuery) Filter() (entities.EstimateFilter, error) {
	f := entities.EstimateFilter{Query: strings.TrimSpace(q.Q)}
	raw := strings.TrimSpace(q.Contractor)
	if raw == "" {
		return f, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return entities.EstimateFilter{}, ErrInvalidContractorFlag
	}
	f.IsContractor = &v
	return f, nil
}
