package response

import (
	"time"

	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/domain/pricing"
)

type EstimateResponse struct {
	ID                  string                    `json:"id"`
	CustomerInfo        entities.CustomerInfo     `json:"customer_info"`
	TableData           []entities.LineItem       `json:"table_data"`
	ServiceData         []entities.ServiceItem    `json:"service_data"`
	PaymentInfo         entities.PaymentInfo      `json:"payment_info"`
	CalculatedValues    entities.CalculatedValues `json:"calculated_values"`
	IsContractor        bool                      `json:"is_contractor"`
	EstimateDescription string                    `json:"estimate_description"`
	Notes               string                    `json:"notes"`
	CreatedBy           string                    `json:"created_by"`
	CreatedAt           time.Time                 `json:"created_at"`
	UpdatedAt           time.Time                 `json:"updated_at"`
}

func FromEstimate(e entities.Estimate) EstimateResponse {
	res := EstimateResponse{
		ID:                  e.ID,
		CustomerInfo:        e.CustomerInfo,
		TableData:           e.TableData,
		ServiceData:         e.ServiceData,
		CalculatedValues:    e.CalculatedValues,
		IsContractor:        e.IsContractor,
		EstimateDescription: e.EstimateDescription,
		Notes:               e.Notes,
		CreatedBy:           e.CreatedBy,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
	if e.PaymentInfo != nil {
		res.PaymentInfo = *e.PaymentInfo
	}
	if res.TableData == nil {
		res.TableData = []entities.LineItem{}
	}
	if res.ServiceData == nil {
		res.ServiceData = []entities.ServiceItem{}
	}
	return res
}

func FromEstimates(es []entities.Estimate) []EstimateResponse {
	out := make([]EstimateResponse, 0, len(es))
	for _, e := range es {
		out = append(out, FromEstimate(e))
	}
	return out
}

// EstimateEditResponse is the result of an edit batch. Notices tell the
// operator about side effects such as a cleared rounding.
type EstimateEditResponse struct {
	Estimate EstimateResponse `json:"estimate"`
	Notices  []pricing.Notice `json:"notices"`
}

func FromEstimateEdit(e entities.Estimate, notices []pricing.Notice) EstimateEditResponse {
	if notices == nil {
		notices = []pricing.Notice{}
	}
	return EstimateEditResponse{Estimate: FromEstimate(e), Notices: notices}
}

type BulkImportResponse struct {
	Items []entities.LineItem `json:"items"`
	Count int                 `json:"count"`
}

func FromBulkImport(items []entities.LineItem) BulkImportResponse {
	if items == nil {
		items = []entities.LineItem{}
	}
	return BulkImportResponse{Items: items, Count: len(items)}
}

// PagedResponse wraps one page of a listing.
type PagedResponse[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func NewPagedResponse[T any](items []T, total, page, pageSize int) PagedResponse[T] {
	if items == nil {
		items = []T{}
	}
	return PagedResponse[T]{Items: items, Total: total, Page: page, PageSize: pageSize}
}
