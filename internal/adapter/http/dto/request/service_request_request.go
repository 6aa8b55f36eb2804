package request

import (
	"encoding/json"
	"errors"
	"strings"

	"pcshop_service/internal/domain/entities"
)

var (
	ErrInvalidDetails = errors.New("details must be a JSON object of strings")
)

// ServiceRequestForm is the multipart form of a customer submission. Files are
// read separately from the "files" field.
//
// Details carries the kind-specific fields (budget, device model, symptoms...)
// as a JSON object.
type ServiceRequestForm struct {
	Kind    string `form:"kind" binding:"required"`
	Name    string `form:"name"`
	Phone   string `form:"phone"`
	Title   string `form:"title"`
	Content string `form:"content"`
	Details string `form:"details"`
}

func (f ServiceRequestForm) ToServiceRequest() (entities.ServiceRequest, error) {
	sr := entities.ServiceRequest{
		Kind:    entities.ServiceRequestKind(strings.TrimSpace(f.Kind)),
		Name:    strings.TrimSpace(f.Name),
		Phone:   strings.TrimSpace(f.Phone),
		Title:   strings.TrimSpace(f.Title),
		Content: strings.TrimSpace(f.Content),
	}
	if raw := strings.TrimSpace(f.Details); raw != "" {
		var details map[string]string
		if err := json.Unmarshal([]byte(raw), &details); err != nil {
			return entities.ServiceRequest{}, ErrInvalidDetails
		}
		if len(details) > 0 {
			sr.Details = details
		}
	}
	return sr, nil
}

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

type ListServiceRequestsQuery struct {
	Kind   string `form:"kind"`
	Status string `form:"status"`
	PageQuery
}

// Filter never sets the owner: the usecase scopes listings by caller.
func (q ListServiceRequestsQuery) Filter() entities.ServiceRequestFilter {
	return entities.ServiceRequestFilter{
		Kind:   entities.ServiceRequestKind(strings.TrimSpace(q.Kind)),
		Status: entities.ServiceRequestStatus(strings.TrimSpace(q.Status)),
	}
}
