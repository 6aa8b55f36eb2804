package response

import (
	"time"

	"pcshop_service/internal/domain/entities"
)

type AttachmentResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

func fromAttachments(atts []entities.Attachment) []AttachmentResponse {
	out := make([]AttachmentResponse, 0, len(atts))
	for _, a := range atts {
		out = append(out, AttachmentResponse{URL: a.URL, Filename: a.Filename, Size: a.Size, MimeType: a.MimeType})
	}
	return out
}

type ServiceRequestResponse struct {
	ID          string               `json:"id"`
	UserID      string               `json:"user_id"`
	Kind        string               `json:"kind"`
	Status      string               `json:"status"`
	Name        string               `json:"name"`
	Phone       string               `json:"phone"`
	Title       string               `json:"title"`
	Content     string               `json:"content"`
	Details     map[string]string    `json:"details,omitempty"`
	Attachments []AttachmentResponse `json:"attachments"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func FromServiceRequest(r entities.ServiceRequest) ServiceRequestResponse {
	return ServiceRequestResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		Kind:        string(r.Kind),
		Status:      string(r.Status),
		Name:        r.Name,
		Phone:       r.Phone,
		Title:       r.Title,
		Content:     r.Content,
		Details:     r.Details,
		Attachments: fromAttachments(r.Attachments),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func FromServiceRequests(rs []entities.ServiceRequest) []ServiceRequestResponse {
	out := make([]ServiceRequestResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, FromServiceRequest(r))
	}
	return out
}
