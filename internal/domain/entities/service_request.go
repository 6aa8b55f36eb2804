package entities

import "time"

// ServiceRequestKind identifies the customer form a request came from.
type ServiceRequestKind string

const (
	KindComputerQuote ServiceRequestKind = "computer_quote"
	KindPrinterQuote  ServiceRequestKind = "printer_quote"
	KindNotebookQuote ServiceRequestKind = "notebook_quote"
	KindRepair        ServiceRequestKind = "repair"
	KindInquiry       ServiceRequestKind = "inquiry"
)

func (k ServiceRequestKind) Valid() bool {
	switch k {
	case KindComputerQuote, KindPrinterQuote, KindNotebookQuote, KindRepair, KindInquiry:
		return true
	}
	return false
}

type ServiceRequestStatus string

const (
	RequestStatusReceived   ServiceRequestStatus = "received"
	RequestStatusInProgress ServiceRequestStatus = "in_progress"
	RequestStatusCompleted  ServiceRequestStatus = "completed"
	RequestStatusCanceled   ServiceRequestStatus = "canceled"
)

func (s ServiceRequestStatus) Valid() bool {
	switch s {
	case RequestStatusReceived, RequestStatusInProgress, RequestStatusCompleted, RequestStatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo encodes received -> in_progress -> completed, with cancel
// allowed from any open state.
func (s ServiceRequestStatus) CanTransitionTo(next ServiceRequestStatus) bool {
	switch s {
	case RequestStatusReceived:
		return next == RequestStatusInProgress || next == RequestStatusCanceled
	case RequestStatusInProgress:
		return next == RequestStatusCompleted || next == RequestStatusCanceled
	}
	return false
}

// Attachment references a blob uploaded to the attachment store.
type Attachment struct {
	Key      string `json:"key" dynamodbav:"key"`
	URL      string `json:"url" dynamodbav:"url"`
	Filename string `json:"filename" dynamodbav:"filename"`
	Size     int64  `json:"size" dynamodbav:"size"`
	MimeType string `json:"mime_type" dynamodbav:"mime_type"`
}

// ServiceRequest is a customer submission: a quote request, an A/S (repair)
// ticket or a general inquiry. Details holds the kind-specific form fields.
type ServiceRequest struct {
	ID          string               `json:"id"`
	UserID      string               `json:"user_id"`
	Kind        ServiceRequestKind   `json:"kind"`
	Status      ServiceRequestStatus `json:"status"`
	Name        string               `json:"name"`
	Phone       string               `json:"phone"`
	Title       string               `json:"title"`
	Content     string               `json:"content"`
	Details     map[string]string    `json:"details,omitempty"`
	Attachments []Attachment         `json:"attachments"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type ServiceRequestFilter struct {
	UserID string
	Kind   ServiceRequestKind
	Status ServiceRequestStatus
}

// Review is a customer review with optional photos.
type Review struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user_id"`
	AuthorName string       `json:"author_name"`
	Rating     int          `json:"rating"`
	Content    string       `json:"content"`
	Images     []Attachment `json:"images"`
	CreatedAt  time.Time    `json:"created_at"`
}

// UploadFile is a file received from a multipart form, ready for the store.
type UploadFile struct {
	Filename string
	MimeType string
	Size     int64
	Content  []byte
}
