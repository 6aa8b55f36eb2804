package response

import (
	"time"

	"pcshop_service/internal/domain/entities"
)

type ReviewResponse struct {
	ID         string               `json:"id"`
	UserID     string               `json:"user_id"`
	AuthorName string               `json:"author_name"`
	Rating     int                  `json:"rating"`
	Content    string               `json:"content"`
	Images     []AttachmentResponse `json:"images"`
	CreatedAt  time.Time            `json:"created_at"`
}

func FromReview(r entities.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		AuthorName: r.AuthorName,
		Rating:     r.Rating,
		Content:    r.Content,
		Images:     fromAttachments(r.Images),
		CreatedAt:  r.CreatedAt,
	}
}

func FromReviews(rs []entities.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, FromReview(r))
	}
	return out
}
