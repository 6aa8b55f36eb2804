package request

import (
	"strings"

	"pcshop_service/internal/domain/entities"
)

// ReviewForm is the multipart form of a review; photos come from "images".
type ReviewForm struct {
	Rating     int    `form:"rating" binding:"required"`
	Content    string `form:"content"`
	AuthorName string `form:"author_name"`
}

func (f ReviewForm) ToReview() entities.Review {
	return entities.Review{
		Rating:     f.Rating,
		Content:    strings.TrimSpace(f.Content),
		AuthorName: strings.TrimSpace(f.AuthorName),
	}
}
