package repository

import (
	"context"

	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const defaultReviewsTableName = "reviews"

type reviewItem struct {
	ID         string                `dynamodbav:"id"`
	UserID     string                `dynamodbav:"user_id"`
	AuthorName string                `dynamodbav:"author_name"`
	Rating     int                   `dynamodbav:"rating"`
	Content    string                `dynamodbav:"content"`
	Images     []entities.Attachment `dynamodbav:"images"`
	CreatedAt  string                `dynamodbav:"created_at"`
}

// ReviewDynamoRepository persists customer reviews. PK: id (string).
type ReviewDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IReviewRepository = (*ReviewDynamoRepository)(nil)

func NewReviewDynamoRepository(ddb *dynamodb.Client, tableName string) *ReviewDynamoRepository {
	return &ReviewDynamoRepository{
		ddb:       ddb,
		tableName: tableOrDefault(tableName, defaultReviewsTableName),
	}
}

func (r *ReviewDynamoRepository) Create(ctx context.Context, rv entities.Review) (entities.Review, error) {
	if err := putNew(ctx, r.ddb, r.tableName, toReviewItem(rv)); err != nil {
		return entities.Review{}, err
	}
	return rv, nil
}

func (r *ReviewDynamoRepository) GetByID(ctx context.Context, id string) (entities.Review, error) {
	var it reviewItem
	found, err := getByID(ctx, r.ddb, r.tableName, id, &it)
	if err != nil || !found {
		return entities.Review{}, err
	}
	return fromReviewItem(it), nil
}

func (r *ReviewDynamoRepository) Replace(ctx context.Context, rv entities.Review) (entities.Review, error) {
	found, err := putExisting(ctx, r.ddb, r.tableName, toReviewItem(rv))
	if err != nil || !found {
		return entities.Review{}, err
	}
	return rv, nil
}

func (r *ReviewDynamoRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.ddb, r.tableName, id)
}

func (r *ReviewDynamoRepository) List(ctx context.Context, page, pageSize int) ([]entities.Review, int, error) {
	items, err := scanAll[reviewItem](ctx, r.ddb, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return nil, 0, err
	}
	newestFirst(items,
		func(it reviewItem) string { return it.CreatedAt },
		func(it reviewItem) string { return it.ID },
	)
	pageItems := paginate(items, page, pageSize)
	out := make([]entities.Review, 0, len(pageItems))
	for _, it := range pageItems {
		out = append(out, fromReviewItem(it))
	}
	return out, len(items), nil
}

func toReviewItem(rv entities.Review) reviewItem {
	return reviewItem{
		ID:         rv.ID,
		UserID:     rv.UserID,
		AuthorName: rv.AuthorName,
		Rating:     rv.Rating,
		Content:    rv.Content,
		Images:     rv.Images,
		CreatedAt:  formatTime(rv.CreatedAt),
	}
}

func fromReviewItem(it reviewItem) entities.Review {
	rv := entities.Review{
		ID:         it.ID,
		UserID:     it.UserID,
		AuthorName: it.AuthorName,
		Rating:     it.Rating,
		Content:    it.Content,
		Images:     it.Images,
		CreatedAt:  parseTime(it.CreatedAt),
	}
	if rv.Images == nil {
		rv.Images = []entities.Attachment{}
	}
	return rv
}
