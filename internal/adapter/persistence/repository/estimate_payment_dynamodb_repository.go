package repository

import (
	"context"

	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultPaymentsTableName = "payments"
	paymentsEstimateIDIndex  = "estimate_id-index"
)

type estimatePaymentItem struct {
	ID                 string                 `dynamodbav:"id"`
	EstimateID         string                 `dynamodbav:"estimate_id"`
	Amount             int64                  `dynamodbav:"amount"`
	Date               string                 `dynamodbav:"date"`
	Status             string                 `dynamodbav:"status"`
	CreatedBy          string                 `dynamodbav:"created_by"`
	ProviderPayload    map[string]interface{} `dynamodbav:"provider_payload,omitempty"`
	ProviderPayloadRaw string                 `dynamodbav:"provider_payload_raw,omitempty"`
}

// EstimatePaymentDynamoRepository persists EstimatePayment entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: estimate_id-index (PK: estimate_id)
type EstimatePaymentDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IEstimatePaymentRepository = (*EstimatePaymentDynamoRepository)(nil)

func NewEstimatePaymentDynamoRepository(ddb *dynamodb.Client, tableName string) *EstimatePaymentDynamoRepository {
	return &EstimatePaymentDynamoRepository{
		ddb:       ddb,
		tableName: tableOrDefault(tableName, defaultPaymentsTableName),
	}
}

func (r *EstimatePaymentDynamoRepository) Create(ctx context.Context, p entities.EstimatePayment) (entities.EstimatePayment, error) {
	if err := putNew(ctx, r.ddb, r.tableName, toEstimatePaymentItem(p)); err != nil {
		return entities.EstimatePayment{}, err
	}
	return p, nil
}

func (r *EstimatePaymentDynamoRepository) GetByID(ctx context.Context, id string) (entities.EstimatePayment, error) {
	var it estimatePaymentItem
	found, err := getByID(ctx, r.ddb, r.tableName, id, &it)
	if err != nil || !found {
		return entities.EstimatePayment{}, err
	}
	return fromEstimatePaymentItem(it), nil
}

func (r *EstimatePaymentDynamoRepository) ListByEstimateID(ctx context.Context, estimateID string) ([]entities.EstimatePayment, error) {
	items, err := queryAll[estimatePaymentItem](ctx, r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(paymentsEstimateIDIndex),
		KeyConditionExpression: aws.String("estimate_id = :eid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":eid": &types.AttributeValueMemberS{Value: estimateID},
		},
	})
	if err != nil {
		return nil, err
	}

	out := make([]entities.EstimatePayment, 0, len(items))
	for _, it := range items {
		out = append(out, fromEstimatePaymentItem(it))
	}
	return out, nil
}

func toEstimatePaymentItem(p entities.EstimatePayment) estimatePaymentItem {
	return estimatePaymentItem{
		ID:                 p.ID,
		EstimateID:         p.EstimateID,
		Amount:             p.Amount,
		Date:               formatTime(p.Date),
		Status:             string(p.Status),
		CreatedBy:          p.CreatedBy,
		ProviderPayload:    p.ProviderPayload,
		ProviderPayloadRaw: string(p.ProviderPayloadRaw),
	}
}

func fromEstimatePaymentItem(it estimatePaymentItem) entities.EstimatePayment {
	p := entities.EstimatePayment{
		ID:              it.ID,
		EstimateID:      it.EstimateID,
		Amount:          it.Amount,
		Date:            parseTime(it.Date),
		Status:          entities.PaymentStatus(it.Status),
		CreatedBy:       it.CreatedBy,
		ProviderPayload: it.ProviderPayload,
	}
	if it.ProviderPayloadRaw != "" {
		p.ProviderPayloadRaw = []byte(it.ProviderPayloadRaw)
	}
	return p
}
