package repository

import (
	"context"
	"strings"

	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
)

const defaultEstimatesTableName = "estimates"

type estimateItem struct {
	ID                  string                    `dynamodbav:"id"`
	CustomerInfo        entities.CustomerInfo     `dynamodbav:"customer_info"`
	TableData           []entities.LineItem       `dynamodbav:"table_data"`
	ServiceData         []entities.ServiceItem    `dynamodbav:"service_data"`
	PaymentInfo         *entities.PaymentInfo     `dynamodbav:"payment_info,omitempty"`
	CalculatedValues    entities.CalculatedValues `dynamodbav:"calculated_values"`
	IsContractor        bool                      `dynamodbav:"is_contractor"`
	EstimateDescription string                    `dynamodbav:"estimate_description"`
	Notes               string                    `dynamodbav:"notes"`
	CreatedBy           string                    `dynamodbav:"created_by"`
	CreatedAt           string                    `dynamodbav:"created_at"`
	UpdatedAt           string                    `dynamodbav:"updated_at"`
}

// EstimateDynamoRepository persists Estimate documents in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// The whole estimate is one item; line items, service items and payment info
// are nested lists and maps. Saves replace the item (last write wins).
type EstimateDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IEstimateRepository = (*EstimateDynamoRepository)(nil)

func NewEstimateDynamoRepository(ddb *dynamodb.Client, tableName string) *EstimateDynamoRepository {
	return &EstimateDynamoRepository{
		ddb:       ddb,
		tableName: tableOrDefault(tableName, defaultEstimatesTableName),
	}
}

func (r *EstimateDynamoRepository) Create(ctx context.Context, e entities.Estimate) (entities.Estimate, error) {
	if err := putNew(ctx, r.ddb, r.tableName, toEstimateItem(e)); err != nil {
		return entities.Estimate{}, err
	}
	return e, nil
}

func (r *EstimateDynamoRepository) GetByID(ctx context.Context, id string) (entities.Estimate, error) {
	var it estimateItem
	found, err := getByID(ctx, r.ddb, r.tableName, id, &it)
	if err != nil || !found {
		return entities.Estimate{}, err
	}
	return fromEstimateItem(it), nil
}

// Replace returns a zero Estimate when the id no longer exists.
func (r *EstimateDynamoRepository) Replace(ctx context.Context, e entities.Estimate) (entities.Estimate, error) {
	found, err := putExisting(ctx, r.ddb, r.tableName, toEstimateItem(e))
	if err != nil || !found {
		return entities.Estimate{}, err
	}
	return e, nil
}

func (r *EstimateDynamoRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.ddb, r.tableName, id)
}

// List scans the table, applying the contractor flag server side and the
// free-text query in memory, since DynamoDB contains() is case sensitive.
func (r *EstimateDynamoRepository) List(ctx context.Context, filter entities.EstimateFilter, page, pageSize int) ([]entities.Estimate, int, error) {
	in := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}
	if filter.IsContractor != nil {
		in.FilterExpression = aws.String("#is_contractor = :is_contractor")
		in.ExpressionAttributeNames = map[string]string{"#is_contractor": "is_contractor"}
		in.ExpressionAttributeValues = map[string]types.AttributeValue{
			":is_contractor": &types.AttributeValueMemberBOOL{Value: *filter.IsContractor},
		}
	}

	items, err := scanAll[estimateItem](ctx, r.ddb, in)
	if err != nil {
		logrus.Errorf("[estimate][repository] scan failed table=%s err=%v", r.tableName, err)
		return nil, 0, err
	}

	matched := make([]estimateItem, 0, len(items))
	for _, it := range items {
		if matchesEstimateQuery(it, filter.Query) {
			matched = append(matched, it)
		}
	}
	newestFirst(matched,
		func(it estimateItem) string { return it.CreatedAt },
		func(it estimateItem) string { return it.ID },
	)

	pageItems := paginate(matched, page, pageSize)
	out := make([]entities.Estimate, 0, len(pageItems))
	for _, it := range pageItems {
		out = append(out, fromEstimateItem(it))
	}
	return out, len(matched), nil
}

// matchesEstimateQuery looks for q in the customer name and phone, the
// description and the product names.
func matchesEstimateQuery(it estimateItem, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	fields := []string{it.CustomerInfo.Name, it.CustomerInfo.Phone, it.EstimateDescription}
	for _, li := range it.TableData {
		fields = append(fields, li.ProductName)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func toEstimateItem(e entities.Estimate) estimateItem {
	return estimateItem{
		ID:                  e.ID,
		CustomerInfo:        e.CustomerInfo,
		TableData:           e.TableData,
		ServiceData:         e.ServiceData,
		PaymentInfo:         e.PaymentInfo,
		CalculatedValues:    e.CalculatedValues,
		IsContractor:        e.IsContractor,
		EstimateDescription: e.EstimateDescription,
		Notes:               e.Notes,
		CreatedBy:           e.CreatedBy,
		CreatedAt:           formatTime(e.CreatedAt),
		UpdatedAt:           formatTime(e.UpdatedAt),
	}
}

func fromEstimateItem(it estimateItem) entities.Estimate {
	e := entities.Estimate{
		ID:                  it.ID,
		CustomerInfo:        it.CustomerInfo,
		TableData:           it.TableData,
		ServiceData:         it.ServiceData,
		PaymentInfo:         it.PaymentInfo,
		CalculatedValues:    it.CalculatedValues,
		IsContractor:        it.IsContractor,
		EstimateDescription: it.EstimateDescription,
		Notes:               it.Notes,
		CreatedBy:           it.CreatedBy,
		CreatedAt:           parseTime(it.CreatedAt),
		UpdatedAt:           parseTime(it.UpdatedAt),
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
