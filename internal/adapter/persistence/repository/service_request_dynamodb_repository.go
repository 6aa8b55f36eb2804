package repository

import (
	"context"
	"strings"

	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultServiceRequestsTableName = "service_requests"
	serviceRequestsUserIDIndex      = "user_id-index"
)

type serviceRequestItem struct {
	ID          string                `dynamodbav:"id"`
	UserID      string                `dynamodbav:"user_id"`
	Kind        string                `dynamodbav:"kind"`
	Status      string                `dynamodbav:"status"`
	Name        string                `dynamodbav:"name"`
	Phone       string                `dynamodbav:"phone"`
	Title       string                `dynamodbav:"title"`
	Content     string                `dynamodbav:"content"`
	Details     map[string]string     `dynamodbav:"details,omitempty"`
	Attachments []entities.Attachment `dynamodbav:"attachments"`
	CreatedAt   string                `dynamodbav:"created_at"`
	UpdatedAt   string                `dynamodbav:"updated_at"`
}

// ServiceRequestDynamoRepository persists quote requests, repair tickets and
// inquiries.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: user_id-index (PK: user_id)
type ServiceRequestDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IServiceRequestRepository = (*ServiceRequestDynamoRepository)(nil)

func NewServiceRequestDynamoRepository(ddb *dynamodb.Client, tableName string) *ServiceRequestDynamoRepository {
	return &ServiceRequestDynamoRepository{
		ddb:       ddb,
		tableName: tableOrDefault(tableName, defaultServiceRequestsTableName),
	}
}

func (r *ServiceRequestDynamoRepository) Create(ctx context.Context, sr entities.ServiceRequest) (entities.ServiceRequest, error) {
	if err := putNew(ctx, r.ddb, r.tableName, toServiceRequestItem(sr)); err != nil {
		return entities.ServiceRequest{}, err
	}
	return sr, nil
}

func (r *ServiceRequestDynamoRepository) GetByID(ctx context.Context, id string) (entities.ServiceRequest, error) {
	var it serviceRequestItem
	found, err := getByID(ctx, r.ddb, r.tableName, id, &it)
	if err != nil || !found {
		return entities.ServiceRequest{}, err
	}
	return fromServiceRequestItem(it), nil
}

func (r *ServiceRequestDynamoRepository) Replace(ctx context.Context, sr entities.ServiceRequest) (entities.ServiceRequest, error) {
	found, err := putExisting(ctx, r.ddb, r.tableName, toServiceRequestItem(sr))
	if err != nil || !found {
		return entities.ServiceRequest{}, err
	}
	return sr, nil
}

func (r *ServiceRequestDynamoRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.ddb, r.tableName, id)
}

// List queries the user index when the filter names an owner and scans
// otherwise. Kind and status are filter expressions.
func (r *ServiceRequestDynamoRepository) List(ctx context.Context, filter entities.ServiceRequestFilter, page, pageSize int) ([]entities.ServiceRequest, int, error) {
	filterExpr, names, values := serviceRequestFilterExpression(filter)

	var (
		items []serviceRequestItem
		err   error
	)
	if filter.UserID != "" {
		in := &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(serviceRequestsUserIDIndex),
			KeyConditionExpression: aws.String("#user_id = :user_id"),
			ExpressionAttributeNames: mergeNames(names, map[string]string{
				"#user_id": "user_id",
			}),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":user_id": &types.AttributeValueMemberS{Value: filter.UserID},
			},
		}
		for k, v := range values {
			in.ExpressionAttributeValues[k] = v
		}
		if filterExpr != "" {
			in.FilterExpression = aws.String(filterExpr)
		}
		items, err = queryAll[serviceRequestItem](ctx, r.ddb, in)
	} else {
		in := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}
		if filterExpr != "" {
			in.FilterExpression = aws.String(filterExpr)
			in.ExpressionAttributeNames = names
			in.ExpressionAttributeValues = values
		}
		items, err = scanAll[serviceRequestItem](ctx, r.ddb, in)
	}
	if err != nil {
		return nil, 0, err
	}

	newestFirst(items,
		func(it serviceRequestItem) string { return it.CreatedAt },
		func(it serviceRequestItem) string { return it.ID },
	)
	pageItems := paginate(items, page, pageSize)
	out := make([]entities.ServiceRequest, 0, len(pageItems))
	for _, it := range pageItems {
		out = append(out, fromServiceRequestItem(it))
	}
	return out, len(items), nil
}

// serviceRequestFilterExpression builds the kind/status part of a listing.
// The owner is never part of it: it is either the index key or absent.
func serviceRequestFilterExpression(f entities.ServiceRequestFilter) (string, map[string]string, map[string]types.AttributeValue) {
	var clauses []string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	if f.Kind != "" {
		clauses = append(clauses, "#kind = :kind")
		names["#kind"] = "kind"
		values[":kind"] = &types.AttributeValueMemberS{Value: string(f.Kind)}
	}
	if f.Status != "" {
		clauses = append(clauses, "#status = :status")
		names["#status"] = "status"
		values[":status"] = &types.AttributeValueMemberS{Value: string(f.Status)}
	}
	if len(clauses) == 0 {
		return "", nil, nil
	}
	return strings.Join(clauses, " AND "), names, values
}

func toServiceRequestItem(sr entities.ServiceRequest) serviceRequestItem {
	return serviceRequestItem{
		ID:          sr.ID,
		UserID:      sr.UserID,
		Kind:        string(sr.Kind),
		Status:      string(sr.Status),
		Name:        sr.Name,
		Phone:       sr.Phone,
		Title:       sr.Title,
		Content:     sr.Content,
		Details:     sr.Details,
		Attachments: sr.Attachments,
		CreatedAt:   formatTime(sr.CreatedAt),
		UpdatedAt:   formatTime(sr.UpdatedAt),
	}
}

func fromServiceRequestItem(it serviceRequestItem) entities.ServiceRequest {
	sr := entities.ServiceRequest{
		ID:          it.ID,
		UserID:      it.UserID,
		Kind:        entities.ServiceRequestKind(it.Kind),
		Status:      entities.ServiceRequestStatus(it.Status),
		Name:        it.Name,
		Phone:       it.Phone,
		Title:       it.Title,
		Content:     it.Content,
		Details:     it.Details,
		Attachments: it.Attachments,
		CreatedAt:   parseTime(it.CreatedAt),
		UpdatedAt:   parseTime(it.UpdatedAt),
	}
	if sr.Attachments == nil {
		sr.Attachments = []entities.Attachment{}
	}
	return sr
}
