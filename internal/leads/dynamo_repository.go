package leads

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type dynamoAPI interface {
	UpdateItem(context.Context, *dynamodb.UpdateItemInput, ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoRepository stores leads in a DynamoDB table keyed by "id".
type DynamoRepository struct {
	client    dynamoAPI
	tableName string
	now       func() time.Time
}

// NewDynamoRepository builds a repository backed by the provided DynamoDB client.
func NewDynamoRepository(client dynamoAPI, tableName string) *DynamoRepository {
	if client == nil {
		panic("leads: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("leads: table name cannot be empty")
	}
	return &DynamoRepository{client: client, tableName: tableName, now: time.Now}
}

// Create upserts the item for req.ID; createdAt is only set on first write.
func (r *DynamoRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := prepare(req); err != nil {
		return nil, err
	}
	createdAt, err := attributevalue.Marshal(r.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("leads: marshal created at: %w", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: req.ID},
		},
		UpdateExpression: aws.String("SET #name = :name, #phone = :phone, #location = :location, " +
			"#date = :date, #source = :source, #created = if_not_exists(#created, :created)"),
		ExpressionAttributeNames: map[string]string{
			"#name":     "name",
			"#phone":    "phone",
			"#location": "location",
			"#date":     "measurementDate",
			"#source":   "source",
			"#created":  "createdAt",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name":     &types.AttributeValueMemberS{Value: req.Name},
			":phone":    &types.AttributeValueMemberS{Value: req.Phone},
			":location": &types.AttributeValueMemberS{Value: req.Location},
			":date":     &types.AttributeValueMemberS{Value: req.MeasurementDate},
			":source":   &types.AttributeValueMemberS{Value: req.Source},
			":created":  createdAt,
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, fmt.Errorf("leads: update item: %w", err)
	}
	var lead Lead
	if err := attributevalue.UnmarshalMap(out.Attributes, &lead); err != nil {
		return nil, fmt.Errorf("leads: unmarshal lead: %w", err)
	}
	return &lead, nil
}

// GetByID fetches a single lead.
func (r *DynamoRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("leads: get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrLeadNotFound
	}
	var lead Lead
	if err := attributevalue.UnmarshalMap(out.Item, &lead); err != nil {
		return nil, fmt.Errorf("leads: unmarshal lead: %w", err)
	}
	return &lead, nil
}

// List scans the table and pages in memory. Quote volume is small enough that
// a full scan is acceptable for the admin view.
func (r *DynamoRepository) List(ctx context.Context, filter ListFilter) ([]*Lead, error) {
	filter = filter.normalized()

	var all []*Lead
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("leads: scan: %w", err)
		}
		var page []*Lead
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("leads: unmarshal scan: %w", err)
		}
		for _, lead := range page {
			if filter.Source == "" || lead.Source == filter.Source {
				all = append(all, lead)
			}
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if filter.Offset >= len(all) {
		return []*Lead{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[filter.Offset:end], nil
}
