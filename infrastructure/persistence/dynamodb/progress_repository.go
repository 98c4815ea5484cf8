package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"pursuit-backend/domain/core/entities"
	"pursuit-backend/pkg/errors"
)

// ProgressRepository implements the progress repository port on DynamoDB.
// Updates live under their entity partition with a time-prefixed sort key,
// so a Query returns them oldest first without client-side sorting.
type ProgressRepository struct {
	client    *dynamodb.Client
	breaker   *Breaker
	tableName string
	logger    *zap.Logger
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(client *dynamodb.Client, breaker *Breaker, tableName string, logger *zap.Logger) *ProgressRepository {
	return &ProgressRepository{
		client:    client,
		breaker:   breaker,
		tableName: tableName,
		logger:    logger,
	}
}

// progressItem represents the DynamoDB item structure for a progress update
type progressItem struct {
	PK              string  `dynamodbav:"PK"`
	SK              string  `dynamodbav:"SK"`
	EntityType      string  `dynamodbav:"EntityType"`
	UpdateID        string  `dynamodbav:"UpdateID"`
	EntityID        string  `dynamodbav:"EntityID"`
	Percentage      float64 `dynamodbav:"Percentage"`
	CreatedAt       string  `dynamodbav:"CreatedAt"`
	MotivationLevel *int    `dynamodbav:"MotivationLevel,omitempty"`
	ConfidenceLevel *int    `dynamodbav:"ConfidenceLevel,omitempty"`
}

// Save persists a progress update
func (r *ProgressRepository) Save(ctx context.Context, update *entities.ProgressUpdate) error {
	item := progressItem{
		PK:              "ENTITY#" + update.EntityID,
		SK:              "PROGRESS#" + update.CreatedAt.Format(time.RFC3339) + "#" + update.ID,
		EntityType:      "PROGRESS",
		UpdateID:        update.ID,
		EntityID:        update.EntityID,
		Percentage:      update.Percentage,
		CreatedAt:       update.CreatedAt.Format(time.RFC3339),
		MotivationLevel: update.MotivationLevel,
		ConfidenceLevel: update.ConfidenceLevel,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return errors.NewDatabaseError("marshal progress update", err)
	}

	_, err = r.breaker.Execute(func() (interface{}, error) {
		return r.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(r.tableName),
			Item:      av,
		})
	})
	if err != nil {
		r.logger.Error("Failed to save progress update", zap.Error(err), zap.String("entityId", update.EntityID))
		return errors.NewDatabaseError("save progress update", err)
	}
	return nil
}

// ListByEntity retrieves all updates for an entity, oldest first
func (r *ProgressRepository) ListByEntity(ctx context.Context, entityID string) ([]*entities.ProgressUpdate, error) {
	keyCond := expression.Key("PK").Equal(expression.Value("ENTITY#" + entityID)).
		And(expression.Key("SK").BeginsWith("PROGRESS#"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, errors.NewDatabaseError("build progress query", err)
	}

	out, err := r.breaker.Execute(func() (interface{}, error) {
		return r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ScanIndexForward:          aws.Bool(true),
		})
	})
	if err != nil {
		return nil, errors.NewDatabaseError("list progress updates", err)
	}
	return unmarshalUpdates(out.(*dynamodb.QueryOutput).Items)
}

// ListAll retrieves every recorded update
func (r *ProgressRepository) ListAll(ctx context.Context) ([]*entities.ProgressUpdate, error) {
	filter := expression.Name("EntityType").Equal(expression.Value("PROGRESS"))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, errors.NewDatabaseError("build progress scan", err)
	}

	out, err := r.breaker.Execute(func() (interface{}, error) {
		return r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
	})
	if err != nil {
		return nil, errors.NewDatabaseError("scan progress updates", err)
	}
	return unmarshalUpdates(out.(*dynamodb.ScanOutput).Items)
}

func unmarshalUpdates(items []map[string]types.AttributeValue) ([]*entities.ProgressUpdate, error) {
	var out []*entities.ProgressUpdate
	for _, raw := range items {
		var item progressItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, errors.NewDatabaseError("unmarshal progress update", err)
		}
		createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
		if err != nil {
			return nil, errors.NewDatabaseError("parse progress timestamp", err)
		}
		out = append(out, &entities.ProgressUpdate{
			ID:              item.UpdateID,
			EntityID:        item.EntityID,
			Percentage:      item.Percentage,
			CreatedAt:       createdAt,
			MotivationLevel: item.MotivationLevel,
			ConfidenceLevel: item.ConfidenceLevel,
		})
	}
	return out, nil
}
