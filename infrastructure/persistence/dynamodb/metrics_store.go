package dynamodb

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"pursuit-backend/application/ports"
	"pursuit-backend/pkg/errors"
)

// MetricsStore implements the derived-metrics store port on DynamoDB.
// Velocity and prediction results are stored as one JSON document per
// entity; they are value objects the engines can always recompute, so
// schema flexibility beats queryability here.
type MetricsStore struct {
	client    *dynamodb.Client
	breaker   *Breaker
	tableName string
	logger    *zap.Logger
}

// NewMetricsStore creates a new MetricsStore
func NewMetricsStore(client *dynamodb.Client, breaker *Breaker, tableName string, logger *zap.Logger) *MetricsStore {
	return &MetricsStore{
		client:    client,
		breaker:   breaker,
		tableName: tableName,
		logger:    logger,
	}
}

// metricsItem represents the DynamoDB item structure for derived metrics
type metricsItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	EntityID   string `dynamodbav:"EntityID"`
	Document   string `dynamodbav:"Document"`
	ComputedAt string `dynamodbav:"ComputedAt"`
}

// Save persists the derived metrics for one entity
func (s *MetricsStore) Save(ctx context.Context, metrics *ports.EntityMetrics) error {
	doc, err := json.Marshal(metrics)
	if err != nil {
		return errors.NewDatabaseError("marshal metrics document", err)
	}

	item := metricsItem{
		PK:         "ENTITY#" + metrics.EntityID,
		SK:         "METRICS",
		EntityType: "METRICS",
		EntityID:   metrics.EntityID,
		Document:   string(doc),
		ComputedAt: metrics.ComputedAt.Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return errors.NewDatabaseError("marshal metrics", err)
	}

	_, err = s.breaker.Execute(func() (interface{}, error) {
		return s.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(s.tableName),
			Item:      av,
		})
	})
	if err != nil {
		s.logger.Error("Failed to save metrics", zap.Error(err), zap.String("entityId", metrics.EntityID))
		return errors.NewDatabaseError("save metrics", err)
	}
	return nil
}

// Get retrieves the last derived metrics for an entity
func (s *MetricsStore) Get(ctx context.Context, entityID string) (*ports.EntityMetrics, error) {
	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: "ENTITY#" + entityID},
				"SK": &types.AttributeValueMemberS{Value: "METRICS"},
			},
		})
	})
	if err != nil {
		return nil, errors.NewDatabaseError("get metrics", err)
	}

	result := out.(*dynamodb.GetItemOutput)
	if result.Item == nil {
		return nil, errors.NewNotFoundError("metrics")
	}

	var item metricsItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, errors.NewDatabaseError("unmarshal metrics", err)
	}
	return item.toMetrics()
}

// List retrieves all stored metrics
func (s *MetricsStore) List(ctx context.Context) ([]*ports.EntityMetrics, error) {
	filter := expression.Name("EntityType").Equal(expression.Value("METRICS"))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, errors.NewDatabaseError("build metrics scan", err)
	}

	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(s.tableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
	})
	if err != nil {
		return nil, errors.NewDatabaseError("scan metrics", err)
	}

	var all []*ports.EntityMetrics
	for _, raw := range out.(*dynamodb.ScanOutput).Items {
		var item metricsItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, errors.NewDatabaseError("unmarshal metrics", err)
		}
		metrics, err := item.toMetrics()
		if err != nil {
			return nil, err
		}
		all = append(all, metrics)
	}
	return all, nil
}

func (i metricsItem) toMetrics() (*ports.EntityMetrics, error) {
	var metrics ports.EntityMetrics
	if err := json.Unmarshal([]byte(i.Document), &metrics); err != nil {
		return nil, errors.NewDatabaseError("decode metrics document", err)
	}
	return &metrics, nil
}
