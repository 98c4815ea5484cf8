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
	"pursuit-backend/domain/core/valueobjects"
	"pursuit-backend/pkg/errors"
)

// DependencyRepository implements the dependency repository port on
// DynamoDB. GSI1 groups edges by source so blocking-signal lookups are a
// single Query.
type DependencyRepository struct {
	client    *dynamodb.Client
	breaker   *Breaker
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewDependencyRepository creates a new DependencyRepository
func NewDependencyRepository(client *dynamodb.Client, breaker *Breaker, tableName, indexName string, logger *zap.Logger) *DependencyRepository {
	return &DependencyRepository{
		client:    client,
		breaker:   breaker,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// dependencyItem represents the DynamoDB item structure for a dependency
type dependencyItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	GSI1PK       string `dynamodbav:"GSI1PK"`
	GSI1SK       string `dynamodbav:"GSI1SK"`
	EntityType   string `dynamodbav:"EntityType"`
	DependencyID string `dynamodbav:"DependencyID"`
	SourceID     string `dynamodbav:"SourceID"`
	TargetID     string `dynamodbav:"TargetID"`
	Type         string `dynamodbav:"Type"`
	CreatedAt    string `dynamodbav:"CreatedAt"`
}

// Save persists a dependency edge
func (r *DependencyRepository) Save(ctx context.Context, dep *entities.Dependency) error {
	item := dependencyItem{
		PK:           "DEP#" + dep.ID,
		SK:           "METADATA",
		GSI1PK:       "SOURCE#" + dep.SourceID,
		GSI1SK:       "DEP#" + dep.ID,
		EntityType:   "DEPENDENCY",
		DependencyID: dep.ID,
		SourceID:     dep.SourceID,
		TargetID:     dep.TargetID,
		Type:         string(dep.Type),
		CreatedAt:    dep.CreatedAt.Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return errors.NewDatabaseError("marshal dependency", err)
	}

	_, err = r.breaker.Execute(func() (interface{}, error) {
		return r.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(r.tableName),
			Item:      av,
		})
	})
	if err != nil {
		r.logger.Error("Failed to save dependency", zap.Error(err), zap.String("dependencyId", dep.ID))
		return errors.NewDatabaseError("save dependency", err)
	}
	return nil
}

// GetByID retrieves a dependency by its ID
func (r *DependencyRepository) GetByID(ctx context.Context, id string) (*entities.Dependency, error) {
	out, err := r.breaker.Execute(func() (interface{}, error) {
		return r.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: "DEP#" + id},
				"SK": &types.AttributeValueMemberS{Value: "METADATA"},
			},
		})
	})
	if err != nil {
		return nil, errors.NewDatabaseError("get dependency", err)
	}

	result := out.(*dynamodb.GetItemOutput)
	if result.Item == nil {
		return nil, errors.NewNotFoundError("dependency")
	}

	var item dependencyItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, errors.NewDatabaseError("unmarshal dependency", err)
	}
	return item.toDependency()
}

// ListAll retrieves every dependency edge
func (r *DependencyRepository) ListAll(ctx context.Context) ([]*entities.Dependency, error) {
	filter := expression.Name("EntityType").Equal(expression.Value("DEPENDENCY"))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, errors.NewDatabaseError("build dependency scan", err)
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
		return nil, errors.NewDatabaseError("scan dependencies", err)
	}
	return unmarshalDependencies(out.(*dynamodb.ScanOutput).Items)
}

// ListBySource retrieves the edges sourced from an entity via GSI1
func (r *DependencyRepository) ListBySource(ctx context.Context, sourceID string) ([]*entities.Dependency, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value("SOURCE#" + sourceID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, errors.NewDatabaseError("build dependency query", err)
	}

	out, err := r.breaker.Execute(func() (interface{}, error) {
		return r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			IndexName:                 aws.String(r.indexName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
	})
	if err != nil {
		return nil, errors.NewDatabaseError("list dependencies by source", err)
	}
	return unmarshalDependencies(out.(*dynamodb.QueryOutput).Items)
}

// Delete removes a dependency
func (r *DependencyRepository) Delete(ctx context.Context, id string) error {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: "DEP#" + id},
				"SK": &types.AttributeValueMemberS{Value: "METADATA"},
			},
		})
	})
	if err != nil {
		return errors.NewDatabaseError("delete dependency", err)
	}
	return nil
}

func unmarshalDependencies(items []map[string]types.AttributeValue) ([]*entities.Dependency, error) {
	var out []*entities.Dependency
	for _, raw := range items {
		var item dependencyItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, errors.NewDatabaseError("unmarshal dependency", err)
		}
		dep, err := item.toDependency()
		if err != nil {
			return nil, err
		}
		out = append(out, dep)
	}
	return out, nil
}

func (i dependencyItem) toDependency() (*entities.Dependency, error) {
	createdAt, err := time.Parse(time.RFC3339, i.CreatedAt)
	if err != nil {
		return nil, errors.NewDatabaseError("parse dependency timestamp", err)
	}
	return &entities.Dependency{
		ID:        i.DependencyID,
		SourceID:  i.SourceID,
		TargetID:  i.TargetID,
		Type:      valueobjects.DependencyType(i.Type),
		CreatedAt: createdAt,
	}, nil
}
