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

// GoalRepository implements the goal repository port on DynamoDB.
// Single-table layout: PK "ENTITY#<id>", SK "METADATA"; GSI1 keys group
// milestones under their owning goal.
type GoalRepository struct {
	client    *dynamodb.Client
	breaker   *Breaker
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(client *dynamodb.Client, breaker *Breaker, tableName, indexName string, logger *zap.Logger) *GoalRepository {
	return &GoalRepository{
		client:    client,
		breaker:   breaker,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// entityItem represents the DynamoDB item structure for a goal or milestone
type entityItem struct {
	PK         string  `dynamodbav:"PK"`
	SK         string  `dynamodbav:"SK"`
	GSI1PK     string  `dynamodbav:"GSI1PK,omitempty"` // GOAL#<goalID> for milestones
	GSI1SK     string  `dynamodbav:"GSI1SK,omitempty"`
	EntityType string  `dynamodbav:"EntityType"`
	EntityID   string  `dynamodbav:"EntityID"`
	Kind       string  `dynamodbav:"Kind"`
	State      string  `dynamodbav:"State"`
	Title      string  `dynamodbav:"Title"`
	Priority   int     `dynamodbav:"Priority"`
	Progress   float64 `dynamodbav:"Progress"`
	TargetDate string  `dynamodbav:"TargetDate,omitempty"`
	CreatedAt  string  `dynamodbav:"CreatedAt"`
	GoalID     string  `dynamodbav:"GoalID,omitempty"`
}

// Save persists an entity (create or update)
func (r *GoalRepository) Save(ctx context.Context, entity *entities.Entity) error {
	item := entityItem{
		PK:         "ENTITY#" + entity.ID,
		SK:         "METADATA",
		EntityType: "ENTITY",
		EntityID:   entity.ID,
		Kind:       string(entity.Kind),
		State:      string(entity.State),
		Title:      entity.Title,
		Priority:   entity.Priority,
		Progress:   entity.Progress,
		CreatedAt:  entity.CreatedAt.Format(time.RFC3339),
		GoalID:     entity.GoalID,
	}
	if entity.TargetDate != nil {
		item.TargetDate = entity.TargetDate.Format(time.RFC3339)
	}
	if entity.GoalID != "" {
		item.GSI1PK = "GOAL#" + entity.GoalID
		item.GSI1SK = "MILESTONE#" + entity.ID
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return errors.NewDatabaseError("marshal entity", err)
	}

	_, err = r.breaker.Execute(func() (interface{}, error) {
		return r.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(r.tableName),
			Item:      av,
		})
	})
	if err != nil {
		r.logger.Error("Failed to save entity", zap.Error(err), zap.String("entityId", entity.ID))
		return errors.NewDatabaseError("save entity", err)
	}
	return nil
}

// GetByID retrieves an entity by its ID
func (r *GoalRepository) GetByID(ctx context.Context, id string) (*entities.Entity, error) {
	out, err := r.breaker.Execute(func() (interface{}, error) {
		return r.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: "ENTITY#" + id},
				"SK": &types.AttributeValueMemberS{Value: "METADATA"},
			},
		})
	})
	if err != nil {
		return nil, errors.NewDatabaseError("get entity", err)
	}

	result := out.(*dynamodb.GetItemOutput)
	if result.Item == nil {
		return nil, errors.NewNotFoundError("entity")
	}

	var item entityItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, errors.NewDatabaseError("unmarshal entity", err)
	}
	return item.toEntity()
}

// ListGoals retrieves all goal entities
func (r *GoalRepository) ListGoals(ctx context.Context) ([]*entities.Entity, error) {
	filter := expression.Name("EntityType").Equal(expression.Value("ENTITY")).
		And(expression.Name("Kind").Equal(expression.Value(string(entities.KindGoal))))
	return r.scan(ctx, filter)
}

// ListMilestones retrieves all milestones belonging to a goal via GSI1
func (r *GoalRepository) ListMilestones(ctx context.Context, goalID string) ([]*entities.Entity, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value("GOAL#" + goalID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, errors.NewDatabaseError("build milestone query", err)
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
		return nil, errors.NewDatabaseError("list milestones", err)
	}
	return unmarshalEntities(out.(*dynamodb.QueryOutput).Items)
}

// ListAll retrieves every entity
func (r *GoalRepository) ListAll(ctx context.Context) ([]*entities.Entity, error) {
	filter := expression.Name("EntityType").Equal(expression.Value("ENTITY"))
	return r.scan(ctx, filter)
}

// Delete removes an entity
func (r *GoalRepository) Delete(ctx context.Context, id string) error {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: "ENTITY#" + id},
				"SK": &types.AttributeValueMemberS{Value: "METADATA"},
			},
		})
	})
	if err != nil {
		return errors.NewDatabaseError("delete entity", err)
	}
	return nil
}

func (r *GoalRepository) scan(ctx context.Context, filter expression.ConditionBuilder) ([]*entities.Entity, error) {
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, errors.NewDatabaseError("build entity scan", err)
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
		return nil, errors.NewDatabaseError("scan entities", err)
	}
	return unmarshalEntities(out.(*dynamodb.ScanOutput).Items)
}

func unmarshalEntities(items []map[string]types.AttributeValue) ([]*entities.Entity, error) {
	var out []*entities.Entity
	for _, raw := range items {
		var item entityItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, errors.NewDatabaseError("unmarshal entity", err)
		}
		entity, err := item.toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

func (i entityItem) toEntity() (*entities.Entity, error) {
	createdAt, err := time.Parse(time.RFC3339, i.CreatedAt)
	if err != nil {
		return nil, errors.NewDatabaseError("parse entity timestamps", err)
	}
	entity := &entities.Entity{
		ID:        i.EntityID,
		Kind:      entities.EntityKind(i.Kind),
		State:     valueobjects.LifecycleState(i.State),
		Title:     i.Title,
		Priority:  i.Priority,
		Progress:  i.Progress,
		CreatedAt: createdAt,
		GoalID:    i.GoalID,
	}
	if i.TargetDate != "" {
		target, err := time.Parse(time.RFC3339, i.TargetDate)
		if err != nil {
			return nil, errors.NewDatabaseError("parse entity timestamps", err)
		}
		entity.TargetDate = &target
	}
	return entity, nil
}
