package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/studyagent/server/internal/domain"
)

// CatalogRepo reads the practice catalog: units (grammar days, writing
// modules) and the items inside them. The catalog is read-only from the
// tracker's point of view.
type CatalogRepo struct {
	client     *dynamodb.Client
	unitsTable string
	itemsTable string
}

func NewCatalogRepo(client *dynamodb.Client, unitsTable, itemsTable string) *CatalogRepo {
	return &CatalogRepo{client: client, unitsTable: unitsTable, itemsTable: itemsTable}
}

// ListUnits returns every unit in the named practice domain.
func (r *CatalogRepo) ListUnits(ctx context.Context, practice string) ([]domain.Unit, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.unitsTable),
		KeyConditionExpression:    aws.String("#p = :p"),
		ExpressionAttributeNames:  map[string]string{"#p": "practice"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":p": &types.AttributeValueMemberS{Value: practice}},
	})
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	var units []domain.Unit
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &units); err != nil {
		return nil, err
	}
	return units, nil
}

// ListItems returns every item inside one unit via the unit_id GSI.
func (r *CatalogRepo) ListItems(ctx context.Context, unitID string) ([]domain.Item, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.itemsTable),
		IndexName:                 aws.String("unit_id-index"),
		KeyConditionExpression:    aws.String("#u = :u"),
		ExpressionAttributeNames:  map[string]string{"#u": "unit_id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":u": &types.AttributeValueMemberS{Value: unitID}},
	})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	var items []domain.Item
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetDemoUnit returns the demo unit for a practice domain, if one exists.
func (r *CatalogRepo) GetDemoUnit(ctx context.Context, practice string) (*domain.Unit, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                aws.String(r.unitsTable),
		KeyConditionExpression:   aws.String("#p = :p"),
		FilterExpression:         aws.String("demo = :t"),
		ExpressionAttributeNames: map[string]string{"#p": "practice"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p": &types.AttributeValueMemberS{Value: practice},
			":t": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get demo unit: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("demo unit not found: %w", domain.ErrNotFound)
	}
	var u domain.Unit
	if err := attributevalue.UnmarshalMap(out.Items[0], &u); err != nil {
		return nil, err
	}
	return &u, nil
}
