package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/studyagent/server/internal/domain"
)

// PendingRepo manages unverified signups. The table carries a TTL on
// expires_at, so abandoned signups vanish without any polling on our side.
type PendingRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPendingRepo(client *dynamodb.Client, tableName string) *PendingRepo {
	return &PendingRepo{client: client, tableName: tableName}
}

// Create inserts a pending signup, conditional on no record existing for the
// email. The condition closes the check-then-act window between the signup
// lookup and the insert.
func (r *PendingRepo) Create(ctx context.Context, p *domain.PendingSignup) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal pending signup: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("pending signup already exists: %w", domain.ErrConflict)
		}
		return fmt.Errorf("create pending signup: %w", err)
	}
	return nil
}

func (r *PendingRepo) Get(ctx context.Context, email string) (*domain.PendingSignup, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", email),
	})
	if err != nil {
		return nil, fmt.Errorf("get pending signup: %w", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("pending signup not found: %w", domain.ErrNotFound)
	}
	var p domain.PendingSignup
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateOTP replaces the code on an existing pending signup.
func (r *PendingRepo) UpdateOTP(ctx context.Context, email, code string) error {
	b := newExprBuilder()
	if err := b.Set("current_otp", code); err != nil {
		return err
	}
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("email", email),
		UpdateExpression:          aws.String(b.Expr()),
		ExpressionAttributeNames:  b.names,
		ExpressionAttributeValues: b.values,
		ConditionExpression:       aws.String("attribute_exists(email)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("pending signup not found: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("update pending signup: %w", err)
	}
	return nil
}

func (r *PendingRepo) Delete(ctx context.Context, email string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", email),
	})
	if err != nil {
		return fmt.Errorf("delete pending signup: %w", err)
	}
	return nil
}
