package dynamo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/studyagent/server/internal/domain"
)

// AccountRepo provides typed DynamoDB operations for the accounts table.
// Every mutation is a single atomic UpdateItem or PutItem; callers never
// read-modify-write account documents.
type AccountRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAccountRepo(client *dynamodb.Client, tableName string) *AccountRepo {
	return &AccountRepo{client: client, tableName: tableName}
}

func (r *AccountRepo) Put(ctx context.Context, a *domain.Account) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put account: %w", err)
	}
	return nil
}

func (r *AccountRepo) Get(ctx context.Context, email string) (*domain.Account, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", email),
	})
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	var a domain.Account
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Mutate applies a domain.Mutation to one account document as a single
// UpdateItem call. The update is conditional on the account existing, so a
// mutation against an unknown email reports domain.ErrNotFound instead of
// upserting a stub record.
func (r *AccountRepo) Mutate(ctx context.Context, email string, m domain.Mutation) error {
	if m.Empty() {
		return domain.ErrNoChanges
	}
	b := newExprBuilder()
	for k, v := range m.Set {
		if err := b.Set(k, v); err != nil {
			return err
		}
	}
	if err := b.Set("updated_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	for k, members := range m.Add {
		b.AddToSet(k, members)
	}
	for k, by := range m.Increment {
		b.Increment(k, by)
	}
	for k, members := range m.DeleteFromSet {
		b.DeleteFromSet(k, members)
	}
	for _, k := range m.Remove {
		b.Remove(k)
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
			return fmt.Errorf("account not found: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

// Update replaces the given scalar fields on one account.
func (r *AccountRepo) Update(ctx context.Context, email string, updates map[string]interface{}) error {
	return r.Mutate(ctx, email, domain.Mutation{Set: updates})
}

func (r *AccountRepo) Delete(ctx context.Context, email string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", email),
	})
	return err
}

// ScanPage returns a page of accounts for the reset sweep.
// cursor is a base64-encoded email used as ExclusiveStartKey.
// Returns the items, a next cursor (empty string when no more pages), and any error.
func (r *AccountRepo) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Account, string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(limit),
	}
	if cursor != "" {
		email, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		input.ExclusiveStartKey = strKey("email", email)
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, "", fmt.Errorf("scan accounts: %w", err)
	}
	var accounts []domain.Account
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &accounts); err != nil {
		return nil, "", err
	}
	nextCursor := ""
	if v, ok := out.LastEvaluatedKey["email"].(*types.AttributeValueMemberS); ok {
		nextCursor = encodeCursor(v.Value)
	}
	return accounts, nextCursor, nil
}

func encodeCursor(email string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(email))
}

func decodeCursor(cursor string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
