// seed loads a practice catalog from a JSON file into DynamoDB. Items
// without an identifier get a fresh ULID so progress tracking has a stable
// key to record against.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/studyagent/server/internal/config"
	"github.com/studyagent/server/internal/domain"
	infradynamo "github.com/studyagent/server/internal/infrastructure/dynamo"
	"github.com/studyagent/server/internal/pkg/id"
)

type seedUnit struct {
	domain.Unit
	Items []domain.Item `json:"items"`
}

func main() {
	path := flag.String("file", "catalog.json", "path to the catalog JSON file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}
	cfg := config.Load()

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("read catalog file: %v", err)
	}
	var units []seedUnit
	if err := json.Unmarshal(data, &units); err != nil {
		log.Fatalf("parse catalog file: %v", err)
	}

	ctx := context.Background()
	client := infradynamo.NewClient(cfg)
	infradynamo.Bootstrap(ctx, client, cfg.DynamoTables)

	for _, u := range units {
		if u.UnitID == "" {
			u.UnitID = id.New()
		}
		putItem(ctx, client, cfg.DynamoTables.CatalogUnits, u.Unit)
		for _, it := range u.Items {
			if it.ItemID == "" {
				it.ItemID = id.New()
			}
			it.UnitID = u.UnitID
			putItem(ctx, client, cfg.DynamoTables.CatalogItems, it)
		}
		log.Printf("seeded unit %s (%s) with %d items", u.UnitID, u.Practice, len(u.Items))
	}
}

func putItem(ctx context.Context, client *dynamodb.Client, table string, v interface{}) {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		log.Fatalf("marshal catalog record: %v", err)
	}
	_, err = client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	if err != nil {
		log.Fatalf("put catalog record: %v", err)
	}
}
