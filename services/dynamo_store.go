package services

import (
	"context"
	"fmt"
	"log"
	"os"

	"tindler_server/models"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore persists session snapshots in a DynamoDB table keyed by the
// snapshot key. It satisfies KVStore so the session service stays unaware of
// which backend it writes to.
type DynamoStore struct {
	Client *dynamodb.Client
	Table  string
}

// InitializeDynamoDBClient initializes the DynamoDB client
func InitializeDynamoDBClient() *dynamodb.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return dynamodb.NewFromConfig(cfg)
}

// NewDynamoStore creates a store against the given table, defaulting to
// models.SessionSnapshotsTable.
func NewDynamoStore(client *dynamodb.Client, table string) *DynamoStore {
	if table == "" {
		table = models.SessionSnapshotsTable
	}
	return &DynamoStore{Client: client, Table: table}
}

type snapshotItem struct {
	SnapshotKey string `dynamodbav:"snapshotKey"`
	Value       string `dynamodbav:"value"`
}

func (ds *DynamoStore) Get(ctx context.Context, key string) (string, bool, error) {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &ds.Table,
		Key:       snapshotKey(key),
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to get snapshot '%s': %w", key, err)
	}
	if output.Item == nil {
		return "", false, nil
	}
	var item snapshotItem
	if err := attributevalue.UnmarshalMap(output.Item, &item); err != nil || item.Value == "" {
		// Treat a malformed row as absence rather than failing the load.
		log.Printf("Snapshot '%s' has no usable value attribute, ignoring", key)
		return "", false, nil
	}
	return item.Value, true, nil
}

func (ds *DynamoStore) Set(ctx context.Context, key, value string) error {
	item, err := attributevalue.MarshalMap(snapshotItem{SnapshotKey: key, Value: value})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot '%s': %w", key, err)
	}
	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &ds.Table,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put snapshot '%s': %w", key, err)
	}
	return nil
}

func (ds *DynamoStore) Remove(ctx context.Context, key string) error {
	_, err := ds.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &ds.Table,
		Key:       snapshotKey(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete snapshot '%s': %w", key, err)
	}
	return nil
}

func snapshotKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"snapshotKey": &types.AttributeValueMemberS{Value: key},
	}
}
