// Package dynamostore implements the document-store contract on AWS
// DynamoDB using a single-table design: all records of a collection
// share the partition key COLLECTION#{name}, the sort key is the
// record id.
package dynamostore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/photogrid/gallery-loader/pkg/store"
)

const pkPrefix = "COLLECTION#"

// DynamoAPI is the subset of the DynamoDB client used by the store.
// Narrowed for testability.
type DynamoAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// Store is a DynamoDB-backed document store.
type Store struct {
	client    DynamoAPI
	tableName string
	logger    zerolog.Logger
}

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// photoItem is the DynamoDB representation of a photo record.
// PK and SK are handled separately from the payload attributes.
type photoItem struct {
	URL            string `dynamodbav:"url"`
	AltDescription string `dynamodbav:"alt_description"`
}

// New creates a DynamoDB-backed store for the given table.
// The client should be initialized from the shared AWS config.
func New(client DynamoAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		logger:    log.With().Str("component", "dynamo-store").Logger(),
	}
}

// collectionPK returns the partition key for a collection.
func collectionPK(collection string) string {
	return pkPrefix + collection
}

// ListIDs returns all record ids in a collection by querying the
// partition with a sort-key-only projection, following pagination via
// LastEvaluatedKey.
func (s *Store) ListIDs(ctx context.Context, collection string) ([]string, error) {
	var ids []string
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.tableName),
			KeyConditionExpression: aws.String("PK = :pk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: collectionPK(collection)},
			},
			ProjectionExpression: aws.String("SK"),
			ExclusiveStartKey:    startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query collection %q: %w", collection, err)
		}

		for _, item := range out.Items {
			if sk, ok := item["SK"].(*types.AttributeValueMemberS); ok {
				ids = append(ids, sk.Value)
			}
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	s.logger.Debug().
		Str("collection", collection).
		Int("count", len(ids)).
		Msg("Listed collection ids")
	return ids, nil
}

// GetRecord fetches a single record by id.
func (s *Store) GetRecord(ctx context.Context, collection, id string) (*store.PhotoRecord, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: collectionPK(collection)},
			"SK": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem %s/%s: %w", collection, id, err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, store.ErrNotFound)
	}

	var item photoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal %s/%s: %w", collection, id, err)
	}

	return &store.PhotoRecord{
		ID:             id,
		URL:            item.URL,
		AltDescription: item.AltDescription,
	}, nil
}
