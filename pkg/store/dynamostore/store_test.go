package dynamostore

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/photogrid/gallery-loader/pkg/store"
)

// fakeDynamo implements DynamoAPI in memory. Items are keyed PK -> SK.
// queryPageSize, when set, splits Query results into pages to exercise
// LastEvaluatedKey handling.
type fakeDynamo struct {
	items         map[string]map[string]map[string]types.AttributeValue
	queryPageSize int
	queryErr      error
	getItemErr    error
	queryCalls    int
}

func (f *fakeDynamo) put(pk, sk string, attrs map[string]types.AttributeValue) {
	if f.items == nil {
		f.items = make(map[string]map[string]map[string]types.AttributeValue)
	}
	if f.items[pk] == nil {
		f.items[pk] = make(map[string]map[string]types.AttributeValue)
	}
	item := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
	for k, v := range attrs {
		item[k] = v
	}
	f.items[pk][sk] = item
}

func (f *fakeDynamo) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queryCalls++
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	pkAttr, ok := params.ExpressionAttributeValues[":pk"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing :pk value")
	}

	var sks []string
	for sk := range f.items[pkAttr.Value] {
		sks = append(sks, sk)
	}
	sort.Strings(sks)

	start := 0
	if params.ExclusiveStartKey != nil {
		startSK := params.ExclusiveStartKey["SK"].(*types.AttributeValueMemberS).Value
		for i, sk := range sks {
			if sk == startSK {
				start = i + 1
				break
			}
		}
	}

	end := len(sks)
	if f.queryPageSize > 0 && start+f.queryPageSize < end {
		end = start + f.queryPageSize
	}

	out := &dynamodb.QueryOutput{}
	for _, sk := range sks[start:end] {
		out.Items = append(out.Items, map[string]types.AttributeValue{
			"SK": &types.AttributeValueMemberS{Value: sk},
		})
	}
	if end < len(sks) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"PK": pkAttr,
			"SK": &types.AttributeValueMemberS{Value: sks[end-1]},
		}
	}
	return out, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getItemErr != nil {
		return nil, f.getItemErr
	}
	pk := params.Key["PK"].(*types.AttributeValueMemberS).Value
	sk := params.Key["SK"].(*types.AttributeValueMemberS).Value
	item, ok := f.items[pk][sk]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func seedFake(f *fakeDynamo, collection string, ids ...string) {
	for _, id := range ids {
		f.put(collectionPK(collection), id, map[string]types.AttributeValue{
			"url":             &types.AttributeValueMemberS{Value: "https://img.example/" + id + ".jpg"},
			"alt_description": &types.AttributeValueMemberS{Value: "Photo " + id},
		})
	}
}

func TestStore_ListIDs(t *testing.T) {
	fake := &fakeDynamo{}
	seedFake(fake, "landscapes", "photo-1", "photo-2", "photo-3")
	s := New(fake, "gallery-table")

	ids, err := s.ListIDs(context.Background(), "landscapes")
	if err != nil {
		t.Fatalf("ListIDs failed: %v", err)
	}

	if len(ids) != 3 {
		t.Fatalf("got %d ids, want 3", len(ids))
	}
	seen := make(map[string]bool)
	for _, id := range ids {
		seen[id] = true
	}
	for _, want := range []string{"photo-1", "photo-2", "photo-3"} {
		if !seen[want] {
			t.Errorf("missing id %q", want)
		}
	}
}

func TestStore_ListIDs_Paginated(t *testing.T) {
	fake := &fakeDynamo{queryPageSize: 2}
	seedFake(fake, "landscapes", "photo-1", "photo-2", "photo-3", "photo-4", "photo-5")
	s := New(fake, "gallery-table")

	ids, err := s.ListIDs(context.Background(), "landscapes")
	if err != nil {
		t.Fatalf("ListIDs failed: %v", err)
	}

	if len(ids) != 5 {
		t.Errorf("got %d ids, want 5", len(ids))
	}
	if fake.queryCalls != 3 {
		t.Errorf("queryCalls = %d, want 3 pages", fake.queryCalls)
	}
}

func TestStore_ListIDs_EmptyCollection(t *testing.T) {
	fake := &fakeDynamo{}
	s := New(fake, "gallery-table")

	ids, err := s.ListIDs(context.Background(), "no-such-collection")
	if err != nil {
		t.Fatalf("ListIDs failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("got %d ids for empty collection, want 0", len(ids))
	}
}

func TestStore_ListIDs_QueryError(t *testing.T) {
	fake := &fakeDynamo{queryErr: errors.New("throttled")}
	s := New(fake, "gallery-table")

	if _, err := s.ListIDs(context.Background(), "landscapes"); err == nil {
		t.Error("expected error when Query fails")
	}
}

func TestStore_GetRecord(t *testing.T) {
	fake := &fakeDynamo{}
	seedFake(fake, "landscapes", "photo-1")
	s := New(fake, "gallery-table")

	rec, err := s.GetRecord(context.Background(), "landscapes", "photo-1")
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if rec.ID != "photo-1" {
		t.Errorf("ID = %q, want photo-1", rec.ID)
	}
	if rec.URL != "https://img.example/photo-1.jpg" {
		t.Errorf("URL = %q", rec.URL)
	}
	if rec.AltDescription != "Photo photo-1" {
		t.Errorf("AltDescription = %q", rec.AltDescription)
	}
}

func TestStore_GetRecord_NotFound(t *testing.T) {
	fake := &fakeDynamo{}
	s := New(fake, "gallery-table")

	_, err := s.GetRecord(context.Background(), "landscapes", "missing")
	if err == nil {
		t.Fatal("expected error for missing record")
	}
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestStore_GetRecord_ClientError(t *testing.T) {
	fake := &fakeDynamo{getItemErr: errors.New("connection reset")}
	s := New(fake, "gallery-table")

	_, err := s.GetRecord(context.Background(), "landscapes", "photo-1")
	if err == nil {
		t.Fatal("expected error when GetItem fails")
	}
	if errors.Is(err, store.ErrNotFound) {
		t.Error("client error should not map to ErrNotFound")
	}
}

func TestStore_TableNameInRequests(t *testing.T) {
	var gotTable string
	fake := &captureDynamo{table: &gotTable}
	s := New(fake, "gallery-table")

	s.ListIDs(context.Background(), "landscapes")
	if gotTable != "gallery-table" {
		t.Errorf("Query TableName = %q, want gallery-table", gotTable)
	}
}

type captureDynamo struct {
	table *string
}

func (c *captureDynamo) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	*c.table = aws.ToString(params.TableName)
	return &dynamodb.QueryOutput{}, nil
}

func (c *captureDynamo) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	*c.table = aws.ToString(params.TableName)
	return &dynamodb.GetItemOutput{}, nil
}
