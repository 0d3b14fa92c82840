package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sagarc03/filekeep"
)

const (
	attrID     = "id"
	attrUserID = "userId"
)

// fileItem is the stored shape of a FileRecord.
type fileItem struct {
	ID          string    `dynamodbav:"id"`
	Filename    string    `dynamodbav:"filename"`
	ContentType string    `dynamodbav:"contentType"`
	Size        int64     `dynamodbav:"size"`
	UploadDate  time.Time `dynamodbav:"uploadDate"`
	UserID      string    `dynamodbav:"userId"`
	UserEmail   string    `dynamodbav:"userEmail"`
	StorageKey  string    `dynamodbav:"storageKey"`
}

func toItem(rec filekeep.FileRecord) fileItem {
	return fileItem{
		ID:          rec.ID,
		Filename:    rec.Filename,
		ContentType: rec.ContentType,
		Size:        rec.Size,
		UploadDate:  rec.UploadDate.UTC(),
		UserID:      rec.OwnerID,
		UserEmail:   rec.OwnerEmail,
		StorageKey:  rec.StorageKey,
	}
}

func (it fileItem) record() filekeep.FileRecord {
	return filekeep.FileRecord{
		ID:          it.ID,
		Filename:    it.Filename,
		ContentType: it.ContentType,
		Size:        it.Size,
		UploadDate:  it.UploadDate.UTC(),
		OwnerID:     it.UserID,
		OwnerEmail:  it.UserEmail,
		StorageKey:  it.StorageKey,
	}
}

type store struct {
	client    API
	tableName string
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{attrID: &types.AttributeValueMemberS{Value: id}}
}

func (s *store) Put(ctx context.Context, rec filekeep.FileRecord) error {
	av, err := attributevalue.MarshalMap(toItem(rec))
	if err != nil {
		return fmt.Errorf("put %s: marshal: %w", rec.ID, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", rec.ID, err)
	}
	return nil
}

func (s *store) Get(ctx context.Context, id string) (filekeep.FileRecord, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return filekeep.FileRecord{}, fmt.Errorf("get %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return filekeep.FileRecord{}, fmt.Errorf("get %s: %w", id, filekeep.ErrNotFound)
	}

	var it fileItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return filekeep.FileRecord{}, fmt.Errorf("get %s: unmarshal: %w", id, err)
	}
	return it.record(), nil
}

// Delete removes the item only if it exists so a concurrent delete surfaces
// as filekeep.ErrNotFound.
func (s *store) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.tableName),
		Key:                 idKey(id),
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": attrID,
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("delete %s: %w", id, filekeep.ErrNotFound)
		}
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// Scan pages through the whole table. Results are ordered by upload date and
// id to match the SQL stores.
func (s *store) Scan(ctx context.Context, f filekeep.ScanFilter) ([]filekeep.FileRecord, error) {
	in := &dynamodb.ScanInput{
		TableName:      aws.String(s.tableName),
		ConsistentRead: aws.Bool(true),
	}
	if f.OwnerID != "" {
		in.FilterExpression = aws.String("#uid = :uid")
		in.ExpressionAttributeNames = map[string]string{"#uid": attrUserID}
		in.ExpressionAttributeValues = map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: f.OwnerID},
		}
	}

	records := []filekeep.FileRecord{}
	paginator := dynamodb.NewScanPaginator(s.client, in)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		var items []fileItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("scan: unmarshal: %w", err)
		}
		for _, it := range items {
			records = append(records, it.record())
		}
	}

	slices.SortFunc(records, func(a, b filekeep.FileRecord) int {
		if c := a.UploadDate.Compare(b.UploadDate); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return records, nil
}
