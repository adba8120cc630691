package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/clubhub-api/internal/domain"
)

// FeedbackRepo provides typed DynamoDB operations for the feedbacks table.
type FeedbackRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewFeedbackRepo(client *dynamodb.Client, tableName string) *FeedbackRepo {
	return &FeedbackRepo{client: client, tableName: tableName}
}

func (r *FeedbackRepo) Put(ctx context.Context, f *domain.Feedback) error {
	item, err := attributevalue.MarshalMap(f)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *FeedbackRepo) Scan(ctx context.Context) ([]domain.Feedback, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var feedbacks []domain.Feedback
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &feedbacks); err != nil {
		return nil, err
	}
	return feedbacks, nil
}
