package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/clubhub-api/internal/domain"
)

// EventMembershipRepo tracks which members joined which events.
// PK: event_id, SK: member_id.
type EventMembershipRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewEventMembershipRepo(client *dynamodb.Client, tableName string) *EventMembershipRepo {
	return &EventMembershipRepo{client: client, tableName: tableName}
}

func (r *EventMembershipRepo) Put(ctx context.Context, em *domain.EventMembership) error {
	item, err := attributevalue.MarshalMap(em)
	if err != nil {
		return fmt.Errorf("marshal event membership: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *EventMembershipRepo) Get(ctx context.Context, eventID, memberID string) (*domain.EventMembership, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("event_id", eventID, "member_id", memberID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("membership not found: %w", domain.ErrNotFound)
	}
	var em domain.EventMembership
	if err := attributevalue.UnmarshalMap(out.Item, &em); err != nil {
		return nil, err
	}
	return &em, nil
}

func (r *EventMembershipRepo) ListByEvent(ctx context.Context, eventID string) ([]domain.EventMembership, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    aws.String("event_id = :e"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":e": &types.AttributeValueMemberS{Value: eventID}},
	})
	if err != nil {
		return nil, err
	}
	var memberships []domain.EventMembership
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *EventMembershipRepo) ListByMember(ctx context.Context, memberID string) ([]domain.EventMembership, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("member_id-index"),
		KeyConditionExpression:    aws.String("member_id = :m"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":m": &types.AttributeValueMemberS{Value: memberID}},
	})
	if err != nil {
		return nil, err
	}
	var memberships []domain.EventMembership
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// DeleteByEvent removes all join records for an event, used when the event
// itself is deleted.
func (r *EventMembershipRepo) DeleteByEvent(ctx context.Context, eventID string) error {
	memberships, err := r.ListByEvent(ctx, eventID)
	if err != nil {
		return err
	}
	for _, em := range memberships {
		_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key:       compositeKey("event_id", eventID, "member_id", em.MemberID),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
