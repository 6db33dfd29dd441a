package repository

import (
	"context"

	"devis_broker/internal/domain/entities"
	"devis_broker/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const notificationRecipientIndex = "recipient-index"

type notificationItem struct {
	ID             string `dynamodbav:"id"`
	RecipientKey   string `dynamodbav:"recipient_key"`
	RecipientRole  string `dynamodbav:"recipient_role"`
	RecipientID    string `dynamodbav:"recipient_id"`
	Title          string `dynamodbav:"title"`
	Body           string `dynamodbav:"body"`
	RelatedQuoteID string `dynamodbav:"related_quote_id"`
	Read           bool   `dynamodbav:"read"`
	CreatedAt      string `dynamodbav:"created_at"`
	CreatedSeq     int64  `dynamodbav:"created_seq"`
}

// NotificationDynamoRepository persists Notification entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI recipient-index: recipient_key (string, "role#id"),
//     sort key created_seq (number, unix nanoseconds)

type NotificationDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.INotificationRepository = (*NotificationDynamoRepository)(nil)

func NewNotificationDynamoRepository(ddb *dynamodb.Client, tableName string) *NotificationDynamoRepository {
	return &NotificationDynamoRepository{ddb: ddb, tableName: tableName}
}

// Create writes n unless its id is already stored, in which case the stored
// copy is returned. A retried write is therefore harmless.
func (r *NotificationDynamoRepository) Create(ctx context.Context, n entities.Notification) (entities.Notification, error) {
	av, err := attributevalue.MarshalMap(toNotificationItem(n))
	if err != nil {
		return entities.Notification{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return r.GetByID(ctx, n.ID)
		}
		return entities.Notification{}, classify("put notification", err)
	}
	return n, nil
}

func (r *NotificationDynamoRepository) GetByID(ctx context.Context, id string) (entities.Notification, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Notification{}, classify("get notification", err)
	}
	if len(out.Item) == 0 {
		return entities.Notification{}, nil
	}

	var it notificationItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Notification{}, err
	}
	return fromNotificationItem(it), nil
}

func (r *NotificationDynamoRepository) ListByRecipient(ctx context.Context, rcpt entities.Recipient, limit int) ([]entities.Notification, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(notificationRecipientIndex),
		KeyConditionExpression: aws.String("#recipient_key = :recipient_key"),
		ExpressionAttributeNames: map[string]string{
			"#recipient_key": "recipient_key",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":recipient_key": &types.AttributeValueMemberS{Value: rcpt.Key()},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		in.Limit = aws.Int32(int32(limit))
	}

	out, err := r.ddb.Query(ctx, in)
	if err != nil {
		return nil, classify("query notifications", err)
	}
	var its []notificationItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &its); err != nil {
		return nil, err
	}
	items := make([]entities.Notification, 0, len(its))
	for _, it := range its {
		items = append(items, fromNotificationItem(it))
	}
	return items, nil
}

func (r *NotificationDynamoRepository) CountUnread(ctx context.Context, rcpt entities.Recipient) (int, error) {
	p := dynamodb.NewQueryPaginator(r.ddb, r.unreadQuery(rcpt, types.SelectCount))
	count := 0
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, classify("count unread notifications", err)
		}
		count += int(page.Count)
	}
	return count, nil
}

func (r *NotificationDynamoRepository) MarkRead(ctx context.Context, id string) (entities.Notification, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("SET #read = :read"),
		ExpressionAttributeNames: map[string]string{
			"#id":   "id",
			"#read": "read",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":read": &types.AttributeValueMemberBOOL{Value: true},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return entities.Notification{}, nil
		}
		return entities.Notification{}, classify("mark notification read", err)
	}
	var it notificationItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Notification{}, err
	}
	return fromNotificationItem(it), nil
}

// MarkAllRead flips every unread notification of rcpt. Items another caller
// flipped first are not counted.
func (r *NotificationDynamoRepository) MarkAllRead(ctx context.Context, rcpt entities.Recipient) (int, error) {
	p := dynamodb.NewQueryPaginator(r.ddb, r.unreadQuery(rcpt, types.SelectSpecificAttributes))
	var ids []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, classify("query unread notifications", err)
		}
		for _, item := range page.Items {
			if v, ok := item["id"].(*types.AttributeValueMemberS); ok {
				ids = append(ids, v.Value)
			}
		}
	}

	changed := 0
	for _, id := range ids {
		_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"id": &types.AttributeValueMemberS{Value: id},
			},
			ConditionExpression: aws.String("#read = :unread"),
			UpdateExpression:    aws.String("SET #read = :read"),
			ExpressionAttributeNames: map[string]string{
				"#read": "read",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":read":   &types.AttributeValueMemberBOOL{Value: true},
				":unread": &types.AttributeValueMemberBOOL{Value: false},
			},
		})
		if err != nil {
			if isConditionFailed(err) {
				continue
			}
			return changed, classify("mark notification read", err)
		}
		changed++
	}
	return changed, nil
}

func (r *NotificationDynamoRepository) unreadQuery(rcpt entities.Recipient, sel types.Select) *dynamodb.QueryInput {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(notificationRecipientIndex),
		KeyConditionExpression: aws.String("#recipient_key = :recipient_key"),
		FilterExpression:       aws.String("#read = :unread"),
		ExpressionAttributeNames: map[string]string{
			"#recipient_key": "recipient_key",
			"#read":          "read",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":recipient_key": &types.AttributeValueMemberS{Value: rcpt.Key()},
			":unread":        &types.AttributeValueMemberBOOL{Value: false},
		},
		Select: sel,
	}
	if sel == types.SelectSpecificAttributes {
		in.ProjectionExpression = aws.String("#id")
		in.ExpressionAttributeNames["#id"] = "id"
	}
	return in
}

func toNotificationItem(n entities.Notification) notificationItem {
	return notificationItem{
		ID:             n.ID,
		RecipientKey:   n.Recipient.Key(),
		RecipientRole:  string(n.Recipient.Role),
		RecipientID:    n.Recipient.ID,
		Title:          n.Title,
		Body:           n.Body,
		RelatedQuoteID: n.RelatedQuoteID,
		Read:           n.Read,
		CreatedAt:      formatTime(n.CreatedAt),
		CreatedSeq:     n.CreatedAt.UnixNano(),
	}
}

func fromNotificationItem(it notificationItem) entities.Notification {
	return entities.Notification{
		ID:             it.ID,
		Recipient:      entities.Recipient{Role: entities.Role(it.RecipientRole), ID: it.RecipientID},
		Title:          it.Title,
		Body:           it.Body,
		RelatedQuoteID: it.RelatedQuoteID,
		Read:           it.Read,
		CreatedAt:      parseTime(it.CreatedAt),
	}
}
