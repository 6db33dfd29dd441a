package repository

import (
	"context"
	"strconv"
	"time"

	"devis_broker/internal/domain/entities"
	"devis_broker/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	quoteCustomerIndex  = "customer_id-index"
	quoteForwarderIndex = "forwarder_id-index"
)

type attachmentItem struct {
	URL  string `dynamodbav:"url"`
	Name string `dynamodbav:"name,omitempty"`
}

type responseItem struct {
	Amount        string           `dynamodbav:"amount"`
	Message       string           `dynamodbav:"message,omitempty"`
	Attachments   []attachmentItem `dynamodbav:"attachments,omitempty"`
	RespondedByID string           `dynamodbav:"responded_by_id"`
	RespondedRole string           `dynamodbav:"responded_by_role"`
	RespondedAt   string           `dynamodbav:"responded_at"`
}

type historyItem struct {
	From      string `dynamodbav:"from"`
	To        string `dynamodbav:"to"`
	Action    string `dynamodbav:"action"`
	ActorRole string `dynamodbav:"actor_role"`
	ActorID   string `dynamodbav:"actor_id"`
	At        string `dynamodbav:"at"`
}

type quoteItem struct {
	ID              string           `dynamodbav:"id"`
	CustomerID      string           `dynamodbav:"customer_id"`
	ForwarderID     string           `dynamodbav:"forwarder_id,omitempty"`
	ServiceType     string           `dynamodbav:"service_type"`
	Description     string           `dynamodbav:"description"`
	Origin          string           `dynamodbav:"origin"`
	Destination     string           `dynamodbav:"destination"`
	Attachments     []attachmentItem `dynamodbav:"attachments"`
	EstimatedAmount string           `dynamodbav:"estimated_amount,omitempty"`
	Response        *responseItem    `dynamodbav:"response,omitempty"`
	Status          string           `dynamodbav:"status"`
	ExpiresAt       string           `dynamodbav:"expires_at,omitempty"`
	ExpiresAtUnix   int64            `dynamodbav:"expires_at_unix,omitempty"`
	CreationChannel string           `dynamodbav:"creation_channel"`
	History         []historyItem    `dynamodbav:"history"`
	Version         int64            `dynamodbav:"version"`
	CreatedAt       string           `dynamodbav:"created_at"`
	UpdatedAt       string           `dynamodbav:"updated_at"`
}

// QuoteDynamoRepository persists Quote entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI customer_id-index: customer_id (string)
//   - GSI forwarder_id-index: forwarder_id (string), sparse; unassigned
//     quotes carry no forwarder_id attribute
//
// Every write after creation is a conditional PutItem on the version that
// was read; the losing writer gets ErrVersionConflict.

type QuoteDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IQuoteRepository = (*QuoteDynamoRepository)(nil)

func NewQuoteDynamoRepository(ddb *dynamodb.Client, tableName string) *QuoteDynamoRepository {
	return &QuoteDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *QuoteDynamoRepository) Create(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	av, err := attributevalue.MarshalMap(toQuoteItem(q))
	if err != nil {
		return entities.Quote{}, err
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
		return entities.Quote{}, classify("put quote", err)
	}
	return q, nil
}

func (r *QuoteDynamoRepository) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Quote{}, classify("get quote", err)
	}
	if len(out.Item) == 0 {
		return entities.Quote{}, nil
	}

	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteItem(it), nil
}

func (r *QuoteDynamoRepository) Update(ctx context.Context, q entities.Quote, expectedVersion int64) (entities.Quote, error) {
	q.Version = expectedVersion + 1
	av, err := attributevalue.MarshalMap(toQuoteItem(q))
	if err != nil {
		return entities.Quote{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id) AND #version = :expected"),
		ExpressionAttributeNames: map[string]string{
			"#id":      "id",
			"#version": "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expectedVersion, 10)},
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return entities.Quote{}, interfaces.ErrVersionConflict
		}
		return entities.Quote{}, classify("update quote", err)
	}
	return q, nil
}

func (r *QuoteDynamoRepository) List(ctx context.Context, filter entities.QuoteFilter) ([]entities.Quote, error) {
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	var filterExpr *string
	if filter.Status != "" {
		names["#status"] = "status"
		values[":status"] = &types.AttributeValueMemberS{Value: string(filter.Status)}
		filterExpr = aws.String("#status = :status")
	}

	switch {
	case filter.CustomerID != "":
		names["#customer_id"] = "customer_id"
		values[":customer_id"] = &types.AttributeValueMemberS{Value: filter.CustomerID}
		if filter.ForwarderID != "" {
			names["#forwarder_id"] = "forwarder_id"
			values[":forwarder_id"] = &types.AttributeValueMemberS{Value: filter.ForwarderID}
			filterExpr = andExpr(filterExpr, "#forwarder_id = :forwarder_id")
		}
		return r.query(ctx, quoteCustomerIndex, "#customer_id = :customer_id", filterExpr, names, values)
	case filter.ForwarderID != "":
		names["#forwarder_id"] = "forwarder_id"
		values[":forwarder_id"] = &types.AttributeValueMemberS{Value: filter.ForwarderID}
		return r.query(ctx, quoteForwarderIndex, "#forwarder_id = :forwarder_id", filterExpr, names, values)
	}
	return r.scan(ctx, filterExpr, names, values)
}

// ListExpiredPending scans for pending quotes whose deadline is before now.
func (r *QuoteDynamoRepository) ListExpiredPending(ctx context.Context, now time.Time) ([]entities.Quote, error) {
	quotes, err := r.scan(ctx,
		aws.String("#status = :pending AND #expires_at_unix < :now"),
		map[string]string{
			"#status":          "status",
			"#expires_at_unix": "expires_at_unix",
		},
		map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: string(entities.QuoteStatusPending)},
			":now":     &types.AttributeValueMemberN{Value: strconv.FormatInt(now.UnixNano(), 10)},
		},
	)
	if err != nil {
		return nil, err
	}
	due := quotes[:0]
	for _, q := range quotes {
		if q.IsDue(now) {
			due = append(due, q)
		}
	}
	return due, nil
}

func (r *QuoteDynamoRepository) query(
	ctx context.Context,
	index, keyExpr string,
	filterExpr *string,
	names map[string]string,
	values map[string]types.AttributeValue,
) ([]entities.Quote, error) {
	p := dynamodb.NewQueryPaginator(r.ddb, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String(keyExpr),
		FilterExpression:          filterExpr,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	out := make([]entities.Quote, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, classify("query quotes", err)
		}
		quotes, err := unmarshalQuotes(page.Items)
		if err != nil {
			return nil, err
		}
		out = append(out, quotes...)
	}
	return out, nil
}

func (r *QuoteDynamoRepository) scan(
	ctx context.Context,
	filterExpr *string,
	names map[string]string,
	values map[string]types.AttributeValue,
) ([]entities.Quote, error) {
	in := &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: filterExpr,
		ConsistentRead:   aws.Bool(true),
	}
	if len(names) > 0 {
		in.ExpressionAttributeNames = names
		in.ExpressionAttributeValues = values
	}
	p := dynamodb.NewScanPaginator(r.ddb, in)
	out := make([]entities.Quote, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, classify("scan quotes", err)
		}
		quotes, err := unmarshalQuotes(page.Items)
		if err != nil {
			return nil, err
		}
		out = append(out, quotes...)
	}
	return out, nil
}

func unmarshalQuotes(items []map[string]types.AttributeValue) ([]entities.Quote, error) {
	var its []quoteItem
	if err := attributevalue.UnmarshalListOfMaps(items, &its); err != nil {
		return nil, err
	}
	out := make([]entities.Quote, 0, len(its))
	for _, it := range its {
		out = append(out, fromQuoteItem(it))
	}
	return out, nil
}

func andExpr(current *string, clause string) *string {
	if current == nil {
		return aws.String(clause)
	}
	return aws.String(*current + " AND " + clause)
}

func toQuoteItem(q entities.Quote) quoteItem {
	it := quoteItem{
		ID:              q.ID,
		CustomerID:      q.CustomerID,
		ForwarderID:     q.ForwarderID,
		ServiceType:     string(q.ServiceType),
		Description:     q.Description,
		Origin:          q.Origin,
		Destination:     q.Destination,
		Attachments:     toAttachmentItems(q.Attachments),
		Status:          string(q.Status),
		CreationChannel: string(q.CreationChannel),
		Version:         q.Version,
		CreatedAt:       formatTime(q.CreatedAt),
		UpdatedAt:       formatTime(q.UpdatedAt),
	}
	if q.EstimatedAmount != nil {
		it.EstimatedAmount = floatToString(*q.EstimatedAmount)
	}
	if q.ExpiresAt != nil {
		it.ExpiresAt = formatTime(*q.ExpiresAt)
		it.ExpiresAtUnix = q.ExpiresAt.UnixNano()
	}
	if q.Response != nil {
		it.Response = &responseItem{
			Amount:        floatToString(q.Response.Amount),
			Message:       q.Response.Message,
			Attachments:   toAttachmentItems(q.Response.Attachments),
			RespondedByID: q.Response.RespondedBy.ID,
			RespondedRole: string(q.Response.RespondedBy.Role),
			RespondedAt:   formatTime(q.Response.RespondedAt),
		}
	}
	it.History = make([]historyItem, 0, len(q.History))
	for _, h := range q.History {
		it.History = append(it.History, historyItem{
			From:      string(h.From),
			To:        string(h.To),
			Action:    h.Action,
			ActorRole: string(h.ActorRole),
			ActorID:   h.ActorID,
			At:        formatTime(h.At),
		})
	}
	return it
}

func fromQuoteItem(it quoteItem) entities.Quote {
	q := entities.Quote{
		ID:              it.ID,
		CustomerID:      it.CustomerID,
		ForwarderID:     it.ForwarderID,
		ServiceType:     entities.ServiceType(it.ServiceType),
		Description:     it.Description,
		Origin:          it.Origin,
		Destination:     it.Destination,
		Attachments:     fromAttachmentItems(it.Attachments),
		Status:          entities.QuoteStatus(it.Status),
		CreationChannel: entities.CreationChannel(it.CreationChannel),
		Version:         it.Version,
		CreatedAt:       parseTime(it.CreatedAt),
		UpdatedAt:       parseTime(it.UpdatedAt),
	}
	if it.EstimatedAmount != "" {
		v := parseFloat(it.EstimatedAmount)
		q.EstimatedAmount = &v
	}
	if it.ExpiresAt != "" {
		t := parseTime(it.ExpiresAt)
		q.ExpiresAt = &t
	}
	if it.Response != nil {
		q.Response = &entities.QuoteResponse{
			Amount:      parseFloat(it.Response.Amount),
			Message:     it.Response.Message,
			Attachments: fromAttachmentItems(it.Response.Attachments),
			RespondedBy: entities.Actor{ID: it.Response.RespondedByID, Role: entities.Role(it.Response.RespondedRole)},
			RespondedAt: parseTime(it.Response.RespondedAt),
		}
	}
	for _, h := range it.History {
		q.History = append(q.History, entities.StatusChange{
			From:      entities.QuoteStatus(h.From),
			To:        entities.QuoteStatus(h.To),
			Action:    h.Action,
			ActorRole: entities.Role(h.ActorRole),
			ActorID:   h.ActorID,
			At:        parseTime(h.At),
		})
	}
	return q
}

func toAttachmentItems(as []entities.Attachment) []attachmentItem {
	out := make([]attachmentItem, 0, len(as))
	for _, a := range as {
		out = append(out, attachmentItem{URL: a.URL, Name: a.Name})
	}
	return out
}

func fromAttachmentItems(its []attachmentItem) []entities.Attachment {
	if len(its) == 0 {
		return nil
	}
	out := make([]entities.Attachment, 0, len(its))
	for _, it := range its {
		out = append(out, entities.Attachment{URL: it.URL, Name: it.Name})
	}
	return out
}
