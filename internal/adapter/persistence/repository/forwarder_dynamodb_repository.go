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

type forwarderItem struct {
	ID        string `dynamodbav:"id"`
	Name      string `dynamodbav:"name"`
	Active    bool   `dynamodbav:"active"`
	CreatedAt string `dynamodbav:"created_at"`
}

// ForwarderDynamoRepository persists the forwarder pool in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// The pool is small; listings are consistent scans sorted in memory.

type ForwarderDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IForwarderRepository = (*ForwarderDynamoRepository)(nil)

func NewForwarderDynamoRepository(ddb *dynamodb.Client, tableName string) *ForwarderDynamoRepository {
	return &ForwarderDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *ForwarderDynamoRepository) Create(ctx context.Context, f entities.Forwarder) (entities.Forwarder, error) {
	av, err := attributevalue.MarshalMap(forwarderItem{
		ID:        f.ID,
		Name:      f.Name,
		Active:    f.Active,
		CreatedAt: formatTime(f.CreatedAt),
	})
	if err != nil {
		return entities.Forwarder{}, err
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
		return entities.Forwarder{}, classify("put forwarder", err)
	}
	return f, nil
}

func (r *ForwarderDynamoRepository) GetByID(ctx context.Context, id string) (entities.Forwarder, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Forwarder{}, classify("get forwarder", err)
	}
	if len(out.Item) == 0 {
		return entities.Forwarder{}, nil
	}

	var it forwarderItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Forwarder{}, err
	}
	return fromForwarderItem(it), nil
}

func (r *ForwarderDynamoRepository) List(ctx context.Context) ([]entities.Forwarder, error) {
	return r.scan(ctx, &dynamodb.ScanInput{
		TableName:      aws.String(r.tableName),
		ConsistentRead: aws.Bool(true),
	})
}

func (r *ForwarderDynamoRepository) ListActive(ctx context.Context) ([]entities.Forwarder, error) {
	return r.scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		ConsistentRead:   aws.Bool(true),
		FilterExpression: aws.String("#active = :active"),
		ExpressionAttributeNames: map[string]string{
			"#active": "active",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
}

func (r *ForwarderDynamoRepository) SetActive(ctx context.Context, id string, active bool) (entities.Forwarder, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("SET #active = :active"),
		ExpressionAttributeNames: map[string]string{
			"#id":     "id",
			"#active": "active",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberBOOL{Value: active},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return entities.Forwarder{}, nil
		}
		return entities.Forwarder{}, classify("set forwarder active", err)
	}
	var it forwarderItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Forwarder{}, err
	}
	return fromForwarderItem(it), nil
}

func (r *ForwarderDynamoRepository) scan(ctx context.Context, in *dynamodb.ScanInput) ([]entities.Forwarder, error) {
	p := dynamodb.NewScanPaginator(r.ddb, in)
	out := make([]entities.Forwarder, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, classify("scan forwarders", err)
		}
		var its []forwarderItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &its); err != nil {
			return nil, err
		}
		for _, it := range its {
			out = append(out, fromForwarderItem(it))
		}
	}
	sortForwarders(out)
	return out, nil
}

func fromForwarderItem(it forwarderItem) entities.Forwarder {
	return entities.Forwarder{
		ID:        it.ID,
		Name:      it.Name,
		Active:    it.Active,
		CreatedAt: parseTime(it.CreatedAt),
	}
}
