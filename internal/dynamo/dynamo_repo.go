// Package dynamo stores events and applications in DynamoDB. Batches are
// written with TransactWriteItems, each item conditional on its version.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/match"
)

const (
	// EventIndex is the applications GSI keyed on eventId.
	EventIndex = "EventIndex"
	// ApplicantIndex is the applications GSI keyed on applicantId.
	ApplicantIndex = "ApplicantIndex"

	// MaxTransactItems is DynamoDB's limit on items per transaction.
	MaxTransactItems = 100
)

// API is the part of the DynamoDB client the repository uses.
type API interface {
	dynamodb.QueryAPIClient
	dynamodb.ScanAPIClient
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// NewClient builds a client from the default AWS credential chain. A non-empty
// endpoint points it at a local DynamoDB.
func NewClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// Repository implements match.Repository on two tables keyed by id.
type Repository struct {
	client            API
	eventsTable       string
	applicationsTable string
}

func NewRepository(client API, eventsTable, applicationsTable string) *Repository {
	return &Repository{client: client, eventsTable: eventsTable, applicationsTable: applicationsTable}
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}}
}

func (r *Repository) getItem(ctx context.Context, table, id string, out interface{}) error {
	res, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(table),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("get %s from %s: %w", id, table, err)
	}
	if res.Item == nil {
		return match.ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return fmt.Errorf("decode %s from %s: %w", id, table, err)
	}
	return nil
}

func (r *Repository) GetEvent(ctx context.Context, id string) (*match.Event, error) {
	var ev match.Event
	if err := r.getItem(ctx, r.eventsTable, id, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *Repository) GetApplication(ctx context.Context, id string) (*match.Application, error) {
	var app match.Application
	if err := r.getItem(ctx, r.applicationsTable, id, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// ListEvents scans the events table. Event volume per deployment is small
// enough that filtering and paging happen after the scan.
func (r *Repository) ListEvents(ctx context.Context, f match.EventFilter) ([]match.Event, int64, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.eventsTable)}
	var conds []string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	add := func(attr, value string) {
		if value == "" {
			return
		}
		names["#"+attr] = attr
		values[":"+attr] = &types.AttributeValueMemberS{Value: value}
		conds = append(conds, fmt.Sprintf("#%s = :%s", attr, attr))
	}
	add("hostId", f.HostID)
	add("clubId", f.ClubID)
	add("status", string(f.Status))
	if len(conds) > 0 {
		input.FilterExpression = aws.String(strings.Join(conds, " AND "))
		input.ExpressionAttributeNames = names
		input.ExpressionAttributeValues = values
	}

	var events []match.Event
	pages := dynamodb.NewScanPaginator(r.client, input)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", r.eventsTable, err)
		}
		var batch []match.Event
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, 0, fmt.Errorf("decode events: %w", err)
		}
		events = append(events, batch...)
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].ScheduledAt.Equal(events[j].ScheduledAt) {
			return events[i].ID < events[j].ID
		}
		return events[i].ScheduledAt.Before(events[j].ScheduledAt)
	})
	total := int64(len(events))
	offset, limit := f.Bounds()
	if offset >= len(events) {
		return []match.Event{}, total, nil
	}
	end := offset + limit
	if end > len(events) {
		end = len(events)
	}
	return events[offset:end], total, nil
}

func (r *Repository) queryApplications(ctx context.Context, index, attr, value string) ([]match.Application, error) {
	pages := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.applicationsTable),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String(attr + " = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
	})
	apps := []match.Application{}
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query %s on %s: %w", r.applicationsTable, index, err)
		}
		var batch []match.Application
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("decode applications: %w", err)
		}
		apps = append(apps, batch...)
	}
	return apps, nil
}

func (r *Repository) ListApplicationsByEvent(ctx context.Context, eventID string) ([]match.Application, error) {
	apps, err := r.queryApplications(ctx, EventIndex, "eventId", eventID)
	if err != nil {
		return nil, err
	}
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].CreatedAt.Equal(apps[j].CreatedAt) {
			return apps[i].ID < apps[j].ID
		}
		return apps[i].CreatedAt.Before(apps[j].CreatedAt)
	})
	return apps, nil
}

func (r *Repository) ListApplicationsByApplicant(ctx context.Context, applicantID string) ([]match.Application, error) {
	apps, err := r.queryApplications(ctx, ApplicantIndex, "applicantId", applicantID)
	if err != nil {
		return nil, err
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].CreatedAt.After(apps[j].CreatedAt) })
	return apps, nil
}

// Commit writes the batch as one transaction. Index queries are eventually
// consistent, so every update is guarded by the version read through GetItem.
func (r *Repository) Commit(ctx context.Context, b match.Batch) error {
	items, err := r.transactItems(b)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	return classify(err)
}

func (r *Repository) transactItems(b match.Batch) ([]types.TransactWriteItem, error) {
	if n := b.Len(); n > MaxTransactItems {
		return nil, fmt.Errorf("batch of %d writes exceeds the %d item transaction limit", n, MaxTransactItems)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	var items []types.TransactWriteItem
	for _, w := range b.Events {
		item, err := attributevalue.MarshalMap(w.Event)
		if err != nil {
			return nil, fmt.Errorf("encode event %s: %w", w.Event.ID, err)
		}
		items = append(items, conditionalPut(r.eventsTable, item, w.Create, w.ExpectedVersion))
	}
	for _, w := range b.Applications {
		item, err := attributevalue.MarshalMap(w.Application)
		if err != nil {
			return nil, fmt.Errorf("encode application %s: %w", w.Application.ID, err)
		}
		items = append(items, conditionalPut(r.applicationsTable, item, w.Create, w.ExpectedVersion))
	}
	return items, nil
}

func conditionalPut(table string, item map[string]types.AttributeValue, create bool, expected int64) types.TransactWriteItem {
	put := &types.Put{TableName: aws.String(table), Item: item}
	if create {
		put.ConditionExpression = aws.String("attribute_not_exists(id)")
	} else {
		put.ConditionExpression = aws.String("#version = :expected")
		put.ExpressionAttributeNames = map[string]string{"#version": "version"}
		put.ExpressionAttributeValues = map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: fmt.Sprint(expected)},
		}
	}
	return types.TransactWriteItem{Put: put}
}

// classify turns failed conditions and transaction conflicts into match.ErrConflict.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		var codes []string
		for _, reason := range canceled.CancellationReasons {
			code := aws.ToString(reason.Code)
			if code != "" && code != "None" {
				codes = append(codes, code)
			}
		}
		for _, code := range codes {
			if code == "ConditionalCheckFailed" || code == "TransactionConflict" {
				return fmt.Errorf("%w: %s", match.ErrConflict, strings.Join(codes, ","))
			}
		}
		return fmt.Errorf("transaction cancelled: %s: %w", strings.Join(codes, ","), err)
	}
	var failed *types.ConditionalCheckFailedException
	if errors.As(err, &failed) {
		return fmt.Errorf("%w: %s", match.ErrConflict, failed.ErrorMessage())
	}
	var inProgress *types.TransactionInProgressException
	if errors.As(err, &inProgress) {
		return fmt.Errorf("%w: %s", match.ErrConflict, inProgress.ErrorMessage())
	}
	return fmt.Errorf("dynamodb transaction: %w", err)
}

// EnsureTables creates both tables and their indexes when they are missing.
// Used against local DynamoDB; production tables are provisioned separately.
func (r *Repository) EnsureTables(ctx context.Context) error {
	str := func(name string) types.AttributeDefinition {
		return types.AttributeDefinition{AttributeName: aws.String(name), AttributeType: types.ScalarAttributeTypeS}
	}
	hash := func(name string) []types.KeySchemaElement {
		return []types.KeySchemaElement{{AttributeName: aws.String(name), KeyType: types.KeyTypeHash}}
	}
	index := func(name, attr string) types.GlobalSecondaryIndex {
		return types.GlobalSecondaryIndex{
			IndexName:  aws.String(name),
			KeySchema:  hash(attr),
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		}
	}

	tables := []*dynamodb.CreateTableInput{
		{
			TableName:            aws.String(r.eventsTable),
			AttributeDefinitions: []types.AttributeDefinition{str("id")},
			KeySchema:            hash("id"),
			BillingMode:          types.BillingModePayPerRequest,
		},
		{
			TableName:            aws.String(r.applicationsTable),
			AttributeDefinitions: []types.AttributeDefinition{str("id"), str("eventId"), str("applicantId")},
			KeySchema:            hash("id"),
			BillingMode:          types.BillingModePayPerRequest,
			GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
				index(EventIndex, "eventId"),
				index(ApplicantIndex, "applicantId"),
			},
		},
	}
	for _, input := range tables {
		_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: input.TableName})
		if err == nil {
			continue
		}
		var missing *types.ResourceNotFoundException
		if !errors.As(err, &missing) {
			return fmt.Errorf("describe table %s: %w", aws.ToString(input.TableName), err)
		}
		if _, err := r.client.CreateTable(ctx, input); err != nil {
			return fmt.Errorf("create table %s: %w", aws.ToString(input.TableName), err)
		}
		log.Printf("created DynamoDB table %s", aws.ToString(input.TableName))
	}
	return nil
}
