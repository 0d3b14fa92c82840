// Package dynamodb implements filekeep.MetadataStore on Amazon DynamoDB.
//
// Records are items keyed by "id". Listing is a full table scan with an
// equality filter on "userId" for non-admin principals.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sagarc03/filekeep"
)

// API is the subset of the DynamoDB client used by this package.
type API interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Config holds the client settings. Endpoint overrides the service URL for
// DynamoDB Local and compatible servers.
type Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// tableWaitTimeout bounds how long Migrate waits for a new table to become active.
const tableWaitTimeout = 2 * time.Minute

type database struct {
	client API
	tables filekeep.Tables
}

// Connect builds a DynamoDB client. No request is made until Ping or Migrate.
func Connect(ctx context.Context, cfg Config, tables filekeep.Tables) (*database, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect dynamodb: load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return New(client, tables), nil
}

// New wraps an existing client.
func New(client API, tables filekeep.Tables) *database {
	return &database{client: client, tables: tables}
}

// Ping verifies the table can be described with the configured credentials.
func (d *database) Ping(ctx context.Context) error {
	_, err := d.describe(ctx)
	return err
}

// Migrate creates the files table with on-demand billing if it does not exist
// and waits for it to become active.
func (d *database) Migrate(ctx context.Context) error {
	_, err := d.describe(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, filekeep.ErrNotFound) {
		return fmt.Errorf("migrate: %w", err)
	}

	_, err = d.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(d.tables.Files),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(attrID), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrID), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if !errors.As(err, &inUse) {
			return fmt.Errorf("migrate: create table %s: %w", d.tables.Files, err)
		}
	}

	waiter := dynamodb.NewTableExistsWaiter(d.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(d.tables.Files)}, tableWaitTimeout); err != nil {
		return fmt.Errorf("migrate: wait for table %s: %w", d.tables.Files, err)
	}

	return nil
}

// Validate checks that the table exists and is keyed by a string "id" hash key.
func (d *database) Validate(ctx context.Context) error {
	desc, err := d.describe(ctx)
	if err != nil {
		return fmt.Errorf("validate schema %s: %w", d.tables.Files, err)
	}

	if len(desc.KeySchema) != 1 ||
		aws.ToString(desc.KeySchema[0].AttributeName) != attrID ||
		desc.KeySchema[0].KeyType != types.KeyTypeHash {
		return fmt.Errorf("validate schema %s: table must have a single %q hash key", d.tables.Files, attrID)
	}

	for _, def := range desc.AttributeDefinitions {
		if aws.ToString(def.AttributeName) == attrID && def.AttributeType != types.ScalarAttributeTypeS {
			return fmt.Errorf("validate schema %s: %q must be a string attribute, got %s", d.tables.Files, attrID, def.AttributeType)
		}
	}

	return nil
}

// GetStore returns the metadata store backed by this table.
func (d *database) GetStore() filekeep.MetadataStore {
	return &store{client: d.client, tableName: d.tables.Files}
}

// Close is a no-op; the AWS client holds no resources that need releasing.
func (d *database) Close() error {
	return nil
}

func (d *database) describe(ctx context.Context) (*types.TableDescription, error) {
	out, err := d.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(d.tables.Files)})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("describe table %s: %w", d.tables.Files, filekeep.ErrNotFound)
		}
		return nil, fmt.Errorf("describe table %s: %w", d.tables.Files, err)
	}
	if out.Table == nil {
		return nil, fmt.Errorf("describe table %s: empty description", d.tables.Files)
	}
	return out.Table, nil
}
