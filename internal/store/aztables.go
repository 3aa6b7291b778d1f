package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
)

// DefaultPartition is used when no partition key is configured.
const DefaultPartition = "kanban"

type tableClient interface {
	GetEntity(ctx context.Context, partitionKey, rowKey string, options *aztables.GetEntityOptions) (aztables.GetEntityResponse, error)
	UpsertEntity(ctx context.Context, entity []byte, options *aztables.UpsertEntityOptions) (aztables.UpsertEntityResponse, error)
}

type valueEntity struct {
	PartitionKey string `json:"PartitionKey"`
	RowKey       string `json:"RowKey"`
	Value        string `json:"Value"`
}

// Table keeps each key as one entity in an Azure Storage table. The key is the
// row key; all entities share one partition.
type Table struct {
	client    tableClient
	partition string
}

// OpenTable connects to the table named table, creating it if needed.
func OpenTable(ctx context.Context, connStr, table, partition string) (*Table, error) {
	if connStr == "" || table == "" {
		return nil, errors.New("aztables store: connection string and table are required")
	}
	opts := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute,
				RetryDelay:    time.Second,
				MaxRetryDelay: 15 * time.Second,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create table service client: %w", err)
	}
	client := svc.NewClient(table)
	if _, err := client.CreateTable(ctx, nil); err != nil {
		var respErr *azcore.ResponseError
		if !(errors.As(err, &respErr) && respErr.ErrorCode == string(aztables.TableAlreadyExists)) {
			return nil, fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return newTable(client, partition), nil
}

func newTable(client tableClient, partition string) *Table {
	if partition == "" {
		partition = DefaultPartition
	}
	return &Table{client: client, partition: partition}
}

func (t *Table) Get(ctx context.Context, key string) (string, bool, error) {
	resp, err := t.client.GetEntity(ctx, t.partition, key, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	var ent valueEntity
	if err := json.Unmarshal(resp.Value, &ent); err != nil {
		return "", false, fmt.Errorf("failed to decode entity %s: %w", key, err)
	}
	return ent.Value, true, nil
}

func (t *Table) Set(ctx context.Context, key, value string) error {
	payload, err := json.Marshal(valueEntity{
		PartitionKey: t.partition,
		RowKey:       key,
		Value:        value,
	})
	if err == nil {
		_, err = t.client.UpsertEntity(ctx, payload, &aztables.UpsertEntityOptions{
			UpdateMode: aztables.UpdateModeReplace,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}
