package coda

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/coda-client/internal/constants"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedBatchResource  = errors.New("unsupported batch resource")
	ErrUnsupportedOperationType  = errors.New("unsupported operation type")
	ErrInvalidDataTypeDoc        = errors.New("invalid data type for doc operation")
	ErrInvalidDataTypeRow        = errors.New("invalid data type for row operation")
	ErrTransactionFailed         = errors.New("transaction failed")
	ErrBatchOperationFailed      = errors.New("batch operation failed")
	ErrBatchFunctionNotSpecified = errors.New("custom batch operation has no function")
)

// Batch operation types.
const (
	OperationGet    = "get"
	OperationCreate = "create"
	OperationInsert = "insert"
	OperationUpdate = "update"
	OperationDelete = "delete"
	OperationCustom = "custom"
)

// Batch resources.
const (
	BatchResourceDoc    = "doc"
	BatchResourceRow    = "row"
	BatchResourceCustom = "custom"
)

// RowTarget addresses the rows endpoint of one table, and optionally one row.
type RowTarget struct {
	DocID      string
	TableID    string
	RowID      string
	Rows       []RowCells
	Cells      RowCells
	KeyColumns []ColumnRef
}

// BatchOperation represents a single operation in a batch.
type BatchOperation struct {
	ID       string
	Type     string // get, create, insert, update, delete, custom
	Resource string // doc, row, custom
	Data     interface{}
	Func     func(ctx context.Context, client Client) (interface{}, error)
	Callback func(result *BatchResult)
}

// BatchResult represents the result of a batch operation.
type BatchResult struct {
	ID       string
	Success  bool
	Data     interface{}
	Error    error
	Duration time.Duration
}

// BatchExecutor runs independent operations against a Client with bounded
// parallelism. Each operation is still a single request; nothing is merged.
type BatchExecutor struct {
	client      Client
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(client Client, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &BatchExecutor{
		client:      client,
		concurrency: concurrency,
		timeout:     constants.DefaultBatchTimeout,
	}
}

// SetTimeout sets the per-operation timeout.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs a batch of operations. Results are returned in input order.
// The error aggregates every failed operation and is nil when all succeed.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) ([]BatchResult, error) {
	results := make([]BatchResult, len(operations))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, b.concurrency)

	for index, operation := range operations {
		waitGroup.Add(1)

		go func(index int, operation BatchOperation) {
			defer waitGroup.Done()

			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			opCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			start := time.Now()
			result := b.executeOperation(opCtx, operation)
			result.Duration = time.Since(start)
			results[index] = *result

			if operation.Callback != nil {
				operation.Callback(result)
			}
		}(index, operation)
	}

	waitGroup.Wait()

	var errs *multierror.Error

	for _, result := range results {
		if !result.Success {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s: %w", ErrBatchOperationFailed, result.ID, result.Error))
		}
	}

	return results, errs.ErrorOrNil()
}

func (b *BatchExecutor) executeOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	var (
		data interface{}
		err  error
	)

	switch operation.Resource {
	case BatchResourceDoc:
		data, err = b.executeDocOperation(ctx, operation)
	case BatchResourceRow:
		data, err = b.executeRowOperation(ctx, operation)
	case BatchResourceCustom:
		if operation.Func == nil {
			err = ErrBatchFunctionNotSpecified
		} else {
			data, err = operation.Func(ctx, b.client)
		}
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedBatchResource, operation.Resource)
	}

	return &BatchResult{
		ID:      operation.ID,
		Success: err == nil,
		Data:    data,
		Error:   err,
	}
}

func (b *BatchExecutor) executeDocOperation(ctx context.Context, operation BatchOperation) (interface{}, error) {
	docs := b.client.Docs()

	switch operation.Type {
	case OperationCreate:
		if request, ok := operation.Data.(*DocCreateRequest); ok {
			return docs.Create(ctx, request)
		}

		return nil, fmt.Errorf("%w create", ErrInvalidDataTypeDoc)
	case OperationGet:
		if id, ok := operation.Data.(string); ok {
			return docs.Get(ctx, id)
		}

		return nil, fmt.Errorf("%w get", ErrInvalidDataTypeDoc)
	case OperationDelete:
		if id, ok := operation.Data.(string); ok {
			return docs.Delete(ctx, id)
		}

		return nil, fmt.Errorf("%w delete", ErrInvalidDataTypeDoc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperationType, operation.Type)
	}
}

func (b *BatchExecutor) executeRowOperation(ctx context.Context, operation BatchOperation) (interface{}, error) {
	target, ok := operation.Data.(*RowTarget)
	if !ok || target == nil {
		return nil, fmt.Errorf("%w %s", ErrInvalidDataTypeRow, operation.Type)
	}

	doc := RefDoc(b.client, target.DocID)
	rows := b.client.Rows(doc, RefTable(b.client, doc, target.TableID))

	switch operation.Type {
	case OperationGet:
		return rows.Get(ctx, target.RowID)
	case OperationInsert:
		return rows.Insert(ctx, target.Rows, target.KeyColumns...)
	case OperationUpdate:
		return rows.Update(ctx, target.RowID, target.Cells)
	case OperationDelete:
		return rows.Delete(ctx, target.RowID)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperationType, operation.Type)
	}
}

// BatchBuilder helps build batch operations. Operations added without an id
// get a random UUID.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		operations: make([]BatchOperation, 0),
	}
}

// AddGetDoc adds a doc fetch.
func (b *BatchBuilder) AddGetDoc(id, docID string) *BatchBuilder {
	return b.AddOperation(BatchOperation{ID: id, Type: OperationGet, Resource: BatchResourceDoc, Data: docID})
}

// AddCreateDoc adds a doc creation.
func (b *BatchBuilder) AddCreateDoc(id string, request *DocCreateRequest) *BatchBuilder {
	return b.AddOperation(BatchOperation{ID: id, Type: OperationCreate, Resource: BatchResourceDoc, Data: request})
}

// AddDeleteDoc adds a doc deletion.
func (b *BatchBuilder) AddDeleteDoc(id, docID string) *BatchBuilder {
	return b.AddOperation(BatchOperation{ID: id, Type: OperationDelete, Resource: BatchResourceDoc, Data: docID})
}

// AddGetRow adds a row fetch.
func (b *BatchBuilder) AddGetRow(id, docID, tableID, rowID string) *BatchBuilder {
	return b.AddOperation(BatchOperation{
		ID:       id,
		Type:     OperationGet,
		Resource: BatchResourceRow,
		Data:     &RowTarget{DocID: docID, TableID: tableID, RowID: rowID},
	})
}

// AddInsertRows adds a bulk insert or upsert.
func (b *BatchBuilder) AddInsertRows(id, docID, tableID string, rows []RowCells, keyColumns ...ColumnRef) *BatchBuilder {
	return b.AddOperation(BatchOperation{
		ID:       id,
		Type:     OperationInsert,
		Resource: BatchResourceRow,
		Data:     &RowTarget{DocID: docID, TableID: tableID, Rows: rows, KeyColumns: keyColumns},
	})
}

// AddUpdateRow adds a single row update.
func (b *BatchBuilder) AddUpdateRow(id, docID, tableID, rowID string, cells RowCells) *BatchBuilder {
	return b.AddOperation(BatchOperation{
		ID:       id,
		Type:     OperationUpdate,
		Resource: BatchResourceRow,
		Data:     &RowTarget{DocID: docID, TableID: tableID, RowID: rowID, Cells: cells},
	})
}

// AddDeleteRow adds a row deletion.
func (b *BatchBuilder) AddDeleteRow(id, docID, tableID, rowID string) *BatchBuilder {
	return b.AddOperation(BatchOperation{
		ID:       id,
		Type:     OperationDelete,
		Resource: BatchResourceRow,
		Data:     &RowTarget{DocID: docID, TableID: tableID, RowID: rowID},
	})
}

// AddFunc adds a custom operation run against the executor's client.
func (b *BatchBuilder) AddFunc(id string, fn func(ctx context.Context, client Client) (interface{}, error)) *BatchBuilder {
	return b.AddOperation(BatchOperation{ID: id, Type: OperationCustom, Resource: BatchResourceCustom, Func: fn})
}

// AddOperation adds an operation as is.
func (b *BatchBuilder) AddOperation(operation BatchOperation) *BatchBuilder {
	if operation.ID == "" {
		operation.ID = uuid.NewString()
	}

	b.operations = append(b.operations, operation)

	return b
}

// Build returns the built operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}

// BatchTransaction runs a batch and, when any operation fails, compensates
// the ones that succeeded where an inverse exists: created docs are deleted
// and inserted rows are removed. Updates and deletions cannot be undone.
type BatchTransaction struct {
	operations []BatchOperation
	results    []BatchResult
	executor   *BatchExecutor
	rollback   bool
}

// NewBatchTransaction creates a new batch transaction.
func NewBatchTransaction(executor *BatchExecutor) *BatchTransaction {
	return &BatchTransaction{
		executor:   executor,
		operations: make([]BatchOperation, 0),
		rollback:   true,
	}
}

// Add adds an operation to the transaction.
func (t *BatchTransaction) Add(operation BatchOperation) *BatchTransaction {
	if operation.ID == "" {
		operation.ID = uuid.NewString()
	}

	t.operations = append(t.operations, operation)

	return t
}

// SetRollback sets whether to compensate on failure.
func (t *BatchTransaction) SetRollback(rollback bool) *BatchTransaction {
	t.rollback = rollback

	return t
}

// Execute executes the transaction.
func (t *BatchTransaction) Execute(ctx context.Context) ([]BatchResult, error) {
	results, err := t.executor.Execute(ctx, t.operations)
	t.results = results

	if err == nil {
		return results, nil
	}

	if !t.rollback {
		return results, err
	}

	rollbackErr := t.performRollback(ctx)

	merged := multierror.Append(fmt.Errorf("%w: %w", ErrTransactionFailed, err), rollbackErr)

	return results, merged.ErrorOrNil()
}

func (t *BatchTransaction) performRollback(ctx context.Context) error {
	var rollbackOps []BatchOperation

	for index, result := range t.results {
		if !result.Success {
			continue
		}

		rollbackOps = append(rollbackOps, inverseOperations(t.operations[index], result)...)
	}

	if len(rollbackOps) == 0 {
		return nil
	}

	_, err := t.executor.Execute(ctx, rollbackOps)
	if err != nil {
		return fmt.Errorf("rollback: %w", err)
	}

	return nil
}

func inverseOperations(original BatchOperation, result BatchResult) []BatchOperation {
	switch {
	case original.Resource == BatchResourceDoc && original.Type == OperationCreate:
		doc, ok := result.Data.(*Doc)
		if !ok || doc == nil || doc.ID() == "" {
			return nil
		}

		return []BatchOperation{{
			ID:       "rollback_" + original.ID,
			Type:     OperationDelete,
			Resource: BatchResourceDoc,
			Data:     doc.ID(),
		}}
	case original.Resource == BatchResourceRow && original.Type == OperationInsert:
		target, targetOK := original.Data.(*RowTarget)
		payload, payloadOK := result.Data.(Payload)

		if !targetOK || !payloadOK {
			return nil
		}

		ack, err := payload.Result()
		if err != nil {
			return nil
		}

		inverse := make([]BatchOperation, 0, len(ack.AddedRowIDs))
		for _, rowID := range ack.AddedRowIDs {
			inverse = append(inverse, BatchOperation{
				ID:       "rollback_" + original.ID + "_" + rowID,
				Type:     OperationDelete,
				Resource: BatchResourceRow,
				Data:     &RowTarget{DocID: target.DocID, TableID: target.TableID, RowID: rowID},
			})
		}

		return inverse
	default:
		return nil
	}
}
