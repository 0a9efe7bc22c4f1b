package coda

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// ErrInvalidColumnRef is returned when a cell names no column.
var ErrInvalidColumnRef = errors.New("cell has no column reference")

// ColumnRef identifies a column in a row payload. It is satisfied by ColumnID
// and by *Column, and both normalize to the same identifier on the wire.
type ColumnRef interface {
	ColumnID() string
}

// ColumnID is a raw column id or column name.
type ColumnID string

// ColumnID implements ColumnRef.
func (c ColumnID) ColumnID() string { return string(c) }

// Cell assigns a value to a column.
type Cell struct {
	Column ColumnRef
	Value  interface{}
}

// RowCells is the set of cell assignments of one row.
type RowCells []Cell

// CellsFromMap builds row cells from a column-to-value map. Cells are ordered
// by column key so the resulting payload is stable.
func CellsFromMap(values map[string]interface{}) RowCells {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	cells := make(RowCells, 0, len(keys))
	for _, key := range keys {
		cells = append(cells, Cell{Column: ColumnID(key), Value: values[key]})
	}

	return cells
}

type cellPayload struct {
	Column string      `json:"column"`
	Value  interface{} `json:"value"`
}

type rowPayload struct {
	Cells []cellPayload `json:"cells"`
}

type insertRowsPayload struct {
	Rows       []rowPayload `json:"rows"`
	KeyColumns []string     `json:"keyColumns,omitempty"`
}

type updateRowPayload struct {
	Row rowPayload `json:"row"`
}

func columnID(ref ColumnRef) (string, error) {
	if ref == nil {
		return "", ErrInvalidColumnRef
	}

	// A typed nil *Column still satisfies the interface.
	if column, ok := ref.(*Column); ok && column == nil {
		return "", ErrInvalidColumnRef
	}

	id := ref.ColumnID()
	if id == "" {
		return "", ErrInvalidColumnRef
	}

	return id, nil
}

func (cells RowCells) payload() (rowPayload, error) {
	out := rowPayload{Cells: make([]cellPayload, 0, len(cells))}

	for index, cell := range cells {
		id, err := columnID(cell.Column)
		if err != nil {
			return rowPayload{}, fmt.Errorf("cell %d: %w", index, err)
		}

		out.Cells = append(out.Cells, cellPayload{Column: id, Value: cell.Value})
	}

	return out, nil
}

// BuildInsertPayload serializes a bulk insert/upsert body:
// {"rows":[{"cells":[...]}],"keyColumns":[...]}.
func BuildInsertPayload(rows []RowCells, keyColumns ...ColumnRef) ([]byte, error) {
	body := insertRowsPayload{Rows: make([]rowPayload, 0, len(rows))}

	for index, cells := range rows {
		row, err := cells.payload()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", index, err)
		}

		body.Rows = append(body.Rows, row)
	}

	for index, ref := range keyColumns {
		id, err := columnID(ref)
		if err != nil {
			return nil, fmt.Errorf("key column %d: %w", index, err)
		}

		body.KeyColumns = append(body.KeyColumns, id)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling insert payload: %w", err)
	}

	return data, nil
}

// BuildUpdatePayload serializes a single row update body: {"row":{"cells":[...]}}.
func BuildUpdatePayload(cells RowCells) ([]byte, error) {
	row, err := cells.payload()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(updateRowPayload{Row: row})
	if err != nil {
		return nil, fmt.Errorf("marshaling update payload: %w", err)
	}

	return data, nil
}

// Payload is the decoded body of a mutation response, returned unchanged.
// Mutation responses are acknowledgements, not full resources.
type Payload struct {
	value interface{}
}

// NewPayload wraps a decoded JSON value.
func NewPayload(value interface{}) Payload {
	return Payload{value: value}
}

// Value returns the decoded JSON value.
func (p Payload) Value() interface{} {
	return p.value
}

// Field returns a top-level field of an object payload, looked up by its
// snake_case name.
func (p Payload) Field(name string) (interface{}, bool) {
	obj, ok := p.value.(map[string]interface{})
	if !ok {
		return nil, false
	}

	value, ok := obj[WireKey(name)]

	return value, ok
}

// Decode decodes the payload into out using "mapstructure" struct tags.
func (p Payload) Decode(out interface{}) error {
	if err := mapstructure.Decode(p.value, out); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}

	return nil
}

// MutationResult is the acknowledgement returned by row and doc mutations.
type MutationResult struct {
	RequestID   string   `json:"requestId"             mapstructure:"requestId"   yaml:"request_id"`
	AddedRowIDs []string `json:"addedRowIds,omitempty" mapstructure:"addedRowIds" yaml:"added_row_ids,omitempty"`
	ID          string   `json:"id,omitempty"          mapstructure:"id"          yaml:"id,omitempty"`
}

// Result decodes the payload as a MutationResult.
func (p Payload) Result() (*MutationResult, error) {
	result := &MutationResult{}
	if err := p.Decode(result); err != nil {
		return nil, err
	}

	return result, nil
}
