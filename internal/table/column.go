package table

import (
	"errors"
	"fmt"
)

const (
	// SelectColumnID is the id of the row selection column.
	SelectColumnID = "select"

	// ActionsColumnID is the id of the row actions column.
	ActionsColumnID = "actions"
)

// Column describes how one field of a row of type T maps to a table column.
//
// A column is bound either by an explicit ID (select, actions) or by an
// AccessorKey, a dotted path naming the field it displays. Accessor reads the
// value for accessor-bound columns.
type Column[T any] struct {
	ID          string
	AccessorKey string
	Accessor    func(T) any

	// Header is the static label. HeaderFunc takes precedence when set.
	Header     string
	HeaderFunc func(HeaderContext) Cell

	// CellFunc renders a body cell. Nil means the value is displayed as-is.
	CellFunc func(CellContext[T]) Cell

	// Nil flags mean enabled.
	EnableSorting *bool
	EnableHiding  *bool
}

// Key returns the stable identifier of the column.
func (c Column[T]) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return c.AccessorKey
}

func (c Column[T]) CanSort() bool {
	return c.EnableSorting == nil || *c.EnableSorting
}

func (c Column[T]) CanHide() bool {
	return c.EnableHiding == nil || *c.EnableHiding
}

func (c Column[T]) value(row T) any {
	if c.Accessor == nil {
		return nil
	}
	return c.Accessor(row)
}

var (
	ErrMissingSelectColumn  = errors.New("table: exactly one select column is required")
	ErrMissingActionsColumn = errors.New("table: exactly one actions column is required")
)

func validateColumns[T any](columns []Column[T]) error {
	var selects, actions int
	seen := make(map[string]struct{}, len(columns))

	for i, col := range columns {
		switch {
		case col.ID == SelectColumnID:
			selects++
		case col.ID == ActionsColumnID:
			actions++
		case col.ID != "":
			return fmt.Errorf("table: column %d: unexpected id %q", i, col.ID)
		case col.AccessorKey == "":
			return fmt.Errorf("table: column %d: accessor key is required", i)
		case col.Accessor == nil:
			return fmt.Errorf("table: column %q: accessor is required", col.AccessorKey)
		}

		if col.ID != "" && col.AccessorKey != "" {
			return fmt.Errorf("table: column %q: id and accessor key are exclusive", col.ID)
		}

		key := col.Key()
		if _, ok := seen[key]; ok {
			return fmt.Errorf("table: duplicate column %q", key)
		}
		seen[key] = struct{}{}
	}

	if selects != 1 {
		return ErrMissingSelectColumn
	}
	if actions != 1 {
		return ErrMissingActionsColumn
	}

	return nil
}
