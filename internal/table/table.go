// Package table renders rows through an ordered list of column descriptors.
//
// Rendering is pure: header and cell renderers receive a read-only snapshot of
// the row and page state plus explicit callback handles. The handles mutate
// the caller-owned State passed to Render.
package table

import "fmt"

// HeaderContext is passed to header renderers.
type HeaderContext struct {
	ColumnKey string
	Selection PageSelection
	Sorted    SortDirection
	CanSort   bool

	ToggleAllPageRowsSelected func(value bool)
	ToggleSorting             func()
}

// CellContext is passed to cell renderers.
type CellContext[T any] struct {
	ColumnKey string
	Row       T
	RowID     string
	Index     int
	Selected  bool
	Value     any

	ToggleSelected func(value bool)
}

// Table is a validated list of columns for rows of type T.
type Table[T any] struct {
	columns []Column[T]
	rowID   func(T) string
}

// New validates the columns and returns a table. rowID identifies a row for
// selection.
func New[T any](columns []Column[T], rowID func(T) string) (*Table[T], error) {
	if rowID == nil {
		return nil, fmt.Errorf("table: row id func is required")
	}
	if err := validateColumns(columns); err != nil {
		return nil, err
	}

	cols := make([]Column[T], len(columns))
	copy(cols, columns)

	return &Table[T]{columns: cols, rowID: rowID}, nil
}

// Columns returns the columns in declared order.
func (t *Table[T]) Columns() []Column[T] {
	cols := make([]Column[T], len(t.columns))
	copy(cols, t.columns)
	return cols
}

// Column returns the column with the given key.
func (t *Table[T]) Column(key string) (Column[T], bool) {
	for _, col := range t.columns {
		if col.Key() == key {
			return col, true
		}
	}
	return Column[T]{}, false
}

type View struct {
	Headers   []HeaderCell
	Rows      []RowView
	Selection PageSelection
}

type HeaderCell struct {
	Key     string
	CanSort bool
	CanHide bool
	Cell    Cell
}

type RowView struct {
	ID       string
	Index    int
	Selected bool
	Cells    []BodyCell
}

type BodyCell struct {
	Key  string
	Cell Cell
}

// Render renders the rows of the current page. Callbacks carried by the
// returned cells mutate state. A nil state renders as a fresh one whose
// changes are discarded.
func (t *Table[T]) Render(rows []T, state *State) View {
	if state == nil {
		fresh := NewState()
		state = &fresh
	}

	ids := make([]string, len(rows))
	selected := 0
	for i, row := range rows {
		ids[i] = t.rowID(row)
		if state.IsSelected(ids[i]) {
			selected++
		}
	}
	sel := PageSelection{Total: len(rows), Selected: selected}

	view := View{
		Headers:   make([]HeaderCell, 0, len(t.columns)),
		Rows:      make([]RowView, 0, len(rows)),
		Selection: sel,
	}

	for _, col := range t.columns {
		key := col.Key()
		canSort := col.CanSort()
		ctx := HeaderContext{
			ColumnKey: key,
			Selection: sel,
			Sorted:    state.SortDirectionFor(key),
			CanSort:   canSort,
			ToggleAllPageRowsSelected: func(value bool) {
				state.ToggleAllPageRowsSelected(ids, value)
			},
			ToggleSorting: func() {
				if canSort {
					state.ToggleSorting(key)
				}
			},
		}

		var cell Cell
		switch {
		case col.HeaderFunc != nil:
			cell = col.HeaderFunc(ctx)
		case col.Header != "":
			cell = Cell{Kind: CellText, Text: col.Header}
		default:
			cell = Cell{Kind: CellEmpty}
		}

		view.Headers = append(view.Headers, HeaderCell{
			Key:     key,
			CanSort: canSort,
			CanHide: col.CanHide(),
			Cell:    cell,
		})
	}

	for i, row := range rows {
		id := ids[i]
		isSelected := state.IsSelected(id)
		rv := RowView{
			ID:       id,
			Index:    i,
			Selected: isSelected,
			Cells:    make([]BodyCell, 0, len(t.columns)),
		}

		for _, col := range t.columns {
			ctx := CellContext[T]{
				ColumnKey: col.Key(),
				Row:       row,
				RowID:     id,
				Index:     i,
				Selected:  isSelected,
				Value:     col.value(row),
				ToggleSelected: func(value bool) {
					state.ToggleRowSelected(id, value)
				},
			}

			var cell Cell
			if col.CellFunc != nil {
				cell = col.CellFunc(ctx)
			} else {
				cell = TextCell(ctx.Value)
			}
			rv.Cells = append(rv.Cells, BodyCell{Key: ctx.ColumnKey, Cell: cell})
		}

		view.Rows = append(view.Rows, rv)
	}

	return view
}

// HeaderCellFor returns the rendered header of the column with the given key.
func (v View) HeaderCellFor(key string) (Cell, bool) {
	for _, h := range v.Headers {
		if h.Key == key {
			return h.Cell, true
		}
	}
	return Cell{}, false
}

// RowCellFor returns the rendered cell of a row for the column with the given key.
func (v View) RowCellFor(rowID, key string) (Cell, bool) {
	for _, row := range v.Rows {
		if row.ID != rowID {
			continue
		}
		for _, c := range row.Cells {
			if c.Key == key {
				return c.Cell, true
			}
		}
	}
	return Cell{}, false
}
