package view

import (
	"github.com/tuanvumaihuynh/catalog-admin/internal/table"
)

const (
	// ToggleTargetHeader addresses a header control.
	ToggleTargetHeader = "header"
	// ToggleTargetRow addresses a row control.
	ToggleTargetRow = "row"
)

// TableView is the template-facing form of a rendered table. Every control
// posts the encoded table state back with the address of the control.
type TableView struct {
	State   string
	Headers []CellView
	Rows    []RowView
}

type RowView struct {
	ID       string
	Selected bool
	Cells    []CellView
}

type CellView struct {
	State  string
	Kind   string
	Target string
	Column string
	Row    string

	Text string

	Checked       bool
	Indeterminate bool
	Label         string

	Direction string

	Src string
	Alt string

	Title     string
	EditURL   string
	DeleteURL string
}

// NewTableView converts a rendered table. Action endpoints are relative and
// get editPrefix and endpointPrefix prepended.
func NewTableView(v table.View, state string, editPrefix, endpointPrefix string) TableView {
	tv := TableView{
		State:   state,
		Headers: make([]CellView, 0, len(v.Headers)),
		Rows:    make([]RowView, 0, len(v.Rows)),
	}

	for _, h := range v.Headers {
		cv := newCellView(h.Cell, editPrefix, endpointPrefix)
		cv.State = state
		cv.Target = ToggleTargetHeader
		cv.Column = h.Key
		tv.Headers = append(tv.Headers, cv)
	}

	for _, row := range v.Rows {
		rv := RowView{ID: row.ID, Selected: row.Selected, Cells: make([]CellView, 0, len(row.Cells))}
		for _, c := range row.Cells {
			cv := newCellView(c.Cell, editPrefix, endpointPrefix)
			cv.State = state
			cv.Target = ToggleTargetRow
			cv.Column = c.Key
			cv.Row = row.ID
			rv.Cells = append(rv.Cells, cv)
		}
		tv.Rows = append(tv.Rows, rv)
	}

	return tv
}

func newCellView(c table.Cell, editPrefix, endpointPrefix string) CellView {
	cv := CellView{Kind: c.Kind.String(), Text: c.Text}

	switch c.Kind {
	case table.CellCheckbox:
		cv.Checked = c.Checkbox.State == table.Checked
		cv.Indeterminate = c.Checkbox.State == table.Indeterminate
		cv.Label = c.Checkbox.Label
	case table.CellSortButton:
		cv.Label = c.Sort.Label
		cv.Direction = c.Sort.Direction.String()
	case table.CellImage:
		cv.Src = c.Image.Src
		cv.Alt = c.Image.Alt
	case table.CellActions:
		cv.Title = c.Actions.Title
		cv.EditURL = editPrefix + c.Actions.EditEndpoint
		cv.DeleteURL = endpointPrefix + c.Actions.Endpoint
	}

	return cv
}
