package table

import (
	"fmt"
	"time"
)

// DateLayout is the layout used by date cells.
const DateLayout = "2006-01-02"

type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellText
	CellCheckbox
	CellSortButton
	CellImage
	CellDate
	CellActions
)

// String returns the string representation of the cell kind.
func (k CellKind) String() string {
	return []string{"empty", "text", "checkbox", "sort", "image", "date", "actions"}[k]
}

// Cell is the rendered form of a header or body cell.
// Exactly one of the payload pointers is set, matching Kind.
type Cell struct {
	Kind CellKind
	Text string

	Checkbox *Checkbox
	Sort     *SortButton
	Image    *Image
	Date     *time.Time
	Actions  *Actions
}

// Checkbox is a selection control. OnChange receives the requested value.
type Checkbox struct {
	State    CheckState
	Label    string
	OnChange func(value bool)
}

// Toggle requests the value a click on the checkbox produces.
func (c Checkbox) Toggle() {
	if c.OnChange != nil {
		c.OnChange(c.State.NextValue())
	}
}

type SortButton struct {
	Label     string
	Direction SortDirection
	OnToggle  func()
}

func (b SortButton) Toggle() {
	if b.OnToggle != nil {
		b.OnToggle()
	}
}

type Image struct {
	Src string
	Alt string
}

// Actions is the row action menu: an edit endpoint and the endpoint used to
// fetch or delete the row.
type Actions struct {
	Title        string
	EditEndpoint string
	Endpoint     string
}

// TextCell displays v as-is.
func TextCell(v any) Cell {
	if v == nil {
		return Cell{Kind: CellText}
	}
	return Cell{Kind: CellText, Text: fmt.Sprint(v)}
}

// SortableHeader returns a header renderer with a button toggling the sort of
// its column.
func SortableHeader(name string) func(HeaderContext) Cell {
	return func(ctx HeaderContext) Cell {
		return Cell{
			Kind: CellSortButton,
			Text: name,
			Sort: &SortButton{
				Label:     name,
				Direction: ctx.Sorted,
				OnToggle:  ctx.ToggleSorting,
			},
		}
	}
}

// ImageCell renders the value of accessorKey as an image reference.
func ImageCell[T any](ctx CellContext[T], accessorKey string) Cell {
	src := ""
	if ctx.Value != nil {
		src = fmt.Sprint(ctx.Value)
	}
	if src == "" {
		return Cell{Kind: CellEmpty}
	}
	return Cell{
		Kind:  CellImage,
		Image: &Image{Src: src, Alt: accessorKey},
	}
}

// DateCell formats a time value with DateLayout. Values of other types are
// displayed as-is.
func DateCell[T any](ctx CellContext[T]) Cell {
	switch v := ctx.Value.(type) {
	case time.Time:
		return Cell{Kind: CellDate, Text: v.Format(DateLayout), Date: &v}
	case *time.Time:
		if v == nil {
			return Cell{Kind: CellEmpty}
		}
		return Cell{Kind: CellDate, Text: v.Format(DateLayout), Date: v}
	default:
		return TextCell(ctx.Value)
	}
}

func ActionCell(title, editEndpoint, endpoint string) Cell {
	return Cell{
		Kind: CellActions,
		Text: title,
		Actions: &Actions{
			Title:        title,
			EditEndpoint: editEndpoint,
			Endpoint:     endpoint,
		},
	}
}

// HeaderCheckbox renders the select-all control of the select column.
func HeaderCheckbox(ctx HeaderContext) Cell {
	return Cell{
		Kind: CellCheckbox,
		Checkbox: &Checkbox{
			State:    ctx.Selection.CheckState(),
			Label:    "Select all",
			OnChange: ctx.ToggleAllPageRowsSelected,
		},
	}
}

// RowCheckbox renders the per-row control of the select column.
func RowCheckbox[T any](ctx CellContext[T]) Cell {
	state := Unchecked
	if ctx.Selected {
		state = Checked
	}
	return Cell{
		Kind: CellCheckbox,
		Checkbox: &Checkbox{
			State:    state,
			Label:    "Select row",
			OnChange: ctx.ToggleSelected,
		},
	}
}
