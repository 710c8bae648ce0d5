// Package catalog declares the product data table.
package catalog

import (
	"fmt"

	"github.com/tuanvumaihuynh/catalog-admin/internal/model"
	"github.com/tuanvumaihuynh/catalog-admin/internal/table"
	"github.com/tuanvumaihuynh/catalog-admin/pkg/ptr"
)

// ActionsTitle is the display title passed to the row action menu.
const ActionsTitle = "Products"

// EditEndpoint returns the edit endpoint of the product with the given id.
func EditEndpoint(id any) string {
	return fmt.Sprintf("products/update/%v", id)
}

// Endpoint returns the fetch/delete endpoint of the product with the given id.
func Endpoint(id any) string {
	return fmt.Sprintf("products/%v", id)
}

// Columns returns the product table columns in display order.
func Columns() []table.Column[model.Product] {
	return []table.Column[model.Product]{
		{
			ID:            table.SelectColumnID,
			HeaderFunc:    table.HeaderCheckbox,
			CellFunc:      table.RowCheckbox[model.Product],
			EnableSorting: ptr.New(false),
			EnableHiding:  ptr.New(false),
		},
		{
			AccessorKey: "name",
			Accessor:    func(p model.Product) any { return p.Name },
			HeaderFunc:  table.SortableHeader("Name"),
		},
		{
			AccessorKey: "image",
			Accessor:    func(p model.Product) any { return p.Image },
			Header:      "Product Image",
			CellFunc: func(ctx table.CellContext[model.Product]) table.Cell {
				return table.ImageCell(ctx, "image")
			},
		},
		{
			AccessorKey: "productprice",
			Accessor:    func(p model.Product) any { return p.ProductPrice },
			Header:      "Product Price",
		},
		{
			AccessorKey: "isActive",
			Accessor:    func(p model.Product) any { return p.IsActive },
			Header:      "Active",
		},
		{
			AccessorKey: "createdAt",
			Accessor:    func(p model.Product) any { return p.CreatedAt },
			Header:      "Date Created",
			CellFunc:    table.DateCell[model.Product],
		},
		{
			AccessorKey: "serviceType.name",
			Accessor:    func(p model.Product) any { return p.ServiceType.Name },
			Header:      "Service",
		},
		{
			ID: table.ActionsColumnID,
			CellFunc: func(ctx table.CellContext[model.Product]) table.Cell {
				product := ctx.Row
				return table.ActionCell(ActionsTitle, EditEndpoint(product.ID), Endpoint(product.ID))
			},
		},
	}
}

// NewTable returns the product table.
func NewTable() (*table.Table[model.Product], error) {
	return table.New(Columns(), func(p model.Product) string {
		return p.ID.String()
	})
}

// SortableKeys lists the accessor keys the product listing can be ordered by.
func SortableKeys() []string {
	var keys []string
	for _, col := range Columns() {
		if col.AccessorKey != "" && col.HeaderFunc != nil && col.CanSort() {
			keys = append(keys, col.AccessorKey)
		}
	}
	return keys
}
