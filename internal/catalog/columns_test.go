package catalog_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-admin/internal/catalog"
	"github.com/tuanvumaihuynh/catalog-admin/internal/model"
	"github.com/tuanvumaihuynh/catalog-admin/internal/table"
)

func TestEndpoints(t *testing.T) {
	id := uuid.MustParse("0190c8a2-7b1e-7c4d-9f3a-5e2b1d0c9a88")

	tests := []struct {
		name     string
		id       any
		edit     string
		endpoint string
	}{
		{name: "string id", id: "abc", edit: "products/update/abc", endpoint: "products/abc"},
		{name: "numeric id", id: 42, edit: "products/update/42", endpoint: "products/42"},
		{
			name:     "uuid id",
			id:       id,
			edit:     "products/update/0190c8a2-7b1e-7c4d-9f3a-5e2b1d0c9a88",
			endpoint: "products/0190c8a2-7b1e-7c4d-9f3a-5e2b1d0c9a88",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.edit, catalog.EditEndpoint(tt.id))
			assert.Equal(t, tt.endpoint, catalog.Endpoint(tt.id))
		})
	}
}

func TestColumns(t *testing.T) {
	tbl, err := catalog.NewTable()
	require.NoError(t, err)

	var keys []string
	for _, col := range tbl.Columns() {
		keys = append(keys, col.Key())
	}
	assert.Equal(t, []string{
		"select", "name", "image", "productprice", "isActive", "createdAt", "serviceType.name", "actions",
	}, keys)

	sel, ok := tbl.Column(table.SelectColumnID)
	require.True(t, ok)
	assert.False(t, sel.CanSort())
	assert.False(t, sel.CanHide())

	assert.Equal(t, []string{"name"}, catalog.SortableKeys())
}

func TestRenderProducts(t *testing.T) {
	tbl, err := catalog.NewTable()
	require.NoError(t, err)

	product := model.Product{
		ID:           uuid.MustParse("0190c8a2-7b1e-7c4d-9f3a-5e2b1d0c9a88"),
		Name:         "Deep clean",
		Image:        "https://cdn.example.com/p/1.png",
		ProductPrice: 49.9,
		IsActive:     true,
		ServiceType:  model.ServiceType{Name: "Cleaning"},
		CreatedAt:    time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
	}
	state := table.NewState()

	view := tbl.Render([]model.Product{product}, &state)

	headers := make([]string, 0, len(view.Headers))
	for _, h := range view.Headers {
		headers = append(headers, h.Cell.Text)
	}
	assert.Equal(t, []string{"", "Name", "Product Image", "Product Price", "Active", "Date Created", "Service", ""}, headers)

	rowID := product.ID.String()

	image, _ := view.RowCellFor(rowID, "image")
	require.Equal(t, table.CellImage, image.Kind)
	assert.Equal(t, product.Image, image.Image.Src)

	price, _ := view.RowCellFor(rowID, "productprice")
	assert.Equal(t, "49.9", price.Text)

	active, _ := view.RowCellFor(rowID, "isActive")
	assert.Equal(t, "true", active.Text)

	created, _ := view.RowCellFor(rowID, "createdAt")
	assert.Equal(t, "2025-01-02", created.Text)

	service, _ := view.RowCellFor(rowID, "serviceType.name")
	assert.Equal(t, "Cleaning", service.Text)

	actions, _ := view.RowCellFor(rowID, table.ActionsColumnID)
	require.Equal(t, table.CellActions, actions.Kind)
	assert.Equal(t, "Products", actions.Actions.Title)
	assert.Equal(t, "products/update/"+rowID, actions.Actions.EditEndpoint)
	assert.Equal(t, "products/"+rowID, actions.Actions.Endpoint)
}
