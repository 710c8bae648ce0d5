package view_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-admin/internal/catalog"
	"github.com/tuanvumaihuynh/catalog-admin/internal/http/view"
	"github.com/tuanvumaihuynh/catalog-admin/internal/model"
	"github.com/tuanvumaihuynh/catalog-admin/internal/table"
)

func product() model.Product {
	return model.Product{
		ID:           uuid.MustParse("0190c8a2-7b1e-7c4d-9f3a-5e2b1d0c9a88"),
		Name:         "Deep clean",
		Image:        "https://cdn.example.com/p/1.png",
		ProductPrice: 49.9,
		IsActive:     true,
		ServiceType:  model.ServiceType{ID: uuid.New(), Name: "Cleaning"},
		CreatedAt:    time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewTableView(t *testing.T) {
	tbl, err := catalog.NewTable()
	require.NoError(t, err)

	p := product()
	state := table.NewState()
	state.ToggleRowSelected(p.ID.String(), true)

	tv := view.NewTableView(tbl.Render([]model.Product{p}, &state), "selected="+p.ID.String(), "/dashboard/", "/api/")

	require.Len(t, tv.Headers, 8)
	sel := tv.Headers[0]
	assert.Equal(t, "checkbox", sel.Kind)
	assert.True(t, sel.Checked)
	assert.Equal(t, view.ToggleTargetHeader, sel.Target)
	assert.Equal(t, "sort", tv.Headers[1].Kind)
	assert.Equal(t, "Name", tv.Headers[1].Label)

	require.Len(t, tv.Rows, 1)
	row := tv.Rows[0]
	assert.True(t, row.Selected)
	assert.Equal(t, p.ID.String(), row.Cells[0].Row)

	actions := row.Cells[len(row.Cells)-1]
	assert.Equal(t, "/dashboard/products/update/"+p.ID.String(), actions.EditURL)
	assert.Equal(t, "/api/products/"+p.ID.String(), actions.DeleteURL)
}

func TestRenderer(t *testing.T) {
	r, err := view.NewRenderer()
	require.NoError(t, err)

	t.Run("Should render storefront", func(t *testing.T) {
		var buf bytes.Buffer
		err := r.Render(&buf, view.PageStorefront, view.StorefrontPage{
			Query:    "deep & clean",
			Products: []model.Product{product()},
			Total:    1,
		})
		require.NoError(t, err)

		body := buf.String()
		assert.Contains(t, body, `value="deep &amp; clean"`)
		assert.Contains(t, body, "Deep clean")
		assert.Contains(t, body, `action="/search"`)
	})

	t.Run("Should render products table", func(t *testing.T) {
		tbl, err := catalog.NewTable()
		require.NoError(t, err)
		state := table.NewState()

		var buf bytes.Buffer
		err = r.Render(&buf, view.PageProducts, view.ProductsPage{
			Table: view.NewTableView(tbl.Render([]model.Product{product()}, &state), "", "/dashboard/", "/api/"),
			Total: 1,
			Page:  1,
		})
		require.NoError(t, err)

		body := buf.String()
		assert.Contains(t, body, `aria-label="Select all"`)
		assert.Contains(t, body, `aria-label="Select row"`)
		assert.Contains(t, body, "Product Image")
		assert.Contains(t, body, "2025-01-02")
		assert.Contains(t, body, `name="_method" value="DELETE"`)
	})

	t.Run("Should render edit page", func(t *testing.T) {
		p := product()

		var buf bytes.Buffer
		err := r.Render(&buf, view.PageProductEdit, view.ProductEditPage{
			Product:      p,
			ServiceTypes: []model.ServiceType{p.ServiceType},
			Errors:       []string{"name: field is required"},
		})
		require.NoError(t, err)

		body := buf.String()
		assert.Contains(t, body, "selected>Cleaning")
		assert.Contains(t, body, "field is required")
	})

	t.Run("Should reject unknown page", func(t *testing.T) {
		assert.Error(t, r.Render(&bytes.Buffer{}, "missing", nil))
	})
}
