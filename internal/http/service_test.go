package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontract "github.com/tuanvumaihuynh/catalog-admin/api-contract"
	"github.com/tuanvumaihuynh/catalog-admin/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-admin/internal/config"
	apphttp "github.com/tuanvumaihuynh/catalog-admin/internal/http"
	"github.com/tuanvumaihuynh/catalog-admin/internal/model"
	"github.com/tuanvumaihuynh/catalog-admin/internal/service"
	"github.com/tuanvumaihuynh/catalog-admin/pkg/correlationid"
)

var (
	cleaning = model.ServiceType{ID: uuid.MustParse("0190c8a2-0000-7000-8000-000000000001"), Name: "Cleaning"}
	deep     = model.Product{
		ID:           uuid.MustParse("0190c8a2-7b1e-7c4d-9f3a-5e2b1d0c9a88"),
		Name:         "Deep clean",
		Image:        "https://cdn.example.com/p/1.png",
		ProductPrice: 49.9,
		IsActive:     true,
		ServiceType:  cleaning,
		CreatedAt:    time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
	}
	window = model.Product{
		ID:          uuid.MustParse("0190c8a2-7b1e-7c4d-9f3a-5e2b1d0c9a89"),
		Name:        "Window wash",
		ServiceType: cleaning,
		CreatedAt:   time.Date(2025, 1, 3, 10, 0, 0, 0, time.UTC),
	}
)

type fakeProductService struct {
	products   []model.Product
	listParams []service.ListProductsParams
	updated    map[uuid.UUID]service.UpdateProductParams
	deleted    []uuid.UUID
}

func (f *fakeProductService) ListProducts(_ context.Context, params service.ListProductsParams) (service.ProductPage, error) {
	f.listParams = append(f.listParams, params)
	return service.ProductPage{Items: f.products, Total: int64(len(f.products))}, nil
}

func (f *fakeProductService) find(id uuid.UUID) (model.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, apperr.ProductNotFoundErr
}

func (f *fakeProductService) GetProduct(_ context.Context, id uuid.UUID) (model.Product, error) {
	return f.find(id)
}

func (f *fakeProductService) CreateProduct(_ context.Context, params service.CreateProductParams) (model.Product, error) {
	return model.Product{ID: uuid.New(), Name: params.Name, ServiceType: cleaning}, nil
}

func (f *fakeProductService) UpdateProduct(_ context.Context, id uuid.UUID, params service.UpdateProductParams) (model.Product, error) {
	p, err := f.find(id)
	if err != nil {
		return model.Product{}, err
	}
	if params.Name == "" {
		return model.Product{}, apperr.ValidationErr.WithMsg("name is required")
	}
	f.updated[id] = params
	p.Name = params.Name
	return p, nil
}

func (f *fakeProductService) DeleteProduct(_ context.Context, id uuid.UUID) error {
	if _, err := f.find(id); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeProductService) ListServiceTypes(context.Context) ([]model.ServiceType, error) {
	return []model.ServiceType{cleaning}, nil
}

type fakeHealth struct {
	err error
}

func (f fakeHealth) IsHealthy(context.Context) (bool, error) {
	return f.err == nil, f.err
}

func newServer(t *testing.T, health fakeHealth) (http.Handler, *fakeProductService) {
	t.Helper()

	doc, err := apicontract.Load(context.Background())
	require.NoError(t, err)

	svc := &fakeProductService{
		products: []model.Product{deep, window},
		updated:  map[uuid.UUID]service.UpdateProductParams{},
	}
	cfg := config.HTTP{
		Swagger:        true,
		AllowedOrigins: []string{"*"},
		RequestTimeout: 5 * time.Second,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := apphttp.New(cfg, logger, doc, svc, health)
	require.NoError(t, err)

	h, err := s.Handler()
	require.NoError(t, err)

	return h, svc
}

func postForm(h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestSearch(t *testing.T) {
	h, _ := newServer(t, fakeHealth{})

	tests := []struct {
		name     string
		form     url.Values
		status   int
		location string
	}{
		{
			name:     "change to empty navigates home",
			form:     url.Values{"query": {""}, "intent": {"change"}},
			status:   http.StatusSeeOther,
			location: "/",
		},
		{
			name:   "change to whitespace stays",
			form:   url.Values{"query": {"  "}, "intent": {"change"}},
			status: http.StatusNoContent,
		},
		{
			name:   "change to text stays",
			form:   url.Values{"query": {"clean"}, "intent": {"change"}},
			status: http.StatusNoContent,
		},
		{
			name:     "submit encodes term",
			form:     url.Values{"query": {"  deep clean&shine "}},
			status:   http.StatusSeeOther,
			location: "/?query=deep%20clean%26shine",
		},
		{
			name:     "submit whitespace navigates home",
			form:     url.Values{"query": {"   "}, "intent": {"submit"}},
			status:   http.StatusSeeOther,
			location: "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postForm(h, "/search", tt.form)

			assert.Equal(t, tt.status, resp.Code)
			assert.Equal(t, tt.location, resp.Header().Get("Location"))
		})
	}
}

func TestHome(t *testing.T) {
	h, svc := newServer(t, fakeHealth{})

	resp := get(h, "/?query=deep%20clean")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, resp.Body.String(), `value="deep clean"`)

	require.Len(t, svc.listParams, 1)
	assert.Equal(t, "deep clean", svc.listParams[0].Query)
	assert.True(t, svc.listParams[0].ActiveOnly)
}

func TestDashboard(t *testing.T) {
	t.Run("Should render the product table", func(t *testing.T) {
		h, svc := newServer(t, fakeHealth{})

		resp := get(h, "/dashboard/products?sort=name&order=desc&page=2&limit=5")

		assert.Equal(t, http.StatusOK, resp.Code)
		body := resp.Body.String()
		assert.Contains(t, body, `aria-label="Select all"`)
		assert.Contains(t, body, "Deep clean")
		assert.Contains(t, body, "/dashboard/products/update/"+deep.ID.String())

		require.Len(t, svc.listParams, 1)
		assert.Equal(t, service.ListProductsParams{
			Sort:   "name",
			Order:  service.SortOrderDesc,
			Limit:  5,
			Offset: 5,
		}, svc.listParams[0])
	})

	t.Run("Should ignore unsortable keys", func(t *testing.T) {
		h, svc := newServer(t, fakeHealth{})

		resp := get(h, "/dashboard/products?sort=image")

		assert.Equal(t, http.StatusOK, resp.Code)
		require.Len(t, svc.listParams, 1)
		assert.Empty(t, svc.listParams[0].Sort)
	})
}

func TestToggle(t *testing.T) {
	h, _ := newServer(t, fakeHealth{})

	tests := []struct {
		name     string
		form     url.Values
		location string
	}{
		{
			name:     "header checkbox selects page",
			form:     url.Values{"target": {"header"}, "column": {"select"}},
			location: "/dashboard/products?selected=" + deep.ID.String() + "&selected=" + window.ID.String(),
		},
		{
			name: "indeterminate header selects page",
			form: url.Values{
				"state":  {"selected=" + deep.ID.String()},
				"target": {"header"},
				"column": {"select"},
			},
			location: "/dashboard/products?selected=" + deep.ID.String() + "&selected=" + window.ID.String(),
		},
		{
			name: "checked header clears page",
			form: url.Values{
				"state":  {"selected=" + deep.ID.String() + "&selected=" + window.ID.String()},
				"target": {"header"},
				"column": {"select"},
			},
			location: "/dashboard/products",
		},
		{
			name: "row checkbox selects row",
			form: url.Values{
				"target": {"row"},
				"column": {"select"},
				"row":    {window.ID.String()},
			},
			location: "/dashboard/products?selected=" + window.ID.String(),
		},
		{
			name:     "sort header sorts ascending",
			form:     url.Values{"target": {"header"}, "column": {"name"}},
			location: "/dashboard/products?order=asc&sort=name",
		},
		{
			name: "sort header clears after descending",
			form: url.Values{
				"state":  {"sort=name&order=desc&page=3"},
				"target": {"header"},
				"column": {"name"},
			},
			location: "/dashboard/products",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postForm(h, "/dashboard/products/toggle", tt.form)

			assert.Equal(t, http.StatusSeeOther, resp.Code)
			assert.Equal(t, tt.location, resp.Header().Get("Location"))
		})
	}

	t.Run("Should reject non toggleable controls", func(t *testing.T) {
		resp := postForm(h, "/dashboard/products/toggle", url.Values{"target": {"header"}, "column": {"image"}})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestEditProduct(t *testing.T) {
	editPath := "/dashboard/products/update/" + deep.ID.String()

	t.Run("Should render the edit form", func(t *testing.T) {
		h, _ := newServer(t, fakeHealth{})

		resp := get(h, editPath)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `value="Deep clean"`)
	})

	t.Run("Should update and redirect", func(t *testing.T) {
		h, svc := newServer(t, fakeHealth{})

		resp := postForm(h, editPath, url.Values{
			"name":          {"Deeper clean"},
			"productprice":  {"59.90"},
			"isActive":      {"on"},
			"serviceTypeId": {cleaning.ID.String()},
		})

		assert.Equal(t, http.StatusSeeOther, resp.Code)
		assert.Equal(t, "/dashboard/products", resp.Header().Get("Location"))
		assert.Equal(t, service.UpdateProductParams{
			Name:          "Deeper clean",
			ProductPrice:  59.9,
			IsActive:      true,
			ServiceTypeID: cleaning.ID,
		}, svc.updated[deep.ID])
	})

	t.Run("Should show form errors", func(t *testing.T) {
		h, svc := newServer(t, fakeHealth{})

		resp := postForm(h, editPath, url.Values{
			"name":          {"Deeper clean"},
			"productprice":  {"cheap"},
			"serviceTypeId": {cleaning.ID.String()},
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Contains(t, resp.Body.String(), "must be a number")
		assert.Empty(t, svc.updated)
	})

	t.Run("Should show service errors", func(t *testing.T) {
		h, _ := newServer(t, fakeHealth{})

		resp := postForm(h, editPath, url.Values{"serviceTypeId": {cleaning.ID.String()}})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Contains(t, resp.Body.String(), "name is required")
	})

	t.Run("Should return not found", func(t *testing.T) {
		h, _ := newServer(t, fakeHealth{})

		resp := get(h, "/dashboard/products/update/"+uuid.NewString())

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestProductAPI(t *testing.T) {
	t.Run("Should list products", func(t *testing.T) {
		h, svc := newServer(t, fakeHealth{})

		resp := get(h, "/api/products?sort=productprice&order=asc&limit=5&activeOnly=true")
		require.Equal(t, http.StatusOK, resp.Code)

		var body apphttp.ProductPageResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.EqualValues(t, 2, body.Total)
		assert.Equal(t, deep.ID, body.Items[0].ID)

		require.Len(t, svc.listParams, 1)
		assert.Equal(t, service.ListProductsParams{
			ActiveOnly: true,
			Sort:       "productprice",
			Order:      service.SortOrderAsc,
			Limit:      5,
		}, svc.listParams[0])
	})

	t.Run("Should reject out of range limit", func(t *testing.T) {
		h, svc := newServer(t, fakeHealth{})

		resp := get(h, "/api/products?limit=1000")

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Empty(t, svc.listParams)
	})

	t.Run("Should get product", func(t *testing.T) {
		h, _ := newServer(t, fakeHealth{})

		resp := get(h, "/api/products/"+deep.ID.String())
		require.Equal(t, http.StatusOK, resp.Code)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Deep clean", body["name"])
		assert.InDelta(t, 49.9, body["productprice"], 0.0001)
		assert.Equal(t, true, body["isActive"])
	})

	t.Run("Should reject malformed id", func(t *testing.T) {
		h, _ := newServer(t, fakeHealth{})

		resp := get(h, "/api/products/not-a-uuid")

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("Should return not found", func(t *testing.T) {
		h, _ := newServer(t, fakeHealth{})

		resp := get(h, "/api/products/"+uuid.NewString())

		assert.Equal(t, http.StatusNotFound, resp.Code)
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, apperr.ProductNotFoundCode, body["code"])
	})

	t.Run("Should update product", func(t *testing.T) {
		h, svc := newServer(t, fakeHealth{})

		req := httptest.NewRequest(http.MethodPut, "/api/products/"+deep.ID.String(), strings.NewReader(
			`{"name":"Deeper clean","productprice":59.9,"isActive":false,"serviceTypeId":"`+cleaning.ID.String()+`"}`,
		))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "Deeper clean", svc.updated[deep.ID].Name)
	})

	t.Run("Should reject body missing required fields", func(t *testing.T) {
		h, svc := newServer(t, fakeHealth{})

		req := httptest.NewRequest(http.MethodPut, "/api/products/"+deep.ID.String(), strings.NewReader(`{"name":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Empty(t, svc.updated)
	})

	t.Run("Should delete product", func(t *testing.T) {
		h, svc := newServer(t, fakeHealth{})

		req := httptest.NewRequest(http.MethodDelete, "/api/products/"+deep.ID.String(), nil)
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusNoContent, resp.Code)
		assert.Equal(t, []uuid.UUID{deep.ID}, svc.deleted)
	})

	t.Run("Should delete from form and redirect", func(t *testing.T) {
		h, svc := newServer(t, fakeHealth{})

		resp := postForm(h, "/api/products/"+window.ID.String(), url.Values{"_method": {"DELETE"}})

		assert.Equal(t, http.StatusSeeOther, resp.Code)
		assert.Equal(t, "/dashboard/products", resp.Header().Get("Location"))
		assert.Equal(t, []uuid.UUID{window.ID}, svc.deleted)
	})

	t.Run("Should list service types", func(t *testing.T) {
		h, _ := newServer(t, fakeHealth{})

		resp := get(h, "/api/service-types")
		require.Equal(t, http.StatusOK, resp.Code)

		var body []apphttp.ServiceTypeResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, []apphttp.ServiceTypeResponse{{ID: cleaning.ID, Name: cleaning.Name}}, body)
	})
}

func TestOperationalRoutes(t *testing.T) {
	t.Run("Should report healthy", func(t *testing.T) {
		h, _ := newServer(t, fakeHealth{})

		resp := get(h, apphttp.HealthPath)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())
	})

	t.Run("Should report unhealthy", func(t *testing.T) {
		h, _ := newServer(t, fakeHealth{err: errors.New("connection refused")})

		resp := get(h, apphttp.HealthPath)

		assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	})

	t.Run("Should echo correlation id", func(t *testing.T) {
		h, _ := newServer(t, fakeHealth{})

		req := httptest.NewRequest(http.MethodGet, apphttp.HealthPath, nil)
		req.Header.Set(correlationid.Header, "req-42")
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, req)

		assert.Equal(t, "req-42", resp.Header().Get(correlationid.Header))
	})

	t.Run("Should expose metrics", func(t *testing.T) {
		h, _ := newServer(t, fakeHealth{})
		get(h, apphttp.HealthPath)

		resp := get(h, "/metrics")

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), "catalog_admin_http_requests_total")
	})

	t.Run("Should serve docs", func(t *testing.T) {
		h, _ := newServer(t, fakeHealth{})

		resp := get(h, "/docs/openapi.yml")

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), "/api/products/{id}")
	})
}
