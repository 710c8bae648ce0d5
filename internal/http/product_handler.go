package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/catalog-admin/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-admin/internal/http/apierr"
	"github.com/tuanvumaihuynh/catalog-admin/internal/http/middleware"
	"github.com/tuanvumaihuynh/catalog-admin/internal/model"
	"github.com/tuanvumaihuynh/catalog-admin/internal/service"
	"github.com/tuanvumaihuynh/catalog-admin/internal/table"
)

type ServiceTypeResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ProductResponse struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	Image        string              `json:"image"`
	ProductPrice float64             `json:"productprice"`
	IsActive     bool                `json:"isActive"`
	ServiceType  ServiceTypeResponse `json:"serviceType"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

type ProductPageResponse struct {
	Items []ProductResponse `json:"items"`
	Total int64             `json:"total"`
}

type ProductRequest struct {
	Name          string    `json:"name"`
	Image         string    `json:"image"`
	ProductPrice  float64   `json:"productprice"`
	IsActive      bool      `json:"isActive"`
	ServiceTypeID uuid.UUID `json:"serviceTypeId"`
}

type productHandler struct {
	productSvc service.ProductService
}

func newProductHandler(productSvc service.ProductService) *productHandler {
	return &productHandler{
		productSvc: productSvc,
	}
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	var (
		query      *string
		activeOnly *bool
		sort       *string
		order      *string
		limit      *int
		offset     *int
	)

	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dest any
	}{
		{"query", &query},
		{"activeOnly", &activeOnly},
		{"sort", &sort},
		{"order", &order},
		{"limit", &limit},
		{"offset", &offset},
	} {
		if err := runtime.BindQueryParameter("form", true, false, p.name, q, p.dest); err != nil {
			return &apierr.InvalidParamError{ParamName: p.name, Err: err}
		}
	}

	params := service.ListProductsParams{Limit: table.DefaultLimit}
	if query != nil {
		params.Query = *query
	}
	if activeOnly != nil {
		params.ActiveOnly = *activeOnly
	}
	if sort != nil {
		params.Sort = *sort
	}
	if order != nil {
		params.Order = service.SortOrder(*order)
	}
	if limit != nil {
		params.Limit = *limit
	}
	if offset != nil {
		params.Offset = *offset
	}

	page, err := h.productSvc.ListProducts(r.Context(), params)
	if err != nil {
		return fmt.Errorf("product service list products: %w", err)
	}

	items := make([]ProductResponse, 0, len(page.Items))
	for _, product := range page.Items {
		items = append(items, toProductResponse(product))
	}

	writeJSON(w, http.StatusOK, ProductPageResponse{Items: items, Total: page.Total})
	return nil
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	var body ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return apperr.ValidationErr.WrapParent(err)
	}

	product, err := h.productSvc.CreateProduct(r.Context(), service.CreateProductParams{
		Name:          body.Name,
		Image:         body.Image,
		ProductPrice:  body.ProductPrice,
		IsActive:      body.IsActive,
		ServiceTypeID: body.ServiceTypeID,
	})
	if err != nil {
		return fmt.Errorf("product service create product: %w", err)
	}

	writeJSON(w, http.StatusCreated, toProductResponse(product))
	return nil
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := bindProductID(r)
	if err != nil {
		return err
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service get product: %w", err)
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
	return nil
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := bindProductID(r)
	if err != nil {
		return err
	}

	var body ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return apperr.ValidationErr.WrapParent(err)
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), id, service.UpdateProductParams{
		Name:          body.Name,
		Image:         body.Image,
		ProductPrice:  body.ProductPrice,
		IsActive:      body.IsActive,
		ServiceTypeID: body.ServiceTypeID,
	})
	if err != nil {
		return fmt.Errorf("product service update product: %w", err)
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
	return nil
}

// DeleteProduct deletes a product. A delete sent from an HTML form returns to
// the product table.
func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := bindProductID(r)
	if err != nil {
		return err
	}

	if err := h.productSvc.DeleteProduct(r.Context(), id); err != nil {
		return fmt.Errorf("product service delete product: %w", err)
	}

	if middleware.IsMethodOverridden(r) {
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return nil
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *productHandler) ListServiceTypes(w http.ResponseWriter, r *http.Request) error {
	types, err := h.productSvc.ListServiceTypes(r.Context())
	if err != nil {
		return fmt.Errorf("product service list service types: %w", err)
	}

	res := make([]ServiceTypeResponse, 0, len(types))
	for _, st := range types {
		res = append(res, ServiceTypeResponse{ID: st.ID, Name: st.Name})
	}

	writeJSON(w, http.StatusOK, res)
	return nil
}

func bindProductID(r *http.Request) (uuid.UUID, error) {
	var id uuid.UUID
	if err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	}); err != nil {
		return uuid.Nil, &apierr.InvalidParamError{ParamName: "id", Err: err}
	}
	return id, nil
}

func toProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Image:        p.Image,
		ProductPrice: p.ProductPrice,
		IsActive:     p.IsActive,
		ServiceType:  ServiceTypeResponse{ID: p.ServiceType.ID, Name: p.ServiceType.Name},
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
