package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	govalidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/catalog-admin/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-admin/internal/catalog"
	"github.com/tuanvumaihuynh/catalog-admin/internal/http/view"
	"github.com/tuanvumaihuynh/catalog-admin/internal/model"
	"github.com/tuanvumaihuynh/catalog-admin/internal/service"
	"github.com/tuanvumaihuynh/catalog-admin/internal/table"
	"github.com/tuanvumaihuynh/catalog-admin/pkg/validator"
	"github.com/tuanvumaihuynh/catalog-admin/pkg/zerror"
)

const (
	dashboardPath  = "/dashboard/products"
	dashboardRoot  = "/dashboard/"
	apiRoot        = "/api/"
	toggleStateKey = "state"
)

type dashboardHandler struct {
	logger     *slog.Logger
	productSvc service.ProductService
	renderer   *view.Renderer
	table      *table.Table[model.Product]
}

func newDashboardHandler(logger *slog.Logger, productSvc service.ProductService, renderer *view.Renderer) *dashboardHandler {
	tbl, err := catalog.NewTable()
	if err != nil {
		// the product columns are static
		panic(err)
	}

	return &dashboardHandler{
		logger:     logger,
		productSvc: productSvc,
		renderer:   renderer,
		table:      tbl,
	}
}

// List renders the product table for the table state in the URL.
func (h *dashboardHandler) List(w http.ResponseWriter, r *http.Request) error {
	state := table.ParseState(r.URL.Query())

	page, err := h.listPage(r, state)
	if err != nil {
		return err
	}

	v := h.table.Render(page.Items, &state)

	data := view.ProductsPage{
		Table: view.NewTableView(v, state.Values().Encode(), dashboardRoot, apiRoot),
		Total: page.Total,
		Page:  state.Page,
	}
	if state.Page > 1 {
		prev := state.Clone()
		prev.Page--
		data.PrevURL = dashboardURL(prev)
	}
	if int64(state.Offset()+len(page.Items)) < page.Total {
		next := state.Clone()
		next.Page++
		data.NextURL = dashboardURL(next)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return h.renderer.Render(w, view.PageProducts, data)
}

// Toggle renders the table for the posted state, activates the addressed
// checkbox or sort button and redirects to the resulting state.
func (h *dashboardHandler) Toggle(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return apperr.ValidationErr.WrapParent(err)
	}

	q, err := url.ParseQuery(r.PostForm.Get(toggleStateKey))
	if err != nil {
		return apperr.ValidationErr.WrapParent(err)
	}
	state := table.ParseState(q)

	page, err := h.listPage(r, state)
	if err != nil {
		return err
	}

	v := h.table.Render(page.Items, &state)

	column := r.PostForm.Get("column")
	var (
		cell table.Cell
		ok   bool
	)
	switch r.PostForm.Get("target") {
	case view.ToggleTargetHeader:
		cell, ok = v.HeaderCellFor(column)
	case view.ToggleTargetRow:
		cell, ok = v.RowCellFor(r.PostForm.Get("row"), column)
	}
	if !ok {
		return apperr.ValidationErr.WithMsg("unknown table control")
	}

	switch cell.Kind {
	case table.CellCheckbox:
		cell.Checkbox.Toggle()
	case table.CellSortButton:
		cell.Sort.Toggle()
	default:
		return apperr.ValidationErr.WithMsg("table control %s is not toggleable", column)
	}

	http.Redirect(w, r, dashboardURL(state), http.StatusSeeOther)
	return nil
}

// Edit renders the edit form of a product.
func (h *dashboardHandler) Edit(w http.ResponseWriter, r *http.Request) error {
	id, err := productID(r)
	if err != nil {
		return err
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service get product: %w", err)
	}

	return h.renderEdit(w, r, http.StatusOK, product, nil)
}

// Update applies the edit form and returns to the product table.
func (h *dashboardHandler) Update(w http.ResponseWriter, r *http.Request) error {
	id, err := productID(r)
	if err != nil {
		return err
	}

	if err := r.ParseForm(); err != nil {
		return apperr.ValidationErr.WrapParent(err)
	}

	params, formErrs := parseProductForm(r.PostForm)

	product := model.Product{
		ID:           id,
		Name:         params.Name,
		Image:        params.Image,
		ProductPrice: params.ProductPrice,
		IsActive:     params.IsActive,
		ServiceType:  model.ServiceType{ID: params.ServiceTypeID},
	}

	if len(formErrs) == 0 {
		_, err = h.productSvc.UpdateProduct(r.Context(), id, params)
		if err == nil {
			http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
			return nil
		}
		if !errors.Is(err, apperr.ValidationErr) && !errors.Is(err, apperr.ServiceTypeNotFoundErr) {
			return fmt.Errorf("product service update product: %w", err)
		}
		formErrs = validationMessages(err)
	}

	return h.renderEdit(w, r, http.StatusBadRequest, product, formErrs)
}

func (h *dashboardHandler) renderEdit(w http.ResponseWriter, r *http.Request, status int, product model.Product, formErrs []string) error {
	serviceTypes, err := h.productSvc.ListServiceTypes(r.Context())
	if err != nil {
		return fmt.Errorf("product service list service types: %w", err)
	}

	data := view.ProductEditPage{
		Product:      product,
		ServiceTypes: serviceTypes,
		Errors:       formErrs,
		DeleteURL:    apiRoot + catalog.Endpoint(product.ID),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return h.renderer.Render(w, view.PageProductEdit, data)
}

func (h *dashboardHandler) listPage(r *http.Request, state table.State) (service.ProductPage, error) {
	params := service.ListProductsParams{
		Limit:  state.Limit,
		Offset: state.Offset(),
	}
	if slices.Contains(catalog.SortableKeys(), state.Sort.Key) {
		params.Sort = state.Sort.Key
		if state.Sort.Direction == table.SortDesc {
			params.Order = service.SortOrderDesc
		} else {
			params.Order = service.SortOrderAsc
		}
	}

	page, err := h.productSvc.ListProducts(r.Context(), params)
	if err != nil {
		return service.ProductPage{}, fmt.Errorf("product service list products: %w", err)
	}
	return page, nil
}

func dashboardURL(state table.State) string {
	if q := state.Values().Encode(); q != "" {
		return dashboardPath + "?" + q
	}
	return dashboardPath
}

func productID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.ProductNotFoundErr.WrapParent(err)
	}
	return id, nil
}

// parseProductForm reads the edit form. Fields that fail to parse are reported
// and left zero.
func parseProductForm(form url.Values) (service.UpdateProductParams, []string) {
	var errs []string

	params := service.UpdateProductParams{
		Name:     form.Get("name"),
		Image:    form.Get("image"),
		IsActive: form.Get("isActive") != "",
	}

	if raw := strings.TrimSpace(form.Get("productprice")); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, "productprice: must be a number")
		} else {
			params.ProductPrice = price
		}
	}

	id, err := uuid.Parse(form.Get("serviceTypeId"))
	if err != nil {
		errs = append(errs, "serviceTypeId: must be a valid UUID")
	} else {
		params.ServiceTypeID = id
	}

	return params, errs
}

func validationMessages(err error) []string {
	var validationErrs govalidator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		var zErr zerror.ZError
		if errors.As(err, &zErr) {
			return []string{zErr.Msg()}
		}
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		msgs = append(msgs, fe.Field()+": "+validator.ValidationErrorMessage(fe))
	}
	return msgs
}
