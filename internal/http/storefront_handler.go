package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tuanvumaihuynh/catalog-admin/internal/http/view"
	"github.com/tuanvumaihuynh/catalog-admin/internal/search"
	"github.com/tuanvumaihuynh/catalog-admin/internal/service"
	"github.com/tuanvumaihuynh/catalog-admin/internal/table"
)

const (
	searchIntentField  = "intent"
	searchIntentChange = "change"
)

type storefrontHandler struct {
	logger     *slog.Logger
	productSvc service.ProductService
	renderer   *view.Renderer
}

func newStorefrontHandler(logger *slog.Logger, productSvc service.ProductService, renderer *view.Renderer) *storefrontHandler {
	return &storefrontHandler{
		logger:     logger,
		productSvc: productSvc,
		renderer:   renderer,
	}
}

// Home renders the storefront filtered by the query parameter.
func (h *storefrontHandler) Home(w http.ResponseWriter, r *http.Request) error {
	form := search.NewForm(nil)
	form.Sync(r.URL.Query())

	page, err := h.productSvc.ListProducts(r.Context(), service.ListProductsParams{
		Query:      strings.TrimSpace(form.Term()),
		ActiveOnly: true,
		Limit:      table.MaxLimit,
	})
	if err != nil {
		return fmt.Errorf("product service list products: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return h.renderer.Render(w, view.PageStorefront, view.StorefrontPage{
		Query:    form.Term(),
		Products: page.Items,
		Total:    page.Total,
	})
}

// redirectNavigator records the last navigation requested by a search form.
type redirectNavigator struct {
	target    string
	navigated bool
}

func (n *redirectNavigator) Navigate(target string) {
	n.target = target
	n.navigated = true
}

// Search applies an input change or a submit to the search form and answers
// with the resulting navigation, if any.
func (h *storefrontHandler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	nav := &redirectNavigator{}
	form := search.NewForm(nav)
	form.Change(r.PostForm.Get(search.QueryParam))
	if r.PostForm.Get(searchIntentField) != searchIntentChange {
		form.Submit()
	}

	if !nav.navigated {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.logger.DebugContext(r.Context(), "search navigation", slog.String("target", nav.target))
	http.Redirect(w, r, nav.target, http.StatusSeeOther)
}
