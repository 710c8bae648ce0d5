package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	apicontract "github.com/tuanvumaihuynh/catalog-admin/api-contract"
	"github.com/tuanvumaihuynh/catalog-admin/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-admin/internal/config"
	"github.com/tuanvumaihuynh/catalog-admin/internal/http/apierr"
	"github.com/tuanvumaihuynh/catalog-admin/internal/http/metric"
	"github.com/tuanvumaihuynh/catalog-admin/internal/http/middleware"
	"github.com/tuanvumaihuynh/catalog-admin/internal/http/swagger"
	"github.com/tuanvumaihuynh/catalog-admin/internal/http/view"
	"github.com/tuanvumaihuynh/catalog-admin/internal/service"
	"github.com/tuanvumaihuynh/catalog-admin/internal/storage/db"
)

var tracer = otel.Tracer("internal/http")

const HealthPath = "/healthz"

// Service represents the HTTP service.
type Service struct {
	cfg      config.HTTP
	logger   *slog.Logger
	metrics  *metric.Metrics
	doc      *openapi3.T
	renderer *view.Renderer

	productSvc service.ProductService
	health     db.HealthChecker
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	doc *openapi3.T,
	productSvc service.ProductService,
	health db.HealthChecker,
) (*Service, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("new renderer: %w", err)
	}

	return &Service{
		cfg:        cfg,
		logger:     log.With(slog.String("service", "http")),
		metrics:    metric.New(),
		doc:        doc,
		renderer:   renderer,
		productSvc: productSvc,
		health:     health,
	}, nil
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	handler, err := s.Handler()
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, handler)
}

// Handler builds the router with every middleware and route registered.
func (s *Service) Handler() (http.Handler, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r, s.doc.Info.Title, apicontract.GetSpecBytes())
	}

	if err := s.RegisterHandlers(r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      s.cfg.RequestTimeout + 5*time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	s.logger.InfoContext(ctx, "http server listening", slog.String("addr", ln.Addr().String()))

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.ErrorContext(ctx, "http server stopped", slog.Any("error", err))
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.AllowedOrigins),
		middleware.Logging(s.logger),
		middleware.MethodOverride(),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) error {
	validate, err := middleware.OpenAPIValidator(s.doc, s.handleRequestError)
	if err != nil {
		return fmt.Errorf("new openapi validator: %w", err)
	}

	store := newStorefrontHandler(s.logger, s.productSvc, s.renderer)
	dashboard := newDashboardHandler(s.logger, s.productSvc, s.renderer)
	api := newProductHandler(s.productSvc)

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(s.cfg.RequestTimeout))

		r.Get("/", s.wrapPage(store.Home))
		r.Post("/search", store.Search)

		r.Route("/dashboard/products", func(r chi.Router) {
			r.Get("/", s.wrapPage(dashboard.List))
			r.Post("/toggle", s.wrapPage(dashboard.Toggle))
			r.Get("/update/{id}", s.wrapPage(dashboard.Edit))
			r.Post("/update/{id}", s.wrapPage(dashboard.Update))
		})

		r.Route("/api", func(r chi.Router) {
			r.Use(validate)

			r.Get("/products", s.wrapAPI(api.ListProducts))
			r.Post("/products", s.wrapAPI(api.CreateProduct))
			r.Get("/products/{id}", s.wrapAPI(api.GetProduct))
			r.Put("/products/{id}", s.wrapAPI(api.UpdateProduct))
			r.Delete("/products/{id}", s.wrapAPI(api.DeleteProduct))
			r.Get("/service-types", s.wrapAPI(api.ListServiceTypes))
		})
	})

	r.Get(HealthPath, s.handleHealth)
	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))

	return nil
}

// apiHandlerFunc is an API handler that leaves error responses to the caller.
type apiHandlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Service) wrapAPI(h apiHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.handleResponseError(w, r, err)
		}
	}
}

// pageHandlerFunc is an HTML handler. Errors render as plain text pages.
type pageHandlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Service) wrapPage(h pageHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		res := apierr.New(err)
		s.logError(r, res.StatusCode, err)
		http.Error(w, res.Message, res.StatusCode)
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	ok, err := s.health.IsHealthy(r.Context())
	if err != nil || !ok {
		s.handleResponseError(w, r, apperr.ServiceUnavailableErr.WrapParent(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	//nolint:errcheck
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Service) handleRequestError(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	res := apierr.New(err)
	res.StatusCode = http.StatusBadRequest
	if res.Code == apierr.InternalServerErr.Code {
		res = apierr.New(apperr.ValidationErr.WrapParent(err))
	}

	s.logger.InfoContext(r.Context(), "http request rejected", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.WarnContext(r.Context(), "error encoding error request",
			slog.Any("error", err))
	}
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	s.logError(r, res.StatusCode, err)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}

func (s *Service) logError(r *http.Request, status int, err error) {
	logLevel := slog.LevelInfo
	if status >= 500 {
		logLevel = slog.LevelError
	} else if status >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck
	json.NewEncoder(w).Encode(v)
}
