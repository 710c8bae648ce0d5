package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/catalog-admin/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-admin/internal/event"
	"github.com/tuanvumaihuynh/catalog-admin/internal/model"
	"github.com/tuanvumaihuynh/catalog-admin/internal/repository"
	"github.com/tuanvumaihuynh/catalog-admin/internal/storage/cache"
	"github.com/tuanvumaihuynh/catalog-admin/internal/storage/db"
	"github.com/tuanvumaihuynh/catalog-admin/pkg/outbox"
	"github.com/tuanvumaihuynh/catalog-admin/pkg/validator"
)

// SortOrder is the direction of a product listing.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

func (o SortOrder) Validate() error {
	switch o {
	case "", SortOrderAsc, SortOrderDesc:
		return nil
	default:
		return fmt.Errorf("unknown sort order: %s", string(o))
	}
}

type ListProductsParams struct {
	Query      string    `validate:"max=200"`
	ActiveOnly bool      `validate:"-"`
	Sort       string    `validate:"sort=name createdAt productprice"`
	Order      SortOrder `validate:"enum"`
	Limit      int       `validate:"gte=1,lte=100"`
	Offset     int       `validate:"gte=0"`
}

type ProductPage struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
}

type CreateProductParams struct {
	Name          string    `json:"name" validate:"required,max=200"`
	Image         string    `json:"image" validate:"omitempty,imageurl"`
	ProductPrice  float64   `json:"productprice" validate:"price,lte=9999999999.99"`
	IsActive      bool      `json:"isActive" validate:"-"`
	ServiceTypeID uuid.UUID `json:"serviceTypeId" validate:"required"`
}

type UpdateProductParams struct {
	Name          string    `json:"name" validate:"required,max=200"`
	Image         string    `json:"image" validate:"omitempty,imageurl"`
	ProductPrice  float64   `json:"productprice" validate:"price,lte=9999999999.99"`
	IsActive      bool      `json:"isActive" validate:"-"`
	ServiceTypeID uuid.UUID `json:"serviceTypeId" validate:"required"`
}

type ProductService interface {
	ListProducts(ctx context.Context, params ListProductsParams) (ProductPage, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListServiceTypes(ctx context.Context) ([]model.ServiceType, error)
}

type productService struct {
	logger        *slog.Logger
	db            db.DB
	validator     validator.Validator
	cache         cache.Cache
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewProductService(
	logger *slog.Logger,
	db db.DB,
	validator validator.Validator,
	cache cache.Cache,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) ProductService {
	return &productService{
		logger:        logger.With(slog.String("service", "product")),
		db:            db,
		validator:     validator,
		cache:         cache,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (s *productService) ListProducts(ctx context.Context, params ListProductsParams) (ProductPage, error) {
	params.Query = strings.TrimSpace(params.Query)
	if err := s.validator.Validate(params); err != nil {
		return ProductPage{}, apperr.ValidationErr.WrapParent(err)
	}

	key, err := listCacheKey(params)
	if err != nil {
		return ProductPage{}, err
	}

	var page ProductPage
	err = s.cache.Get(ctx, key, &page)
	if err == nil {
		return page, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.WarnContext(ctx, "error reading product listing cache", slog.Any("error", err))
	}

	res, err := s.productRepo.ListProducts(ctx, repository.ListProductsParams{
		Query:      params.Query,
		ActiveOnly: params.ActiveOnly,
		SortKey:    params.Sort,
		SortDesc:   params.Order == SortOrderDesc,
		Limit:      params.Limit,
		Offset:     params.Offset,
	})
	if err != nil {
		if db.IsQueryCanceled(err) {
			return ProductPage{}, apperr.ServiceUnavailableErr.WithMsg("product listing timed out").WrapParent(err)
		}
		return ProductPage{}, fmt.Errorf("product repository list products: %w", err)
	}

	page = ProductPage{Items: res.Items, Total: res.Total}
	if err := s.cache.Set(ctx, cache.TagProductListings, key, page); err != nil {
		s.logger.WarnContext(ctx, "error writing product listing cache", slog.Any("error", err))
	}

	return page, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}

	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Image = strings.TrimSpace(params.Image)
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, apperr.ValidationErr.WrapParent(err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now()
	product := model.Product{
		ID:           id,
		Name:         params.Name,
		Image:        params.Image,
		ProductPrice: params.ProductPrice,
		IsActive:     params.IsActive,
		ServiceType:  model.ServiceType{ID: params.ServiceTypeID},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ev := event.ProductCreatedEvent{
		ProductID:    product.ID.String(),
		Name:         product.Name,
		ProductPrice: product.ProductPrice,
		IsActive:     product.IsActive,
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		repo := s.productRepo.WithDB(db)

		st, err := s.serviceType(ctx, repo, params.ServiceTypeID)
		if err != nil {
			return err
		}
		product.ServiceType = st

		if err := repo.CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository create product: %w", err)
		}

		return s.writeOutbox(ctx, db, event.TopicProductCreated, product.ID, ev)
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	s.invalidateListings(ctx)

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (model.Product, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Image = strings.TrimSpace(params.Image)
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, apperr.ValidationErr.WrapParent(err)
	}

	var product model.Product
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		repo := s.productRepo.WithDB(db)

		current, err := repo.GetProduct(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.ProductNotFoundErr.WrapParent(err)
			}
			return fmt.Errorf("product repository get product: %w", err)
		}

		st, err := s.serviceType(ctx, repo, params.ServiceTypeID)
		if err != nil {
			return err
		}

		product = current
		product.Name = params.Name
		product.Image = params.Image
		product.ProductPrice = params.ProductPrice
		product.IsActive = params.IsActive
		product.ServiceType = st
		product.UpdatedAt = time.Now()

		if err := repo.UpdateProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository update product: %w", err)
		}

		return s.writeOutbox(ctx, db, event.TopicProductUpdated, product.ID, event.ProductUpdatedEvent{
			ProductID:    product.ID.String(),
			Name:         product.Name,
			ProductPrice: product.ProductPrice,
			IsActive:     product.IsActive,
		})
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	s.invalidateListings(ctx)

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.WithDB(db).DeleteProduct(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.ProductNotFoundErr.WrapParent(err)
			}
			return fmt.Errorf("product repository delete product: %w", err)
		}

		return s.writeOutbox(ctx, db, event.TopicProductDeleted, id, event.ProductDeletedEvent{
			ProductID: id.String(),
		})
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	s.invalidateListings(ctx)

	return nil
}

// invalidateListings drops this instance's cached listings right after a
// commit. The product event clears them again once it is consumed.
func (s *productService) invalidateListings(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cache.TagProductListings); err != nil {
		s.logger.WarnContext(ctx, "error invalidating product listing cache", slog.Any("error", err))
	}
}

func (s *productService) ListServiceTypes(ctx context.Context) ([]model.ServiceType, error) {
	types, err := s.productRepo.ListServiceTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("product repository list service types: %w", err)
	}

	return types, nil
}

func (s *productService) serviceType(ctx context.Context, repo repository.ProductRepository, id uuid.UUID) (model.ServiceType, error) {
	st, err := repo.GetServiceType(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.ServiceType{}, apperr.ServiceTypeNotFoundErr.WrapParent(err)
		}
		return model.ServiceType{}, fmt.Errorf("product repository get service type: %w", err)
	}
	return st, nil
}

func (s *productService) writeOutbox(ctx context.Context, db db.DB, topic string, productID uuid.UUID, ev any) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	key := productID.String()
	if err := s.outboxMsgRepo.
		WithDB(db).
		CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
			Topic:        topic,
			Headers:      outbox.BuildHeaders(ctx),
			Payload:      payload,
			PartitionKey: &key,
		}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}

func listCacheKey(params ListProductsParams) (string, error) {
	b, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("marshal list params: %w", err)
	}
	sum := sha256.Sum256(b)
	return "products:list:" + hex.EncodeToString(sum[:]), nil
}
