package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuanvumaihuynh/catalog-admin/internal/model"
	"github.com/tuanvumaihuynh/catalog-admin/internal/storage/db"
)

// ErrNotFound is returned when no row matches.
var ErrNotFound = errors.New("not found")

// sortColumns maps product accessor keys to SQL columns.
var sortColumns = map[string]string{
	"name":         "p.name",
	"createdAt":    "p.created_at",
	"productprice": "p.product_price",
}

type ListProductsParams struct {
	Query      string
	ActiveOnly bool
	SortKey    string
	SortDesc   bool
	Limit      int
	Offset     int
}

type ListProductsResult struct {
	Items []model.Product
	Total int64
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, product model.Product) error
	ListProducts(ctx context.Context, params ListProductsParams) (ListProductsResult, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	UpdateProduct(ctx context.Context, product model.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListServiceTypes(ctx context.Context) ([]model.ServiceType, error)
	GetServiceType(ctx context.Context, id uuid.UUID) (model.ServiceType, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

type productRow struct {
	ID              uuid.UUID      `db:"id"`
	Name            string         `db:"name"`
	Image           string         `db:"image"`
	ProductPrice    pgtype.Numeric `db:"product_price"`
	IsActive        bool           `db:"is_active"`
	ServiceTypeID   uuid.UUID      `db:"service_type_id"`
	ServiceTypeName string         `db:"service_type_name"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type productListRow struct {
	productRow
	Total int64 `db:"total"`
}

const productColumns = `
	p.id,
	p.name,
	p.image,
	p.product_price,
	p.is_active,
	p.service_type_id,
	st.name AS service_type_name,
	p.created_at,
	p.updated_at`

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) error {
	price, err := numericPrice(product.ProductPrice)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, `
		INSERT INTO products (id, name, image, product_price, is_active, service_type_id, created_at, updated_at)
		VALUES (@id, @name, @image, @product_price, @is_active, @service_type_id, @created_at, @updated_at)
	`, pgx.NamedArgs{
		"id":              product.ID,
		"name":            product.Name,
		"image":           product.Image,
		"product_price":   price,
		"is_active":       product.IsActive,
		"service_type_id": product.ServiceType.ID,
		"created_at":      product.CreatedAt,
		"updated_at":      product.UpdatedAt,
	}); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r productRepository) ListProducts(ctx context.Context, params ListProductsParams) (ListProductsResult, error) {
	orderBy := "p.created_at DESC"
	if col, ok := sortColumns[params.SortKey]; ok {
		dir := "ASC"
		if params.SortDesc {
			dir = "DESC"
		}
		orderBy = col + " " + dir
	}

	rows, err := r.db.Query(ctx, `
		SELECT`+productColumns+`,
			COUNT(*) OVER () AS total
		FROM products AS p
		JOIN service_types AS st ON st.id = p.service_type_id
		WHERE (@query::text = '' OR p.name ILIKE '%' || @query::text || '%')
			AND (NOT @active_only::boolean OR p.is_active)
		ORDER BY `+orderBy+`, p.id
		LIMIT @limit OFFSET @offset
	`, pgx.NamedArgs{
		"query":       escapeLike(params.Query),
		"active_only": params.ActiveOnly,
		"limit":       params.Limit,
		"offset":      params.Offset,
	})
	if err != nil {
		return ListProductsResult{}, fmt.Errorf("list products: %w", err)
	}

	listRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[productListRow])
	if err != nil {
		return ListProductsResult{}, fmt.Errorf("collect product rows: %w", err)
	}

	result := ListProductsResult{
		Items: make([]model.Product, 0, len(listRows)),
	}
	for _, row := range listRows {
		product, err := row.toModel()
		if err != nil {
			return ListProductsResult{}, fmt.Errorf("convert product row: %w", err)
		}
		result.Items = append(result.Items, product)
		result.Total = row.Total
	}

	return result, nil
}

func (r productRepository) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+productColumns+`
		FROM products AS p
		JOIN service_types AS st ON st.id = p.service_type_id
		WHERE p.id = @id
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.Product{}, fmt.Errorf("get product: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, ErrNotFound
		}
		return model.Product{}, fmt.Errorf("collect product row: %w", err)
	}

	return row.toModel()
}

func (r productRepository) UpdateProduct(ctx context.Context, product model.Product) error {
	price, err := numericPrice(product.ProductPrice)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET
			name            = @name,
			image           = @image,
			product_price   = @product_price,
			is_active       = @is_active,
			service_type_id = @service_type_id,
			updated_at      = @updated_at
		WHERE id = @id
	`, pgx.NamedArgs{
		"id":              product.ID,
		"name":            product.Name,
		"image":           product.Image,
		"product_price":   price,
		"is_active":       product.IsActive,
		"service_type_id": product.ServiceType.ID,
		"updated_at":      product.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r productRepository) ListServiceTypes(ctx context.Context) ([]model.ServiceType, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM service_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list service types: %w", err)
	}

	types, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.ServiceType])
	if err != nil {
		return nil, fmt.Errorf("collect service type rows: %w", err)
	}

	return types, nil
}

func (r productRepository) GetServiceType(ctx context.Context, id uuid.UUID) (model.ServiceType, error) {
	var st model.ServiceType
	err := r.db.QueryRow(ctx, `SELECT id, name FROM service_types WHERE id = @id`, pgx.NamedArgs{"id": id}).
		Scan(&st.ID, &st.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ServiceType{}, ErrNotFound
		}
		return model.ServiceType{}, fmt.Errorf("get service type: %w", err)
	}

	return st, nil
}

func (row productRow) toModel() (model.Product, error) {
	price, err := row.ProductPrice.Float64Value()
	if err != nil {
		return model.Product{}, fmt.Errorf("convert price to float64: %w", err)
	}

	return model.Product{
		ID:           row.ID,
		Name:         row.Name,
		Image:        row.Image,
		ProductPrice: price.Float64,
		IsActive:     row.IsActive,
		ServiceType: model.ServiceType{
			ID:   row.ServiceTypeID,
			Name: row.ServiceTypeName,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func numericPrice(v float64) (pgtype.Numeric, error) {
	var price pgtype.Numeric
	if err := price.Scan(fmt.Sprintf("%f", v)); err != nil {
		return price, fmt.Errorf("scan price: %w", err)
	}
	return price, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
