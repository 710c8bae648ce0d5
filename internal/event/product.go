package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/catalog-admin/internal/storage/cache"
)

const (
	TopicProductCreated = "product.created"
	TopicProductUpdated = "product.updated"
	TopicProductDeleted = "product.deleted"
)

type ProductCreatedEvent struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	ProductPrice float64 `json:"productprice"`
	IsActive     bool    `json:"isActive"`
}

type ProductUpdatedEvent struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	ProductPrice float64 `json:"productprice"`
	IsActive     bool    `json:"isActive"`
}

type ProductDeletedEvent struct {
	ProductID string `json:"product_id"`
}

func (s *Service) handleProductCreatedEvent(ctx context.Context, ev ProductCreatedEvent) error {
	s.logger.InfoContext(ctx, "handling product created event", slog.String("product_id", ev.ProductID))
	return s.invalidateListings(ctx)
}

func (s *Service) handleProductUpdatedEvent(ctx context.Context, ev ProductUpdatedEvent) error {
	s.logger.InfoContext(ctx, "handling product updated event", slog.String("product_id", ev.ProductID))
	return s.invalidateListings(ctx)
}

func (s *Service) handleProductDeletedEvent(ctx context.Context, ev ProductDeletedEvent) error {
	s.logger.InfoContext(ctx, "handling product deleted event", slog.String("product_id", ev.ProductID))
	return s.invalidateListings(ctx)
}

// invalidateListings drops every cached listing page, since any page can
// contain the changed product.
func (s *Service) invalidateListings(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx, cache.TagProductListings); err != nil {
		return fmt.Errorf("invalidate product listings: %w", err)
	}
	return nil
}
