package view

import (
	"github.com/tuanvumaihuynh/catalog-admin/internal/model"
)

type StorefrontPage struct {
	Query    string
	Products []model.Product
	Total    int64
}

type ProductsPage struct {
	Table TableView
	Total int64

	Page    int
	PrevURL string
	NextURL string
}

type ProductEditPage struct {
	Product      model.Product
	ServiceTypes []model.ServiceType
	Errors       []string
	DeleteURL    string
}
