package model

import (
	"time"

	"github.com/google/uuid"
)

type ServiceType struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Product struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Image        string      `json:"image"`
	ProductPrice float64     `json:"productprice"`
	IsActive     bool        `json:"isActive"`
	ServiceType  ServiceType `json:"serviceType"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}
