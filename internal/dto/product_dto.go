package dto

import (
	"time"

	"shopadmin/internal/entity"
)

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,min=2"`
	Description *string  `json:"description" validate:"omitempty"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Category    *string  `json:"category" validate:"omitempty"`
	Image       *string  `json:"image" validate:"omitempty"`
	Stock       *int     `json:"stock" validate:"required,gte=0"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=2"`
	Description *string  `json:"description" validate:"omitempty"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Category    *string  `json:"category" validate:"omitempty"`
	Image       *string  `json:"image" validate:"omitempty"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Active      *bool    `json:"isActive" validate:"omitempty"`
}

type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Category    *string   `json:"category,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ProductResponseFromEntity(product *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID.String(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		Image:       product.Image,
		Stock:       product.Stock,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func ProductResponsesFromEntities(products []entity.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ProductResponseFromEntity(&products[i]))
	}
	return responses
}

type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	Pagination Pagination        `json:"pagination"`
}
