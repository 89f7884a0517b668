package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shopadmin/internal/dto"
	"shopadmin/internal/entity"
	"shopadmin/internal/repository"
	"shopadmin/internal/utils"

	"github.com/google/uuid"
)

type ProductService struct {
	products repository.ProductRepository
	images   ImageStore
	clock    Clock
}

func NewProductService(products repository.ProductRepository, images ImageStore, clock Clock) *ProductService {
	return &ProductService{products: products, images: images, clock: clock}
}

func (s *ProductService) List(ctx context.Context, query dto.PageQuery) ([]entity.Product, int64, error) {
	query = query.Normalize()
	return s.products.List(ctx, query.Limit, query.Offset())
}

func (s *ProductService) Create(ctx context.Context, input dto.CreateProductRequest) (*entity.Product, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < 2 {
		return nil, ErrInvalidInput
	}
	if input.Price == nil || *input.Price < 0 {
		return nil, ErrInvalidInput
	}
	if input.Stock == nil || *input.Stock < 0 {
		return nil, ErrInvalidInput
	}

	product := &entity.Product{
		Name:        name,
		Description: input.Description,
		Price:       *input.Price,
		Category:    input.Category,
		Stock:       *input.Stock,
		IsActive:    true,
	}

	if input.Image != nil {
		url, err := s.resolveImage(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		product.Image = url
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, input dto.UpdateProductRequest) (*entity.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if len(name) < 2 {
			return nil, ErrInvalidInput
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, ErrInvalidInput
		}
		product.Price = *input.Price
	}
	if input.Category != nil {
		product.Category = input.Category
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, ErrInvalidInput
		}
		product.Stock = *input.Stock
	}
	if input.Active != nil {
		product.IsActive = *input.Active
	}
	if input.Image != nil {
		url, err := s.resolveImage(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		product.Image = url
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProductNotFound
	}
	return nil
}

// resolveImage uploads inline data-URI images and passes plain URLs through
// untouched.
func (s *ProductService) resolveImage(ctx context.Context, value string) (*string, error) {
	if value == "" {
		return nil, nil
	}
	if !utils.IsImageDataURL(value) {
		return &value, nil
	}
	if s.images == nil {
		return nil, ErrUploadFailed
	}
	image, err := utils.ParseImageDataURL(value)
	if err != nil {
		return nil, ErrInvalidInput
	}
	key := fmt.Sprintf("products/%s-%d.%s", uuid.NewString(), s.now().UnixMilli(), image.Ext)
	url, err := s.images.Put(ctx, key, image.Bytes, image.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUploadFailed, err)
	}
	return &url, nil
}

func (s *ProductService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}
