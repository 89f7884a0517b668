package handler

import (
	"errors"
	"net/http"

	"shopadmin/internal/dto"
	"shopadmin/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	Service  *service.ProductService
	Validate *validator.Validate
}

func NewProductHandler(svc *service.ProductService, validate *validator.Validate) *ProductHandler {
	return &ProductHandler{Service: svc, Validate: validate}
}

func (h *ProductHandler) List(c echo.Context) error {
	query := parsePageQuery(c)
	products, total, err := h.Service.List(c.Request().Context(), query)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ProductListResponse{
		Items:      dto.ProductResponsesFromEntities(products),
		Pagination: dto.NewPagination(query, total),
	})
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req dto.CreateProductRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeValidationError(c, err)
	}
	product, err := h.Service.Create(c.Request().Context(), req)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.ProductResponseFromEntity(product))
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid product id"))
	}
	var req dto.UpdateProductRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeValidationError(c, err)
	}
	product, err := h.Service.Update(c.Request().Context(), id, req)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ProductResponseFromEntity(product))
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid product id"))
	}
	if err := h.Service.Delete(c.Request().Context(), id); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

func (h *ProductHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}
