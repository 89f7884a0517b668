package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"shopadmin/internal/dto"
	"shopadmin/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// errorBody is the wire shape for every error response.
type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, errorBody{Error: err.Error()})
}

func writeValidationError(c echo.Context, err error) error {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		details := make([]string, 0, len(fieldErrors))
		for _, fieldError := range fieldErrors {
			details = append(details, fieldError.Error())
		}
		return c.JSON(http.StatusBadRequest, errorBody{Error: "validation failed", Details: details})
	}
	return writeError(c, http.StatusBadRequest, err)
}

func writeServiceError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrEmailTaken):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidToken):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUploadFailed):
		status = http.StatusBadRequest
	}
	return writeError(c, status, err)
}

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	return decoder.Decode(target)
}

func parsePageQuery(c echo.Context) dto.PageQuery {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return dto.PageQuery{Page: page, Limit: limit}.Normalize()
}

func stringPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
