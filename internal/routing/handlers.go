package routing

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pelyams/car_catalog_service/internal/domain"
	"github.com/pelyams/car_catalog_service/internal/ports"
)

type ProductHandler struct {
	svc ports.CatalogService
}

func NewProductHandler(svc ports.CatalogService) *ProductHandler {
	return &ProductHandler{
		svc: svc,
	}
}

// ListProducts lists in-stock products. Passing both offset and limit pages
// the result; passing only one of them is ignored.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	errContainer := domain.ErrorContainerFrom(r.Context())
	offset := r.URL.Query().Get("offset")
	limit := r.URL.Query().Get("limit")

	var products []domain.Product
	var serviceErr *domain.ServiceError
	if offset != "" && limit != "" {
		offsetInt, err := parseAndValidate(offset, 0, "offset", errContainer, w)
		if err != nil {
			return
		}
		limitInt, err := parseAndValidate(limit, 1, "limit", errContainer, w)
		if err != nil {
			return
		}
		products, serviceErr = h.svc.ListInStockPaged(r.Context(), limitInt, offsetInt)
	} else {
		products, serviceErr = h.svc.ListInStock(r.Context())
	}
	if writeServiceError(w, errContainer, serviceErr) {
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) ListFilteredProducts(w http.ResponseWriter, r *http.Request) {
	errContainer := domain.ErrorContainerFrom(r.Context())
	products, serviceErr := h.svc.ListFiltered(r.Context(), r.URL.Query().Get("car_type"))
	if writeServiceError(w, errContainer, serviceErr) {
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	errContainer := domain.ErrorContainerFrom(r.Context())
	var req domain.NewProduct
	if err := decodeBody(r, &req); err != nil {
		errContainer.Add(err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	product, serviceErr := h.svc.CreateProduct(r.Context(), req)
	if writeServiceError(w, errContainer, serviceErr) {
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) GetProductById(w http.ResponseWriter, r *http.Request) {
	errContainer := domain.ErrorContainerFrom(r.Context())
	id, err := parseAndValidate(r.PathValue("id"), 1, "product id", errContainer, w)
	if err != nil {
		return
	}
	product, serviceErr := h.svc.GetProductById(r.Context(), id)
	if writeServiceError(w, errContainer, serviceErr) {
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	errContainer := domain.ErrorContainerFrom(r.Context())
	id, err := parseAndValidate(r.PathValue("id"), 1, "product id", errContainer, w)
	if err != nil {
		return
	}
	var req domain.NewProduct
	if err := decodeBody(r, &req); err != nil {
		errContainer.Add(err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	product, serviceErr := h.svc.UpdateProductById(r.Context(), id, req)
	if writeServiceError(w, errContainer, serviceErr) {
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	errContainer := domain.ErrorContainerFrom(r.Context())
	id, err := parseAndValidate(r.PathValue("id"), 1, "product id", errContainer, w)
	if err != nil {
		return
	}
	var req domain.ProductPatch
	err = decodeBody(r, &req)
	if err == nil && req.Empty() {
		err = fmt.Errorf("%w: patch sets no fields", domain.ErrInvalidInput)
	}
	if err != nil {
		errContainer.Add(err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	product, serviceErr := h.svc.PatchProductById(r.Context(), id, req)
	if writeServiceError(w, errContainer, serviceErr) {
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	errContainer := domain.ErrorContainerFrom(r.Context())
	id, err := parseAndValidate(r.PathValue("id"), 1, "product id", errContainer, w)
	if err != nil {
		return
	}
	serviceErr := h.svc.DeleteProductById(r.Context(), id)
	if writeServiceError(w, errContainer, serviceErr) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: failed to decode payload: %w", domain.ErrInvalidInput, err)
	}
	return nil
}

// writeServiceError logs every error of e and, if e carries a critical error,
// writes the matching response. It reports whether a response was written.
func writeServiceError(w http.ResponseWriter, errContainer *domain.ErrorContainer, e *domain.ServiceError) bool {
	if e == nil {
		return false
	}
	errContainer.Add(e.CriticalError)
	errContainer.Add(e.NonCriticalErrors...)
	if e.CriticalError == nil {
		return false
	}

	switch {
	case errors.Is(e.CriticalError, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Product not found"})
	case errors.Is(e.CriticalError, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	case errors.Is(e.CriticalError, domain.ErrAssetHost):
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"detail": fmt.Sprintf("Failed to delete image from asset host: %s", e.CriticalError.Error()),
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseAndValidate(s string, lb int64, name string, c *domain.ErrorContainer, w http.ResponseWriter) (int64, error) {
	value, parseErr := strconv.ParseInt(s, 10, 64)
	var err error
	switch {
	case parseErr != nil:
		err = fmt.Errorf("handler error: failed to parse %s: %w", name, parseErr)
	case value < lb:
		err = fmt.Errorf("handler error: invalid %s: has value %d, must be ge %d", name, value, lb)
	}
	if err != nil {
		c.Add(err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid %s", name)})
		return 0, err
	}
	return value, nil
}
