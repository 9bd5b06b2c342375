package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/storefront-service/internal/api/dto"
	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/service"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

// ProductsHandler exposes catalog endpoints.
type ProductsHandler struct {
	products *service.ProductService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(productService *service.ProductService) *ProductsHandler {
	return &ProductsHandler{products: productService}
}

// List handles GET /products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	products, err := h.products.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(productResponses(products))
}

// Show handles GET /products/:id.
func (h *ProductsHandler) Show(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound("product")
	}
	product, err := h.products.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(productResponse(product))
}

// Create handles POST /products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	req, err := parseProductRequest(c)
	if err != nil {
		return err
	}

	product, err := h.products.Create(c.Context(), service.ProductCreateInput{
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(productResponse(product))
}

// Update handles PUT /products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound("product")
	}
	req, err := parseProductRequest(c)
	if err != nil {
		return err
	}

	product, err := h.products.Update(c.Context(), id, service.ProductCreateInput{
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
	})
	if err != nil {
		return err
	}
	return c.JSON(productResponse(product))
}

// Delete handles DELETE /products/:id. The deleted record is echoed back.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewValidationError("invalid product id")
	}
	product, err := h.products.Delete(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(productResponse(product))
}

// ListByCategory handles GET /products/category/:category. An unknown
// category is an empty list, not a 404.
func (h *ProductsHandler) ListByCategory(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Params("category"))
	if category == "" {
		return apperrors.NewValidationError("category required")
	}
	products, err := h.products.ListByCategory(c.Context(), category)
	if err != nil {
		return err
	}
	return c.JSON(productResponses(products))
}

func parseProductRequest(c *fiber.Ctx) (*dto.ProductRequest, error) {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Category) == "" {
		return nil, apperrors.NewValidationError("name and category required")
	}
	if req.Price < 0 {
		return nil, apperrors.NewValidationError("price must not be negative")
	}
	return &req, nil
}

func productResponse(product *domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Category: product.Category,
	}
}

func productResponses(products []domain.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, productResponse(&products[i]))
	}
	return items
}
