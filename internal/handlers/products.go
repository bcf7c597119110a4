package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/imgcatalog/backend/internal/models"
	"github.com/imgcatalog/backend/internal/repository"
	"github.com/imgcatalog/backend/pkg/logger"
	"github.com/imgcatalog/backend/pkg/optional"
	"github.com/imgcatalog/backend/pkg/utils"
)

type ProductsHandler struct {
	Products *repository.ProductRepository
}

func NewProductsHandler(products *repository.ProductRepository) *ProductsHandler {
	return &ProductsHandler{Products: products}
}

type createProductRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	ImageURL    string   `json:"imageUrl" validate:"required,max=500"`
	CategoryID  uint     `json:"categoryId" validate:"required"`
}

func (h *ProductsHandler) List(c *fiber.Ctx) error {
	products, err := h.Products.List(c.UserContext())
	if err != nil {
		return repositoryError(c, err, "failed listing products", "")
	}
	return utils.Success(c, fiber.StatusOK, products)
}

func (h *ProductsHandler) ListByCategory(c *fiber.Ctx) error {
	categoryID, err := parseID(c.Params("categoryId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid category id")
	}

	products, err := h.Products.ListByCategory(c.UserContext(), categoryID)
	if err != nil {
		return repositoryError(c, err, "failed listing products", "")
	}
	return utils.Success(c, fiber.StatusOK, products)
}

func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid product id")
	}

	product, err := h.Products.Get(c.UserContext(), id)
	if err != nil {
		return repositoryError(c, err, "failed loading product", "product not found")
	}
	return utils.Success(c, fiber.StatusOK, product)
}

func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	if err := validate.Struct(req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, validationMessage(err))
	}

	product := models.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
	}
	if err := h.Products.Create(c.UserContext(), &product); err != nil {
		return repositoryError(c, err, "failed creating product", "")
	}

	logger.Info("product_created", map[string]interface{}{
		"product_id":  product.ID,
		"category_id": product.CategoryID,
	})
	return utils.Success(c, fiber.StatusCreated, product)
}

func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid product id")
	}

	var changes repository.ProductChanges
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&changes); err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
		}
	}
	if title, ok := changes.Title.Get(); ok {
		changes.Title = optional.Some(strings.TrimSpace(title))
	}

	for _, err := range []error{
		validateOptional("title", changes.Title, "required,max=200"),
		validateOptional("description", changes.Description, "required"),
		validateOptional("price", changes.Price, "gte=0"),
		validateOptional("imageUrl", changes.ImageURL, "required,max=500"),
		validateOptional("categoryId", changes.CategoryID, "required"),
	} {
		if err != nil {
			return utils.Error(c, fiber.StatusBadRequest, err.Error())
		}
	}

	if _, err := h.Products.Update(c.UserContext(), id, changes); err != nil {
		return repositoryError(c, err, "failed updating product", "product not found")
	}

	logger.Info("product_updated", map[string]interface{}{
		"product_id": id,
	})
	return utils.NoContent(c)
}

func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid product id")
	}

	if err := h.Products.Delete(c.UserContext(), id); err != nil {
		return repositoryError(c, err, "failed deleting product", "product not found")
	}

	logger.Info("product_deleted", map[string]interface{}{
		"product_id": id,
	})
	return utils.NoContent(c)
}
