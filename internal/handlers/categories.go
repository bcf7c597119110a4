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

type CategoriesHandler struct {
	Categories *repository.CategoryRepository
}

func NewCategoriesHandler(categories *repository.CategoryRepository) *CategoriesHandler {
	return &CategoriesHandler{Categories: categories}
}

type createCategoryRequest struct {
	Title string `json:"title" validate:"required,max=100"`
}

func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	categories, err := h.Categories.List(c.UserContext())
	if err != nil {
		return repositoryError(c, err, "failed listing categories", "")
	}
	return utils.Success(c, fiber.StatusOK, categories)
}

func (h *CategoriesHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid category id")
	}

	category, err := h.Categories.Get(c.UserContext(), id)
	if err != nil {
		return repositoryError(c, err, "failed loading category", "category not found")
	}
	return utils.Success(c, fiber.StatusOK, category)
}

func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	var req createCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := validate.Struct(req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, validationMessage(err))
	}

	category := models.Category{Title: req.Title}
	if err := h.Categories.Create(c.UserContext(), &category); err != nil {
		return repositoryError(c, err, "failed creating category", "")
	}

	logger.Info("category_created", map[string]interface{}{
		"category_id": category.ID,
		"title":       category.Title,
	})
	return utils.Success(c, fiber.StatusCreated, category)
}

func (h *CategoriesHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid category id")
	}

	var changes repository.CategoryChanges
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&changes); err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
		}
	}
	if title, ok := changes.Title.Get(); ok {
		changes.Title = optional.Some(strings.TrimSpace(title))
	}
	if err := validateOptional("title", changes.Title, "required,max=100"); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	if _, err := h.Categories.Update(c.UserContext(), id, changes); err != nil {
		return repositoryError(c, err, "failed updating category", "category not found")
	}

	logger.Info("category_updated", map[string]interface{}{
		"category_id": id,
	})
	return utils.NoContent(c)
}

func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid category id")
	}

	removed, err := h.Categories.Delete(c.UserContext(), id)
	if err != nil {
		return repositoryError(c, err, "failed deleting category", "category not found")
	}

	logger.Info("category_deleted", map[string]interface{}{
		"category_id":      id,
		"products_removed": removed,
	})
	return utils.NoContent(c)
}
