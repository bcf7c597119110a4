package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/imgcatalog/backend/internal/repository"
	"github.com/imgcatalog/backend/internal/services"
	"github.com/imgcatalog/backend/pkg/logger"
	"github.com/imgcatalog/backend/pkg/optional"
	"github.com/imgcatalog/backend/pkg/utils"
)

var validate = newValidator()

// newValidator reports fields by their json name so messages match the request body.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

func parseID(value string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return uint(id), nil
}

// validationMessage turns the first validator failure into a client message.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request body"
	}
	return fieldMessage(fieldErrs[0].Field(), fieldErrs[0])
}

func fieldMessage(name string, field validator.FieldError) string {
	switch field.Tag() {
	case "required":
		return name + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, field.Param())
	case "email":
		return name + " must be a valid email address"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, field.Param())
	default:
		return name + " is invalid"
	}
}

// validateOptional checks a partial-update field only when it was supplied.
func validateOptional[T any](name string, value optional.Value[T], tag string) error {
	v, ok := value.Get()
	if !ok {
		return nil
	}

	err := validate.Var(v, tag)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return errors.New(fieldMessage(name, fieldErrs[0]))
	}
	return fmt.Errorf("%s is invalid", name)
}

// repositoryError maps repository failures onto the response envelope. Storage
// errors are logged and returned with their cause as 500.
func repositoryError(c *fiber.Ctx, err error, message, notFound string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return utils.Error(c, fiber.StatusNotFound, notFound)
	case errors.Is(err, repository.ErrInvalidReference):
		return utils.Error(c, fiber.StatusBadRequest, "category does not exist")
	default:
		logger.Error("storage_error", err, map[string]interface{}{
			"path":    c.Path(),
			"method":  c.Method(),
			"message": message,
		})
		return utils.Error(c, fiber.StatusInternalServerError, fmt.Sprintf("%s: %v", message, err))
	}
}

// uploadStatus maps upload failures for the standalone upload endpoint.
func uploadStatus(err *services.UploadError) int {
	switch err.Kind {
	case services.UploadRejected:
		return fiber.StatusBadRequest
	case services.UploadTimeout:
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}
