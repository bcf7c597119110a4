package handlers

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/imgcatalog/backend/internal/repository"
	"github.com/imgcatalog/backend/internal/services"
	"github.com/imgcatalog/backend/pkg/optional"
	"github.com/imgcatalog/backend/pkg/utils"
)

const profileImageField = "profileImageFile"

type UsersHandler struct {
	Users *services.UserService
}

func NewUsersHandler(users *services.UserService) *UsersHandler {
	return &UsersHandler{Users: users}
}

type createUserRequest struct {
	FirstName    string `json:"firstName" form:"firstName" validate:"required,max=100"`
	LastName     string `json:"lastName" form:"lastName" validate:"required,max=100"`
	Email        string `json:"email" form:"email" validate:"required,email,max=256"`
	Password     string `json:"password" form:"password" validate:"required"`
	ProfileImage string `json:"profileImage" form:"profileImage" validate:"omitempty,max=500"`
}

// updateUserRequest fields left empty are not changed.
type updateUserRequest struct {
	FirstName    string `json:"firstName" form:"firstName"`
	LastName     string `json:"lastName" form:"lastName"`
	Email        string `json:"email" form:"email"`
	Password     string `json:"password" form:"password"`
	ProfileImage string `json:"profileImage" form:"profileImage"`
}

func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.Users.List(c.UserContext())
	if err != nil {
		return repositoryError(c, err, "failed listing users", "")
	}
	return utils.Success(c, fiber.StatusOK, users)
}

func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	user, err := h.Users.Get(c.UserContext(), id)
	if err != nil {
		return repositoryError(c, err, "failed loading user", "user not found")
	}
	return utils.Success(c, fiber.StatusOK, user)
}

func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.ProfileImage = strings.TrimSpace(req.ProfileImage)
	if err := validate.Struct(req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, validationMessage(err))
	}

	input := services.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}
	if req.ProfileImage != "" {
		input.ProfileImage = &req.ProfileImage
	}

	image, closeImage, err := profileImage(c)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid profile image upload")
	}
	defer closeImage()
	input.Image = image

	user, err := h.Users.Create(c.UserContext(), input)
	if err != nil {
		return userError(c, err, "failed creating user")
	}
	return utils.Success(c, fiber.StatusCreated, user)
}

func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	var req updateUserRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	changes := repository.UserChanges{
		FirstName:    nonEmpty(strings.TrimSpace(req.FirstName)),
		LastName:     nonEmpty(strings.TrimSpace(req.LastName)),
		Email:        nonEmpty(strings.TrimSpace(req.Email)),
		Password:     nonEmpty(req.Password),
		ProfileImage: nonEmpty(strings.TrimSpace(req.ProfileImage)),
	}
	for _, err := range []error{
		validateOptional("firstName", changes.FirstName, "max=100"),
		validateOptional("lastName", changes.LastName, "max=100"),
		validateOptional("email", changes.Email, "email,max=256"),
		validateOptional("profileImage", changes.ProfileImage, "max=500"),
	} {
		if err != nil {
			return utils.Error(c, fiber.StatusBadRequest, err.Error())
		}
	}

	image, closeImage, err := profileImage(c)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid profile image upload")
	}
	defer closeImage()

	if _, err := h.Users.Update(c.UserContext(), id, services.UpdateUserInput{Changes: changes, Image: image}); err != nil {
		return userError(c, err, "failed updating user")
	}
	return utils.NoContent(c)
}

func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.Users.Delete(c.UserContext(), id); err != nil {
		return repositoryError(c, err, "failed deleting user", "user not found")
	}
	return utils.NoContent(c)
}

// userError reports any upload failure as a client error, whatever its kind.
func userError(c *fiber.Ctx, err error, message string) error {
	var uploadErr *services.UploadError
	if errors.As(err, &uploadErr) {
		return utils.Error(c, fiber.StatusBadRequest, uploadErr.Error())
	}
	return repositoryError(c, err, message, "user not found")
}

// profileImage opens the optional profile image part of a multipart request.
// The returned close func is always safe to call.
func profileImage(c *fiber.Ctx) (*services.ImageFile, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, noop, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, noop, err
	}
	headers := form.File[profileImageField]
	if len(headers) == 0 {
		return nil, noop, nil
	}

	header := headers[0]
	file, err := header.Open()
	if err != nil {
		return nil, noop, err
	}
	return imageFile(header, file), func() { _ = file.Close() }, nil
}

func imageFile(header *multipart.FileHeader, file multipart.File) *services.ImageFile {
	return &services.ImageFile{Name: header.Filename, Size: header.Size, Reader: file}
}

func nonEmpty(value string) optional.Value[string] {
	if value == "" {
		return optional.Value[string]{}
	}
	return optional.Some(value)
}
