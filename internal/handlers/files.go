package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/imgcatalog/backend/internal/services"
	"github.com/imgcatalog/backend/pkg/logger"
	"github.com/imgcatalog/backend/pkg/utils"
)

type FilesHandler struct {
	Uploads services.ImageUploader
}

func NewFilesHandler(uploads services.ImageUploader) *FilesHandler {
	return &FilesHandler{Uploads: uploads}
}

type uploadResponse struct {
	*services.UploadResult
	Message string `json:"message"`
}

func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "file is required")
	}

	file, err := header.Open()
	if err != nil {
		logger.Error("file_open_failed", err, map[string]interface{}{
			"file_name": header.Filename,
		})
		return utils.Error(c, fiber.StatusBadRequest, "failed reading uploaded file")
	}
	defer file.Close()

	result, err := h.Uploads.Upload(c.UserContext(), header.Filename, file, header.Size)
	if err != nil {
		var uploadErr *services.UploadError
		if errors.As(err, &uploadErr) {
			return utils.Error(c, uploadStatus(uploadErr), uploadErr.Error())
		}
		return utils.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.Success(c, fiber.StatusOK, uploadResponse{
		UploadResult: result,
		Message:      "File uploaded successfully",
	})
}
