package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/storage"
)

type UploadHandler struct {
	Uploader storage.Uploader
}

// Upload handles POST /api/upload with a multipart "image" field.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return httperr.BadRequest("No file uploaded")
	}
	if file.Size > storage.MaxImageSize {
		return httperr.BadRequest("File too large (max 5MB)")
	}

	f, err := file.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	ct, ext, err := storage.DetectImage(head[:n])
	if err != nil {
		return httperr.BadRequest(err.Error())
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	url, err := h.Uploader.Save(c.Context(), storage.NewKey("images", ext), ct, f, file.Size)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"imageUrl": url})
}
