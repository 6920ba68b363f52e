package handlers

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pizza-builder-backend/internal/middleware"
	"pizza-builder-backend/internal/models"
	"pizza-builder-backend/internal/pricing"
	"pizza-builder-backend/internal/store"
	"pizza-builder-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

// maxImageWidth bounds stored builder images; aspect ratio is kept.
const maxImageWidth = 800

// CreateBuilder prices a customer's pizza from the catalog and stores it.
// Only admins may mark the result as a storefront template.
func CreateBuilder(st *store.Store, gate *validation.Gate, pricer *pricing.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload, err := parseBody(c)
		if err != nil {
			return err
		}
		var req pricing.BuildRequest
		if err := gate.Decode(validation.SchemaPizzaBuilder, payload, &req); err != nil {
			return err
		}
		if req.IsTemplate && middleware.RoleFromContext(c) != models.RoleAdmin {
			return fail(c, fiber.StatusForbidden, "Only admins can create template pizzas")
		}

		builder, err := pricer.Build(c.UserContext(), req)
		if err != nil {
			return err
		}
		if err := st.CreateBuilder(c.UserContext(), builder); err != nil {
			return err
		}
		return respond(c, fiber.StatusCreated, "Pizza created successfully", builder)
	}
}

// GetTemplates lists the admin-made pizzas.
func GetTemplates(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		builders, err := st.ListTemplates(c.UserContext())
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Pizzas retrieved", builders)
	}
}

func GetBuilder(st *store.Store, gate *validation.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, gate)
		if err != nil {
			return err
		}
		builder, err := st.GetBuilder(c.UserContext(), id)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Pizza retrieved", builder)
	}
}

// DeleteBuilder removes a pizza and its image. Orders keep their snapshot.
func DeleteBuilder(st *store.Store, gate *validation.Gate, uploadDir string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, gate)
		if err != nil {
			return err
		}

		builder, err := st.GetBuilder(c.UserContext(), id)
		if err != nil {
			return err
		}
		if err := st.DeleteBuilder(c.UserContext(), id); err != nil {
			return err
		}
		if builder.Image != nil {
			removeUpload(uploadDir, builder.Image.Filename)
		}
		return respond(c, fiber.StatusOK, "Pizza deleted successfully", nil)
	}
}

// UploadBuilderImage stores a PNG or JPEG for a pizza, scaled down to
// maxImageWidth and re-encoded as JPEG under a fresh uuid filename.
func UploadBuilderImage(st *store.Store, gate *validation.Gate, uploadDir string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, gate)
		if err != nil {
			return err
		}

		builder, err := st.GetBuilder(c.UserContext(), id)
		if err != nil {
			return err
		}

		header, err := c.FormFile("image")
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "Image file is required")
		}
		file, err := header.Open()
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "Image file could not be read")
		}
		defer file.Close()

		var img image.Image
		switch strings.ToLower(filepath.Ext(header.Filename)) {
		case ".png":
			img, err = png.Decode(file)
		case ".jpg", ".jpeg":
			img, err = jpeg.Decode(file)
		default:
			return fail(c, fiber.StatusBadRequest, "Unsupported image format. Only PNG, JPG, JPEG are allowed.")
		}
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "Failed to decode image")
		}

		meta, err := saveImage(uploadDir, img)
		if err != nil {
			return err
		}
		if err := st.SetBuilderImage(c.UserContext(), id, meta); err != nil {
			removeUpload(uploadDir, meta.Filename)
			return err
		}
		if builder.Image != nil {
			removeUpload(uploadDir, builder.Image.Filename)
		}

		builder.Image = meta
		return respond(c, fiber.StatusOK, "Image uploaded successfully", builder)
	}
}

func saveImage(dir string, img image.Image) (*models.ImageMeta, error) {
	if img.Bounds().Dx() > maxImageWidth {
		img = resize.Resize(maxImageWidth, 0, img, resize.Lanczos3)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ".jpg"
	path := filepath.Join(dir, filename)
	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create image file: %w", err)
	}

	encErr := jpeg.Encode(out, img, &jpeg.Options{Quality: 80})
	closeErr := out.Close()
	if err := errors.Join(encErr, closeErr); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("encode image: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat image file: %w", err)
	}
	return &models.ImageMeta{
		Filename: filename,
		Mimetype: "image/jpeg",
		Size:     info.Size(),
	}, nil
}

func removeUpload(dir, filename string) {
	if filename == "" {
		return
	}
	if err := os.Remove(filepath.Join(dir, filepath.Base(filename))); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not remove image", "file", filename, "error", err)
	}
}
