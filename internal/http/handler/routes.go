package handler

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/spywithcode/ntpc/internal/config"
	"github.com/spywithcode/ntpc/internal/model"
	"github.com/spywithcode/ntpc/internal/service"
)

// loginRequest is the credential pair sent by the portal login form.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login validates the single configured credential pair.
func Login(auth config.AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid login payload")
		}
		if req.Username != auth.Username || req.Password != auth.Password {
			return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"user":    fiber.Map{"username": req.Username, "role": "admin"},
		})
	}
}

// UploadClipping accepts a multipart PDF upload (field name: file) with
// optional title, date, category and description form fields.
func UploadClipping(svc service.ClippingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "No file uploaded")
		}

		meta := service.UploadMeta{
			Title:       c.FormValue("title"),
			Category:    c.FormValue("category"),
			Description: c.FormValue("description"),
		}
		if raw := c.FormValue("date"); raw != "" {
			d, err := model.ParseDate(raw)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "date must be YYYY-MM-DD")
			}
			meta.Date = d
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		res, err := svc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size, meta)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrFileRequired):
				return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "No file uploaded")
			case errors.Is(err, service.ErrInvalidFileType):
				return writeError(c, fiber.StatusBadRequest, "INVALID_FILE_TYPE", "Only PDF files are allowed")
			case errors.Is(err, service.ErrFileTooLarge):
				return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds the size limit")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success":      true,
			"message":      "File uploaded successfully",
			"filename":     res.Filename,
			"originalName": res.OriginalName,
			"size":         res.Size,
			"filePath":     res.FilePath,
			"clipping":     res.Clipping,
		})
	}
}

// ListClippings returns the full catalog in stored order.
func ListClippings(svc service.ClippingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		records, err := svc.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(records)
	}
}

// ReplaceClippings overwrites the catalog with the posted record array.
func ReplaceClippings(svc service.ClippingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var records []model.Clipping
		if err := c.BodyParser(&records); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "body must be an array of clippings")
		}
		if err := svc.Replace(c.UserContext(), records); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": fmt.Sprintf("Clippings saved successfully (%d items)", len(records)),
		})
	}
}

// DeleteClipping removes one record and its stored file.
func DeleteClipping(svc service.ClippingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "clipping not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func runScan(svc service.ClippingService, messageFmt string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Refresh(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{
			"success":   true,
			"clippings": res.Clippings,
			"message":   fmt.Sprintf(messageFmt, res.Stats.NewFilesAdded),
			"stats":     res.Stats,
		})
	}
}

// RefreshCatalog rescans the content directory on a client refresh.
func RefreshCatalog(svc service.ClippingService) fiber.Handler {
	return runScan(svc, "Refresh completed. %d new PDFs detected and added.")
}

// ScanCatalog is the admin-triggered variant of the same rescan.
func ScanCatalog(svc service.ClippingService) fiber.Handler {
	return runScan(svc, "Manual scan completed. %d new PDFs detected and added.")
}

// ListFiles lists the content directory with sizes and mod times.
func ListFiles(svc service.ClippingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		files, err := svc.Files(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(files)
	}
}

// CategoryList returns the fixed category set.
func CategoryList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(model.Categories)
	}
}

// TestInfo reports basic runtime info for connectivity checks.
func TestInfo(dataDir string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":       "Server is running",
			"dataDirectory": dataDir,
			"timestamp":     time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// HealthCheck reports healthy only while the content directory is
// accessible.
func HealthCheck(dataDir string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info, err := os.Stat(dataDir)
		if err != nil || !info.IsDir() {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "content directory unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a bare liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Metrics exposes the Prometheus registry in text format.
func Metrics(reg *prometheus.Registry) fiber.Handler {
	h := fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	)
	return func(c *fiber.Ctx) error {
		h(c.Context())
		return nil
	}
}

// RegisterRoutes attaches all HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, svc service.ClippingService, cfg config.AppConfig, reg *prometheus.Registry) {
	// OpenAPI document and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(cfg.Storage.DataDir))
	app.Get("/healthz", LivenessProbe())
	if reg != nil {
		app.Get("/metrics", Metrics(reg))
	}

	api := app.Group("/api")
	api.Post("/login", Login(cfg.Auth))
	api.Post("/upload", UploadClipping(svc))
	api.Get("/clippings", ListClippings(svc))
	api.Put("/clippings", ReplaceClippings(svc))
	api.Delete("/clippings/:id", DeleteClipping(svc))
	api.Get("/refresh", RefreshCatalog(svc))
	api.Post("/scan", ScanCatalog(svc))
	api.Get("/files", ListFiles(svc))
	api.Get("/categories", CategoryList())
	api.Get("/test", TestInfo(cfg.Storage.DataDir))

	// Uploaded assets
	app.Static("/data", cfg.Storage.DataDir)
}
