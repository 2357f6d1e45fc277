package integrity

import (
	"cms-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/bucket", h.HandleBucketCheck)
	group.Get("/media", h.HandleMediaCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs the bucket and media checks.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	if exists, err := h.service.CheckBucket(ctx); err != nil {
		report["bucket"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["bucket"] = map[string]interface{}{"status": "ok", "exists": exists}
	}

	if media, err := h.service.CheckMedia(ctx); err != nil {
		report["media"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["media"] = map[string]interface{}{"status": "ok", "report": media}
	}

	return c.JSON(report)
}

// HandleBucketCheck checks the media bucket.
// @Summary Check Bucket
// @Description Checks that the media bucket exists.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Bucket Status"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/bucket [get]
func (h *Handler) HandleBucketCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	exists, err := h.service.CheckBucket(c.Context())
	if err != nil {
		l.Error("Bucket check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status": "checked",
		"exists": exists,
	})
}

// HandleMediaCheck checks the stored objects of File nodes.
// @Summary Check Media
// @Description Verifies that every File node points at an existing object. With fix=true broken nodes are removed so the next sync downloads them again.
// @Tags integrity
// @Produce json
// @Param fix query bool false "Remove broken File nodes"
// @Success 200 {object} integrity.MediaReport "Media Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/media [get]
func (h *Handler) HandleMediaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	ctx := c.Context()

	report, err := h.service.CheckMedia(ctx)
	if err != nil {
		l.Error("Media check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if c.QueryBool("fix") && len(report.Broken()) > 0 {
		l.Info("Fixing broken file nodes", zap.Int("count", len(report.Broken())))
		if err := h.service.FixMedia(ctx, report); err != nil {
			l.Error("Media fix failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	return c.JSON(report)
}
