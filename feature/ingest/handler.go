package ingest

import (
	"errors"

	"cms-sync/core/logger"
	"cms-sync/core/nodestore"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for sync runs and nodes.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the ingest routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/sync", h.HandleSync)

	group := app.Group("/nodes")
	group.Get("/", h.HandleListNodes)
	group.Get("/:id", h.HandleGetNode)
}

// HandleSync runs a sync and returns its report.
// @Summary Run Sync
// @Description Fetch every configured content type, resolve media and reconcile nodes.
// @Tags sync
// @Produce json
// @Param dry_run query bool false "Plan node changes without applying them"
// @Success 200 {object} ingest.RunReport "Run Report"
// @Failure 409 {object} map[string]string "Run In Progress"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Run(c.Context(), RunOptions{DryRun: c.QueryBool("dry_run")})
	if errors.Is(err, ErrRunInProgress) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		l.Error("Sync failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}

// HandleListNodes lists the nodes owned by the sync.
// @Summary List Nodes
// @Description List owned nodes, optionally filtered by content type.
// @Tags nodes
// @Produce json
// @Param type query string false "Content type (e.g. 'article')"
// @Success 200 {array} nodestore.Node "Nodes"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /nodes [get]
func (h *Handler) HandleListNodes(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	nodes, err := h.service.ListNodes(c.Context(), c.Query("type"))
	if err != nil {
		l.Error("Node listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(nodes)
}

// HandleGetNode returns a single node.
// @Summary Get Node
// @Description Get a node by id (e.g. 'Article_1').
// @Tags nodes
// @Produce json
// @Param id path string true "Node ID"
// @Success 200 {object} nodestore.Node "Node"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /nodes/{id} [get]
func (h *Handler) HandleGetNode(c *fiber.Ctx) error {
	id := c.Params("id")
	l := logger.WithRayID(h.service.logger, c)

	node, err := h.service.GetNode(c.Context(), id)
	if errors.Is(err, nodestore.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "node not found",
		})
	}
	if err != nil {
		l.Error("Node lookup failed", zap.Error(err), zap.String("id", id))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(node)
}
