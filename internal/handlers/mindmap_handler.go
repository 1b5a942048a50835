package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"mindmap/internal/repositories"
	"mindmap/internal/services"
)

// MindMapHandler handles HTTP requests for mind map documents.
type MindMapHandler struct {
	service  *services.MindMapService
	validate *validator.Validate
}

// NewMindMapHandler creates a new MindMapHandler.
func NewMindMapHandler(service *services.MindMapService) *MindMapHandler {
	return &MindMapHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the mind map routes. All of them require a bearer
// token.
func (h *MindMapHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	mindmapRoutes := router.Group("/mindmaps", auth)
	mindmapRoutes.Post("/", h.HandleCreate)
	mindmapRoutes.Get("/", h.HandleList)
	mindmapRoutes.Get("/:id", h.HandleGet)
	mindmapRoutes.Put("/:id", h.HandleReplace)
	mindmapRoutes.Delete("/:id", h.HandleDelete)
}

// MindMapRequest is the create/replace request body. Data is kept as raw
// JSON and stored without interpretation.
type MindMapRequest struct {
	Title string          `json:"title" validate:"required,max=255"`
	Data  json.RawMessage `json:"data" validate:"required"`
}

// HandleCreate stores a new mind map for the caller.
func (h *MindMapHandler) HandleCreate(c *fiber.Ctx) error {
	var req MindMapRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "title and data are required",
		})
	}

	user := currentUser(c)
	mindmap, err := h.service.Create(user.ID, req.Title, req.Data)
	if err != nil {
		log.Printf("Error creating mind map for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not create mind map",
		})
	}

	return c.JSON(mindmap)
}

// HandleList returns the caller's mind maps, paginated by skip/limit.
func (h *MindMapHandler) HandleList(c *fiber.Ctx) error {
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}

	user := currentUser(c)
	mindmaps, err := h.service.List(user.ID, skip, limit)
	if err != nil {
		log.Printf("Error listing mind maps for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not retrieve mind maps",
		})
	}

	return c.JSON(mindmaps)
}

// HandleGet returns a single mind map owned by the caller.
func (h *MindMapHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid mind map id",
		})
	}

	user := currentUser(c)
	mindmap, err := h.service.Get(user.ID, id)
	if err != nil {
		return h.notFoundOrInternal(c, user.ID, err)
	}

	return c.JSON(mindmap)
}

// HandleReplace fully overwrites a mind map's title and data.
func (h *MindMapHandler) HandleReplace(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid mind map id",
		})
	}

	var req MindMapRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "title and data are required",
		})
	}

	user := currentUser(c)
	mindmap, err := h.service.Replace(user.ID, id, req.Title, req.Data)
	if err != nil {
		return h.notFoundOrInternal(c, user.ID, err)
	}

	return c.JSON(mindmap)
}

// HandleDelete removes a mind map. Returns 204 with no body on success.
func (h *MindMapHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid mind map id",
		})
	}

	user := currentUser(c)
	if err := h.service.Delete(user.ID, id); err != nil {
		return h.notFoundOrInternal(c, user.ID, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MindMapHandler) notFoundOrInternal(c *fiber.Ctx, userID uint, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"detail": "Mind map not found",
		})
	}
	log.Printf("Mind map operation failed for user %d: %v", userID, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"detail": "Could not process mind map request",
	})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", c.Params("id"))
	}
	return uint(id), nil
}
