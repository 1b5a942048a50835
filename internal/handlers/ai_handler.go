package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"mindmap/internal/repositories"
	"mindmap/internal/services"
	"mindmap/pkg/events"
	"mindmap/pkg/openai"
)

// Chat actions dispatched by request shape.
const (
	ActionGenerate = "generate"
	ActionExpand   = "expand"
	ActionInsights = "insights"
)

// AIHandler handles the AI chat proxy endpoint. Each call costs one credit;
// the debit is applied before the upstream call and refunded if it fails.
type AIHandler struct {
	aiService     *services.AIService
	creditService *services.CreditService
	publisher     *events.Publisher
	validate      *validator.Validate
}

// NewAIHandler creates a new AIHandler. The publisher may be nil.
func NewAIHandler(aiService *services.AIService, creditService *services.CreditService, publisher *events.Publisher) *AIHandler {
	return &AIHandler{
		aiService:     aiService,
		creditService: creditService,
		publisher:     publisher,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the AI routes. Requires a bearer token.
func (h *AIHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/ai/chat", auth, h.HandleChat)
}

// ChatContext carries the optional current-map context for generation.
type ChatContext struct {
	CurrentMap json.RawMessage `json:"current_map"`
}

// ChatRequest is the chat proxy request body. Action selects the operation;
// an absent action means whole-map generation.
type ChatRequest struct {
	Action      string          `json:"action" validate:"omitempty,oneof=generate expand insights"`
	Prompt      string          `json:"prompt"`
	NodeTitle   string          `json:"node_title"`
	NodeContent string          `json:"node_content"`
	MapContext  string          `json:"map_context"`
	MapData     json.RawMessage `json:"map_data"`
	Context     *ChatContext    `json:"context"`
}

// HandleChat debits one credit, forwards the request to the AI gateway, and
// refunds the credit if the upstream call fails. Upstream failures are
// reported with success=false, never as an HTTP error.
func (h *AIHandler) HandleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "action must be one of generate, expand, insights",
		})
	}

	action := req.Action
	if action == "" {
		action = ActionGenerate
	}

	// Reject incomplete requests before touching the ledger.
	switch action {
	case ActionGenerate:
		if req.Prompt == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"detail": "prompt is required for generation",
			})
		}
	case ActionExpand:
		if req.NodeTitle == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"detail": "node_title is required for expansion",
			})
		}
	case ActionInsights:
		if len(req.MapData) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"detail": "map_data is required for insights",
			})
		}
	}

	user := currentUser(c)
	remaining, err := h.creditService.TryDebit(user.ID, 1)
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientCredit) || errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"detail": "Insufficient credits",
			})
		}
		log.Printf("Error debiting credit for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not process AI request",
		})
	}

	requestID := uuid.New().String()

	var result openai.Result
	switch action {
	case ActionExpand:
		result = h.aiService.ExpandNode(c.UserContext(), req.NodeTitle, req.NodeContent, req.MapContext)
	case ActionInsights:
		result = h.aiService.GenerateInsights(c.UserContext(), req.MapData)
	default:
		var currentMap json.RawMessage
		if req.Context != nil {
			currentMap = req.Context.CurrentMap
		}
		result = h.aiService.GenerateMindMap(c.UserContext(), req.Prompt, currentMap)
	}

	if !result.Success {
		log.Printf("AI request %s (%s) failed for user %d: %s", requestID, action, user.ID, result.Error)
		if refundErr := h.creditService.Refund(user.ID, 1); refundErr != nil {
			log.Printf("Warning: failed to refund credit for user %d after request %s: %v", user.ID, requestID, refundErr)
		} else {
			remaining++
		}
	}

	if err := h.publisher.PublishAIRequestCompleted(requestID, user.ID, action, result.Success, remaining); err != nil {
		log.Printf("Warning: failed to publish ai.request.completed for request %s: %v", requestID, err)
	}

	if !result.Success {
		return c.JSON(fiber.Map{
			"success":           false,
			"error":             result.Error,
			"remaining_credits": remaining,
		})
	}

	return c.JSON(fiber.Map{
		"success":           true,
		"response":          result.Content,
		"remaining_credits": remaining,
	})
}
