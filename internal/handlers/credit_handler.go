package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"mindmap/internal/repositories"
	"mindmap/internal/services"
)

// CreditHandler handles HTTP requests for the credit ledger.
type CreditHandler struct {
	service *services.CreditService
}

// NewCreditHandler creates a new CreditHandler.
func NewCreditHandler(service *services.CreditService) *CreditHandler {
	return &CreditHandler{
		service: service,
	}
}

// RegisterRoutes registers the credit routes. Requires a bearer token.
func (h *CreditHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/credits/", auth, h.HandleGetBalance)
}

// HandleGetBalance returns the caller's credit record. Absence of the record
// for an authenticated user is an inconsistent ledger, reported as 404.
func (h *CreditHandler) HandleGetBalance(c *fiber.Ctx) error {
	user := currentUser(c)
	credit, err := h.service.Balance(user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"detail": "Credit record not found",
			})
		}
		log.Printf("Error getting credit balance for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not retrieve credit balance",
		})
	}

	return c.JSON(credit)
}
