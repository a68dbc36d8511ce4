package handlers

import (
	"net/http"

	"github.com/LovationAdmin/fintrack-api/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InvitationHandler struct {
	Workflow InvitationWorkflow
	Logger   *zap.Logger
}

func NewInvitationHandler(workflow InvitationWorkflow, logger *zap.Logger) *InvitationHandler {
	return &InvitationHandler{Workflow: workflow, Logger: logger}
}

// Resolve backs the invite landing page. Signed-in visitors with the invited
// address are accepted immediately; everyone else is told what to do next.
func (h *InvitationHandler) Resolve(c *gin.Context) {
	resolution, err := h.Workflow.Resolve(c.Request.Context(), c.Param("token"), middleware.GetIdentity(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, resolution)
}

// Accept is the explicit accept button for a signed-in visitor.
func (h *InvitationHandler) Accept(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	collaborator, err := h.Workflow.Accept(c.Request.Context(), c.Param("token"), *identity)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Invitation accepted",
		"collaborator": collaborator,
	})
}
