package handlers

import (
	"context"
	"net/http"

	"github.com/LovationAdmin/fintrack-api/middleware"
	"github.com/LovationAdmin/fintrack-api/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InvitationWorkflow is the part of services.InvitationService the HTTP
// layer drives.
type InvitationWorkflow interface {
	Submit(ctx context.Context, session models.Session, email string, perms models.Permissions) (*models.Collaborator, error)
	Resolve(ctx context.Context, token string, visitor *models.Identity) (*models.InvitationResolution, error)
	Accept(ctx context.Context, token string, identity models.Identity) (*models.Collaborator, error)
	UpdatePermissions(ctx context.Context, ownerID, id string, perms models.Permissions) (*models.Collaborator, error)
	Remove(ctx context.Context, ownerID, id string) error
	ListCollaborators(ctx context.Context, ownerID string) ([]models.Collaborator, error)
	ListSharedAccounts(ctx context.Context, userID string) ([]models.Collaborator, error)
}

type CollaboratorHandler struct {
	Workflow InvitationWorkflow
	Logger   *zap.Logger
}

func NewCollaboratorHandler(workflow InvitationWorkflow, logger *zap.Logger) *CollaboratorHandler {
	return &CollaboratorHandler{Workflow: workflow, Logger: logger}
}

// Invite creates a pending invitation and emails the acceptance link.
func (h *CollaboratorHandler) Invite(c *gin.Context) {
	var req models.InviteCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	perms := models.DefaultPermissions()
	if req.Permissions != nil {
		perms = *req.Permissions
	}

	invitation, err := h.Workflow.Submit(c.Request.Context(), middleware.GetSession(c), req.Email, perms)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Invitation sent successfully",
		"collaborator": invitation,
	})
}

// List returns everyone the caller has invited, pending or active.
func (h *CollaboratorHandler) List(c *gin.Context) {
	collaborators, err := h.Workflow.ListCollaborators(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"collaborators": collaborators})
}

func (h *CollaboratorHandler) UpdatePermissions(c *gin.Context) {
	var req models.UpdatePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Permissions are required"})
		return
	}

	collaborator, err := h.Workflow.UpdatePermissions(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), *req.Permissions)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"collaborator": collaborator})
}

func (h *CollaboratorHandler) Remove(c *gin.Context) {
	if err := h.Workflow.Remove(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Collaborator removed"})
}

// ListSharedAccounts returns the accounts shared with the caller.
func (h *CollaboratorHandler) ListSharedAccounts(c *gin.Context) {
	shared, err := h.Workflow.ListSharedAccounts(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"collaborations": shared})
}
