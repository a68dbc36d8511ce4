package routes

import (
	"github.com/LovationAdmin/fintrack-api/handlers"
	"github.com/LovationAdmin/fintrack-api/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupCollaboratorRoutes sets up the owner-side routes. rg must already
// require authentication.
func SetupCollaboratorRoutes(rg *gin.RouterGroup, workflow handlers.InvitationWorkflow, logger *zap.Logger) {
	h := handlers.NewCollaboratorHandler(workflow, logger)

	rg.POST("/collaborators", h.Invite)
	rg.GET("/collaborators", h.List)
	rg.PUT("/collaborators/:id/permissions", h.UpdatePermissions)
	rg.DELETE("/collaborators/:id", h.Remove)

	// Accounts shared with the caller
	rg.GET("/collaborations", h.ListSharedAccounts)
}

// SetupInvitationRoutes sets up the invitee-side routes. Resolving works
// signed in or not; accepting requires an account.
func SetupInvitationRoutes(rg *gin.RouterGroup, workflow handlers.InvitationWorkflow, verifier middleware.TokenVerifier, logger *zap.Logger) {
	h := handlers.NewInvitationHandler(workflow, logger)

	invitations := rg.Group("/invitations")
	invitations.GET("/:token", middleware.OptionalAuth(verifier), h.Resolve)
	invitations.POST("/:token/accept", middleware.AuthMiddleware(verifier), h.Accept)
}

// SetupFunctionRoutes sets up the send-invite-email function.
func SetupFunctionRoutes(rg *gin.RouterGroup, mailer handlers.InvitationMailer, verifier middleware.TokenVerifier, logger *zap.Logger) {
	h := handlers.NewSendInviteEmailHandler(mailer, logger)

	rg.POST("/send-invite-email", middleware.AuthMiddleware(verifier), h.Send)
}
