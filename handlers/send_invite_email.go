package handlers

import (
	"context"
	"net/http"

	"github.com/LovationAdmin/fintrack-api/models"
	"github.com/LovationAdmin/fintrack-api/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InvitationMailer renders and delivers the invitation email.
type InvitationMailer interface {
	SendInvitationEmail(ctx context.Context, to, inviterEmail, token string) (map[string]interface{}, error)
}

// SendInviteEmailHandler is the send-invite-email function. It sits behind
// AuthMiddleware and answers in the {success, data | error} shape.
type SendInviteEmailHandler struct {
	Mailer InvitationMailer
	Logger *zap.Logger
}

func NewSendInviteEmailHandler(mailer InvitationMailer, logger *zap.Logger) *SendInviteEmailHandler {
	return &SendInviteEmailHandler{Mailer: mailer, Logger: logger}
}

func (h *SendInviteEmailHandler) Send(c *gin.Context) {
	var req models.InviteEmail
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.InviteEmailResult{Error: "Invalid request body"})
		return
	}
	if req.To == "" || req.InviterEmail == "" || req.InvitationToken == "" {
		c.JSON(http.StatusBadRequest, models.InviteEmailResult{Error: "Missing required fields"})
		return
	}

	data, err := h.Mailer.SendInvitationEmail(c.Request.Context(), req.To, req.InviterEmail, req.InvitationToken)
	if err != nil {
		h.Logger.Error("Failed to send invitation email",
			utils.EmailField("to", req.To),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, models.InviteEmailResult{Error: err.Error()})
		return
	}

	h.Logger.Info("Invitation email sent", utils.EmailField("to", req.To))
	c.JSON(http.StatusOK, models.InviteEmailResult{Success: true, Data: data})
}
