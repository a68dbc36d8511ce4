package models

// Identity is the authenticated account behind a request.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}

// Session pairs an identity with the bearer credential it authenticated with.
type Session struct {
	Identity
	AccessToken string `json:"-"`
}

// InviteEmail is the payload of the send-invite-email function.
type InviteEmail struct {
	To              string `json:"to"`
	InviterEmail    string `json:"inviterEmail"`
	InvitationToken string `json:"invitationToken"`
}

// InviteEmailResult is the send-invite-email function's response body.
type InviteEmailResult struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type ResolveOutcome string

const (
	OutcomeAccepted       ResolveOutcome = "accepted"
	OutcomeSignInRequired ResolveOutcome = "sign_in_required"
	OutcomeEmailMismatch  ResolveOutcome = "email_mismatch"
)

type InvitationResolution struct {
	Invitation Collaborator   `json:"invitation"`
	Outcome    ResolveOutcome `json:"outcome"`
	Message    string         `json:"message"`
}
