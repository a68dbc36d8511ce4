package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LovationAdmin/fintrack-api/models"
	"github.com/LovationAdmin/fintrack-api/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvitationStore is the persistence the workflow needs.
type InvitationStore interface {
	Create(ctx context.Context, c *models.Collaborator) error
	FindByToken(ctx context.Context, token string) (*models.Collaborator, error)
	Activate(ctx context.Context, token, userID, email string, now time.Time) (*models.Collaborator, error)
	DeletePendingByEmail(ctx context.Context, email, ownerID string) (int64, error)
	UpdatePermissions(ctx context.Context, id, ownerID string, p models.Permissions, now time.Time) (*models.Collaborator, error)
	Delete(ctx context.Context, id, ownerID string) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Collaborator, error)
	ListByUser(ctx context.Context, userID string) ([]models.Collaborator, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// InviteDispatcher delivers the invitation email.
type InviteDispatcher interface {
	SendInvite(ctx context.Context, accessToken string, msg models.InviteEmail) error
}

type InvitationService struct {
	store      InvitationStore
	dispatcher InviteDispatcher
	validate   *validator.Validate
	ttl        time.Duration
	logger     *zap.Logger
	now        func() time.Time
	newToken   func() string
}

func NewInvitationService(store InvitationStore, dispatcher InviteDispatcher, ttl time.Duration, logger *zap.Logger) *InvitationService {
	return &InvitationService{
		store:      store,
		dispatcher: dispatcher,
		validate:   validator.New(),
		ttl:        ttl,
		logger:     logger.Named("invitations"),
		now:        time.Now,
		newToken:   uuid.NewString,
	}
}

// Submit creates a pending invitation for email and asks the dispatcher to
// mail the acceptance link. If the email cannot be sent, the owner's pending
// invitations for that address are deleted again (best effort).
func (s *InvitationService) Submit(ctx context.Context, session models.Session, email string, perms models.Permissions) (*models.Collaborator, error) {
	if session.UserID == "" {
		return nil, fmt.Errorf("%w: caller has no account", ErrAuth)
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	now := s.now()
	invitation := &models.Collaborator{
		OwnerID:     session.UserID,
		OwnerEmail:  session.Email,
		Email:       email,
		Permissions: perms,
		Status:      models.StatusPending,
		Token:       s.newToken(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if s.ttl > 0 {
		expiresAt := now.Add(s.ttl)
		invitation.ExpiresAt = &expiresAt
	}

	if err := s.store.Create(ctx, invitation); err != nil {
		return nil, err
	}

	if session.AccessToken == "" {
		return nil, fmt.Errorf("%w: no session credential", ErrAuth)
	}

	err := s.dispatcher.SendInvite(ctx, session.AccessToken, models.InviteEmail{
		To:              email,
		InviterEmail:    session.Email,
		InvitationToken: invitation.Token,
	})
	if err != nil {
		s.logger.Error("Invitation email failed",
			utils.IDField("owner_id", session.UserID),
			utils.EmailField("email", email),
			zap.Error(err))
		s.discardInvitation(ctx, email, session.UserID)
		if !errors.Is(err, ErrEmailDispatch) {
			err = fmt.Errorf("%w: %w", ErrEmailDispatch, err)
		}
		return nil, err
	}

	s.logger.Info("Invitation sent",
		utils.IDField("invitation_id", invitation.ID),
		utils.IDField("owner_id", session.UserID),
		utils.EmailField("email", email))

	return invitation, nil
}

// discardInvitation runs even if the request context is already cancelled.
// A failure leaves the pending row in place and is only logged.
func (s *InvitationService) discardInvitation(ctx context.Context, email, ownerID string) {
	deleted, err := s.store.DeletePendingByEmail(context.WithoutCancel(ctx), email, ownerID)
	if err != nil {
		s.logger.Error("Failed to clean up invitation after email failure",
			utils.IDField("owner_id", ownerID),
			utils.EmailField("email", email),
			zap.Error(err))
		return
	}
	s.logger.Info("Cleaned up unsent invitation",
		utils.IDField("owner_id", ownerID),
		zap.Int64("deleted", deleted))
}

// Resolve looks up the invitation behind token. A visitor signed in with the
// invited address accepts it on the spot; anyone else gets it back for
// display together with what they need to do next.
func (s *InvitationService) Resolve(ctx context.Context, token string, visitor *models.Identity) (*models.InvitationResolution, error) {
	invitation, err := s.findPending(ctx, token)
	if err != nil {
		return nil, err
	}

	switch {
	case visitor == nil:
		return &models.InvitationResolution{
			Invitation: *invitation,
			Outcome:    models.OutcomeSignInRequired,
			Message:    fmt.Sprintf("Please create an account or sign in with %s to accept this invitation", invitation.Email),
		}, nil

	case strings.EqualFold(visitor.Email, invitation.Email):
		accepted, err := s.activate(ctx, invitation, *visitor)
		if err != nil {
			return nil, err
		}
		return &models.InvitationResolution{
			Invitation: *accepted,
			Outcome:    models.OutcomeAccepted,
			Message:    "Invitation accepted",
		}, nil

	default:
		return &models.InvitationResolution{
			Invitation: *invitation,
			Outcome:    models.OutcomeEmailMismatch,
			Message:    fmt.Sprintf("Please sign in with %s to accept this invitation", invitation.Email),
		}, nil
	}
}

// Accept activates the invitation behind token for identity.
func (s *InvitationService) Accept(ctx context.Context, token string, identity models.Identity) (*models.Collaborator, error) {
	if identity.UserID == "" {
		return nil, fmt.Errorf("%w: caller has no account", ErrAuth)
	}

	invitation, err := s.findPending(ctx, token)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(identity.Email, invitation.Email) {
		return nil, ErrEmailMismatch
	}
	return s.activate(ctx, invitation, identity)
}

func (s *InvitationService) findPending(ctx context.Context, token string) (*models.Collaborator, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: invalid or expired invitation", ErrNotFound)
	}

	invitation, err := s.store.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if invitation.Status != models.StatusPending || invitation.IsExpired(s.now()) {
		return nil, fmt.Errorf("%w: invalid or expired invitation", ErrNotFound)
	}
	return invitation, nil
}

func (s *InvitationService) activate(ctx context.Context, invitation *models.Collaborator, identity models.Identity) (*models.Collaborator, error) {
	accepted, err := s.store.Activate(ctx, invitation.Token, identity.UserID, identity.Email, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invitation accepted",
		utils.IDField("invitation_id", accepted.ID),
		utils.IDField("owner_id", accepted.OwnerID),
		utils.IDField("user_id", identity.UserID))

	return accepted, nil
}

// UpdatePermissions replaces the permission flags of one of ownerID's
// collaborators, pending or active.
func (s *InvitationService) UpdatePermissions(ctx context.Context, ownerID, id string, perms models.Permissions) (*models.Collaborator, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: caller has no account", ErrAuth)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: collaborator %s", ErrNotFound, id)
	}
	return s.store.UpdatePermissions(ctx, id, ownerID, perms, s.now())
}

// Remove deletes one of ownerID's collaborators or invitations.
func (s *InvitationService) Remove(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return fmt.Errorf("%w: caller has no account", ErrAuth)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: collaborator %s", ErrNotFound, id)
	}
	if err := s.store.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	s.logger.Info("Collaborator removed",
		utils.IDField("collaborator_id", id),
		utils.IDField("owner_id", ownerID))
	return nil
}

func (s *InvitationService) ListCollaborators(ctx context.Context, ownerID string) ([]models.Collaborator, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: caller has no account", ErrAuth)
	}
	return s.store.ListByOwner(ctx, ownerID)
}

// ListSharedAccounts returns the accounts userID collaborates on.
func (s *InvitationService) ListSharedAccounts(ctx context.Context, userID string) ([]models.Collaborator, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: caller has no account", ErrAuth)
	}
	return s.store.ListByUser(ctx, userID)
}

// PurgeExpired drops pending invitations that can no longer be accepted.
func (s *InvitationService) PurgeExpired(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	return s.store.PurgeExpired(ctx, s.now())
}

// RunExpiryPurge calls PurgeExpired every interval until ctx is done.
func (s *InvitationService) RunExpiryPurge(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.purgeOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *InvitationService) purgeOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	deleted, err := s.PurgeExpired(ctx)
	if err != nil {
		s.logger.Error("Expired invitation purge failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.logger.Info("Purged expired invitations", zap.Int64("deleted", deleted))
	}
}
