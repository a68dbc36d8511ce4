package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type CollaboratorStatus string

const (
	StatusPending CollaboratorStatus = "pending"
	StatusActive  CollaboratorStatus = "active"
)

// Permissions are the capability flags an owner grants a collaborator on
// their transactions. Stored as JSONB.
type Permissions struct {
	CanAdd    bool `json:"can_add"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

// DefaultPermissions is what the invite form starts with.
func DefaultPermissions() Permissions {
	return Permissions{CanAdd: true}
}

func (p Permissions) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Permissions) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = Permissions{}
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("cannot scan %T into Permissions", src)
	}
}

// Collaborator is an invitation row. It is pending until the invitee accepts,
// then active and bound to the invitee's account.
type Collaborator struct {
	ID          string             `json:"id"`
	OwnerID     string             `json:"owner_id"`
	OwnerEmail  string             `json:"owner_email"`
	Email       string             `json:"email"`
	Permissions Permissions        `json:"permissions"`
	Status      CollaboratorStatus `json:"status"`
	Token       string             `json:"-"` // empty once active
	UserID      string             `json:"user_id,omitempty"`
	ExpiresAt   *time.Time         `json:"expires_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func (c *Collaborator) IsExpired(now time.Time) bool {
	return c.Status == StatusPending && c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

type InviteCollaboratorRequest struct {
	Email       string       `json:"email"`
	Permissions *Permissions `json:"permissions"`
}

type UpdatePermissionsRequest struct {
	Permissions *Permissions `json:"permissions" binding:"required"`
}
