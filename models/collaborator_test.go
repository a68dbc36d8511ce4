package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissions_ScanJSONB(t *testing.T) {
	var p Permissions
	require.NoError(t, p.Scan([]byte(`{"can_add":true,"can_edit":true,"can_delete":false}`)))
	assert.Equal(t, Permissions{CanAdd: true, CanEdit: true}, p)

	require.NoError(t, p.Scan(nil))
	assert.Equal(t, Permissions{}, p)

	assert.Error(t, p.Scan(42))
}

func TestPermissions_Value(t *testing.T) {
	v, err := DefaultPermissions().Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"can_add":true,"can_edit":false,"can_delete":false}`, v.(string))
}

func TestCollaborator_IsExpired(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second)
	future := now.Add(time.Hour)

	assert.True(t, (&Collaborator{Status: StatusPending, ExpiresAt: &past}).IsExpired(now))
	assert.True(t, (&Collaborator{Status: StatusPending, ExpiresAt: &now}).IsExpired(now))
	assert.False(t, (&Collaborator{Status: StatusPending, ExpiresAt: &future}).IsExpired(now))
	assert.False(t, (&Collaborator{Status: StatusPending}).IsExpired(now))
	assert.False(t, (&Collaborator{Status: StatusActive, ExpiresAt: &past}).IsExpired(now))
}
