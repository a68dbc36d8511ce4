package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/LovationAdmin/fintrack-api/models"
)

// InviteEmailClient calls the send-invite-email function on behalf of the
// signed-in owner.
type InviteEmailClient struct {
	endpoint string
	client   *http.Client
}

func NewInviteEmailClient(endpoint string, client *http.Client) *InviteEmailClient {
	if client == nil {
		client = &http.Client{}
	}
	return &InviteEmailClient{endpoint: endpoint, client: client}
}

// SendInvite posts msg with the owner's bearer credential. A transport error,
// a non-2xx status and a success:false payload all fail with ErrEmailDispatch.
func (c *InviteEmailClient) SendInvite(ctx context.Context, accessToken string, msg models.InviteEmail) error {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEmailDispatch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEmailDispatch, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEmailDispatch, err)
	}
	defer resp.Body.Close()

	var result models.InviteEmailResult
	decodeErr := json.NewDecoder(resp.Body).Decode(&result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if result.Error != "" {
			return fmt.Errorf("%w: %s", ErrEmailDispatch, result.Error)
		}
		return fmt.Errorf("%w: status %d", ErrEmailDispatch, resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: invalid response: %w", ErrEmailDispatch, decodeErr)
	}
	if !result.Success {
		if result.Error != "" {
			return fmt.Errorf("%w: %s", ErrEmailDispatch, result.Error)
		}
		return ErrEmailDispatch
	}
	return nil
}
