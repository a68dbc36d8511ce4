package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
)

// ============================================================================
// STRUCTS & TYPES
// ============================================================================

type EmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// ResendSender delivers transactional email through the Resend API.
type ResendSender struct {
	apiKey string
	apiURL string
	from   string
	appURL string
	client *http.Client
}

func NewResendSender(apiKey, apiURL, from, appURL string, client *http.Client) *ResendSender {
	if client == nil {
		client = &http.Client{}
	}
	return &ResendSender{
		apiKey: apiKey,
		apiURL: apiURL,
		from:   from,
		appURL: strings.TrimRight(appURL, "/"),
		client: client,
	}
}

// ============================================================================
// INVITATION EMAIL
// ============================================================================

const invitationEmailTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Invitation to collaborate</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background-color: #f3f4f6;">
    <table role="presentation" style="max-width: 600px; margin: 40px auto; background-color: #ffffff; border-radius: 12px;">
        <tr>
            <td style="padding: 40px;">
                <h2 style="margin: 0 0 20px 0; color: #1f2937;">You've been invited to collaborate!</h2>
                <p style="color: #4b5563; font-size: 16px; line-height: 1.6;">
                    <strong>{{.InviterEmail}}</strong> has invited you to collaborate on their financial dashboard.
                </p>
                <p style="color: #4b5563; font-size: 16px;">Click the link below to accept the invitation:</p>
                <a href="{{.InviteLink}}" style="display: inline-block; padding: 16px 32px; background: #059669; color: #ffffff; text-decoration: none; border-radius: 8px; font-weight: 600;">
                    Accept Invitation
                </a>
                <p style="margin-top: 30px; color: #6b7280; font-size: 14px;">This invitation link will expire in 7 days.</p>
                <p style="color: #6b7280; font-size: 13px; word-break: break-all;">{{.InviteLink}}</p>
            </td>
        </tr>
    </table>
</body>
</html>
`

var invitationTmpl = template.Must(template.New("invitation").Parse(invitationEmailTemplate))

// InviteLink is the acceptance URL embedded in the email.
func (s *ResendSender) InviteLink(token string) string {
	return s.appURL + "/invite/" + url.PathEscape(token)
}

// SendInvitationEmail renders and sends the invitation email. It returns the
// Resend response body on success.
func (s *ResendSender) SendInvitationEmail(ctx context.Context, to, inviterEmail, token string) (map[string]interface{}, error) {
	data := struct {
		InviterEmail string
		InviteLink   string
	}{
		InviterEmail: inviterEmail,
		InviteLink:   s.InviteLink(token),
	}

	var body bytes.Buffer
	if err := invitationTmpl.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to render invitation email: %w", err)
	}

	return s.send(ctx, to, "Invitation to collaborate", body.String())
}

// ============================================================================
// SHARED PRIVATE HELPER (Resend API)
// ============================================================================

func (s *ResendSender) send(ctx context.Context, to, subject, htmlBody string) (map[string]interface{}, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY is not configured")
	}

	jsonData, err := json.Marshal(EmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach email API: %w", err)
	}
	defer resp.Body.Close()

	result := map[string]interface{}{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil && resp.StatusCode < 300 {
		return nil, fmt.Errorf("failed to decode email API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if msg, ok := result["message"].(string); ok && msg != "" {
			return nil, fmt.Errorf("email API error: %s", msg)
		}
		return nil, fmt.Errorf("email API returned status: %d", resp.StatusCode)
	}

	return result, nil
}
