package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendSender_SendInvitationEmail(t *testing.T) {
	var got EmailRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer srv.Close()

	s := NewResendSender("re_key", srv.URL, "Financial App <onboarding@resend.dev>", "https://app.example.com/", srv.Client())

	data, err := s.SendInvitationEmail(context.Background(), "bob@x.com", "alice@x.com", "T")
	require.NoError(t, err)

	assert.Equal(t, "email-1", data["id"])
	assert.Equal(t, "Bearer re_key", auth)
	assert.Equal(t, []string{"bob@x.com"}, got.To)
	assert.Equal(t, "Invitation to collaborate", got.Subject)
	assert.Contains(t, got.HTML, "https://app.example.com/invite/T")
	assert.Contains(t, got.HTML, "alice@x.com")
	assert.Contains(t, got.HTML, "expire in 7 days")
}

func TestResendSender_Errors(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		s := NewResendSender("", "http://unused", "from@x.com", "https://app", nil)
		_, err := s.SendInvitationEmail(context.Background(), "bob@x.com", "alice@x.com", "T")
		assert.EqualError(t, err, "RESEND_API_KEY is not configured")
	})

	t.Run("api rejects", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"Invalid to field"}`))
		}))
		defer srv.Close()

		s := NewResendSender("re_key", srv.URL, "from@x.com", "https://app", srv.Client())
		_, err := s.SendInvitationEmail(context.Background(), "bad", "alice@x.com", "T")
		assert.EqualError(t, err, "email API error: Invalid to field")
	})

	t.Run("api fails without body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		s := NewResendSender("re_key", srv.URL, "from@x.com", "https://app", srv.Client())
		_, err := s.SendInvitationEmail(context.Background(), "bob@x.com", "alice@x.com", "T")
		assert.EqualError(t, err, "email API returned status: 502")
	})
}

func TestResendSender_InviteLinkEscapesToken(t *testing.T) {
	s := NewResendSender("k", "u", "f", "https://app.example.com", nil)
	assert.Equal(t, "https://app.example.com/invite/a%2Fb", s.InviteLink("a/b"))
}
