package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stcker/backend/internal/config"
	"github.com/stcker/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackNotifySupportRequest(t *testing.T) {
	var got SlackMessage
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"ok":true,"ts":"1.2"}`))
	}))
	defer server.Close()

	c := NewSlackClient(config.SlackConfig{BotToken: "xoxb-test", ChannelID: "C1"})
	c.endpoint = server.URL

	req := &model.SupportRequest{
		ID:        uuid.New(),
		Email:     "buyer@example.com",
		Subject:   "Where is my order",
		Message:   "It has been a week",
		CreatedAt: time.Now(),
	}
	require.NoError(t, c.NotifySupportRequest(context.Background(), req))

	assert.Equal(t, "Bearer xoxb-test", auth)
	assert.Equal(t, "C1", got.Channel)
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, "It has been a week", got.Attachments[0].Text)
	assert.Equal(t, "buyer@example.com", got.Attachments[0].Fields[0].Value)
}

func TestSlackAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
	}))
	defer server.Close()

	c := NewSlackClient(config.SlackConfig{BotToken: "xoxb-test", ChannelID: "C1"})
	c.endpoint = server.URL

	err := c.NotifySupportRequest(context.Background(), &model.SupportRequest{ID: uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel_not_found")
}

func TestSlackNotConfiguredIsNoop(t *testing.T) {
	c := NewSlackClient(config.SlackConfig{})
	assert.False(t, c.IsConfigured())
	assert.NoError(t, c.NotifySupportRequest(context.Background(), &model.SupportRequest{}))

	var nilClient *SlackClient
	assert.NoError(t, nilClient.NotifySupportRequest(context.Background(), &model.SupportRequest{}))
}
