package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogMailerSend(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	mailer := NewLogMailer(zap.New(core))

	err := mailer.Send(context.Background(), Mail{
		From:    "shop@stcker.com",
		To:      "buyer@example.com",
		Subject: "Hello",
		Text:    "hi",
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("mail queued").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "buyer@example.com", entries[0].ContextMap()["to"])
	assert.Equal(t, "Hello", entries[0].ContextMap()["subject"])
}

func TestLogMailerRejectsIncompleteMail(t *testing.T) {
	mailer := NewLogMailer(nil)
	assert.ErrorIs(t, mailer.Send(context.Background(), Mail{Subject: "x"}), ErrInvalidMail)
	assert.ErrorIs(t, mailer.Send(context.Background(), Mail{To: "a@b.c"}), ErrInvalidMail)
}
