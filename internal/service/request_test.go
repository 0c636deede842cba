package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stcker/backend/internal/client"
	"github.com/stcker/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequestService(requests *fakeRequests, mailer *fakeMailer, notifier *fakeNotifier) *RequestService {
	var n Notifier
	if notifier != nil {
		n = notifier
	}
	return NewRequestService(requests, mailer, n, testConfig().Mail, nil)
}

func TestCreateRequest(t *testing.T) {
	requests := newFakeRequests()
	mailer := &fakeMailer{}
	notifier := &fakeNotifier{}
	svc := newTestRequestService(requests, mailer, notifier)

	req, err := svc.Create(context.Background(), model.SupportRequestInput{
		Email:   "Buyer@Example.com",
		Subject: "Late parcel",
		Message: "Still waiting",
	})
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", req.Email)
	assert.False(t, req.Replied)

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "admin@stcker.com", mailer.sent[0].To)
	assert.Equal(t, "Stcker Case |Late parcel", mailer.sent[0].Subject)
	assert.Equal(t, "Still waiting", mailer.sent[0].Text)
	assert.Equal(t, "buyer@example.com", mailer.sent[1].To)
	assert.Equal(t, "Stcker - Case #"+req.ID.String()+" Late parcel", mailer.sent[1].Subject)

	assert.Equal(t, []uuid.UUID{req.ID}, notifier.notified)
}

func TestCreateRequestValidation(t *testing.T) {
	svc := newTestRequestService(newFakeRequests(), &fakeMailer{}, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, model.SupportRequestInput{Email: "a@b.c", Subject: strings.Repeat("s", 256), Message: "m"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, model.SupportRequestInput{Email: "a@b.c", Subject: "s", Message: strings.Repeat("m", 1025)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, model.SupportRequestInput{Email: "a@b.c", Subject: " ", Message: "m"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateRequestSlackFailureIsNotFatal(t *testing.T) {
	svc := newTestRequestService(newFakeRequests(), &fakeMailer{}, &fakeNotifier{err: assert.AnError})
	_, err := svc.Create(context.Background(), model.SupportRequestInput{Email: "a@b.c", Subject: "s", Message: "m"})
	assert.NoError(t, err)
}

func TestCreateRequestWithoutAdminAddress(t *testing.T) {
	cfg := testConfig().Mail
	cfg.AdminAddress = ""
	requests := newFakeRequests()
	mailer := &fakeMailer{}
	svc := NewRequestService(requests, mailer, nil, cfg, nil)

	req, err := svc.Create(context.Background(), model.SupportRequestInput{Email: "a@b.co", Subject: "s", Message: "m"})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "a@b.co", mailer.sent[0].To)
	assert.Contains(t, requests.byID, req.ID)

	// the logging mailer rejects an empty recipient, so nothing may be sent to it
	svc = NewRequestService(newFakeRequests(), client.NewLogMailer(nil), nil, cfg, nil)
	_, err = svc.Create(context.Background(), model.SupportRequestInput{Email: "a@b.co", Subject: "s", Message: "m"})
	assert.NoError(t, err)
}

func TestCreateRequestMailFailure(t *testing.T) {
	requests := newFakeRequests()
	svc := newTestRequestService(requests, &fakeMailer{err: assert.AnError}, nil)
	_, err := svc.Create(context.Background(), model.SupportRequestInput{Email: "a@b.c", Subject: "s", Message: "m"})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Len(t, requests.byID, 1)
}

func TestReplyAndDelete(t *testing.T) {
	pending := model.SupportRequest{ID: uuid.New(), Email: "buyer@example.com", Subject: "Help"}
	requests := newFakeRequests(pending)
	mailer := &fakeMailer{}
	svc := newTestRequestService(requests, mailer, nil)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, pending.ID), ErrRequestNotReplied)
	assert.ErrorIs(t, svc.Reply(ctx, pending.ID, " "), ErrInvalidInput)
	assert.ErrorIs(t, svc.Reply(ctx, uuid.New(), "hi"), ErrRequestNotFound)

	require.NoError(t, svc.Reply(ctx, pending.ID, "On its way"))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "On its way", mailer.sent[0].Text)
	assert.Equal(t, "buyer@example.com", mailer.sent[0].To)
	assert.True(t, requests.byID[pending.ID].Replied)

	require.NoError(t, svc.Delete(ctx, pending.ID))
	assert.Empty(t, requests.byID)
	assert.ErrorIs(t, svc.Delete(ctx, pending.ID), ErrRequestNotFound)
}

func TestReplyMailFailureLeavesUnreplied(t *testing.T) {
	pending := model.SupportRequest{ID: uuid.New(), Email: "buyer@example.com", Subject: "Help"}
	requests := newFakeRequests(pending)
	svc := newTestRequestService(requests, &fakeMailer{err: assert.AnError}, nil)

	assert.Error(t, svc.Reply(context.Background(), pending.ID, "hi"))
	assert.False(t, requests.byID[pending.ID].Replied)
}

func TestDeleteMany(t *testing.T) {
	done1 := model.SupportRequest{ID: uuid.New(), Replied: true}
	done2 := model.SupportRequest{ID: uuid.New(), Replied: true}
	open := model.SupportRequest{ID: uuid.New()}
	requests := newFakeRequests(done1, done2, open)
	svc := newTestRequestService(requests, &fakeMailer{}, nil)
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeleteMany(ctx, nil), ErrInvalidInput)
	assert.ErrorIs(t, svc.DeleteMany(ctx, []string{"nope"}), ErrInvalidInput)
	assert.ErrorIs(t, svc.DeleteMany(ctx, []string{done1.ID.String(), uuid.NewString()}), ErrSomeRequestsNotFound)
	assert.ErrorIs(t, svc.DeleteMany(ctx, []string{done1.ID.String(), open.ID.String()}), ErrRequestsNotReplied)
	assert.Len(t, requests.byID, 3)

	require.NoError(t, svc.DeleteMany(ctx, []string{done1.ID.String(), done2.ID.String(), done1.ID.String()}))
	assert.Len(t, requests.byID, 1)
	assert.Contains(t, requests.byID, open.ID)
}
