package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stcker/backend/internal/client"
	"github.com/stcker/backend/internal/config"
	"github.com/stcker/backend/internal/db"
	"github.com/stcker/backend/internal/model"
	"github.com/stcker/backend/internal/template"
	"go.uber.org/zap"
)

const (
	maxSubjectLength = 255
	maxMessageLength = 1024
)

type RequestService struct {
	requests RequestStore
	mailer   client.Mailer
	notifier Notifier
	mailCfg  config.MailConfig
	logger   *zap.Logger
}

func NewRequestService(requests RequestStore, mailer client.Mailer, notifier Notifier, cfg config.MailConfig, logger *zap.Logger) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{
		requests: requests,
		mailer:   mailer,
		notifier: notifier,
		mailCfg:  cfg,
		logger:   logger,
	}
}

// Create stores the request, then notifies the admin and confirms to the
// sender. Notification failures are returned after the request is stored.
func (s *RequestService) Create(ctx context.Context, input model.SupportRequestInput) (*model.SupportRequest, error) {
	email := normalizeEmail(input.Email)
	subject := strings.TrimSpace(input.Subject)
	message := strings.TrimSpace(input.Message)
	if email == "" || subject == "" || message == "" {
		return nil, fmt.Errorf("%w: email, subject and message are required", ErrInvalidInput)
	}
	if len(subject) > maxSubjectLength || len(message) > maxMessageLength {
		return nil, fmt.Errorf("%w: subject or message too long", ErrInvalidInput)
	}

	req, err := s.requests.CreateRequest(ctx, model.SupportRequest{
		ID:      uuid.New(),
		Email:   email,
		Subject: subject,
		Message: message,
	})
	if err != nil {
		return nil, err
	}

	html, err := template.Render(template.RequestConfirmation, template.MailData{Logo: s.mailCfg.LogoURL})
	if err != nil {
		return nil, err
	}

	var adminErr error
	if s.mailCfg.AdminAddress == "" {
		s.logger.Warn("admin address not configured, skipping case notification",
			zap.String("request_id", req.ID.String()))
	} else {
		adminErr = s.mailer.Send(ctx, client.Mail{
			From:    s.mailCfg.SenderAddress,
			To:      s.mailCfg.AdminAddress,
			Subject: "Stcker Case |" + req.Subject,
			Text:    req.Message,
		})
	}

	err = errors.Join(
		adminErr,
		s.mailer.Send(ctx, client.Mail{
			From:    s.mailCfg.SenderAddress,
			To:      req.Email,
			Subject: caseSubject(req),
			HTML:    html,
		}),
	)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifySupportRequest(ctx, req); err != nil {
			s.logger.Warn("failed to notify support channel",
				zap.String("request_id", req.ID.String()),
				zap.Error(err))
		}
	}

	return req, nil
}

func (s *RequestService) List(ctx context.Context, params model.ListParams) (*model.SupportRequestPage, error) {
	items, total, err := s.requests.ListRequests(ctx, params)
	if err != nil {
		return nil, err
	}
	return &model.SupportRequestPage{Items: items, Total: total}, nil
}

func (s *RequestService) Get(ctx context.Context, id uuid.UUID) (*model.SupportRequest, error) {
	req, err := s.requests.GetRequest(ctx, id)
	if err != nil {
		return nil, mapRequestErr(err)
	}
	return req, nil
}

// Reply mails message to the requester and marks the request replied.
func (s *RequestService) Reply(ctx context.Context, id uuid.UUID, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidInput)
	}

	req, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.mailer.Send(ctx, client.Mail{
		From:    s.mailCfg.SenderAddress,
		To:      req.Email,
		Subject: caseSubject(req),
		Text:    message,
	})
	if err != nil {
		return err
	}

	return mapRequestErr(s.requests.MarkRequestReplied(ctx, id))
}

func (s *RequestService) Delete(ctx context.Context, id uuid.UUID) error {
	req, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !req.Replied {
		return ErrRequestNotReplied
	}
	return s.requests.DeleteRequests(ctx, []uuid.UUID{id})
}

// DeleteMany deletes every request in rawIDs, or none of them.
func (s *RequestService) DeleteMany(ctx context.Context, rawIDs []string) error {
	if len(rawIDs) == 0 {
		return fmt.Errorf("%w: Please provide some ids", ErrInvalidInput)
	}

	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("%w: invalid id %q", ErrInvalidInput, raw)
		}
		ids = append(ids, id)
	}
	ids = uniqueIDs(ids)

	found, err := s.requests.GetRequestsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return ErrSomeRequestsNotFound
	}
	for _, req := range found {
		if !req.Replied {
			return ErrRequestsNotReplied
		}
	}

	return s.requests.DeleteRequests(ctx, ids)
}

func caseSubject(req *model.SupportRequest) string {
	return fmt.Sprintf("Stcker - Case #%s %s", req.ID, req.Subject)
}

func mapRequestErr(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrRequestNotFound
	}
	return err
}
