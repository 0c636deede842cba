// 외부 Slack API와 통신하는 클라이언트 정의
// 고객 문의(support request)가 접수되면 운영 채널로 알림을 보낸다
//
// 환경변수:
//   - SLACK_BOT_TOKEN: Slack Bot Token (xoxb-...)
//   - SLACK_CHANNEL_ID: Slack 채널 ID (C...)

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stcker/backend/internal/config"
	"github.com/stcker/backend/internal/model"
)

const slackPostMessageURL = "https://slack.com/api/chat.postMessage"

// SlackClient(메시지 메타데이터) 구조체 정의
type SlackClient struct {
	botToken   string
	channelID  string
	endpoint   string
	httpClient *http.Client
}

// SlackMessage(메시지 내용) 구조체 정의
type SlackMessage struct {
	Channel     string            `json:"channel"`
	Text        string            `json:"text,omitempty"`
	Attachments []SlackAttachment `json:"attachments,omitempty"`
}

// SlackAttachment(메시지 포맷) 구조체 정의
type SlackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text"`
	Footer string       `json:"footer,omitempty"`
	Ts     int64        `json:"ts,omitempty"`
	Fields []SlackField `json:"fields,omitempty"`
}

// SlackField(메시지 포맷 필드) 구조체 정의
type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// SlackResponse(메시지 응답) 구조체 정의
type SlackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	TS    string `json:"ts,omitempty"`
}

func NewSlackClient(cfg config.SlackConfig) *SlackClient {
	return &SlackClient{
		botToken:  cfg.BotToken,
		channelID: cfg.ChannelID,
		endpoint:  slackPostMessageURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SlackClient에 Bot Token과 Channel ID가 모두 설정되어 있는지 체크
func (c *SlackClient) IsConfigured() bool {
	return c != nil && c.botToken != "" && c.channelID != ""
}

// NotifySupportRequest - 신규 문의 알림 전송 (설정되지 않았으면 무시)
func (c *SlackClient) NotifySupportRequest(ctx context.Context, req *model.SupportRequest) error {
	if !c.IsConfigured() {
		return nil
	}

	msg := SlackMessage{
		Channel: c.channelID,
		Text:    "New support request: " + req.Subject,
		Attachments: []SlackAttachment{
			{
				Color: "#ffc107",
				Title: fmt.Sprintf("Case #%s", req.ID),
				Text:  req.Message,
				Fields: []SlackField{
					{Title: "From", Value: req.Email, Short: true},
					{Title: "Subject", Value: req.Subject, Short: true},
				},
				Footer: "stcker support",
				Ts:     req.CreatedAt.Unix(),
			},
		},
	}

	_, err := c.send(ctx, msg)
	return err
}

// Slack API 호출
func (c *SlackClient) send(ctx context.Context, msg SlackMessage) (*SlackResponse, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.botToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var slackResp SlackResponse
	if err := json.Unmarshal(body, &slackResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if !slackResp.OK {
		return nil, fmt.Errorf("slack API error: %s", slackResp.Error)
	}

	return &slackResp, nil
}
