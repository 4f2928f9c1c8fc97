// Package notifier delivers portfolio alerts through the Telegram Bot API.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public Telegram Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// ErrMissingCredentials is returned when the chat, token or text is empty.
var ErrMissingCredentials = errors.New("missing Telegram chat ID, message, or bot token")

// NotifyError is a non-2xx response from the Bot API.
type NotifyError struct {
	StatusCode int
	Body       string
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("telegram API error (%d): %s", e.StatusCode, e.Body)
}

// Sender sends a text message to a Telegram chat.
type Sender interface {
	SendMessage(ctx context.Context, botToken, chatID, text string) error
}

// TelegramClient is a resty-backed Sender. Bot tokens are per call because
// they come from stored user settings.
type TelegramClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewTelegramClient builds a client against baseURL (DefaultBaseURL when empty).
func NewTelegramClient(baseURL string, logger *zap.Logger) *TelegramClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(time.Second).
		// sendMessage is not idempotent: only a 429 is known to be unsent
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err == nil && r.StatusCode() == http.StatusTooManyRequests
		})

	return &TelegramClient{httpClient: restyClient, logger: logger}
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// SendMessage posts text to chatID using botToken.
func (c *TelegramClient) SendMessage(ctx context.Context, botToken, chatID, text string) error {
	if botToken == "" || chatID == "" || text == "" {
		return ErrMissingCredentials
	}

	result := new(sendMessageResponse)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(sendMessageRequest{ChatID: chatID, Text: text}).
		SetResult(result).
		Post(fmt.Sprintf("/bot%s/sendMessage", botToken))
	if err != nil {
		return fmt.Errorf("send telegram message: %w", redactToken(err, botToken))
	}

	if !resp.IsSuccess() {
		return &NotifyError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	c.logger.Debug("telegram message sent",
		zap.String("chat_id", chatID),
		zap.Int64("message_id", result.Result.MessageID))
	return nil
}

const redacted = "***"

// redactToken masks botToken in a transport error, which quotes the request
// URL and with it the token in the path.
func redactToken(err error, botToken string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{
			Op:  urlErr.Op,
			URL: strings.ReplaceAll(urlErr.URL, botToken, redacted),
			Err: urlErr.Err,
		}
	}
	if strings.Contains(err.Error(), botToken) {
		return errors.New(strings.ReplaceAll(err.Error(), botToken, redacted))
	}
	return err
}

var _ Sender = (*TelegramClient)(nil)
