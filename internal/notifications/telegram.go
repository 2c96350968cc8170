package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"reviewbot/internal/config"
)

type telegramRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

type telegramTransport struct {
	client *resty.Client
	token  string
}

func newTelegramTransport(cfg *config.Config) *telegramTransport {
	return newTelegramTransportWithClient(resty.New(), cfg)
}

func newTelegramTransportWithClient(client *resty.Client, cfg *config.Config) *telegramTransport {
	client.
		SetBaseURL(strings.TrimRight(cfg.Messaging.BaseURL, "/")).
		SetTimeout(cfg.MessagingTimeout()).
		SetHeader("User-Agent", userAgent)
	return &telegramTransport{client: client, token: cfg.Messaging.Token}
}

func (t *telegramTransport) Name() string { return config.TransportTelegram }

func (t *telegramTransport) Send(ctx context.Context, destination, text string) error {
	response, err := t.client.R().
		SetContext(ctx).
		SetPathParam("token", t.token).
		SetBody(telegramRequest{ChatID: destination, Text: text}).
		SetResult(&telegramResponse{}).
		SetError(&telegramResponse{}).
		Post("/bot{token}/sendMessage")
	if err != nil {
		return errors.New("send telegram message: " + redact(err.Error(), t.token))
	}

	if response.IsError() {
		description := ""
		if failure, ok := response.Error().(*telegramResponse); ok && failure != nil {
			description = failure.Description
		}
		return fmt.Errorf("telegram returned %d: %s", response.StatusCode(), strings.TrimSpace(description))
	}

	result, ok := response.Result().(*telegramResponse)
	if !ok || result == nil || !result.OK {
		description := "unexpected response"
		if result != nil && result.Description != "" {
			description = result.Description
		}
		return fmt.Errorf("telegram rejected message: %s", description)
	}
	return nil
}
