package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/noelvk/taskpad-backend/internal/logger"
)

const gatewayURL = "https://api.mobizon.kz/service/message/sendsmsmessage"

// Client отправляет коды подтверждения через SMS шлюз. Пустой API ключ
// включает dry-run режим: сообщение только логируется, HTTP запрос не
// выполняется.
type Client struct {
	apiKey string
	sender string
	http   *http.Client
}

type sendResponse struct {
	Code int `json:"code"`
	Data struct {
		MessageID string `json:"messageId"`
	} `json:"data"`
}

// NewClient создаёт клиента шлюза.
func NewClient(apiKey, sender string) *Client {
	return &Client{
		apiKey: apiKey,
		sender: sender,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Send доставляет код подтверждения на номер.
func (c *Client) Send(ctx context.Context, mobile, code string) error {
	text := fmt.Sprintf("Your verification code is %s", code)

	if c.apiKey == "" {
		// dry-run: идентификатор сообщения генерируем локально.
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"mobile":     mobile,
				"message_id": uuid.NewString(),
			}).Info("sms: dry-run доставка кода")
		}
		return nil
	}

	form := url.Values{
		"apiKey":    {c.apiKey},
		"recipient": {mobile},
		"text":      {text},
	}
	if c.sender != "" {
		form.Set("from", c.sender)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gatewayURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: build request %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sms: send request %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("sms: read response %w", err)
	}

	var result sendResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("sms: parse response %w", err)
	}
	if result.Code != 0 {
		return fmt.Errorf("sms: gateway error code %d", result.Code)
	}

	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"mobile":     mobile,
			"message_id": result.Data.MessageID,
		}).Info("sms: код доставлен")
	}

	return nil
}
