package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"reserva/config"

	"go.uber.org/zap"
)

// Client posts messages to the external WhatsApp gateway. It implements the
// notification package's Gateway interface.
type Client struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
	logger      *zap.Logger
}

func NewClient(logger *zap.Logger) *Client {
	return &Client{
		baseURL:     config.AppConfig.WhatsAppAPIURL,
		bearerToken: config.AppConfig.WhatsAppAPIToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

type textMessage struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type mediaMessage struct {
	Phone    string `json:"phone"`
	ImageURL string `json:"imageUrl"`
	Caption  string `json:"caption"`
}

// SendText delivers a plain text message to a phone in gateway format
// (digits only, country code first).
func (c *Client) SendText(ctx context.Context, phone, text string) error {
	return c.post(ctx, "/api/v1/messages/text", textMessage{
		Phone:   phone,
		Message: text,
	})
}

// SendMedia delivers an image with a caption.
func (c *Client) SendMedia(ctx context.Context, phone, imageURL, caption string) error {
	return c.post(ctx, "/api/v1/messages/image", mediaMessage{
		Phone:    phone,
		ImageURL: imageURL,
		Caption:  caption,
	})
}

func (c *Client) post(ctx context.Context, path string, body interface{}) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		c.logger.Warn("gateway rejected message",
			zap.Int("status", resp.StatusCode),
			zap.String("path", path))
		return fmt.Errorf("whatsapp gateway returned status %d: %v", resp.StatusCode, errorBody)
	}
	return nil
}
