package vision

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"tryon-bot/internal/domain/port"
)

const maxRembgResponse = 50 << 20

// RembgClient убирает фон с фото одежды через внешний сервис.
type RembgClient struct {
	url    string
	client *http.Client
}

// NewRembgClient создаёт клиента сервиса удаления фона
func NewRembgClient(url string, timeout time.Duration) *RembgClient {
	return &RembgClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Remove отправляет фото и возвращает PNG с прозрачным фоном.
func (c *RembgClient) Remove(ctx context.Context, imageData []byte) ([]byte, error) {
	body, contentType, err := multipartFile("file", "garment.png", imageData)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("background removal failed with status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRembgResponse))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("background removal returned empty body")
	}
	return data, nil
}

// CheckHealth проверяет доступность сервиса удаления фона
func (c *RembgClient) CheckHealth(ctx context.Context) error {
	return checkHealth(ctx, c.client, c.url)
}

var _ port.BackgroundRemover = (*RembgClient)(nil)
