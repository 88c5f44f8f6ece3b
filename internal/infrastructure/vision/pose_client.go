package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"tryon-bot/internal/domain/entity"
	"tryon-bot/internal/domain/port"
)

// PoseClient получает точки тела от внешнего сервиса распознавания позы.
// Сервис принимает multipart с полем "file" и отвечает JSON со списком точек.
type PoseClient struct {
	url    string
	client *http.Client
	codec  *Codec
}

type poseResponse struct {
	Landmarks []entity.Landmark `json:"landmarks"`
}

// NewPoseClient создаёт клиента сервиса позы.
func NewPoseClient(url string, timeout time.Duration) *PoseClient {
	return &PoseClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
		codec:  NewCodec(),
	}
}

// Detect отправляет кадр в сервис. Пустой набор означает, что человек не найден.
func (c *PoseClient) Detect(ctx context.Context, img *entity.Image) (entity.LandmarkSet, error) {
	data, err := c.codec.EncodeJPEG(img)
	if err != nil {
		return nil, err
	}

	body, contentType, err := multipartFile("file", "image.jpg", data)
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

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent, http.StatusNotFound:
		return entity.LandmarkSet{}, nil
	default:
		return nil, fmt.Errorf("pose service failed with status: %d", resp.StatusCode)
	}

	var result poseResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return entity.NewLandmarkSet(result.Landmarks...), nil
}

// CheckHealth проверяет доступность сервиса позы
func (c *PoseClient) CheckHealth(ctx context.Context) error {
	return checkHealth(ctx, c.client, c.url)
}

// Close закрывает простаивающие соединения
func (c *PoseClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

func multipartFile(field, filename string, data []byte) (io.Reader, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("copy image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

func checkHealth(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service unhealthy: %d", resp.StatusCode)
	}
	return nil
}

var _ port.LandmarkProvider = (*PoseClient)(nil)
