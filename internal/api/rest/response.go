package rest

import "tryon-bot/internal/domain/entity"

// TryOnResponse ответ на примерку и подгонку
type TryOnResponse struct {
	Success     bool                      `json:"success"`
	Message     string                    `json:"message"`
	SessionID   string                    `json:"session_id,omitempty"`
	ImgData     string                    `json:"img_data,omitempty"` // base64 JPEG
	Rect        *entity.TargetRect        `json:"rect,omitempty"`
	Suitability *entity.SuitabilityResult `json:"suitability,omitempty"`
}

// ErrorResponse ответ с ошибкой
type ErrorResponse struct {
	Success     bool                      `json:"success"`
	Message     string                    `json:"message"`
	Kind        entity.ErrorKind          `json:"kind,omitempty"`
	SessionID   string                    `json:"session_id,omitempty"`
	Suitability *entity.SuitabilityResult `json:"suitability,omitempty"`
	Error       string                    `json:"error,omitempty"`
}
