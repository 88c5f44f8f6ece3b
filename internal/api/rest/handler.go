package rest

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	app "tryon-bot/internal/application"
	"tryon-bot/internal/domain/entity"
)

// formOverhead запас на поля формы и заголовки частей сверх двух файлов.
const formOverhead = 64 << 10

// TryOnHandler HTTP-обработчики примерки
type TryOnHandler struct {
	service       *app.TryOnService
	logger        *zap.Logger
	maxUploadSize int64
}

func NewTryOnHandler(service *app.TryOnService, logger *zap.Logger, maxUploadSize int64) *TryOnHandler {
	return &TryOnHandler{
		service:       service,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

// Start принимает фото человека и одежды и делает первую примерку.
// Поля формы: model_image, clothes_image, garment_type.
func (h *TryOnHandler) Start(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*h.maxUploadSize+formOverhead)
	if err := c.Request.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = c.Error(err)
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Message: fmt.Sprintf("request exceeds %d bytes", tooLarge.Limit),
			})
			return
		}
		h.badRequest(c, "Invalid multipart form", err)
		return
	}

	class, err := entity.ParseGarmentClass(c.DefaultPostForm("garment_type", string(entity.UpperBody)))
	if err != nil {
		h.badRequest(c, "Invalid garment type", err)
		return
	}

	model, ok := h.readFile(c, "model_image")
	if !ok {
		return
	}
	garment, ok := h.readFile(c, "clothes_image")
	if !ok {
		return
	}

	out, err := h.service.Start(c.Request.Context(), app.StartRequest{
		ModelImage:   model,
		GarmentImage: garment,
		Class:        class,
	})
	if err != nil {
		h.fail(c, err, out)
		return
	}

	c.JSON(http.StatusOK, newTryOnResponse(out))
}

// Adjust перерисовывает одежду с поправками из JSON-тела
func (h *TryOnHandler) Adjust(c *gin.Context) {
	adj, ok := h.bindAdjustment(c)
	if !ok {
		return
	}

	out, err := h.service.Adjust(c.Request.Context(), c.Param("id"), adj)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, newTryOnResponse(out))
}

// Redetect заново ищет точки тела и перерисовывает
func (h *TryOnHandler) Redetect(c *gin.Context) {
	adj, ok := h.bindAdjustment(c)
	if !ok {
		return
	}

	out, err := h.service.Redetect(c.Request.Context(), c.Param("id"), adj)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, newTryOnResponse(out))
}

// Close завершает сессию
func (h *TryOnHandler) Close(c *gin.Context) {
	if err := h.service.Close(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindAdjustment разбирает поправки; пустое тело означает "без поправок",
// отсутствующий size_factor считается равным 1.
func (h *TryOnHandler) bindAdjustment(c *gin.Context) (entity.AdjustmentParams, bool) {
	adj := entity.DefaultAdjustment()
	if c.Request.ContentLength == 0 {
		return adj, true
	}
	if err := c.ShouldBindJSON(&adj); err != nil {
		h.badRequest(c, "Invalid adjustment parameters", err)
		return adj, false
	}
	return adj, true
}

func (h *TryOnHandler) readFile(c *gin.Context, field string) ([]byte, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		h.badRequest(c, fmt.Sprintf("Missing %s", field), err)
		return nil, false
	}
	if header.Size > h.maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Message: fmt.Sprintf("%s exceeds %d MB", field, h.maxUploadSize/(1024*1024)),
		})
		return nil, false
	}

	data, err := readMultipart(header)
	if err != nil {
		h.badRequest(c, fmt.Sprintf("Failed to read %s", field), err)
		return nil, false
	}
	return data, true
}

func readMultipart(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *TryOnHandler) badRequest(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, ErrorResponse{Message: message, Error: err.Error()})
}

// fail отдаёт ошибку примерки с причиной для показа пользователю.
func (h *TryOnHandler) fail(c *gin.Context, err error, out *app.TryOnOutput) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("try-on request failed", zap.Error(err))
	}

	resp := ErrorResponse{
		Message: entity.Reason(err),
		Kind:    entity.KindOf(err),
		Error:   err.Error(),
	}
	if out != nil {
		resp.SessionID = out.SessionID
		if out.Suitability.Reason != "" {
			s := out.Suitability
			resp.Suitability = &s
		}
	}
	_ = c.Error(err)
	c.JSON(status, resp)
}

func statusFor(err error) int {
	switch entity.KindOf(err) {
	case entity.KindNoPoseDetected, entity.KindSuitabilityRejected:
		return http.StatusUnprocessableEntity
	case entity.KindInvalidGeometry, entity.KindInvalidAdjustment,
		entity.KindMissingAlphaChannel, entity.KindImageLoadFailure:
		return http.StatusBadRequest
	case entity.KindSessionBusy:
		return http.StatusConflict
	case entity.KindSessionNotFound:
		return http.StatusNotFound
	case entity.KindSessionClosed:
		return http.StatusGone
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

func newTryOnResponse(out *app.TryOnOutput) TryOnResponse {
	rect := out.Rect
	resp := TryOnResponse{
		Success:   true,
		Message:   out.Message,
		SessionID: out.SessionID,
		ImgData:   base64.StdEncoding.EncodeToString(out.JPEG),
		Rect:      &rect,
	}
	if out.Suitability.Accepted {
		s := out.Suitability
		resp.Suitability = &s
	}
	return resp
}
