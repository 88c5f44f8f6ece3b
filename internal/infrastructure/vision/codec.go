package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"tryon-bot/internal/domain/entity"
	"tryon-bot/internal/domain/port"
)

// Codec декодирует JPEG/PNG/WebP в плоские буферы и кодирует результат в JPEG.
type Codec struct {
	Quality int
}

// NewCodec создаёт кодек с качеством JPEG 90.
func NewCodec() *Codec {
	return &Codec{Quality: 90}
}

// Decode превращает байты файла в entity.Image.
// Непрозрачные форматы дают 3 канала, форматы с альфой — 4.
func (c *Codec) Decode(data []byte) (*entity.Image, error) {
	if len(data) == 0 {
		return nil, entity.WrapError(entity.KindImageLoadFailure, "Failed to load image", errors.New("empty image"))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, entity.WrapError(entity.KindImageLoadFailure, "Failed to load image", err)
	}
	return FromImage(img), nil
}

// EncodeJPEG кодирует изображение в JPEG, альфа-канал отбрасывается.
func (c *Codec) EncodeJPEG(img *entity.Image) ([]byte, error) {
	if !img.Valid() {
		return nil, errors.New("invalid image")
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, ToRGBA(img), &jpeg.Options{Quality: c.Quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// FromImage переводит image.Image в плоский буфер.
func FromImage(img image.Image) *entity.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if hasAlpha(img) {
		nrgba, ok := img.(*image.NRGBA)
		if !ok || nrgba.Rect.Min != (image.Point{}) || nrgba.Stride != w*4 {
			nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
			draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
		}
		pix := make([]uint8, w*h*4)
		copy(pix, nrgba.Pix)
		return &entity.Image{Width: w, Height: h, Channels: 4, Pix: pix}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	out := &entity.Image{Width: w, Height: h, Channels: 3, Pix: make([]uint8, w*h*3)}
	for i, j := 0, 0; i < len(rgba.Pix); i, j = i+4, j+3 {
		out.Pix[j], out.Pix[j+1], out.Pix[j+2] = rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2]
	}
	return out
}

// ToRGBA строит непрозрачный image.RGBA для кодирования.
func ToRGBA(img *entity.Image) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	n := img.Channels
	for i, j := 0, 0; i < len(img.Pix); i, j = i+n, j+4 {
		out.Pix[j], out.Pix[j+1], out.Pix[j+2], out.Pix[j+3] = img.Pix[i], img.Pix[i+1], img.Pix[i+2], 0xff
	}
	return out
}

// ToNRGBA оборачивает 4-канальный буфер без копирования.
func ToNRGBA(img *entity.Image) *image.NRGBA {
	return &image.NRGBA{Pix: img.Pix, Stride: img.Stride(), Rect: image.Rect(0, 0, img.Width, img.Height)}
}

func hasAlpha(img image.Image) bool {
	switch src := img.(type) {
	case *image.NRGBA, *image.NRGBA64:
		return true
	case *image.YCbCr, *image.Gray, *image.Gray16, *image.CMYK:
		return false
	case interface{ Opaque() bool }:
		return !src.Opaque()
	}
	return true
}

var _ port.ImageCodec = (*Codec)(nil)
