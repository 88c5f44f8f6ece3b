//go:build !gocv
// +build !gocv

package vision

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"tryon-bot/internal/domain/entity"
	"tryon-bot/internal/domain/port"
)

// Resizer масштабирует изображения на чистом Go (сборка без тега gocv).
type Resizer struct {
	Interpolation draw.Interpolator
}

// NewResizer создаёт билинейный ресайзер на golang.org/x/image/draw.
func NewResizer() *Resizer {
	return &Resizer{Interpolation: draw.BiLinear}
}

// Backend имя реализации для логов
func (r *Resizer) Backend() string {
	return "x/image"
}

// maxKernelTemp предел промежуточного буфера ядерной интерполяции
// (width × высота источника). Выше него берётся ApproxBiLinear,
// которая считает только пиксели окна.
const maxKernelTemp = 1 << 22

// Resize масштабирует src до width×height и возвращает окно window этого результата.
func (r *Resizer) Resize(src *entity.Image, width, height int, window image.Rectangle) (*entity.Image, error) {
	if !src.Valid() {
		return nil, fmt.Errorf("invalid source image")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	full := image.Rect(0, 0, width, height)
	if window.Empty() || !window.In(full) {
		return nil, fmt.Errorf("window %v outside %v", window, full)
	}

	interp := r.Interpolation
	if _, ok := interp.(*draw.Kernel); ok && int64(width)*int64(src.Height) > maxKernelTemp {
		interp = draw.ApproxBiLinear
	}

	w, h := window.Dx(), window.Dy()
	if src.Channels == 4 {
		dst := image.NewNRGBA(window)
		in := ToNRGBA(src)
		interp.Scale(dst, full, in, in.Bounds(), draw.Src, nil)
		return &entity.Image{Width: w, Height: h, Channels: 4, Pix: dst.Pix}, nil
	}

	dst := image.NewRGBA(window)
	in := ToRGBA(src)
	interp.Scale(dst, full, in, in.Bounds(), draw.Src, nil)
	out := &entity.Image{Width: w, Height: h, Channels: 3, Pix: make([]uint8, w*h*3)}
	for i, j := 0, 0; i < len(dst.Pix); i, j = i+4, j+3 {
		out.Pix[j], out.Pix[j+1], out.Pix[j+2] = dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2]
	}
	return out, nil
}

var _ port.ImageResizer = (*Resizer)(nil)
