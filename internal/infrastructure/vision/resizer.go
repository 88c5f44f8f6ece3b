//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"tryon-bot/internal/domain/entity"
	"tryon-bot/internal/domain/port"
)

// Resizer масштабирует изображения через OpenCV.
type Resizer struct {
	Interpolation gocv.InterpolationFlags
}

// NewResizer создаёт билинейный ресайзер на OpenCV.
func NewResizer() *Resizer {
	return &Resizer{Interpolation: gocv.InterpolationLinear}
}

// Backend имя реализации для логов
func (r *Resizer) Backend() string {
	return "gocv"
}

// Resize масштабирует src до width×height и возвращает окно window этого результата.
// Если окно меньше полного размера, пиксели окна считаются обратным
// аффинным преобразованием без построения всего изображения.
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

	matType := gocv.MatTypeCV8UC3
	if src.Channels == 4 {
		matType = gocv.MatTypeCV8UC4
	}
	mat, err := gocv.NewMatFromBytes(src.Height, src.Width, matType, src.Pix)
	if err != nil {
		return nil, fmt.Errorf("wrap pixels: %w", err)
	}
	defer mat.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	if window == full {
		gocv.Resize(mat, &resized, image.Pt(width, height), 0, 0, r.Interpolation)
	} else {
		// Отображение окна в координаты источника с центрами пикселей как у Resize.
		kx := float64(src.Width) / float64(width)
		ky := float64(src.Height) / float64(height)
		m := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
		defer m.Close()
		m.SetDoubleAt(0, 0, kx)
		m.SetDoubleAt(0, 1, 0)
		m.SetDoubleAt(0, 2, (float64(window.Min.X)+0.5)*kx-0.5)
		m.SetDoubleAt(1, 0, 0)
		m.SetDoubleAt(1, 1, ky)
		m.SetDoubleAt(1, 2, (float64(window.Min.Y)+0.5)*ky-0.5)
		gocv.WarpAffineWithParams(mat, &resized, m, window.Size(),
			r.Interpolation|gocv.WarpInverseMap, gocv.BorderReplicate, color.RGBA{})
	}
	if resized.Empty() {
		return nil, fmt.Errorf("resize produced empty image")
	}

	data := resized.ToBytes()
	pix := make([]uint8, len(data))
	copy(pix, data)
	return &entity.Image{Width: window.Dx(), Height: window.Dy(), Channels: src.Channels, Pix: pix}, nil
}

var _ port.ImageResizer = (*Resizer)(nil)
