package tryon

import (
	"fmt"
	"image"

	"tryon-bot/internal/domain/entity"
	"tryon-bot/internal/domain/port"
)

// Compositor накладывает одежду с альфа-каналом на фото человека.
type Compositor struct {
	resizer port.ImageResizer
}

// NewCompositor создаёт компоновщик с заданным способом масштабирования
func NewCompositor(resizer port.ImageResizer) *Compositor {
	return &Compositor{resizer: resizer}
}

// Composite вписывает garment в rect и смешивает с base на месте.
// Части одежды за пределами base отбрасываются без ошибки и не масштабируются,
// так что память не зависит от размера rect.
func (c *Compositor) Composite(base, garment *entity.Image, rect entity.TargetRect) error {
	if !base.Valid() {
		return entity.NewError(entity.KindImageLoadFailure, "Failed to load model image")
	}
	if base.Channels != 3 {
		return entity.NewError(entity.KindImageLoadFailure, fmt.Sprintf("model image must be RGB, got %d channels", base.Channels))
	}
	if !garment.Valid() {
		return entity.NewError(entity.KindImageLoadFailure, "Failed to load clothes image")
	}
	if !garment.HasAlpha() {
		return entity.ErrMissingAlphaChannel
	}
	if !rect.Valid() {
		return entity.ErrInvalidGeometry
	}

	// Видимая часть rect в координатах самой одежды.
	window := image.Rect(0, 0, base.Width, base.Height).
		Sub(image.Pt(rect.X, rect.Y)).
		Intersect(image.Rect(0, 0, rect.Width, rect.Height))
	if window.Empty() {
		return nil
	}

	resized, err := c.resizer.Resize(garment, rect.Width, rect.Height, window)
	if err != nil {
		return entity.WrapError(entity.KindImageLoadFailure, "Failed to resize clothes image", err)
	}
	if resized.Width != window.Dx() || resized.Height != window.Dy() || resized.Channels != 4 {
		return entity.NewError(entity.KindImageLoadFailure,
			fmt.Sprintf("resizer returned %dx%dx%d, want %dx%dx4", resized.Width, resized.Height, resized.Channels, window.Dx(), window.Dy()))
	}

	blend(base, resized, rect.X+window.Min.X, rect.Y+window.Min.Y)
	return nil
}

// blend смешивает src (RGBA) в dst (RGB) со сдвигом (ox, oy).
// Пересечение считается один раз, внутри цикла проверок границ нет.
func blend(dst, src *entity.Image, ox, oy int) {
	x0, x1 := max(0, -ox), min(src.Width, dst.Width-ox)
	y0, y1 := max(0, -oy), min(src.Height, dst.Height-oy)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	srcStride, dstStride := src.Stride(), dst.Stride()
	for y := y0; y < y1; y++ {
		s := src.Pix[y*srcStride+x0*4 : y*srcStride+x1*4]
		d := dst.Pix[(oy+y)*dstStride+(ox+x0)*3 : (oy+y)*dstStride+(ox+x1)*3]
		for i, j := 0, 0; i < len(s); i, j = i+4, j+3 {
			a := uint32(s[i+3])
			switch a {
			case 0:
				continue
			case 255:
				d[j], d[j+1], d[j+2] = s[i], s[i+1], s[i+2]
			default:
				na := 255 - a
				d[j] = uint8((uint32(s[i])*a + uint32(d[j])*na + 127) / 255)
				d[j+1] = uint8((uint32(s[i+1])*a + uint32(d[j+1])*na + 127) / 255)
				d[j+2] = uint8((uint32(s[i+2])*a + uint32(d[j+2])*na + 127) / 255)
			}
		}
	}
}
