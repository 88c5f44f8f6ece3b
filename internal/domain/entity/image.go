package entity

import "fmt"

// Image растровое изображение в плоском буфере.
// Pix хранит строки подряд, Channels байт на пиксель: 3 (RGB) или 4 (RGBA,
// альфа без предумножения).
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewImage создаёт пустое изображение заданного размера
func NewImage(width, height, channels int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, NewError(KindImageLoadFailure, fmt.Sprintf("invalid image size %dx%d", width, height))
	}
	if channels != 3 && channels != 4 {
		return nil, NewError(KindImageLoadFailure, fmt.Sprintf("unsupported channel count %d", channels))
	}
	return &Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// Stride длина строки в байтах
func (img *Image) Stride() int {
	return img.Width * img.Channels
}

// HasAlpha сообщает, есть ли у изображения альфа-канал
func (img *Image) HasAlpha() bool {
	return img != nil && img.Channels == 4
}

// Valid проверяет согласованность размеров и буфера.
func (img *Image) Valid() bool {
	return img != nil && img.Width > 0 && img.Height > 0 &&
		(img.Channels == 3 || img.Channels == 4) &&
		len(img.Pix) == img.Width*img.Height*img.Channels
}

// Clone возвращает независимую копию
func (img *Image) Clone() *Image {
	pix := make([]uint8, len(img.Pix))
	copy(pix, img.Pix)
	return &Image{Width: img.Width, Height: img.Height, Channels: img.Channels, Pix: pix}
}

// ToRGB возвращает 3-канальную копию, альфа отбрасывается.
func (img *Image) ToRGB() *Image {
	if img.Channels == 3 {
		return img.Clone()
	}
	out := &Image{Width: img.Width, Height: img.Height, Channels: 3, Pix: make([]uint8, img.Width*img.Height*3)}
	for i, j := 0, 0; i < len(img.Pix); i, j = i+4, j+3 {
		out.Pix[j] = img.Pix[i]
		out.Pix[j+1] = img.Pix[i+1]
		out.Pix[j+2] = img.Pix[i+2]
	}
	return out
}

// At возвращает срез байтов пикселя (x, y)
func (img *Image) At(x, y int) []uint8 {
	off := y*img.Stride() + x*img.Channels
	return img.Pix[off : off+img.Channels]
}
