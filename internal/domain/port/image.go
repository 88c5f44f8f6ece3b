package port

import (
	"image"

	"tryon-bot/internal/domain/entity"
)

// ImageResizer масштабирует изображение до размера width×height.
// Возвращается только окно window из этого виртуального результата,
// поэтому память зависит от окна, а не от width×height.
type ImageResizer interface {
	Resize(src *entity.Image, width, height int, window image.Rectangle) (*entity.Image, error)
}

// ImageCodec переводит байты файла в пиксели и обратно
type ImageCodec interface {
	// Decode сохраняет альфа-канал, если он есть в файле
	Decode(data []byte) (*entity.Image, error)

	// EncodeJPEG кодирует результат для отправки пользователю
	EncodeJPEG(img *entity.Image) ([]byte, error)
}
