package port

import "context"

// BackgroundRemover интерфейс сервиса удаления фона
type BackgroundRemover interface {
	// Remove возвращает PNG с прозрачным фоном
	Remove(ctx context.Context, imageData []byte) ([]byte, error)
}
