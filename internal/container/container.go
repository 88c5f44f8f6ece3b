package container

import (
	"time"

	"go.uber.org/zap"

	app "tryon-bot/internal/application"
	"tryon-bot/internal/domain/port"
)

type Container struct {
	UserService  *app.UserService
	TryOnService *app.TryOnService
}

// Deps внешние зависимости сервисов. Remover может быть nil.
type Deps struct {
	Users     port.UserRepository
	Sessions  port.SessionRepository
	Landmarks port.LandmarkProvider
	Remover   port.BackgroundRemover
	Codec     port.ImageCodec
	Resizer   port.ImageResizer
	Logger    *zap.Logger
	Timeout   time.Duration
}

func New(d Deps) *Container {
	userService := app.NewUserService(d.Users)
	tryOnService := app.NewTryOnService(d.Landmarks, d.Remover, d.Codec, d.Resizer, d.Sessions,
		d.Logger.Named("tryon"), d.Timeout)

	return &Container{
		UserService:  userService,
		TryOnService: tryOnService,
	}
}
