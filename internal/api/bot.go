package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	app "tryon-bot/internal/application"
	"tryon-bot/internal/container"
	"tryon-bot/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот виртуальной примерки одежды.

Пришлите своё фото в полный рост и фото вещи, а я примерю её на вас.

📋 Команды:
/upper — примерить верх (футболка, рубашка, куртка)
/lower — примерить низ (брюки, юбка, шорты)
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Выберите тип одежды: /upper или /lower
2️⃣ Отправьте своё фото
3️⃣ Отправьте фото вещи (лучше PNG-файлом с прозрачным фоном)
4️⃣ Подгоните результат: /adjust <x> <y> <размер>
   например /adjust 10 -20 1.1
5️⃣ /done — завершить примерку

💡 Рекомендации:
• Стойте прямо, лицом к камере
• Плечи и бёдра должны быть хорошо видны
• Для низа в кадре нужны колени и щиколотки`

	msgSendModelPhoto   = "📸 Отправьте своё фото в полный рост."
	msgSendGarmentPhoto = "👕 Теперь отправьте фото вещи."
	msgChooseGarment    = "👉 Сначала выберите тип одежды: /upper или /lower."
	msgCancelled        = "❌ Операция отменена. /upper или /lower для новой примерки."
	msgDone             = "✅ Примерка завершена. /upper или /lower для новой."
	msgUnknownCommand   = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing       = "⏳ Примеряю..."
	msgAdjustHint       = "Подгонка: /adjust <x> <y> <размер>, например /adjust 0 -15 1.1. /done — завершить."
	msgAdjustUsage      = "⚠️ Формат: /adjust <x> <y> <размер>, например /adjust 10 -20 1.1"
	msgNoSession        = "⚠️ Нет активной примерки. /upper или /lower чтобы начать."
	msgRetryModel       = "📸 Отправьте другое своё фото."
	msgRetryGarment     = "👕 Отправьте другое фото вещи."
	msgNotImage         = "⚠️ Этот файл не похож на изображение."
	msgDownloadError    = "⚠️ Не удалось скачать файл. Попробуйте ещё раз."
	msgProcessingError  = "⚠️ Не удалось обработать изображение. Попробуйте позже."
)

// Bot представляет Telegram-бота
type Bot struct {
	api     *tgbotapi.BotAPI
	app     *container.Container
	logger  *zap.Logger
	client  *http.Client
	maxSize int64
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, logger *zap.Logger, maxSize int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.Info("telegram bot authorized", zap.String("account", api.Self.UserName))

	return &Bot{
		api:     api,
		app:     c,
		logger:  logger,
		client:  &http.Client{},
		maxSize: maxSize,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.app.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.logger.Error("failed to get user", zap.Int64("user", msg.From.ID), zap.Error(err))
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	fileID, ok := imageFileID(msg)
	if !ok {
		if msg.Document != nil {
			b.sendMessage(msg.Chat.ID, msgNotImage)
			return
		}
		b.sendMessage(msg.Chat.ID, promptFor(user.State))
		return
	}

	switch user.State {
	case entity.StateAwaitingModelPhoto:
		b.handleModelPhoto(ctx, msg, fileID)
	case entity.StateAwaitingGarmentPhoto:
		b.handleGarmentPhoto(ctx, msg, user, fileID)
	default:
		b.sendMessage(msg.Chat.ID, promptFor(user.State))
	}
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.closeSession(ctx, user)
		b.cancel(ctx, msg)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "upper", "lower":
		class, _ := entity.ParseGarmentClass(msg.Command())
		b.closeSession(ctx, user)
		if _, err := b.app.UserService.BeginTryOn(ctx, msg.From.ID, chatID, class); err != nil {
			b.logger.Error("failed to begin try-on", zap.Error(err))
			return
		}
		b.sendMessage(chatID, msgSendModelPhoto)

	case "adjust":
		b.handleAdjust(ctx, msg, user)

	case "done":
		if user.SessionID == "" {
			b.sendMessage(chatID, msgNoSession)
			return
		}
		b.closeSession(ctx, user)
		b.cancel(ctx, msg)
		b.sendMessage(chatID, msgDone)

	case "cancel":
		b.closeSession(ctx, user)
		b.cancel(ctx, msg)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

func (b *Bot) handleModelPhoto(ctx context.Context, msg *tgbotapi.Message, fileID string) {
	data, err := b.downloadFile(ctx, fileID)
	if err != nil {
		b.logger.Warn("failed to download model photo", zap.Error(err))
		b.sendMessage(msg.Chat.ID, msgDownloadError)
		return
	}

	if _, err := b.app.UserService.AcceptModelPhoto(ctx, msg.From.ID, msg.Chat.ID, data); err != nil {
		b.logger.Error("failed to save model photo", zap.Error(err))
		return
	}
	b.sendMessage(msg.Chat.ID, msgSendGarmentPhoto)
}

func (b *Bot) handleGarmentPhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User, fileID string) {
	chatID := msg.Chat.ID

	garment, err := b.downloadFile(ctx, fileID)
	if err != nil {
		b.logger.Warn("failed to download garment photo", zap.Error(err))
		b.sendMessage(chatID, msgDownloadError)
		return
	}

	model := user.ModelPhoto
	class := user.Class
	if _, err := b.app.UserService.SetState(ctx, msg.From.ID, chatID, entity.StateProcessing); err != nil {
		b.logger.Error("failed to update user state", zap.Error(err))
		return
	}
	b.sendMessage(chatID, msgProcessing)

	out, err := b.app.TryOnService.Start(ctx, app.StartRequest{
		ModelImage:   model,
		GarmentImage: garment,
		Class:        class,
	})
	if err != nil {
		b.handleStartError(ctx, msg, out, err)
		return
	}

	if _, err := b.app.UserService.AttachSession(ctx, msg.From.ID, chatID, out.SessionID); err != nil {
		b.logger.Error("failed to attach session", zap.Error(err))
		return
	}
	b.sendPhoto(chatID, out.JPEG, out.Message+"\n\n"+msgAdjustHint)
}

// handleStartError решает, что просить у пользователя после неудачной примерки.
func (b *Bot) handleStartError(ctx context.Context, msg *tgbotapi.Message, out *app.TryOnOutput, err error) {
	chatID := msg.Chat.ID
	b.sendMessage(chatID, "⚠️ "+errorReply(err))

	switch {
	case out != nil && out.SessionID != "":
		// Поза принята, но первая отрисовка не удалась: можно подгонять.
		_, _ = b.app.UserService.AttachSession(ctx, msg.From.ID, chatID, out.SessionID)
		b.sendMessage(chatID, msgAdjustHint)
	case entity.EndsSession(err):
		_, _ = b.app.UserService.SetState(ctx, msg.From.ID, chatID, entity.StateAwaitingModelPhoto)
		b.sendMessage(chatID, msgRetryModel)
	case entity.KindOf(err) == entity.KindMissingAlphaChannel || entity.KindOf(err) == entity.KindImageLoadFailure:
		_, _ = b.app.UserService.SetState(ctx, msg.From.ID, chatID, entity.StateAwaitingGarmentPhoto)
		b.sendMessage(chatID, msgRetryGarment)
	default:
		b.logger.Error("try-on failed", zap.Int64("user", msg.From.ID), zap.Error(err))
		_, _ = b.app.UserService.SetState(ctx, msg.From.ID, chatID, entity.StateAwaitingGarmentPhoto)
	}
}

func (b *Bot) handleAdjust(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID
	if user.SessionID == "" {
		b.sendMessage(chatID, msgNoSession)
		return
	}

	adj, err := parseAdjust(msg.CommandArguments())
	if err != nil {
		b.sendMessage(chatID, msgAdjustUsage)
		return
	}

	out, err := b.app.TryOnService.Adjust(ctx, user.SessionID, adj)
	if err != nil {
		if errors.Is(err, entity.ErrSessionNotFound) || errors.Is(err, entity.ErrSessionClosed) {
			b.cancel(ctx, msg)
			b.sendMessage(chatID, msgNoSession)
			return
		}
		b.sendMessage(chatID, "⚠️ "+errorReply(err))
		return
	}
	b.sendPhoto(chatID, out.JPEG, out.Message)
}

func (b *Bot) closeSession(ctx context.Context, user *entity.User) {
	if user.SessionID == "" {
		return
	}
	if err := b.app.TryOnService.Close(ctx, user.SessionID); err != nil && !errors.Is(err, entity.ErrSessionNotFound) {
		b.logger.Warn("failed to close session", zap.String("session", user.SessionID), zap.Error(err))
	}
}

func (b *Bot) cancel(ctx context.Context, msg *tgbotapi.Message) {
	if _, err := b.app.UserService.Cancel(ctx, msg.From.ID, msg.Chat.ID); err != nil {
		b.logger.Error("failed to reset user", zap.Error(err))
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	if b.maxSize > 0 && int64(file.FileSize) > b.maxSize {
		return nil, fmt.Errorf("file is too large: %d bytes", file.FileSize)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("failed to send message", zap.Int64("chat", chatID), zap.Error(err))
	}
}

func (b *Bot) sendPhoto(chatID int64, jpeg []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "tryon.jpg", Bytes: jpeg})
	photo.Caption = caption
	if _, err := b.api.Send(photo); err != nil {
		b.logger.Warn("failed to send photo", zap.Int64("chat", chatID), zap.Error(err))
		b.sendMessage(chatID, msgProcessingError)
	}
}

// imageFileID берёт фото с максимальным разрешением или документ-изображение.
// PNG-документ сохраняет прозрачность, сжатое фото её теряет.
func imageFileID(msg *tgbotapi.Message) (string, bool) {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID, true
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, true
	}
	return "", false
}
