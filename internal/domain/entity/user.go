package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu             UserState = "main_menu"              // В главном меню
	StateAwaitingModelPhoto   UserState = "awaiting_model_photo"   // Ожидание фото человека
	StateAwaitingGarmentPhoto UserState = "awaiting_garment_photo" // Ожидание фото одежды
	StateProcessing           UserState = "processing"             // Обработка изображения
	StateAdjusting            UserState = "adjusting"              // Результат готов, можно подгонять
)

// User представляет пользователя бота
type User struct {
	ID         int64        // Telegram User ID
	ChatID     int64        // Telegram Chat ID
	State      UserState    // Текущее состояние пользователя
	Class      GarmentClass // Выбранный тип одежды
	ModelPhoto []byte       // Фото человека до получения одежды
	SessionID  string       // Активная сессия примерки
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// Reset возвращает пользователя в главное меню и забывает данные примерки
func (u *User) Reset() {
	u.State = StateMainMenu
	u.Class = ""
	u.ModelPhoto = nil
	u.SessionID = ""
}
