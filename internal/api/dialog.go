package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tryon-bot/internal/domain/entity"
)

var errAdjustArgs = errors.New("adjust expects: <x> <y> [size]")

// parseAdjust разбирает аргументы /adjust: смещения по x и y и необязательный
// коэффициент размера (по умолчанию 1). Запятая в дроби тоже принимается.
func parseAdjust(args string) (entity.AdjustmentParams, error) {
	adj := entity.DefaultAdjustment()

	fields := strings.Fields(args)
	if len(fields) < 2 || len(fields) > 3 {
		return adj, errAdjustArgs
	}

	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return adj, fmt.Errorf("x offset: %w", err)
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return adj, fmt.Errorf("y offset: %w", err)
	}
	adj.XOffset, adj.YOffset = x, y

	if len(fields) == 3 {
		size, err := strconv.ParseFloat(strings.ReplaceAll(fields[2], ",", "."), 64)
		if err != nil {
			return adj, fmt.Errorf("size factor: %w", err)
		}
		adj.SizeFactor = size
	}
	return adj, nil
}

// errorReply текст ошибки для пользователя
func errorReply(err error) string {
	switch entity.KindOf(err) {
	case entity.KindSessionBusy:
		return "Предыдущая подгонка ещё идёт, подождите секунду."
	case entity.KindInvalidAdjustment:
		return "Размер должен быть больше нуля."
	case entity.KindInvalidGeometry:
		return "Не получилось вписать вещь с такими параметрами. Попробуйте другой размер или сдвиг."
	case entity.KindMissingAlphaChannel:
		return "У вещи нет прозрачного фона. Пришлите PNG-файл с прозрачным фоном."
	case "":
		return "Не удалось обработать изображение. Попробуйте позже."
	}
	return entity.Reason(err)
}

// promptFor подсказка, что ждём от пользователя в данном состоянии
func promptFor(state entity.UserState) string {
	switch state {
	case entity.StateAwaitingModelPhoto:
		return msgSendModelPhoto
	case entity.StateAwaitingGarmentPhoto:
		return msgSendGarmentPhoto
	case entity.StateProcessing:
		return msgProcessing
	case entity.StateAdjusting:
		return msgAdjustHint
	}
	return msgChooseGarment
}
