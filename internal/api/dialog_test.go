package telegram

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"tryon-bot/internal/domain/entity"
)

func TestParseAdjust(t *testing.T) {
	adj, err := parseAdjust("10 -20 1.1")
	require.NoError(t, err)
	require.Equal(t, entity.AdjustmentParams{XOffset: 10, YOffset: -20, SizeFactor: 1.1}, adj)

	adj, err = parseAdjust("  5   7 ")
	require.NoError(t, err)
	require.Equal(t, entity.AdjustmentParams{XOffset: 5, YOffset: 7, SizeFactor: 1}, adj)

	adj, err = parseAdjust("0 0 0,5")
	require.NoError(t, err)
	require.Equal(t, 0.5, adj.SizeFactor)

	for _, bad := range []string{"", "1", "1 2 3 4", "a 2", "1 b", "1 2 big"} {
		_, err := parseAdjust(bad)
		require.Error(t, err, bad)
	}
}

func TestErrorReply(t *testing.T) {
	require.Contains(t, errorReply(entity.ErrSessionBusy), "подождите")
	require.Contains(t, errorReply(entity.ErrMissingAlphaChannel), "PNG")

	rejected := entity.NewError(entity.KindSuitabilityRejected, entity.ReasonMessage(entity.ReasonLegsTooFarApart))
	require.Equal(t, entity.ReasonMessage(entity.ReasonLegsTooFarApart), errorReply(rejected))
	require.Equal(t, entity.ErrNoPoseDetected.Reason, errorReply(entity.ErrNoPoseDetected))

	require.NotContains(t, errorReply(errors.New("dial tcp: refused")), "dial")
}

func TestPromptFor(t *testing.T) {
	require.Equal(t, msgSendModelPhoto, promptFor(entity.StateAwaitingModelPhoto))
	require.Equal(t, msgSendGarmentPhoto, promptFor(entity.StateAwaitingGarmentPhoto))
	require.Equal(t, msgAdjustHint, promptFor(entity.StateAdjusting))
	require.Equal(t, msgChooseGarment, promptFor(entity.StateMainMenu))
}

func TestImageFileID(t *testing.T) {
	id, ok := imageFileID(&tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}}})
	require.True(t, ok)
	require.Equal(t, "large", id)

	id, ok = imageFileID(&tgbotapi.Message{Document: &tgbotapi.Document{FileID: "doc", MimeType: "image/png"}})
	require.True(t, ok)
	require.Equal(t, "doc", id)

	_, ok = imageFileID(&tgbotapi.Message{Document: &tgbotapi.Document{FileID: "pdf", MimeType: "application/pdf"}})
	require.False(t, ok)

	_, ok = imageFileID(&tgbotapi.Message{Text: "hi"})
	require.False(t, ok)
}
