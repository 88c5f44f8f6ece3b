package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_DefaultState(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
}

func TestUser_Reset(t *testing.T) {
	u := NewUser(1, 10)
	u.Class = UpperBody
	u.ModelPhoto = []byte("photo")
	u.SessionID = "abc"
	u.SetState(StateAdjusting)

	u.Reset()
	require.Equal(t, StateMainMenu, u.State)
	require.Empty(t, u.Class)
	require.Nil(t, u.ModelPhoto)
	require.Empty(t, u.SessionID)
}
