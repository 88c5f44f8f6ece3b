package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSession_InitState(t *testing.T) {
	s := NewSession("s1", UpperBody, nil, nil)
	require.Equal(t, SessionInit, s.State())
	require.False(t, s.Closed())

	s.SetState(SessionTerminal)
	require.True(t, s.Closed())
}

func TestSession_TryAcquireIsExclusive(t *testing.T) {
	s := NewSession("s1", LowerBody, nil, nil)
	require.True(t, s.TryAcquire())
	require.False(t, s.TryAcquire())
	s.Release()
	require.True(t, s.TryAcquire())
	s.Release()
}
