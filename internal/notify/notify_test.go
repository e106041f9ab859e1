package notify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPostFansOut(t *testing.T) {
	t.Parallel()

	c := NewChannel()
	var got []Toast
	cancel := c.Listen(func(toast Toast) { got = append(got, toast) })

	c.Post(LevelWarn, "unknown chain bsx, did you mean bsc?")
	require.Len(t, got, 1)
	require.Equal(t, LevelWarn, got[0].Level)
	require.NotEqual(t, got[0].ID.String(), "00000000-0000-0000-0000-000000000000")

	cancel()
	c.Post(LevelInfo, "ignored")
	require.Len(t, got, 1)
}

func TestPostWithoutListenersIsNoop(t *testing.T) {
	t.Parallel()

	c := NewChannel()
	c.Post(LevelInfo, "nobody listening")

	var nilChannel *Channel
	nilChannel.Post(LevelError, "nil channel is fine too")
}
