package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestModerator(t *testing.T) Moderator {
	t.Helper()
	moderator, err := NewModerator([]string{"idiot", "loser"}, '*')
	require.NoError(t, err)
	return moderator
}

func TestCensor_Replaces_Forbidden_Words(t *testing.T) {
	req := require.New(t)
	moderator := newTestModerator(t)

	censored, found := moderator.Censor("you are an idiot sometimes")
	req.True(found)
	req.Equal("you are an ***** sometimes", censored)
}

func TestCensor_Catches_Leet_Speak(t *testing.T) {
	req := require.New(t)
	moderator := newTestModerator(t)

	censored, found := moderator.Censor("what a l0s3r")
	req.True(found)
	req.Equal("what a *****", censored)
}

func TestCensor_Catches_Separator_Tricks(t *testing.T) {
	req := require.New(t)
	moderator := newTestModerator(t)

	censored, found := moderator.Censor("i.d.i.o.t")
	req.True(found)
	req.NotContains(censored, "idiot")
}

func TestCensor_Leaves_Clean_Text_Alone(t *testing.T) {
	req := require.New(t)
	moderator := newTestModerator(t)

	original := "what a lovely day"
	censored, found := moderator.Censor(original)
	req.False(found)
	req.Equal(original, censored)
}
