package moderation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCensorMasksBlockedTerms(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator([]string{"scammer", "free money"}, '*')
	req.NoError(err)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain match", "you are a scammer", "you are a *******"},
		{"case insensitive", "you are a SCAMMER", "you are a *******"},
		{"leet substitution", "you are a sc4mm3r", "you are a *******"},
		{"spacing inside term", "free-money here", "********** here"},
		{"clean text untouched", "happy to help with school supplies", "happy to help with school supplies"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req.Equal(tt.want, mod.Censor(tt.in))
		})
	}
}

func TestCensorPreservesLength(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator([]string{"scammer"}, '*')
	req.NoError(err)

	in := "a scammer, truly"
	out := mod.Censor(in)
	req.Equal(len([]rune(in)), len([]rune(out)))
}

func TestDefaultBlocklist(t *testing.T) {
	req := require.New(t)
	mod, err := Default('*')
	req.NoError(err)

	out := mod.Censor("this is a guaranteed returns scheme")
	req.False(strings.Contains(out, "guaranteed returns"))
}
