package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRole_Opposite(t *testing.T) {
	req := require.New(t)
	req.Equal(RoleHelpSeeker, RoleDonor.Opposite())
	req.Equal(RoleDonor, RoleHelpSeeker.Opposite())
}

func TestParseRole(t *testing.T) {
	req := require.New(t)

	role, err := ParseRole("donor")
	req.NoError(err)
	req.Equal(RoleDonor, role)

	role, err = ParseRole("help-seeker")
	req.NoError(err)
	req.Equal(RoleHelpSeeker, role)

	_, err = ParseRole("wizard")
	req.Error(err)
}

func TestNormalizeCauses(t *testing.T) {
	req := require.New(t)

	normalized := NormalizeCauses([]string{" Education", "education", "FOOD", "food "})
	req.Equal([]string{"education", "food"}, normalized)
}

func TestProfile_MatchesLocation(t *testing.T) {
	profile := Profile{Location: "Springfield, IL"}
	tests := []struct {
		name   string
		filter string
		want   bool
	}{
		{"empty filter matches all", "", true},
		{"blank filter matches all", "   ", true},
		{"case-insensitive substring", "springfield", true},
		{"partial match", "IL", true},
		{"no match", "Chicago", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, profile.MatchesLocation(tt.filter))
		})
	}
}

func TestProfile_MatchesCause(t *testing.T) {
	req := require.New(t)
	profile := Profile{Causes: []string{"education", "food"}}

	req.True(profile.MatchesCause("education"))
	req.True(profile.MatchesCause(CauseAll))
	req.True(profile.MatchesCause(""))
	req.False(profile.MatchesCause("healthcare"))
}

func TestPairKey_Is_Order_Independent(t *testing.T) {
	req := require.New(t)
	req.Equal(PairKey("alice", "bob"), PairKey("bob", "alice"))
	req.NotEqual(PairKey("alice", "bob"), PairKey("alice", "carol"))
}

func TestConversation_Has_And_Other(t *testing.T) {
	req := require.New(t)
	conversation := Conversation{Participants: [2]string{"alice", "bob"}}

	req.True(conversation.Has("alice"))
	req.True(conversation.Has("bob"))
	req.False(conversation.Has("eve"))
	req.Equal("bob", conversation.Other("alice"))
	req.Equal("alice", conversation.Other("bob"))
}
