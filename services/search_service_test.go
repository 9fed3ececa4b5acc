package services

import (
	"context"
	"log/slog"
	"testing"

	"givelink/domain"
	"givelink/errors"
	"givelink/mocks"
	"givelink/observability"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func searchFixtures() (domain.Profile, []domain.Profile) {
	donor := domain.Profile{UserID: "donor-1", Role: domain.RoleDonor, Location: "Paris", Complete: true}
	seekers := []domain.Profile{
		{UserID: "seeker-1", Role: domain.RoleHelpSeeker, Location: "Paris 11e", Causes: []string{"education"}, Complete: true},
		{UserID: "seeker-2", Role: domain.RoleHelpSeeker, Location: "Lyon", Causes: []string{"education", "food"}, Complete: true},
		{UserID: "seeker-3", Role: domain.RoleHelpSeeker, Location: "paris", Causes: []string{"healthcare"}, Complete: true},
	}
	return donor, seekers
}

func TestSearchService_Match(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProfiles := mocks.NewMockIProfileRepository(ctrl)
	monitor := observability.NewMonitor(slog.Default())
	svc := NewSearchService(mockProfiles, monitor, 50)

	donor, seekers := searchFixtures()

	t.Run("matches the opposite role with both filters", func(t *testing.T) {
		req := require.New(t)

		mockProfiles.EXPECT().Get(donor.UserID).Return(donor, nil).Times(1)
		mockProfiles.EXPECT().QueryCompletedByRole(domain.RoleHelpSeeker).Return(seekers, nil).Times(1)

		results, err := svc.Match(context.Background(), donor.UserID, domain.SearchCommand{Location: "paris", Cause: "education"})

		req.NoError(err)
		req.Len(results, 1)
		req.Equal("seeker-1", results[0].UserID)
	})

	t.Run("the all sentinel disables the cause filter", func(t *testing.T) {
		req := require.New(t)

		mockProfiles.EXPECT().Get(donor.UserID).Return(donor, nil).Times(1)
		mockProfiles.EXPECT().QueryCompletedByRole(domain.RoleHelpSeeker).Return(seekers, nil).Times(1)

		results, err := svc.Match(context.Background(), donor.UserID, domain.SearchCommand{Cause: domain.CauseAll})

		req.NoError(err)
		req.Len(results, 3)
	})

	t.Run("free text narrows via the index", func(t *testing.T) {
		req := require.New(t)

		mockProfiles.EXPECT().Get(donor.UserID).Return(donor, nil).Times(1)
		mockProfiles.EXPECT().QueryCompletedByRole(domain.RoleHelpSeeker).Return(seekers, nil).Times(1)
		mockProfiles.EXPECT().SearchText(gomock.Any(), "tutoring", 50).Return([]string{"seeker-2"}, nil).Times(1)

		results, err := svc.Match(context.Background(), donor.UserID, domain.SearchCommand{Text: "tutoring"})

		req.NoError(err)
		ids := lo.Map(results, func(p domain.Profile, _ int) string { return p.UserID })
		req.Equal([]string{"seeker-2"}, ids)
	})

	t.Run("an incomplete actor cannot search", func(t *testing.T) {
		req := require.New(t)

		incomplete := donor
		incomplete.Complete = false
		mockProfiles.EXPECT().Get(donor.UserID).Return(incomplete, nil).Times(1)

		_, err := svc.Match(context.Background(), donor.UserID, domain.SearchCommand{})

		req.ErrorIs(err, errors.ErrProfileIncomplete)
	})
}
