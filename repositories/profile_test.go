package repositories

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"givelink/domain"
	"givelink/errors"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openTestProfileRepository(t *testing.T) IProfileRepository {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewProfileRepository(openTestDB(t), writer, slog.Default())
}

func testProfile(role domain.Role, complete bool) domain.Profile {
	id := uuid.New().String()
	return domain.Profile{
		UserID:    id,
		Email:     id + "@example.com",
		Role:      role,
		Name:      "Alice Martin",
		Location:  "Springfield, IL",
		Bio:       "Retired teacher happy to fund school supplies.",
		Causes:    []string{"education", "children"},
		Complete:  complete,
		UpdatedAt: time.Now().UTC(),
	}
}

func Test_Profile_Round_Trip(t *testing.T) {
	req := require.New(t)
	repository := openTestProfileRepository(t)

	profile := testProfile(domain.RoleDonor, true)
	req.NoError(repository.Save(profile))

	fetched, err := repository.Get(profile.UserID)
	req.NoError(err)
	req.Equal(profile, fetched)

	// The cause set survives untouched: no duplicates, no silent drops.
	req.ElementsMatch([]string{"education", "children"}, fetched.Causes)

	byEmail, err := repository.GetByEmail(profile.Email)
	req.NoError(err)
	req.Equal(profile.UserID, byEmail.UserID)
}

func Test_Get_Missing_Profile(t *testing.T) {
	req := require.New(t)
	repository := openTestProfileRepository(t)

	_, err := repository.Get("missing")
	req.ErrorIs(err, errors.ErrProfileNotFound)

	_, err = repository.GetByEmail("missing@example.com")
	req.ErrorIs(err, errors.ErrProfileNotFound)
}

func Test_QueryCompletedByRole_Filters_Role_And_Completion(t *testing.T) {
	req := require.New(t)
	repository := openTestProfileRepository(t)

	donor := testProfile(domain.RoleDonor, true)
	seeker := testProfile(domain.RoleHelpSeeker, true)
	incompleteSeeker := testProfile(domain.RoleHelpSeeker, false)
	for _, profile := range []domain.Profile{donor, seeker, incompleteSeeker} {
		req.NoError(repository.Save(profile))
	}

	seekers, err := repository.QueryCompletedByRole(domain.RoleHelpSeeker)
	req.NoError(err)
	req.Len(seekers, 1)
	req.Equal(seeker.UserID, seekers[0].UserID)

	// Incomplete profiles must never surface, whatever the role.
	ids := lo.Map(seekers, func(p domain.Profile, _ int) string { return p.UserID })
	req.NotContains(ids, incompleteSeeker.UserID)
}

func Test_SearchText_Finds_Profiles_By_Bio(t *testing.T) {
	req := require.New(t)
	repository := openTestProfileRepository(t)

	teacher := testProfile(domain.RoleDonor, true)
	teacher.Bio = "Funding scholarships for rural students."
	nurse := testProfile(domain.RoleDonor, true)
	nurse.Bio = "Volunteer nurse supporting free clinics."
	req.NoError(repository.Save(teacher))
	req.NoError(repository.Save(nurse))

	ids, err := repository.SearchText(context.Background(), "scholarships", 10)
	req.NoError(err)
	req.Contains(ids, teacher.UserID)
	req.NotContains(ids, nurse.UserID)
}
