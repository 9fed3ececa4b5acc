package services

import (
	"context"
	"strings"

	"givelink/domain"
	"givelink/errors"
	"givelink/observability"
	"givelink/repositories"

	"github.com/samber/lo"
)

type ISearchService interface {
	Match(ctx context.Context, actorID string, cmd domain.SearchCommand) ([]domain.Profile, error)
}

type SearchService struct {
	profileRepository repositories.IProfileRepository
	monitor           *observability.Monitor
	searchLimit       int
}

func NewSearchService(profileRepository repositories.IProfileRepository,
	monitor *observability.Monitor, searchLimit int) ISearchService {
	return &SearchService{
		profileRepository: profileRepository,
		monitor:           monitor,
		searchLimit:       searchLimit,
	}
}

// Match returns the completed profiles of the opposite role, filtered by
// location substring and cause tag, optionally narrowed by a free-text query
// against the profile index. Donors see help seekers and help seekers see
// donors, never their own side.
func (s *SearchService) Match(ctx context.Context, actorID string, cmd domain.SearchCommand) ([]domain.Profile, error) {
	actor, err := s.profileRepository.Get(actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Complete {
		return nil, errors.ErrProfileIncomplete
	}

	candidates, err := s.profileRepository.QueryCompletedByRole(actor.Role.Opposite())
	if err != nil {
		return nil, err
	}

	results := lo.Filter(candidates, func(p domain.Profile, _ int) bool {
		return p.MatchesLocation(cmd.Location) && p.MatchesCause(cmd.Cause)
	})

	if text := strings.TrimSpace(cmd.Text); text != "" {
		ids, err := s.profileRepository.SearchText(ctx, text, s.searchLimit)
		if err != nil {
			return nil, err
		}
		results = lo.Filter(results, func(p domain.Profile, _ int) bool {
			return lo.Contains(ids, p.UserID)
		})
	}

	if len(results) > s.searchLimit {
		results = results[:s.searchLimit]
	}

	s.monitor.IncrSearchesServed()
	return results, nil
}
