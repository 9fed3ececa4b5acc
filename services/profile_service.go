package services

import (
	"fmt"
	"time"

	"givelink/domain"
	"givelink/errors"
	"givelink/repositories"
	"givelink/storage"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ProfileForm is the payload of both the setup and the edit flows.
type ProfileForm struct {
	Name     string   `validate:"required,min=2,max=80"`
	Location string   `validate:"required,min=2,max=120"`
	Bio      string   `validate:"required,min=10,max=500"`
	Causes   []string `validate:"required,min=1,max=10"`
}

type IProfileService interface {
	Get(userID string) (domain.Profile, error)
	Setup(userID string, form ProfileForm) (domain.Profile, error)
	Edit(userID string, form ProfileForm) (domain.Profile, error)
	SaveImage(userID string, data []byte) (domain.Profile, error)
}

type ProfileService struct {
	profileRepository repositories.IProfileRepository
	blobs             *storage.BlobStore
}

func NewProfileService(profileRepository repositories.IProfileRepository, blobs *storage.BlobStore) IProfileService {
	return &ProfileService{profileRepository: profileRepository, blobs: blobs}
}

func (s *ProfileService) Get(userID string) (domain.Profile, error) {
	return s.profileRepository.Get(userID)
}

// Setup fills the profile for the first time and flips the completion flag.
// The flag transitions exactly once: a second setup call is rejected, later
// changes go through Edit.
func (s *ProfileService) Setup(userID string, form ProfileForm) (domain.Profile, error) {
	profile, err := s.profileRepository.Get(userID)
	if err != nil {
		return domain.Profile{}, err
	}
	if profile.Complete {
		return domain.Profile{}, errors.ErrProfileAlreadyComplete
	}

	updated, err := apply(profile, form)
	if err != nil {
		return domain.Profile{}, err
	}
	updated.Complete = true

	if err := s.profileRepository.Save(updated); err != nil {
		return domain.Profile{}, err
	}
	return updated, nil
}

// Edit updates the profile fields without ever touching the completion flag.
func (s *ProfileService) Edit(userID string, form ProfileForm) (domain.Profile, error) {
	profile, err := s.profileRepository.Get(userID)
	if err != nil {
		return domain.Profile{}, err
	}

	updated, err := apply(profile, form)
	if err != nil {
		return domain.Profile{}, err
	}

	if err := s.profileRepository.Save(updated); err != nil {
		return domain.Profile{}, err
	}
	return updated, nil
}

// SaveImage stores the picture and records its public URL on the profile.
func (s *ProfileService) SaveImage(userID string, data []byte) (domain.Profile, error) {
	profile, err := s.profileRepository.Get(userID)
	if err != nil {
		return domain.Profile{}, err
	}

	url, err := s.blobs.SaveImage(userID, data)
	if err != nil {
		return domain.Profile{}, err
	}

	profile.ImageURL = url
	profile.UpdatedAt = time.Now().UTC()
	if err := s.profileRepository.Save(profile); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

// apply validates the form and copies it onto the stored profile. Causes are
// normalized first and every tag must belong to the catalog.
func apply(profile domain.Profile, form ProfileForm) (domain.Profile, error) {
	form.Causes = domain.NormalizeCauses(form.Causes)

	if err := validate.Struct(form); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}
	for _, cause := range form.Causes {
		if !domain.IsKnownCause(cause) {
			return domain.Profile{}, fmt.Errorf("%w: %q", errors.ErrUnknownCause, cause)
		}
	}

	profile.Name = form.Name
	profile.Location = form.Location
	profile.Bio = form.Bio
	profile.Causes = form.Causes
	profile.UpdatedAt = time.Now().UTC()
	return profile, nil
}
