package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rakshanam/clinic/internal/platform/store"
)

// VisitPurger deletes all prescriptions belonging to a patient, returning
// how many were removed. Implemented by the prescription repository and
// wired in at startup to keep the package dependency one-way.
type VisitPurger interface {
	DeleteByPatient(ctx context.Context, patientID string) (int, error)
}

var validGenders = map[string]bool{
	"Male": true, "Female": true, "Other": true,
}

var validBloodGroups = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

type Service struct {
	repo   Repository
	visits VisitPurger
	log    zerolog.Logger
}

func NewService(repo Repository, visits VisitPurger, log zerolog.Logger) *Service {
	return &Service{repo: repo, visits: visits, log: log}
}

func (s *Service) List(ctx context.Context) ([]*Patient, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, p *Patient) (string, error) {
	if p.Name == "" {
		return "", fmt.Errorf("name is required")
	}
	if p.Age == "" {
		return "", fmt.Errorf("age is required")
	}
	if p.Weight == "" {
		return "", fmt.Errorf("weight is required")
	}
	if p.Gender != "" && !validGenders[p.Gender] {
		return "", fmt.Errorf("invalid gender: %s", p.Gender)
	}
	if p.BloodGroup != "" && !validBloodGroups[p.BloodGroup] {
		return "", fmt.Errorf("invalid blood group: %s", p.BloodGroup)
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) error {
	if patch.Gender != nil && *patch.Gender != "" && !validGenders[*patch.Gender] {
		return fmt.Errorf("invalid gender: %s", *patch.Gender)
	}
	if patch.BloodGroup != nil && *patch.BloodGroup != "" && !validBloodGroups[*patch.BloodGroup] {
		return fmt.Errorf("invalid blood group: %s", *patch.BloodGroup)
	}
	return s.repo.Update(ctx, id, patch)
}

// Delete removes the patient, then cascades to that patient's prescriptions.
// The two steps commit independently: if the cascade fails after the patient
// record is gone, orphaned prescriptions remain and the error is surfaced.
// There is no rollback and no later self-healing.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete patient %s: %w", id, err)
	}
	n, err := s.visits.DeleteByPatient(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Str("patient_id", id).
			Msg("cascade delete left orphaned prescriptions")
		return fmt.Errorf("cascade prescriptions for %s: %w", id, err)
	}
	s.log.Info().Str("patient_id", id).Int("prescriptions", n).Msg("patient deleted")
	return nil
}

func (s *Service) Watch(id string, fn func(*Patient)) func() {
	return s.repo.Watch(id, fn)
}

// IsNotFound reports whether err is a missing-record miss.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
