package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rakshanam/clinic/internal/platform/store"
)

// Complaint snippets are pasted into a single form field, so their length is
// capped.
const maxComplaintLen = 1000

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Repo() *Repository {
	return s.repo
}

func (s *Service) CreateMedicine(ctx context.Context, m *SavedMedicine) (string, error) {
	if err := validateMedicine(m); err != nil {
		return "", err
	}
	return s.repo.Medicines.Create(ctx, m)
}

func (s *Service) UpdateMedicine(ctx context.Context, id string, m *SavedMedicine) error {
	if err := validateMedicine(m); err != nil {
		return err
	}
	return s.repo.Medicines.Update(ctx, id, m)
}

func (s *Service) CreateDiagnosis(ctx context.Context, d *CommonDiagnosis) (string, error) {
	if err := validateDiagnosis(d); err != nil {
		return "", err
	}
	return s.repo.Diagnoses.Create(ctx, d)
}

func (s *Service) UpdateDiagnosis(ctx context.Context, id string, d *CommonDiagnosis) error {
	if err := validateDiagnosis(d); err != nil {
		return err
	}
	return s.repo.Diagnoses.Update(ctx, id, d)
}

func (s *Service) CreateComplaint(ctx context.Context, c *ChiefComplaint) (string, error) {
	if err := validateComplaint(c); err != nil {
		return "", err
	}
	return s.repo.Complaints.Create(ctx, c)
}

func (s *Service) UpdateComplaint(ctx context.Context, id string, c *ChiefComplaint) error {
	if err := validateComplaint(c); err != nil {
		return err
	}
	return s.repo.Complaints.Update(ctx, id, c)
}

// CreatePanchkarma drops incomplete procedure rows before saving, matching
// how the entry form treats half-filled rows.
func (s *Service) CreatePanchkarma(ctx context.Context, p *SavedPanchkarmaProcess) (string, error) {
	if err := normalizePanchkarma(p); err != nil {
		return "", err
	}
	return s.repo.Panchkarma.Create(ctx, p)
}

func (s *Service) UpdatePanchkarma(ctx context.Context, id string, p *SavedPanchkarmaProcess) error {
	if err := normalizePanchkarma(p); err != nil {
		return err
	}
	return s.repo.Panchkarma.Update(ctx, id, p)
}

func validateMedicine(m *SavedMedicine) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("medicine name is required")
	}
	return nil
}

func validateDiagnosis(d *CommonDiagnosis) error {
	if strings.TrimSpace(d.DiseaseName) == "" {
		return fmt.Errorf("disease name is required")
	}
	if strings.TrimSpace(d.DiagnosisText) == "" {
		return fmt.Errorf("diagnosis text is required")
	}
	return nil
}

func validateComplaint(c *ChiefComplaint) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("complaint name is required")
	}
	if strings.TrimSpace(c.Complaint) == "" {
		return fmt.Errorf("complaint text is required")
	}
	if len(c.Complaint) > maxComplaintLen {
		return fmt.Errorf("complaint text exceeds %d characters", maxComplaintLen)
	}
	return nil
}

func normalizePanchkarma(p *SavedPanchkarmaProcess) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("process name is required")
	}
	kept := p.Procedures[:0]
	for _, proc := range p.Procedures {
		if strings.TrimSpace(proc.ProcedureName) != "" && strings.TrimSpace(proc.Material) != "" && proc.Days > 0 {
			kept = append(kept, proc)
		}
	}
	p.Procedures = kept
	if len(p.Procedures) == 0 {
		return fmt.Errorf("at least one complete procedure is required")
	}
	return nil
}

// IsNotFound reports whether err is a missing-record miss.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
