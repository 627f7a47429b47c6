package prescription

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rakshanam/clinic/internal/platform/store"
)

// VitalsRecorder writes a visit's measured weight and blood pressure back
// onto the patient record. Implemented by the patient repository and wired
// in at startup to keep the package dependency one-way.
type VitalsRecorder interface {
	RecordVitals(ctx context.Context, patientID, weight, bloodPressure string) error
}

var validMedicineTypes = map[string]bool{
	"Tablet": true, "Capsule": true, "Syrup": true, "Oil": true,
	"Cream": true, "Powder": true, "Injection": true, "Drops": true,
	"Inhaler": true, "Patch": true,
}

var validDosageTimes = map[string]bool{
	TimeMorning: true, TimeAfternoon: true, TimeEvening: true, TimeNight: true,
}

type Service struct {
	repo   Repository
	vitals VitalsRecorder
	log    zerolog.Logger
}

func NewService(repo Repository, vitals VitalsRecorder, log zerolog.Logger) *Service {
	return &Service{repo: repo, vitals: vitals, log: log}
}

func (s *Service) List(ctx context.Context) ([]*Prescription, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*Prescription, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) Get(ctx context.Context, id string) (*Prescription, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates and stores a new visit, then copies the measured vitals
// back onto the patient record. The two writes commit independently: a
// failed write-back leaves the prescription saved with stale patient vitals
// and the error is surfaced to the caller.
func (s *Service) Create(ctx context.Context, rx *Prescription) (string, error) {
	if err := validate(rx); err != nil {
		return "", err
	}
	if rx.AppointmentID == "" {
		rx.AppointmentID = uuid.NewString()
	}
	id, err := s.repo.Create(ctx, rx)
	if err != nil {
		return "", err
	}
	if err := s.recordVitals(ctx, rx.PatientID, rx.Weight, rx.BloodPressure); err != nil {
		return id, err
	}
	return id, nil
}

// Update applies a shallow patch. When the patch carries new vitals they are
// copied onto the patient record, again with no rollback on failure.
func (s *Service) Update(ctx context.Context, id string, patch Patch) error {
	if patch.Medicines != nil {
		for i, m := range *patch.Medicines {
			if err := validateMedicine(i, m); err != nil {
				return err
			}
		}
	}
	if patch.ChiefComplaints != nil && strings.TrimSpace(*patch.ChiefComplaints) == "" {
		return fmt.Errorf("chief complaints are required")
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return err
	}
	if patch.Weight == nil && patch.BloodPressure == nil {
		return nil
	}
	rx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("reload prescription %s: %w", id, err)
	}
	return s.recordVitals(ctx, rx.PatientID, rx.Weight, rx.BloodPressure)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) recordVitals(ctx context.Context, patientID, weight, bloodPressure string) error {
	if weight == "" && bloodPressure == "" {
		return nil
	}
	if err := s.vitals.RecordVitals(ctx, patientID, weight, bloodPressure); err != nil {
		s.log.Error().Err(err).Str("patient_id", patientID).
			Msg("vitals write-back failed, patient record is stale")
		return fmt.Errorf("record vitals for %s: %w", patientID, err)
	}
	return nil
}

func validate(rx *Prescription) error {
	if rx.PatientID == "" {
		return fmt.Errorf("patientId is required")
	}
	if rx.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if rx.Weight == "" {
		return fmt.Errorf("weight is required")
	}
	if strings.TrimSpace(rx.ChiefComplaints) == "" {
		return fmt.Errorf("chief complaints are required")
	}
	for i, m := range rx.Medicines {
		if err := validateMedicine(i, m); err != nil {
			return err
		}
	}
	return nil
}

func validateMedicine(i int, m Medicine) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("medicine %d: name is required", i+1)
	}
	if m.Type != "" && !validMedicineTypes[m.Type] {
		return fmt.Errorf("medicine %d: invalid type: %s", i+1, m.Type)
	}
	if len(m.Dosage) == 0 {
		return fmt.Errorf("medicine %d: at least one dosage is required", i+1)
	}
	seen := map[string]bool{}
	for _, d := range m.Dosage {
		if !validDosageTimes[d.Time] {
			return fmt.Errorf("medicine %d: invalid dosage time: %s", i+1, d.Time)
		}
		if seen[d.Time] {
			return fmt.Errorf("medicine %d: duplicate dosage time: %s", i+1, d.Time)
		}
		seen[d.Time] = true
		if d.Quantity == "" {
			return fmt.Errorf("medicine %d: dosage quantity is required", i+1)
		}
	}
	if m.Duration.IsZero() {
		return fmt.Errorf("medicine %d: duration is required", i+1)
	}
	return nil
}

// IsNotFound reports whether err is a missing-record miss.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
