// Package dashboard computes the cross-entity views: upcoming follow-ups,
// recent visits, and per-patient charts. Views are recomputed from full
// collection scans on every call; nothing here is cached or persisted.
package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/rakshanam/clinic/internal/domain/patient"
	"github.com/rakshanam/clinic/internal/domain/prescription"
)

const (
	DefaultFollowUpDays    = 4
	DefaultRecentVisitDays = 7
)

// FollowUp pairs a scheduled follow-up with the patient it belongs to.
type FollowUp struct {
	Patient      *patient.Patient           `json:"patient"`
	Prescription *prescription.Prescription `json:"prescription"`
	FollowUpDate time.Time                  `json:"followUpDate"`
}

// Visit pairs a patient with one of their visits inside the lookback window.
type Visit struct {
	Patient      *patient.Patient           `json:"patient"`
	Prescription *prescription.Prescription `json:"prescription"`
	VisitDate    time.Time                  `json:"visitDate"`
}

// Chart is the full clinical view of one patient: the demographic record,
// visit history newest first, and a summary lifted from the latest visit.
type Chart struct {
	Patient          *patient.Patient             `json:"patient"`
	Prescriptions    []*prescription.Prescription `json:"prescriptions"`
	CurrentMedicines []prescription.Medicine      `json:"currentMedicines"`
	SpecialNotes     string                       `json:"specialNotes,omitempty"`
}

// PatientWithVisits is a patient plus their visit history, newest first.
type PatientWithVisits struct {
	*patient.Patient
	Prescriptions []*prescription.Prescription `json:"prescriptions"`
}

type Service struct {
	patients patient.Repository
	visits   prescription.Repository
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(patients patient.Repository, visits prescription.Repository, log zerolog.Logger) *Service {
	return &Service{patients: patients, visits: visits, log: log, now: time.Now}
}

// UpcomingFollowUps returns follow-ups scheduled within the next daysAhead
// calendar days, both ends inclusive. A follow-up due today counts even
// late in the evening; only the calendar date matters. Prescriptions whose
// patient no longer resolves are dropped from the view, not surfaced as
// errors.
func (s *Service) UpcomingFollowUps(ctx context.Context, daysAhead int) ([]FollowUp, error) {
	if daysAhead <= 0 {
		daysAhead = DefaultFollowUpDays
	}
	all, err := s.visits.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.now())
	end := today.AddDate(0, 0, daysAhead)

	cache := map[string]*patient.Patient{}
	out := make([]FollowUp, 0)
	for _, rx := range all {
		if rx.FollowUpDate == nil {
			continue
		}
		due := dateOnly(*rx.FollowUpDate)
		if due.Before(today) || due.After(end) {
			continue
		}
		p := s.resolvePatient(ctx, cache, rx.PatientID)
		if p == nil {
			continue
		}
		out = append(out, FollowUp{Patient: p, Prescription: rx, FollowUpDate: *rx.FollowUpDate})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FollowUpDate.Before(out[j].FollowUpDate)
	})
	return out, nil
}

// RecentVisits returns one visit per patient from the last daysBack days.
// Deduplication keeps the first prescription seen per patient in scan
// order, which is not necessarily that patient's newest visit; the kept
// entries then sort newest first.
func (s *Service) RecentVisits(ctx context.Context, daysBack int) ([]Visit, error) {
	if daysBack <= 0 {
		daysBack = DefaultRecentVisitDays
	}
	all, err := s.visits.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	start := now.AddDate(0, 0, -daysBack)

	cache := map[string]*patient.Patient{}
	seen := map[string]bool{}
	out := make([]Visit, 0)
	for _, rx := range all {
		if rx.Date.Before(start) || rx.Date.After(now) {
			continue
		}
		if seen[rx.PatientID] {
			continue
		}
		p := s.resolvePatient(ctx, cache, rx.PatientID)
		if p == nil {
			continue
		}
		seen[rx.PatientID] = true
		out = append(out, Visit{Patient: p, Prescription: rx, VisitDate: rx.Date})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].VisitDate.After(out[j].VisitDate)
	})
	return out, nil
}

// PatientChart loads one patient with their visit history. The summary
// fields come from the newest visit; an empty history leaves them empty.
func (s *Service) PatientChart(ctx context.Context, id string) (*Chart, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	visits, err := s.visits.ListByPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	chart := &Chart{Patient: p, Prescriptions: visits}
	if len(visits) > 0 {
		chart.CurrentMedicines = visits[0].Medicines
		chart.SpecialNotes = visits[0].SpecialAdvice
	}
	return chart, nil
}

// ListPatientsWithVisits returns every patient, sorted by name, with visit
// history attached. One prescription scan serves all patients.
func (s *Service) ListPatientsWithVisits(ctx context.Context) ([]PatientWithVisits, error) {
	patients, err := s.patients.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.visits.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byPatient := map[string][]*prescription.Prescription{}
	for _, rx := range all {
		byPatient[rx.PatientID] = append(byPatient[rx.PatientID], rx)
	}
	for _, visits := range byPatient {
		sort.SliceStable(visits, func(i, j int) bool {
			return visits[i].Date.After(visits[j].Date)
		})
	}
	out := make([]PatientWithVisits, 0, len(patients))
	for _, p := range patients {
		visits := byPatient[p.ID]
		if visits == nil {
			visits = []*prescription.Prescription{}
		}
		out = append(out, PatientWithVisits{Patient: p, Prescriptions: visits})
	}
	return out, nil
}

// WatchPatient streams changes to one patient record.
func (s *Service) WatchPatient(id string, fn func(*patient.Patient)) func() {
	return s.patients.Watch(id, fn)
}

func (s *Service) resolvePatient(ctx context.Context, cache map[string]*patient.Patient, id string) *patient.Patient {
	if p, ok := cache[id]; ok {
		return p
	}
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		if !patient.IsNotFound(err) {
			s.log.Warn().Err(err).Str("patient_id", id).Msg("patient lookup failed, dropping from view")
		}
		cache[id] = nil
		return nil
	}
	cache[id] = p
	return p
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
