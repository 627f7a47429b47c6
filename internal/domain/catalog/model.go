// Package catalog holds the reusable templates a prescription is composed
// from: saved medicines, common diagnoses, chief complaint snippets and
// Panchkarma process definitions. Selecting a template copies its content
// into the prescription; later edits to a template never touch visits that
// already used it.
package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/rakshanam/clinic/internal/domain/prescription"
	"github.com/rakshanam/clinic/internal/platform/store"
)

// SavedMedicine is a medicine template with default usage, dosage and
// duration.
type SavedMedicine struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Type            string                `json:"type,omitempty"`
	DefaultUsage    string                `json:"defaultUsage,omitempty"`
	DefaultDosage   []prescription.Dosage `json:"defaultDosage,omitempty"`
	DefaultDuration prescription.Duration `json:"defaultDuration"`
	CreatedAt       int64                 `json:"createdAt,omitempty"`
}

// Materialize copies the template into a prescription medicine. The copy is
// deep, so edits to the result never reach back into the template.
func (m *SavedMedicine) Materialize() prescription.Medicine {
	dosage := make([]prescription.Dosage, len(m.DefaultDosage))
	copy(dosage, m.DefaultDosage)
	return prescription.Medicine{
		Name:     m.Name,
		Type:     m.Type,
		Usage:    m.DefaultUsage,
		Dosage:   dosage,
		Duration: m.DefaultDuration,
	}
}

// CommonDiagnosis bundles a diagnosis text with the medicines usually
// prescribed for it.
type CommonDiagnosis struct {
	ID            string                  `json:"id"`
	DiseaseName   string                  `json:"diseaseName"`
	DiagnosisText string                  `json:"diagnosisText"`
	SpecialAdvice string                  `json:"specialAdvice,omitempty"`
	Medicines     []prescription.Medicine `json:"medicines,omitempty"`
	CreatedAt     int64                   `json:"createdAt,omitempty"`
}

// Materialize deep-copies the bundled medicines for insertion into a
// prescription.
func (d *CommonDiagnosis) Materialize() []prescription.Medicine {
	out := make([]prescription.Medicine, len(d.Medicines))
	for i, m := range d.Medicines {
		dosage := make([]prescription.Dosage, len(m.Dosage))
		copy(dosage, m.Dosage)
		m.Dosage = dosage
		out[i] = m
	}
	return out
}

// ChiefComplaint is a reusable complaint snippet.
type ChiefComplaint struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Complaint string `json:"complaint"`
	CreatedAt int64  `json:"createdAt,omitempty"`
}

// SavedPanchkarmaProcess is a named therapy plan template.
type SavedPanchkarmaProcess struct {
	ID         string                        `json:"id"`
	Name       string                        `json:"name"`
	Procedures []prescription.PanchkarmaItem `json:"procedures"`
	CreatedAt  int64                         `json:"createdAt,omitempty"`
}

// Materialize copies the template into a prescription-embedded process.
func (p *SavedPanchkarmaProcess) Materialize() prescription.PanchkarmaProcess {
	procs := make([]prescription.PanchkarmaItem, len(p.Procedures))
	copy(procs, p.Procedures)
	return prescription.PanchkarmaProcess{Name: p.Name, Procedures: procs}
}

func decodeRecord[T any](id string, rec store.Fields, setID func(*T, string)) (*T, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record %s: %w", id, err)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", id, err)
	}
	setID(&v, id)
	return &v, nil
}

func encodeRecord(v any) (store.Fields, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var out store.Fields
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	delete(out, "id")
	return out, nil
}
