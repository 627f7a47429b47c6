package prescription

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rakshanam/clinic/internal/platform/store"
)

// Dosage time slots, in canonical display order.
const (
	TimeMorning   = "Morning"
	TimeAfternoon = "Afternoon"
	TimeEvening   = "Evening"
	TimeNight     = "Night"
)

// TimeOrder is the canonical ordering of dosage slots, regardless of the
// order they were entered in.
var TimeOrder = []string{TimeMorning, TimeAfternoon, TimeEvening, TimeNight}

// Prescription is one visit's clinical record. It points at its patient via
// PatientID; patients never embed prescription lists. FollowUpDate nil means
// no follow-up is scheduled.
type Prescription struct {
	ID                  string               `json:"id"`
	PatientID           string               `json:"patientId"`
	Date                time.Time            `json:"date"`
	Weight              string               `json:"weight,omitempty"`
	BloodPressure       string               `json:"bloodPressure,omitempty"`
	AfebrileTemperature bool                 `json:"afebrileTemperature,omitempty"`
	Temperature         string               `json:"temperature,omitempty"`
	Pulse               string               `json:"pulse,omitempty"`
	RespRate            string               `json:"respRate,omitempty"`
	SpO2                string               `json:"spo2,omitempty"`
	ChiefComplaints     string               `json:"chiefComplaints,omitempty"`
	ExamNotes           string               `json:"examNotes,omitempty"`
	Diagnosis           string               `json:"diagnosis,omitempty"`
	Medicines           []Medicine           `json:"medicines"`
	SpecialAdvice       string               `json:"specialAdvice,omitempty"`
	FollowUpDate        *time.Time           `json:"followUpDate"`
	AppointmentID       string               `json:"appointmentId,omitempty"`
	PanchkarmaProcesses []PanchkarmaProcess  `json:"panchkarmaProcesses,omitempty"`
	CreatedAt           int64                `json:"createdAt,omitempty"`
}

// Medicine is embedded in a prescription, never stored standalone. Duration
// components are independent: "2 months and 5 days" is valid and stays that
// way.
type Medicine struct {
	Name     string   `json:"name"`
	Type     string   `json:"type,omitempty"`
	Usage    string   `json:"usage,omitempty"`
	Dosage   []Dosage `json:"dosage"`
	Duration Duration `json:"duration"`
}

// Dosage is a time-of-day-scoped quantity and instruction. A medicine holds
// at most one dosage per slot.
type Dosage struct {
	Time         string `json:"time"`
	Quantity     string `json:"quantity"`
	Instructions string `json:"instructions,omitempty"`
}

// Duration components are never normalized into each other.
type Duration struct {
	Days   int `json:"days"`
	Months int `json:"months"`
	Years  int `json:"years"`
}

// IsZero reports whether no component is set.
func (d Duration) IsZero() bool {
	return d.Days == 0 && d.Months == 0 && d.Years == 0
}

// PanchkarmaProcess is a named bundle of therapeutic procedures attached to
// a visit.
type PanchkarmaProcess struct {
	Name       string           `json:"name"`
	Procedures []PanchkarmaItem `json:"procedures"`
}

type PanchkarmaItem struct {
	ProcedureName string `json:"procedureName"`
	Material      string `json:"material"`
	Days          int    `json:"days"`
}

// Patch is a typed shallow partial update. ClearFollowUp distinguishes
// "cancel the follow-up" (an explicit null in the request body) from "leave
// it alone" (key absent).
type Patch struct {
	PatientID           *string              `json:"patientId,omitempty"`
	Date                *time.Time           `json:"date,omitempty"`
	Weight              *string              `json:"weight,omitempty"`
	BloodPressure       *string              `json:"bloodPressure,omitempty"`
	AfebrileTemperature *bool                `json:"afebrileTemperature,omitempty"`
	Temperature         *string              `json:"temperature,omitempty"`
	Pulse               *string              `json:"pulse,omitempty"`
	RespRate            *string              `json:"respRate,omitempty"`
	SpO2                *string              `json:"spo2,omitempty"`
	ChiefComplaints     *string              `json:"chiefComplaints,omitempty"`
	ExamNotes           *string              `json:"examNotes,omitempty"`
	Diagnosis           *string              `json:"diagnosis,omitempty"`
	Medicines           *[]Medicine          `json:"medicines,omitempty"`
	SpecialAdvice       *string              `json:"specialAdvice,omitempty"`
	FollowUpDate        *time.Time           `json:"followUpDate,omitempty"`
	PanchkarmaProcesses *[]PanchkarmaProcess `json:"panchkarmaProcesses,omitempty"`

	ClearFollowUp bool `json:"-"`
}

// UnmarshalJSON tracks whether followUpDate was present as an explicit null.
func (p *Patch) UnmarshalJSON(b []byte) error {
	type alias Patch
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*p = Patch(a)

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}
	if raw, ok := probe["followUpDate"]; ok && string(raw) == "null" {
		p.ClearFollowUp = true
	}
	return nil
}

// Fields renders the patch as a store field bag containing only the set
// keys. An explicit nil marks followUpDate for removal.
func (p Patch) Fields() (store.Fields, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode prescription patch: %w", err)
	}
	var out store.Fields
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode prescription patch: %w", err)
	}
	if p.ClearFollowUp {
		out["followUpDate"] = nil
	}
	return out, nil
}

func fromFields(id string, rec store.Fields) (*Prescription, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode prescription %s: %w", id, err)
	}
	var rx Prescription
	if err := json.Unmarshal(raw, &rx); err != nil {
		return nil, fmt.Errorf("decode prescription %s: %w", id, err)
	}
	rx.ID = id
	return &rx, nil
}

func toFields(rx *Prescription) (store.Fields, error) {
	raw, err := json.Marshal(rx)
	if err != nil {
		return nil, fmt.Errorf("encode prescription: %w", err)
	}
	var out store.Fields
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode prescription: %w", err)
	}
	delete(out, "id")
	return out, nil
}
