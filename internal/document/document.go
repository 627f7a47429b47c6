// Package document assembles a (patient, prescription) pair into the
// printable prescription layout: a fixed front clinical page and an
// optional back page carrying Panchkarma procedures and advice.
package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/rakshanam/clinic/internal/domain/patient"
	"github.com/rakshanam/clinic/internal/domain/prescription"
)

// Config is the letterhead and locale applied to every printed document.
type Config struct {
	HospitalName        string
	HospitalAddress     string
	HospitalContact     string
	DoctorName          string
	DoctorQualification string
	DoctorRegistration  string
	// Locale selects the unit words and dosage slot labels: "hi" or "en".
	Locale string
}

// Document is the fully resolved print layout. Every field is display-ready
// text; rendering adds no further logic beyond skipping empty values.
type Document struct {
	Letterhead Config          `json:"letterhead"`
	Identity   Identity        `json:"identity"`
	Vitals     Vitals          `json:"vitals"`
	// Free text, "None specified" when the record carries none.
	ChiefComplaints string          `json:"chiefComplaints"`
	Diagnosis       string          `json:"diagnosis"`
	ExamNotes       []string        `json:"examNotes,omitempty"`
	Medicines       []MedicineEntry `json:"medicines"`
	Panchkarma      []PanchkarmaRow `json:"panchkarma,omitempty"`
	Advice          []string        `json:"advice,omitempty"`
	FollowUp        *FollowUp       `json:"followUp,omitempty"`
	// Panchkarma content or advice gates an entire second page.
	HasBackPage bool `json:"hasBackPage"`
}

type Identity struct {
	Name      string `json:"name"`
	AgeGender string `json:"ageGender"`
	Address   string `json:"address,omitempty"`
	PatientID string `json:"patientId"`
	Date      string `json:"date"`
}

// Vitals are each independently optional; empty strings are skipped by the
// renderer.
type Vitals struct {
	Pulse         string `json:"pulse,omitempty"`
	BloodPressure string `json:"bloodPressure,omitempty"`
	Weight        string `json:"weight,omitempty"`
	Temperature   string `json:"temperature,omitempty"`
	RespRate      string `json:"respRate,omitempty"`
	SpO2          string `json:"spo2,omitempty"`
}

type MedicineEntry struct {
	Seq          int          `json:"seq"`
	Name         string       `json:"name"`
	Type         string       `json:"type,omitempty"`
	DurationText string       `json:"durationText"`
	Dosage       []DosageLine `json:"dosage"`
}

type DosageLine struct {
	Label        string `json:"label"`
	Quantity     string `json:"quantity"`
	Instructions string `json:"instructions,omitempty"`
}

type PanchkarmaRow struct {
	Seq       int    `json:"seq"`
	Process   string `json:"process"`
	Procedure string `json:"procedure"`
	Material  string `json:"material"`
	Days      int    `json:"days"`
}

type FollowUp struct {
	Date          string `json:"date"`
	AppointmentID string `json:"appointmentId,omitempty"`
}

type localeStrings struct {
	day, month, year string
	slots            map[string]string
}

var locales = map[string]localeStrings{
	"hi": {
		day:   "दिन",
		month: "महीने",
		year:  "वर्ष",
		slots: map[string]string{
			prescription.TimeMorning:   "सुबह",
			prescription.TimeAfternoon: "दोपहर",
			prescription.TimeEvening:   "शाम",
			prescription.TimeNight:     "रात",
		},
	},
	"en": {
		day:   "days",
		month: "months",
		year:  "years",
		slots: map[string]string{
			prescription.TimeMorning:   "Morning",
			prescription.TimeAfternoon: "Afternoon",
			prescription.TimeEvening:   "Evening",
			prescription.TimeNight:     "Night",
		},
	},
}

// Assemble resolves the pair into a Document. It never fails: missing
// optional fields become empty sections and defensive defaults cover the
// required ones.
func Assemble(p *patient.Patient, rx *prescription.Prescription, cfg Config) *Document {
	loc, ok := locales[cfg.Locale]
	if !ok {
		loc = locales["hi"]
	}

	doc := &Document{
		Letterhead:      cfg,
		Identity:        identity(p, rx),
		Vitals:          vitals(rx),
		ChiefComplaints: orDefault(rx.ChiefComplaints, "None specified"),
		Diagnosis:       orDefault(rx.Diagnosis, "Not specified"),
		ExamNotes:       splitLines(rx.ExamNotes),
		Advice:          splitLines(rx.SpecialAdvice),
	}

	for i, med := range rx.Medicines {
		doc.Medicines = append(doc.Medicines, MedicineEntry{
			Seq:          i + 1,
			Name:         med.Name,
			Type:         med.Type,
			DurationText: durationText(med.Duration, loc),
			Dosage:       dosageLines(med.Dosage, loc),
		})
	}

	seq := 0
	for _, proc := range rx.PanchkarmaProcesses {
		for _, item := range proc.Procedures {
			seq++
			doc.Panchkarma = append(doc.Panchkarma, PanchkarmaRow{
				Seq:       seq,
				Process:   proc.Name,
				Procedure: item.ProcedureName,
				Material:  item.Material,
				Days:      item.Days,
			})
		}
	}

	if rx.FollowUpDate != nil {
		doc.FollowUp = &FollowUp{
			Date:          ordinalDate(*rx.FollowUpDate),
			AppointmentID: truncate(rx.AppointmentID, 8),
		}
	}

	doc.HasBackPage = len(doc.Panchkarma) > 0 || len(doc.Advice) > 0
	return doc
}

func identity(p *patient.Patient, rx *prescription.Prescription) Identity {
	ageGender := p.Age
	if p.Gender != "" {
		ageGender += "/" + p.Gender
	}
	return Identity{
		Name:      p.Name,
		AgeGender: ageGender,
		Address:   p.Address,
		PatientID: strings.ToUpper(truncate(p.ID, 10)),
		Date:      rx.Date.Format("02-Jan-2006"),
	}
}

func vitals(rx *prescription.Prescription) Vitals {
	temp := rx.Temperature
	if rx.AfebrileTemperature {
		temp = "Afebrile"
	}
	return Vitals{
		Pulse:         rx.Pulse,
		BloodPressure: rx.BloodPressure,
		Weight:        rx.Weight,
		Temperature:   temp,
		RespRate:      rx.RespRate,
		SpO2:          rx.SpO2,
	}
}

// durationText concatenates the non-zero components in fixed day, month,
// year order. Components are never normalized into each other: 35 days
// stays "35 दिन", never "1 महीने 5 दिन".
func durationText(d prescription.Duration, loc localeStrings) string {
	parts := make([]string, 0, 3)
	if d.Days > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", d.Days, loc.day))
	}
	if d.Months > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", d.Months, loc.month))
	}
	if d.Years > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", d.Years, loc.year))
	}
	return strings.Join(parts, " ")
}

// dosageLines sorts slots into canonical Morning, Afternoon, Evening, Night
// order regardless of input order.
func dosageLines(dosage []prescription.Dosage, loc localeStrings) []DosageLine {
	out := make([]DosageLine, 0, len(dosage))
	for _, slot := range prescription.TimeOrder {
		for _, d := range dosage {
			if d.Time != slot {
				continue
			}
			label := loc.slots[d.Time]
			if label == "" {
				label = d.Time
			}
			out = append(out, DosageLine{Label: label, Quantity: d.Quantity, Instructions: d.Instructions})
		}
	}
	return out
}

// ordinalDate renders "2nd June, 2025".
func ordinalDate(t time.Time) string {
	return fmt.Sprintf("%s %s, %d", ordinal(t.Day()), t.Month().String(), t.Year())
}

func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func splitLines(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	raw := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
