package document

import (
	"strings"
	"testing"
	"time"

	"github.com/rakshanam/clinic/internal/domain/patient"
	"github.com/rakshanam/clinic/internal/domain/prescription"
)

var testConfig = Config{
	HospitalName:        "Rakshanam Ayurveda Hospital",
	HospitalAddress:     "Khairagarh, Chhattisgarh",
	HospitalContact:     "+91 98765 43210",
	DoctorName:          "Dr. Gaurav Puri",
	DoctorQualification: "(B.A.M.S) Ayurveda",
	DoctorRegistration:  "Registration Number: 60599",
	Locale:              "hi",
}

func testPatient() *patient.Patient {
	return &patient.Patient{
		ID:      "250101001",
		Name:    "Smt Tilkan",
		Age:     "62",
		Gender:  "Female",
		Address: "Khairagarh",
	}
}

func testPrescription() *prescription.Prescription {
	return &prescription.Prescription{
		ID:              "rx-1",
		PatientID:       "250101001",
		Date:            time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC),
		Weight:          "58",
		BloodPressure:   "130/85",
		Pulse:           "78",
		ChiefComplaints: "Knee pain for 2 weeks",
		Diagnosis:       "Janu Sandhigata Vata",
		Medicines: []prescription.Medicine{{
			Name:     "Yograj Guggulu",
			Type:     "Tablet",
			Duration: prescription.Duration{Days: 15},
			Dosage: []prescription.Dosage{
				{Time: prescription.TimeNight, Quantity: "2"},
				{Time: prescription.TimeMorning, Quantity: "2", Instructions: "After meals"},
				{Time: prescription.TimeEvening, Quantity: "1"},
			},
		}},
	}
}

func TestDurationTextFixedOrderNeverNormalized(t *testing.T) {
	loc := locales["hi"]

	cases := []struct {
		d    prescription.Duration
		want string
	}{
		{prescription.Duration{Days: 15}, "15 दिन"},
		{prescription.Duration{Days: 35, Months: 2}, "35 दिन 2 महीने"},
		{prescription.Duration{Months: 3}, "3 महीने"},
		{prescription.Duration{Days: 1, Months: 2, Years: 1}, "1 दिन 2 महीने 1 वर्ष"},
		{prescription.Duration{Years: 2}, "2 वर्ष"},
		{prescription.Duration{}, ""},
	}
	for _, tc := range cases {
		if got := durationText(tc.d, loc); got != tc.want {
			t.Errorf("durationText(%+v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestDurationTextEnglishLocale(t *testing.T) {
	got := durationText(prescription.Duration{Days: 35, Months: 2}, locales["en"])
	if got != "35 days 2 months" {
		t.Errorf("got %q", got)
	}
}

func TestDosageCanonicalOrder(t *testing.T) {
	doc := Assemble(testPatient(), testPrescription(), testConfig)

	dosage := doc.Medicines[0].Dosage
	if len(dosage) != 3 {
		t.Fatalf("got %d dosage lines, want 3", len(dosage))
	}
	// Entered Night, Morning, Evening; must render Morning, Evening, Night
	// with the unset Afternoon slot simply absent.
	if dosage[0].Label != "सुबह" || dosage[1].Label != "शाम" || dosage[2].Label != "रात" {
		t.Errorf("labels = %q, %q, %q; want सुबह, शाम, रात", dosage[0].Label, dosage[1].Label, dosage[2].Label)
	}
	if dosage[0].Instructions != "After meals" {
		t.Errorf("instructions = %q", dosage[0].Instructions)
	}
}

func TestDosageEnglishLabels(t *testing.T) {
	cfg := testConfig
	cfg.Locale = "en"
	doc := Assemble(testPatient(), testPrescription(), cfg)
	if doc.Medicines[0].Dosage[0].Label != "Morning" {
		t.Errorf("label = %q, want Morning", doc.Medicines[0].Dosage[0].Label)
	}
}

func TestIdentityBlock(t *testing.T) {
	p := testPatient()
	p.ID = "250101001extra"
	doc := Assemble(p, testPrescription(), testConfig)

	if doc.Identity.PatientID != "250101001E" {
		t.Errorf("patientId = %q, want first 10 chars uppercased", doc.Identity.PatientID)
	}
	if doc.Identity.AgeGender != "62/Female" {
		t.Errorf("ageGender = %q", doc.Identity.AgeGender)
	}
	if doc.Identity.Date != "02-Jun-2025" {
		t.Errorf("date = %q, want 02-Jun-2025", doc.Identity.Date)
	}
}

func TestDefensiveDefaults(t *testing.T) {
	rx := testPrescription()
	rx.ChiefComplaints = ""
	rx.Diagnosis = "  "
	doc := Assemble(testPatient(), rx, testConfig)

	if doc.ChiefComplaints != "None specified" {
		t.Errorf("chiefComplaints = %q", doc.ChiefComplaints)
	}
	if doc.Diagnosis != "Not specified" {
		t.Errorf("diagnosis = %q", doc.Diagnosis)
	}
}

func TestAfebrileOverridesTemperature(t *testing.T) {
	rx := testPrescription()
	rx.Temperature = "99.1"
	rx.AfebrileTemperature = true
	doc := Assemble(testPatient(), rx, testConfig)
	if doc.Vitals.Temperature != "Afebrile" {
		t.Errorf("temperature = %q, want Afebrile", doc.Vitals.Temperature)
	}

	rx.AfebrileTemperature = false
	doc = Assemble(testPatient(), rx, testConfig)
	if doc.Vitals.Temperature != "99.1" {
		t.Errorf("temperature = %q, want the reading", doc.Vitals.Temperature)
	}
}

func TestBackPageGate(t *testing.T) {
	rx := testPrescription()
	doc := Assemble(testPatient(), rx, testConfig)
	if doc.HasBackPage {
		t.Error("no panchkarma and no advice should not gate a back page")
	}

	rx.SpecialAdvice = "Avoid cold water\nGentle walking daily"
	doc = Assemble(testPatient(), rx, testConfig)
	if !doc.HasBackPage {
		t.Error("advice should gate the back page")
	}
	if len(doc.Advice) != 2 || doc.Advice[1] != "Gentle walking daily" {
		t.Errorf("advice = %v", doc.Advice)
	}

	rx.SpecialAdvice = ""
	rx.PanchkarmaProcesses = []prescription.PanchkarmaProcess{{
		Name: "Janu Basti Course",
		Procedures: []prescription.PanchkarmaItem{
			{ProcedureName: "Janu Basti", Material: "Mahanarayan Taila", Days: 7},
			{ProcedureName: "Patra Pinda Sweda", Material: "Nirgundi leaves", Days: 5},
		},
	}}
	doc = Assemble(testPatient(), rx, testConfig)
	if !doc.HasBackPage {
		t.Error("panchkarma should gate the back page")
	}
	if len(doc.Panchkarma) != 2 || doc.Panchkarma[1].Seq != 2 || doc.Panchkarma[1].Procedure != "Patra Pinda Sweda" {
		t.Errorf("panchkarma rows = %+v", doc.Panchkarma)
	}
}

func TestFollowUpSection(t *testing.T) {
	rx := testPrescription()
	doc := Assemble(testPatient(), rx, testConfig)
	if doc.FollowUp != nil {
		t.Error("no followUpDate should omit the section")
	}

	due := time.Date(2025, 6, 22, 0, 0, 0, 0, time.UTC)
	rx.FollowUpDate = &due
	rx.AppointmentID = "abcd-efgh-ijkl"
	doc = Assemble(testPatient(), rx, testConfig)
	if doc.FollowUp == nil {
		t.Fatal("followUp section missing")
	}
	if doc.FollowUp.Date != "22nd June, 2025" {
		t.Errorf("date = %q, want 22nd June, 2025", doc.FollowUp.Date)
	}
	if doc.FollowUp.AppointmentID != "abcd-efg" {
		t.Errorf("appointmentId = %q, want truncated", doc.FollowUp.AppointmentID)
	}
}

func TestOrdinalEdgeCases(t *testing.T) {
	cases := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th",
		11: "11th", 12: "12th", 13: "13th",
		21: "21st", 22: "22nd", 23: "23rd", 31: "31st",
	}
	for n, want := range cases {
		if got := ordinal(n); got != want {
			t.Errorf("ordinal(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestHTMLRenderer(t *testing.T) {
	renderer, err := NewHTMLRenderer()
	if err != nil {
		t.Fatalf("NewHTMLRenderer: %v", err)
	}

	rx := testPrescription()
	rx.SpecialAdvice = "Avoid cold water"
	doc := Assemble(testPatient(), rx, testConfig)

	var sb strings.Builder
	if err := renderer.Render(&sb, doc); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := sb.String()

	for _, want := range []string{
		"Rakshanam Ayurveda Hospital",
		"Smt Tilkan",
		"62/Female",
		"Yograj Guggulu",
		"15 दिन",
		"सुबह - 2 - After meals",
		"Avoid cold water",
		"Janu Sandhigata Vata",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
}
