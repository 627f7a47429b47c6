// Package seed loads a small demo data set for development environments.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rakshanam/clinic/internal/domain/catalog"
	"github.com/rakshanam/clinic/internal/domain/patient"
	"github.com/rakshanam/clinic/internal/domain/prescription"
)

type Seeder struct {
	patients patient.Repository
	visits   prescription.Repository
	catalog  *catalog.Repository
	log      zerolog.Logger
}

func New(patients patient.Repository, visits prescription.Repository, cat *catalog.Repository, log zerolog.Logger) *Seeder {
	return &Seeder{patients: patients, visits: visits, catalog: cat, log: log}
}

// Run seeds sample patients, catalog templates and one prescription. It is
// idempotent: any existing patient data short-circuits the whole run.
func (s *Seeder) Run(ctx context.Context) error {
	existing, err := s.patients.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("check existing patients: %w", err)
	}
	if len(existing) > 0 {
		s.log.Info().Int("patients", len(existing)).Msg("data already present, skipping seed")
		return nil
	}

	patientIDs := make([]string, 0, len(samplePatients))
	for i := range samplePatients {
		p := samplePatients[i]
		id, err := s.patients.Create(ctx, &p)
		if err != nil {
			return fmt.Errorf("seed patient %q: %w", p.Name, err)
		}
		patientIDs = append(patientIDs, id)
	}

	for i := range sampleMedicines {
		m := sampleMedicines[i]
		if _, err := s.catalog.Medicines.Create(ctx, &m); err != nil {
			return fmt.Errorf("seed medicine %q: %w", m.Name, err)
		}
	}
	for i := range sampleDiagnoses {
		d := sampleDiagnoses[i]
		if _, err := s.catalog.Diagnoses.Create(ctx, &d); err != nil {
			return fmt.Errorf("seed diagnosis %q: %w", d.DiseaseName, err)
		}
	}
	for i := range sampleComplaints {
		c := sampleComplaints[i]
		if _, err := s.catalog.Complaints.Create(ctx, &c); err != nil {
			return fmt.Errorf("seed complaint %q: %w", c.Name, err)
		}
	}
	for i := range samplePanchkarma {
		p := samplePanchkarma[i]
		if _, err := s.catalog.Panchkarma.Create(ctx, &p); err != nil {
			return fmt.Errorf("seed panchkarma %q: %w", p.Name, err)
		}
	}

	rx := sampleVisit(patientIDs[0])
	if _, err := s.visits.Create(ctx, rx); err != nil {
		return fmt.Errorf("seed prescription: %w", err)
	}

	s.log.Info().
		Int("patients", len(patientIDs)).
		Int("medicines", len(sampleMedicines)).
		Int("diagnoses", len(sampleDiagnoses)).
		Msg("seed complete")
	return nil
}

var samplePatients = []patient.Patient{
	{
		Name:          "Smt Tilkan",
		Age:           "45",
		Gender:        "Female",
		Weight:        "68",
		Height:        "162",
		BloodGroup:    "B+",
		BloodPressure: "120/80",
		Address:       "64/2 Shivaji Nagar, Delhi",
		PastIllnesses: "Hypertension, Seasonal allergies",
	},
	{
		Name:          "Rahul Sharma",
		Age:           "32",
		Gender:        "Male",
		Weight:        "75",
		Height:        "175",
		BloodGroup:    "O+",
		BloodPressure: "118/76",
		Address:       "22 Park Avenue, Mumbai",
		PastIllnesses: "None",
	},
	{
		Name:          "Priya Patel",
		Age:           "28",
		Gender:        "Female",
		Weight:        "56",
		Height:        "160",
		BloodGroup:    "A+",
		BloodPressure: "110/70",
		Address:       "45 Gandhi Road, Ahmedabad",
		PastIllnesses: "Asthma",
	},
}

var sampleMedicines = []catalog.SavedMedicine{
	{
		Name: "महासुदर्शन काढ़ा",
		Type: "Syrup",
		DefaultDosage: []prescription.Dosage{
			{Time: prescription.TimeMorning, Quantity: "4 चम्मच", Instructions: "Before Meal"},
			{Time: prescription.TimeEvening, Quantity: "4 चम्मच", Instructions: "Before Meal"},
		},
		DefaultDuration: prescription.Duration{Days: 5},
	},
	{
		Name: "पंचतिक्त घृत गुग्गुलु",
		Type: "Tablet",
		DefaultDosage: []prescription.Dosage{
			{Time: prescription.TimeMorning, Quantity: "2 टेबलेट", Instructions: "After Meal"},
			{Time: prescription.TimeEvening, Quantity: "2 टेबलेट", Instructions: "After Meal"},
		},
		DefaultDuration: prescription.Duration{Days: 7},
	},
	{
		Name: "Paracetamol",
		Type: "Tablet",
		DefaultDosage: []prescription.Dosage{
			{Time: prescription.TimeMorning, Quantity: "1", Instructions: "After Meal"},
			{Time: prescription.TimeEvening, Quantity: "1", Instructions: "After Meal"},
		},
		DefaultDuration: prescription.Duration{Days: 3},
	},
}

var sampleDiagnoses = []catalog.CommonDiagnosis{
	{
		DiseaseName:   "अर्थिक्ष्णता गत वात",
		DiagnosisText: "अर्थिक्ष्णता गत वात with वातरक्ता",
		SpecialAdvice: "Avoid cold foods, Rest and limit physical activity for 1 week",
		Medicines: []prescription.Medicine{
			{
				Name: "महासुदर्शन काढ़ा",
				Type: "Syrup",
				Dosage: []prescription.Dosage{
					{Time: prescription.TimeMorning, Quantity: "4 चम्मच", Instructions: "Before Meal"},
					{Time: prescription.TimeEvening, Quantity: "4 चम्मच", Instructions: "Before Meal"},
				},
				Duration: prescription.Duration{Days: 5},
			},
			{
				Name: "पंचतिक्त घृत गुग्गुलु",
				Type: "Tablet",
				Dosage: []prescription.Dosage{
					{Time: prescription.TimeMorning, Quantity: "2 टेबलेट", Instructions: "After Meal"},
					{Time: prescription.TimeEvening, Quantity: "2 टेबलेट", Instructions: "After Meal"},
				},
				Duration: prescription.Duration{Days: 7},
			},
		},
	},
	{
		DiseaseName:   "Common Cold",
		DiagnosisText: "Viral upper respiratory tract infection",
		SpecialAdvice: "Drink plenty of water and rest well",
		Medicines: []prescription.Medicine{
			{
				Name: "Paracetamol",
				Type: "Tablet",
				Dosage: []prescription.Dosage{
					{Time: prescription.TimeMorning, Quantity: "1", Instructions: "After Meal"},
					{Time: prescription.TimeEvening, Quantity: "1", Instructions: "After Meal"},
				},
				Duration: prescription.Duration{Days: 3},
			},
			{
				Name: "Cetirizine",
				Type: "Tablet",
				Dosage: []prescription.Dosage{
					{Time: prescription.TimeNight, Quantity: "1", Instructions: "After Meal"},
				},
				Duration: prescription.Duration{Days: 5},
			},
		},
	},
}

var sampleComplaints = []catalog.ChiefComplaint{
	{Name: "Knee pain", Complaint: "Pain and swelling at knee joint, difficulty walking"},
	{Name: "Hyperacidity", Complaint: "Burning sensation in chest after meals, sour belching"},
}

var samplePanchkarma = []catalog.SavedPanchkarmaProcess{
	{
		Name: "Janu Basti Course",
		Procedures: []prescription.PanchkarmaItem{
			{ProcedureName: "Janu Basti", Material: "Mahanarayan Taila", Days: 7},
			{ProcedureName: "Patra Pinda Sweda", Material: "Nirgundi leaves", Days: 5},
		},
	},
}

func sampleVisit(patientID string) *prescription.Prescription {
	follow := time.Date(2024, 2, 23, 15, 3, 0, 0, time.UTC)
	return &prescription.Prescription{
		PatientID:       patientID,
		Date:            time.Date(2024, 2, 18, 14, 42, 0, 0, time.UTC),
		Weight:          "68",
		BloodPressure:   "120/80",
		Temperature:     "97",
		Pulse:           "74",
		RespRate:        "15",
		SpO2:            "98",
		ChiefComplaints: "pain and swelling at knee joint (left), Difficulty walking, Anorexia, hyperacidity, Vomiting",
		ExamNotes:       "Swelling ++ (left knee joint)",
		Diagnosis:       "अर्थिक्ष्णता गत वात with वातरक्ता",
		SpecialAdvice:   "Avoid cold foods, Rest and limit physical activity for 1 week",
		FollowUpDate:    &follow,
		Medicines: []prescription.Medicine{
			{
				Name: "महासुदर्शन काढ़ा",
				Type: "Syrup",
				Dosage: []prescription.Dosage{
					{Time: prescription.TimeMorning, Quantity: "4 चम्मच", Instructions: "Before Meal"},
					{Time: prescription.TimeEvening, Quantity: "4 चम्मच", Instructions: "Before Meal"},
				},
				Duration: prescription.Duration{Days: 5},
			},
			{
				Name: "पंचतिक्त घृत गुग्गुलु",
				Type: "Tablet",
				Dosage: []prescription.Dosage{
					{Time: prescription.TimeMorning, Quantity: "2 टेबलेट", Instructions: "After Meal"},
					{Time: prescription.TimeEvening, Quantity: "2 टेबलेट", Instructions: "After Meal"},
				},
				Duration: prescription.Duration{Days: 7},
			},
		},
	}
}
