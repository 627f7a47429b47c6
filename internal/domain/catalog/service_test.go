package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/rakshanam/clinic/internal/domain/prescription"
	"github.com/rakshanam/clinic/internal/platform/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewRepository(store.NewMemory()))
}

func TestMedicineTemplateRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.CreateMedicine(ctx, &SavedMedicine{
		Name:         "Ashwagandha Churna",
		Type:         "Powder",
		DefaultUsage: "गुनगुने पानी के साथ",
		DefaultDosage: []prescription.Dosage{
			{Time: prescription.TimeMorning, Quantity: "1 tsp", Instructions: "With warm milk"},
		},
		DefaultDuration: prescription.Duration{Months: 1},
	})
	if err != nil {
		t.Fatalf("CreateMedicine: %v", err)
	}

	got, err := svc.repo.Medicines.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Ashwagandha Churna" || got.DefaultDuration.Months != 1 {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if got.DefaultUsage != "गुनगुने पानी के साथ" {
		t.Errorf("defaultUsage = %q, want it kept through the store", got.DefaultUsage)
	}
	if got.CreatedAt == 0 {
		t.Error("createdAt not stamped")
	}

	med := got.Materialize()
	if med.Usage != "गुनगुने पानी के साथ" {
		t.Errorf("materialized usage = %q, want the template's instructions", med.Usage)
	}
}

func TestMedicineListSortedByName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Yograj Guggulu", "Ashwagandha Churna", "Triphala"} {
		if _, err := svc.CreateMedicine(ctx, &SavedMedicine{Name: name}); err != nil {
			t.Fatalf("CreateMedicine: %v", err)
		}
	}
	meds, err := svc.repo.Medicines.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	for i, want := range []string{"Ashwagandha Churna", "Triphala", "Yograj Guggulu"} {
		if meds[i].Name != want {
			t.Errorf("meds[%d] = %q, want %q", i, meds[i].Name, want)
		}
	}
}

func TestMaterializeCopiesNotAliases(t *testing.T) {
	tmpl := &SavedMedicine{
		Name: "Yograj Guggulu",
		Type: "Tablet",
		DefaultDosage: []prescription.Dosage{
			{Time: prescription.TimeMorning, Quantity: "2"},
		},
		DefaultDuration: prescription.Duration{Days: 15},
	}

	med := tmpl.Materialize()
	med.Dosage[0].Quantity = "1"
	med.Duration.Days = 30

	if tmpl.DefaultDosage[0].Quantity != "2" {
		t.Error("editing the materialized medicine leaked into the template dosage")
	}
	if tmpl.DefaultDuration.Days != 15 {
		t.Error("editing the materialized medicine leaked into the template duration")
	}
}

func TestDiagnosisMaterializeDeepCopies(t *testing.T) {
	d := &CommonDiagnosis{
		DiseaseName:   "Amavata",
		DiagnosisText: "Amavata with morning stiffness",
		Medicines: []prescription.Medicine{{
			Name:     "Simhanada Guggulu",
			Dosage:   []prescription.Dosage{{Time: prescription.TimeNight, Quantity: "2"}},
			Duration: prescription.Duration{Days: 30},
		}},
	}

	meds := d.Materialize()
	meds[0].Dosage[0].Quantity = "1"
	meds[0].Name = "changed"

	if d.Medicines[0].Dosage[0].Quantity != "2" || d.Medicines[0].Name != "Simhanada Guggulu" {
		t.Error("editing materialized medicines leaked into the template")
	}
}

func TestPanchkarmaMaterializeCopies(t *testing.T) {
	tmpl := &SavedPanchkarmaProcess{
		Name: "Janu Basti Course",
		Procedures: []prescription.PanchkarmaItem{
			{ProcedureName: "Janu Basti", Material: "Mahanarayan Taila", Days: 7},
		},
	}

	proc := tmpl.Materialize()
	proc.Procedures[0].Days = 14

	if tmpl.Procedures[0].Days != 7 {
		t.Error("editing the materialized process leaked into the template")
	}
}

func TestComplaintValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateComplaint(ctx, &ChiefComplaint{Name: "", Complaint: "pain"}); err == nil {
		t.Error("expected missing name to be rejected")
	}
	if _, err := svc.CreateComplaint(ctx, &ChiefComplaint{Name: "Knee pain", Complaint: " "}); err == nil {
		t.Error("expected blank complaint to be rejected")
	}
	long := strings.Repeat("x", maxComplaintLen+1)
	if _, err := svc.CreateComplaint(ctx, &ChiefComplaint{Name: "Knee pain", Complaint: long}); err == nil {
		t.Error("expected over-length complaint to be rejected")
	}
	if _, err := svc.CreateComplaint(ctx, &ChiefComplaint{Name: "Knee pain", Complaint: "Pain in both knees for 2 weeks"}); err != nil {
		t.Errorf("valid complaint rejected: %v", err)
	}
}

func TestPanchkarmaDropsIncompleteRows(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p := &SavedPanchkarmaProcess{
		Name: "Basti Course",
		Procedures: []prescription.PanchkarmaItem{
			{ProcedureName: "Kati Basti", Material: "Sahacharadi Taila", Days: 7},
			{ProcedureName: "", Material: "Taila", Days: 3},
			{ProcedureName: "Pizhichil", Material: "", Days: 5},
			{ProcedureName: "Shirodhara", Material: "Ksheerabala", Days: 0},
		},
	}
	id, err := svc.CreatePanchkarma(ctx, p)
	if err != nil {
		t.Fatalf("CreatePanchkarma: %v", err)
	}

	got, _ := svc.repo.Panchkarma.GetByID(ctx, id)
	if len(got.Procedures) != 1 || got.Procedures[0].ProcedureName != "Kati Basti" {
		t.Errorf("procedures = %+v, want only the complete row", got.Procedures)
	}

	if _, err := svc.CreatePanchkarma(ctx, &SavedPanchkarmaProcess{
		Name:       "Empty",
		Procedures: []prescription.PanchkarmaItem{{ProcedureName: "", Material: "", Days: 0}},
	}); err == nil {
		t.Error("expected a process with no complete procedures to be rejected")
	}
}

func TestTemplateEditDoesNotTouchExistingUse(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.CreateMedicine(ctx, &SavedMedicine{
		Name:            "Triphala",
		Type:            "Powder",
		DefaultDuration: prescription.Duration{Days: 30},
	})
	if err != nil {
		t.Fatalf("CreateMedicine: %v", err)
	}
	tmpl, _ := svc.repo.Medicines.GetByID(ctx, id)
	used := tmpl.Materialize()

	if err := svc.UpdateMedicine(ctx, id, &SavedMedicine{
		Name:            "Triphala Churna",
		Type:            "Powder",
		DefaultDuration: prescription.Duration{Days: 45},
	}); err != nil {
		t.Fatalf("UpdateMedicine: %v", err)
	}

	if used.Name != "Triphala" || used.Duration.Days != 30 {
		t.Errorf("template edit reached an already materialized copy: %+v", used)
	}
	after, _ := svc.repo.Medicines.GetByID(ctx, id)
	if after.Name != "Triphala Churna" || after.CreatedAt != tmpl.CreatedAt {
		t.Errorf("update lost fields or the creation stamp: %+v", after)
	}
}
